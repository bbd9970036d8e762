package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions. Only the keys the viewer shell binds are listed;
// the platform layer maps anything else to KEY_UNKNOWN.
type KeyCode uint16

const (
	KEY_UNKNOWN KeyCode = 0x00
	KEY_ESCAPE  KeyCode = 0x1B
	KEY_SPACE   KeyCode = 0x20
	KEY_HOME    KeyCode = 0x24
	KEY_F       KeyCode = 0x46
	KEY_G       KeyCode = 0x47
	KEY_R       KeyCode = 0x52
	KEY_S       KeyCode = 0x53
	KEY_T       KeyCode = 0x54
	KEY_X       KeyCode = 0x58
	KEY_Z       KeyCode = 0x5A
)
