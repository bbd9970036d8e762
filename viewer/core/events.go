package core

import "sync"

type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed. Data is a KeyEvent.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released. Data is a KeyEvent.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Mouse button pressed. Data is a Button.
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04

	// Mouse button released. Data is a Button.
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05

	// Mouse moved. Data is a MouseEvent.
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// Mouse wheel scrolled. Data is the float64 vertical offset.
	EVENT_CODE_MOUSE_WHEEL SystemEventCode = 0x07

	// Resized/resolution changed from the OS. Data is a SystemEvent.
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A file dropped onto the window, fired once per path. Data is the
	// path string.
	EVENT_CODE_FILE_DROPPED SystemEventCode = 0x09

	// A model subtree finished loading and is now current. Data is the source name.
	EVENT_CODE_MODEL_LOADED SystemEventCode = 0x10

	// A model load failed. Current model is untouched. Data is the source name.
	EVENT_CODE_MODEL_LOAD_FAILED SystemEventCode = 0x11

	// An environment map finished loading and is now active. Data is the source name.
	EVENT_CODE_ENVIRONMENT_LOADED SystemEventCode = 0x12

	// An environment load failed. Previous environment stays active. Data is the source name.
	EVENT_CODE_ENVIRONMENT_LOAD_FAILED SystemEventCode = 0x13

	// The transform gizmo started or stopped dragging. Data is a bool (dragging).
	EVENT_CODE_GIZMO_DRAG_CHANGED SystemEventCode = 0x14

	// A user-visible message should be surfaced by the shell. Data is the string.
	EVENT_CODE_USER_MESSAGE SystemEventCode = 0x15

	// The file backing the current model changed on disk. Data is the path.
	EVENT_CODE_WATCHED_FILE_CHANGED SystemEventCode = 0x16

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	X, Y float64
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type FnOnEvent func(context EventContext)

type registeredEvent struct {
	callback FnOnEvent
}

type eventSystemState struct {
	registered map[SystemEventCode][]*registeredEvent
}

var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[SystemEventCode][]*registeredEvent),
		}
	})
	// Re-initialization after a shutdown only needs the map cleared.
	eventState.registered = make(map[SystemEventCode][]*registeredEvent)
	isInitialized = true
	return true
}

func EventSystemShutdown() error {
	if eventState != nil {
		eventState.registered = nil
	}
	isInitialized = false
	return nil
}

// EventRegister adds a listener for the given code. Listeners are invoked
// synchronously on the thread that fires the event.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		callback: onEvent,
	})
	return true
}

// EventFire dispatches the event to every listener of context.Type, in
// registration order. Firing before initialization is a no-op.
func EventFire(context EventContext) bool {
	if !isInitialized {
		return false
	}
	listeners := eventState.registered[context.Type]
	if len(listeners) == 0 {
		return false
	}
	for _, e := range listeners {
		e.callback(context)
	}
	return true
}
