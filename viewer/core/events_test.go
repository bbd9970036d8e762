package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/core"
)

func TestEventFireDispatchesInRegistrationOrder(t *testing.T) {
	require.True(t, core.EventSystemInitialize())

	var order []int
	core.EventRegister(core.EVENT_CODE_USER_MESSAGE, func(context core.EventContext) {
		order = append(order, 1)
	})
	core.EventRegister(core.EVENT_CODE_USER_MESSAGE, func(context core.EventContext) {
		order = append(order, 2)
	})

	handled := core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE, Data: "hi"})

	assert.True(t, handled)
	assert.Equal(t, []int{1, 2}, order)
}

func TestEventFireWithoutListeners(t *testing.T) {
	require.True(t, core.EventSystemInitialize())

	assert.False(t, core.EventFire(core.EventContext{Type: core.EVENT_CODE_MODEL_LOADED}))
}

func TestEventFireAfterShutdownIsNoOp(t *testing.T) {
	require.True(t, core.EventSystemInitialize())
	fired := false
	core.EventRegister(core.EVENT_CODE_USER_MESSAGE, func(context core.EventContext) {
		fired = true
	})

	require.NoError(t, core.EventSystemShutdown())

	assert.False(t, core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE}))
	assert.False(t, fired)
	assert.False(t, core.EventRegister(core.EVENT_CODE_USER_MESSAGE, func(core.EventContext) {}))
}

func TestEventPayloadRoundTrip(t *testing.T) {
	require.True(t, core.EventSystemInitialize())

	var got core.KeyEvent
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, func(context core.EventContext) {
		got = context.Data.(core.KeyEvent)
	})

	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_KEY_PRESSED,
		Data: core.KeyEvent{KeyCode: core.KEY_F},
	})

	assert.Equal(t, core.KEY_F, got.KeyCode)
}
