package thread_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buraindo/jnithread/bridge/thread"
)

func TestAttachIdempotent(t *testing.T) {
	vm := &stubVM{}
	m := thread.New(vm)

	require.NoError(t, m.Attach())
	require.NoError(t, m.Attach())
	require.NoError(t, m.Attach())

	assert.Equal(t, 1, vm.attachCalls, "repeated attach must not hit the jvm again")
	assert.Equal(t, int64(1), m.Attaches())
	assert.True(t, m.Attached())
}

func TestAttachWithoutVM(t *testing.T) {
	m := thread.New(nil)

	err := m.Attach()
	require.ErrorIs(t, err, thread.ErrUnavailable)
	assert.False(t, m.Attached())
	assert.NotPanics(t, func() { m.Detach() })
}

func TestAttachRefused(t *testing.T) {
	vm := &stubVM{failAttach: true}
	m := thread.New(vm)

	err := m.Attach()
	require.ErrorIs(t, err, thread.ErrAttachFailed)
	assert.False(t, m.Attached(), "failed attach must leave no partial state")
	assert.Equal(t, int64(0), m.Attaches())
}

func TestDetachUnattached(t *testing.T) {
	vm := &stubVM{}
	m := thread.New(vm)

	m.Detach()

	assert.Equal(t, 1, vm.detachCalls, "detach is unconditional once a jvm is installed")
	assert.False(t, m.Attached())
}

func TestAttachedQuery(t *testing.T) {
	vm := &stubVM{}
	m := thread.New(vm)

	assert.False(t, m.Attached())
	require.NoError(t, m.Attach())
	assert.True(t, m.Attached())
	m.Detach()
	assert.False(t, m.Attached())
}

// TestLifecycleScenario walks the full sequence: attach before load
// fails, attach after load succeeds and is idempotent, detach twice is
// harmless.
func TestLifecycleScenario(t *testing.T) {
	unloaded := thread.New(nil)
	require.ErrorIs(t, unloaded.Attach(), thread.ErrUnavailable)

	vm := &stubVM{}
	m := thread.New(vm)

	require.NoError(t, m.Attach())
	assert.True(t, m.Attached())

	require.NoError(t, m.Attach())
	assert.Equal(t, 1, vm.attachCalls)

	m.Detach()
	assert.False(t, m.Attached())

	assert.NotPanics(t, func() { m.Detach() })
}
