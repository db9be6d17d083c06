package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buraindo/jnithread/bridge/common"
	"github.com/buraindo/jnithread/bridge/thread"
)

type stubVM struct {
	attached   bool
	failAttach bool
}

func (s *stubVM) Env() (thread.Env, error) {
	if s.attached {
		return 1, nil
	}
	return 0, thread.ErrDetached
}

func (s *stubVM) Attach() (thread.Env, error) {
	if s.failAttach {
		return 0, thread.ErrAttachFailed
	}
	s.attached = true
	return 1, nil
}

func (s *stubVM) Detach() error {
	s.attached = false
	return nil
}

func TestBridgeFailsSafeBeforeInit(t *testing.T) {
	b := &common.ThreadBridge{}

	assert.False(t, b.Attach())
	assert.False(t, b.Attached())
	assert.NotPanics(t, b.Detach)

	assert.Equal(t, 1, b.AttachCalls)
	assert.Equal(t, 1, b.DetachCalls)
	assert.Equal(t, 1, b.QueryCalls)
}

func TestInitRequiresVM(t *testing.T) {
	err := common.Init(nil, common.Config{})
	require.ErrorIs(t, err, thread.ErrUnavailable)
}

func TestInitAndLifecycle(t *testing.T) {
	vm := &stubVM{}
	require.NoError(t, common.Init(vm, common.Config{}))
	require.NotNil(t, common.Bridge.Manager)

	assert.True(t, common.Bridge.Attach())
	assert.True(t, common.Bridge.Attached())
	assert.True(t, common.Bridge.Attach(), "second attach reports success")

	common.Bridge.Detach()
	assert.False(t, common.Bridge.Attached())
	assert.NotPanics(t, common.Bridge.Detach)

	assert.Equal(t, 2, common.Bridge.AttachCalls)
	assert.Equal(t, 2, common.Bridge.DetachCalls)

	require.NoError(t, common.Shutdown())
}

func TestLoggerDefaultsToNop(t *testing.T) {
	assert.NotNil(t, common.Logger())
}
