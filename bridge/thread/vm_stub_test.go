package thread_test

import (
	"errors"
	"sync"

	"github.com/buraindo/jnithread/bridge/thread"
)

const stubEnv = thread.Env(0xE1)

var errShuttingDown = errors.New("jvm is shutting down")

// stubVM models the JVM side of the attachment protocol: a single
// attached flag plus call counters. Tests drive it from one goroutine
// at a time (the Guard tests rely on Guard's own serialization), so a
// plain mutex is enough.
type stubVM struct {
	mu         sync.Mutex
	attached   bool
	failAttach bool

	attachCalls int
	detachCalls int
}

func (s *stubVM) Env() (thread.Env, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return stubEnv, nil
	}
	return 0, thread.ErrDetached
}

func (s *stubVM) Attach() (thread.Env, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachCalls++
	if s.failAttach {
		return 0, errShuttingDown
	}
	s.attached = true
	return stubEnv, nil
}

func (s *stubVM) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachCalls++
	s.attached = false
	return nil
}

func (s *stubVM) isAttached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}
