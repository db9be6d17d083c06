// Package thread manages attachment of native threads to a JVM.
//
// A thread the JVM did not create must be attached before it may call
// into managed code, and should be detached once it no longer needs to.
// Manager wraps the attach/detach/query calls against an injected VM
// handle; Attachment scopes an attach to a region of code; Guard
// serializes calls that require an attached thread.
package thread

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Env is the per-thread environment handle obtained from the JVM (a raw
// JNIEnv pointer). It is only valid on the OS thread that obtained it.
type Env uintptr

// VM is the process-wide JVM handle. Implementations operate on the
// calling OS thread implicitly, the way the JNI invocation interface
// does.
type VM interface {
	// Env returns the environment of the calling thread, or ErrDetached
	// when the thread is not attached.
	Env() (Env, error)
	// Attach attaches the calling thread and returns its environment.
	Attach() (Env, error)
	// Detach detaches the calling thread.
	Detach() error
}

var (
	// ErrUnavailable reports that no JVM handle was installed. Expected
	// before the library load entry point has run.
	ErrUnavailable = errors.New("jvm not available")

	// ErrAttachFailed reports that the JVM refused to attach the calling
	// thread, e.g. during shutdown.
	ErrAttachFailed = errors.New("attach refused")

	// ErrDetached is returned by VM.Env when the calling thread has no
	// environment.
	ErrDetached = errors.New("thread not attached")
)

// Manager performs idempotent attach/detach operations for the calling
// thread. The VM reference is set at construction and never reassigned;
// a nil VM makes every operation fail safe instead of faulting.
type Manager struct {
	vm  VM
	log *zap.Logger

	attaches atomic.Int64
	detaches atomic.Int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger installs the logger used for transition diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// New returns a Manager bound to vm. vm may be nil, in which case all
// operations report the JVM as unavailable.
func New(vm VM, opts ...Option) *Manager {
	m := &Manager{vm: vm, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach binds the calling thread to the JVM. A thread that is already
// attached is left untouched and reported as success, so repeated calls
// are safe.
func (m *Manager) Attach() error {
	if m.vm == nil {
		m.log.Error("jvm not available for thread attachment")
		return ErrUnavailable
	}
	if _, err := m.vm.Env(); err == nil {
		m.log.Debug("thread already attached")
		return nil
	}
	if _, err := m.vm.Attach(); err != nil {
		m.log.Error("failed to attach thread", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}
	m.attaches.Add(1)
	m.log.Info("thread attached to jvm")
	return nil
}

// Detach unbinds the calling thread unconditionally. Detaching a thread
// that was never attached is a no-op for the JVM; no error is surfaced
// either way. Callers are expected to detach only threads they attached,
// but that pairing is not enforced here.
func (m *Manager) Detach() {
	if m.vm == nil {
		return
	}
	if err := m.vm.Detach(); err != nil {
		m.log.Warn("failed to detach thread", zap.Error(err))
		return
	}
	m.detaches.Add(1)
	m.log.Info("thread detached from jvm")
}

// Attached reports whether the calling thread currently has a valid
// environment. False when no JVM handle is installed.
func (m *Manager) Attached() bool {
	if m.vm == nil {
		return false
	}
	_, err := m.vm.Env()
	return err == nil
}

// Attaches returns the number of attaches this manager performed.
func (m *Manager) Attaches() int64 { return m.attaches.Load() }

// Detaches returns the number of detaches this manager performed.
func (m *Manager) Detaches() int64 { return m.detaches.Load() }
