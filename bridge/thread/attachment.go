package thread

import (
	"runtime"

	"go.uber.org/zap"
)

// Attachment is a scoped attachment of the calling goroutine's OS
// thread. Acquire attaches the thread if it is not attached already and
// records whether this acquisition performed the attach; Release
// detaches only in that case, so an enclosing caller's attachment is
// never torn down.
//
// While an Attachment is held the goroutine stays pinned to its OS
// thread: the environment handle must not outlive the thread that
// obtained it, and the Go scheduler would otherwise be free to migrate
// the goroutine.
type Attachment struct {
	m        *Manager
	env      Env
	valid    bool
	owned    bool
	pinned   bool
	released bool
}

// Acquire attaches the calling thread and returns a token scoping the
// attachment. The token is invalid when no JVM handle is installed or
// the JVM refused the attach; Release is still safe to call. Release
// must be called from the same goroutine.
func (m *Manager) Acquire() *Attachment {
	a := &Attachment{m: m}
	if m.vm == nil {
		m.log.Error("jvm not available for thread attachment")
		return a
	}
	runtime.LockOSThread()
	if env, err := m.vm.Env(); err == nil {
		a.env, a.valid, a.pinned = env, true, true
		m.log.Debug("thread already attached")
		return a
	}
	env, err := m.vm.Attach()
	if err != nil {
		runtime.UnlockOSThread()
		m.log.Error("failed to attach thread", zap.Error(err))
		return a
	}
	m.attaches.Add(1)
	a.env, a.valid, a.owned, a.pinned = env, true, true, true
	m.log.Info("thread attached to jvm")
	return a
}

// Valid reports whether the attachment holds a usable environment.
func (a *Attachment) Valid() bool { return a.valid }

// Env returns the environment handle of the attached thread. Zero when
// the attachment is invalid; only usable while the attachment is held.
func (a *Attachment) Env() Env { return a.env }

// Release detaches the thread if this attachment performed the attach
// and unpins the goroutine from its OS thread. Calling Release more
// than once is a no-op.
func (a *Attachment) Release() {
	if a.released {
		return
	}
	a.released = true
	if a.owned {
		a.m.Detach()
	}
	if a.pinned {
		runtime.UnlockOSThread()
	}
}
