package thread

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Guard serializes units of work that need an attached thread. All
// calls through one Guard share a single lock; the wrapped work is
// assumed to be non-reentrant, so correctness is preferred over
// throughput.
type Guard struct {
	mu sync.Mutex
	m  *Manager
}

// NewGuard returns a Guard over m.
func NewGuard(m *Manager) *Guard {
	return &Guard{m: m}
}

// Run executes work under the guard lock with an attached environment.
// On any failure it logs and returns the zero value of T: an
// unavailable JVM, a refused attach, an error returned by work and a
// panic raised by work are all absorbed here, never propagated. The
// attachment acquired for the call is released on every exit path.
func Run[T any](g *Guard, work func(Env) (T, error)) T {
	g.mu.Lock()
	defer g.mu.Unlock()

	var zero T
	a := g.m.Acquire()
	defer a.Release()
	if !a.Valid() {
		g.m.log.Error("failed to attach thread for guarded call")
		return zero
	}

	out, err := invoke(work, a.Env())
	if err != nil {
		g.m.log.Error("guarded call failed", zap.Error(err))
		return zero
	}
	return out
}

func invoke[T any](work func(Env) (T, error), env Env) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("work: %v", r)
		}
	}()
	return work(env)
}
