// Package common holds the process-wide bridge state shared by the
// exported JNI entry points: the thread-attachment manager built at
// load time, call counters and the component logger.
package common

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/buraindo/jnithread/bridge/thread"
)

// Component tags every log entry emitted by the bridge.
const Component = "nativedetector"

// Config controls bridge initialization.
type Config struct {
	DebugLog bool
}

// ThreadBridge routes the host-facing attach/detach/query entry points
// to the manager installed by Init. Before Init runs every operation
// fails safe: attach and query report false, detach is a no-op.
type ThreadBridge struct {
	Manager *thread.Manager

	AttachCalls int
	DetachCalls int
	QueryCalls  int
}

// Bridge is the process-wide instance used by the exported entry points.
var Bridge = &ThreadBridge{}

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the bridge logger. It uses a no-op logger until
// SetLogger installs one.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs the bridge logger, tagged with the fixed component
// name.
func SetLogger(log *zap.Logger) {
	logger = log.Named(Component)
}

// Init stores the JVM handle received from the host and builds the
// manager behind the entry points. Invoked once, at library load time.
func Init(vm thread.VM, conf Config) error {
	if vm == nil {
		return fmt.Errorf("init bridge: %w", thread.ErrUnavailable)
	}
	if conf.DebugLog && logger == nil {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		SetLogger(log)
	}
	Bridge.Manager = thread.New(vm, thread.WithLogger(Logger()))
	Bridge.AttachCalls = 0
	Bridge.DetachCalls = 0
	Bridge.QueryCalls = 0

	Logger().Info("native library loaded, jvm stored")
	return nil
}

// Shutdown releases bridge resources. The JVM owns thread teardown at
// process exit, so there is nothing to undo here yet.
func Shutdown() error {
	return nil
}

// Attach attaches the calling thread, reporting success as a boolean
// for the host-side binding.
func (b *ThreadBridge) Attach() bool {
	b.AttachCalls++
	if b.Manager == nil {
		Logger().Error("jvm not available for thread attachment")
		return false
	}
	return b.Manager.Attach() == nil
}

// Detach detaches the calling thread. No error is surfaced.
func (b *ThreadBridge) Detach() {
	b.DetachCalls++
	if b.Manager == nil {
		return
	}
	b.Manager.Detach()
}

// Attached reports whether the calling thread is attached.
func (b *ThreadBridge) Attached() bool {
	b.QueryCalls++
	if b.Manager == nil {
		return false
	}
	return b.Manager.Attached()
}
