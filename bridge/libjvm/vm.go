//go:build (linux || darwin) && (amd64 || arm64)

package libjvm

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/buraindo/jnithread/bridge/thread"
)

const (
	jniOK        = 0
	jniEDetached = -2
	jniEVersion  = -3

	jniVersion16 = 0x00010006
)

// JavaVM invoke-interface function indices. The function table starts
// with three reserved slots.
const (
	fnDestroyJavaVM             = 3
	fnAttachCurrentThread       = 4
	fnDetachCurrentThread       = 5
	fnGetEnv                    = 6
	fnAttachCurrentThreadDaemon = 7
)

// VM is a JavaVM handle. It implements thread.VM by indexing the
// invoke-interface function table directly.
type VM struct {
	handle uintptr
}

var _ thread.VM = (*VM)(nil)

// Handle returns the raw JavaVM pointer, for handing to other bindings.
func (v *VM) Handle() unsafe.Pointer {
	return unsafe.Pointer(v.handle)
}

func (v *VM) call(fn int, args ...uintptr) int32 {
	table := *(*uintptr)(unsafe.Pointer(v.handle))
	addr := *(*uintptr)(unsafe.Pointer(table + uintptr(fn)*unsafe.Sizeof(uintptr(0))))
	ret, _, _ := purego.SyscallN(addr, append([]uintptr{v.handle}, args...)...)
	return int32(ret)
}

// Env returns the environment of the calling thread, or
// thread.ErrDetached when the thread is not attached.
func (v *VM) Env() (thread.Env, error) {
	var env uintptr
	switch ret := v.call(fnGetEnv, uintptr(unsafe.Pointer(&env)), jniVersion16); ret {
	case jniOK:
		return thread.Env(env), nil
	case jniEDetached:
		return 0, thread.ErrDetached
	default:
		return 0, fmt.Errorf("get env: %d", ret)
	}
}

// Attach attaches the calling thread as a regular thread.
func (v *VM) Attach() (thread.Env, error) {
	return v.attach(fnAttachCurrentThread)
}

// AttachDaemon attaches the calling thread as a daemon thread: JVM
// shutdown does not wait for it.
func (v *VM) AttachDaemon() (thread.Env, error) {
	return v.attach(fnAttachCurrentThreadDaemon)
}

func (v *VM) attach(fn int) (thread.Env, error) {
	var env uintptr
	if ret := v.call(fn, uintptr(unsafe.Pointer(&env)), 0); ret != jniOK {
		return 0, fmt.Errorf("attach current thread: %d", ret)
	}
	return thread.Env(env), nil
}

// Detach detaches the calling thread.
func (v *VM) Detach() error {
	if ret := v.call(fnDetachCurrentThread); ret != jniOK {
		return fmt.Errorf("detach current thread: %d", ret)
	}
	return nil
}

// Destroy unloads the JVM. Only the thread that created the VM may call
// it; the call blocks until all non-daemon threads detach.
func (v *VM) Destroy() error {
	if ret := v.call(fnDestroyJavaVM); ret != jniOK {
		return fmt.Errorf("destroy jvm: %d", ret)
	}
	return nil
}
