package main

/*
#include <jni.h>

static jint GetEnvOf(JavaVM* vm, JNIEnv** env) {
	return (*vm)->GetEnv(vm, (void**)env, JNI_VERSION_1_6);
}

static jint AttachThread(JavaVM* vm, JNIEnv** env) {
	return (*vm)->AttachCurrentThread(vm, (void**)env, NULL);
}

static jint DetachThread(JavaVM* vm) {
	return (*vm)->DetachCurrentThread(vm);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/buraindo/jnithread/bridge/common"
	"github.com/buraindo/jnithread/bridge/jvm"
	"github.com/buraindo/jnithread/bridge/thread"
)

// ---------------- region: load

//export JNI_OnLoad
//goland:noinspection GoSnakeCaseUsage
func JNI_OnLoad(vm *C.JavaVM, _ unsafe.Pointer) C.jint {
	jvm.Use(unsafe.Pointer(vm))
	if err := common.Init(hostVM{vm: vm}, common.Config{}); err != nil {
		return C.JNI_ERR
	}
	return C.JNI_VERSION_1_6
}

// ---------------- region: load

// ---------------- region: thread management

//export Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_attachCurrentThread
func Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_attachCurrentThread(
	envC *C.JNIEnv,
	_ C.jclass,
) C.jboolean {
	return toJBool(common.Bridge.Attach())
}

//export Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_detachCurrentThread
func Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_detachCurrentThread(
	envC *C.JNIEnv,
	_ C.jclass,
) {
	common.Bridge.Detach()
}

//export Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_isCurrentThreadAttached
func Java_com_example_augmented_1mobile_1application_utils_JNIThreadManager_isCurrentThreadAttached(
	envC *C.JNIEnv,
	_ C.jclass,
) C.jboolean {
	return toJBool(common.Bridge.Attached())
}

// ---------------- region: thread management

// ---------------- region: vm

// hostVM adapts the JavaVM pointer received from the host to thread.VM.
type hostVM struct {
	vm *C.JavaVM
}

func (v hostVM) Env() (thread.Env, error) {
	var env *C.JNIEnv
	switch ret := C.GetEnvOf(v.vm, &env); ret {
	case C.JNI_OK:
		return toEnv(env), nil
	case C.JNI_EDETACHED:
		return 0, thread.ErrDetached
	default:
		return 0, fmt.Errorf("get env: %d", int32(ret))
	}
}

func (v hostVM) Attach() (thread.Env, error) {
	var env *C.JNIEnv
	if ret := C.AttachThread(v.vm, &env); ret != C.JNI_OK {
		return 0, fmt.Errorf("attach current thread: %d", int32(ret))
	}
	return toEnv(env), nil
}

func (v hostVM) Detach() error {
	if ret := C.DetachThread(v.vm); ret != C.JNI_OK {
		return fmt.Errorf("detach current thread: %d", int32(ret))
	}
	return nil
}

// ---------------- region: vm

// ---------------- region: utils

func toEnv(env *C.JNIEnv) thread.Env {
	return thread.Env(uintptr(unsafe.Pointer(env)))
}

func toJBool(b bool) C.jboolean {
	if b {
		return C.JNI_TRUE
	}
	return C.JNI_FALSE
}

// ---------------- region: utils

func main() {}
