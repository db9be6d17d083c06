// Package jvm gives Go code a jnigi view of the JVM the library was
// loaded into, for calling back into managed objects and methods.
package jvm

import (
	"fmt"
	"runtime"
	"unsafe"

	"tekao.net/jnigi"
)

// Jvm is installed once by the load entry point and never reassigned.
var Jvm *jnigi.JVM

// Use wraps the JavaVM pointer received from the host.
func Use(vm unsafe.Pointer) {
	Jvm, _ = jnigi.UseJVM(vm, nil, nil)
}

// JavaCall runs f with an environment attached to the calling thread.
// The goroutine stays pinned to its OS thread for the duration of f.
func JavaCall(f func(*jnigi.Env) error) error {
	if Jvm == nil {
		return fmt.Errorf("call: jvm not available")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	env := Jvm.AttachCurrentThread()
	if err := f(env); err != nil {
		return fmt.Errorf("call: %w", err)
	}
	return nil
}
