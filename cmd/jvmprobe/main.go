//go:build (linux || darwin) && (amd64 || arm64)

// Command jvmprobe is a manual smoke harness: it starts a JVM in this
// process and drives the attach/detach lifecycle from a worker
// goroutine.
package main

import (
	"fmt"
	"log"
	"runtime"

	"go.uber.org/zap"

	"github.com/buraindo/jnithread/bridge/libjvm"
	"github.com/buraindo/jnithread/bridge/thread"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	lib, err := libjvm.Open("")
	if err != nil {
		logger.Fatal("open jvm library", zap.Error(err))
	}
	vm, _, err := lib.CreateVM("-Xmx64m")
	if err != nil {
		logger.Fatal("create jvm", zap.Error(err))
	}

	m := thread.New(vm, thread.WithLogger(logger))
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		fmt.Println("attached before:", m.Attached())
		fmt.Println("attach:", m.Attach() == nil)
		fmt.Println("attach again:", m.Attach() == nil)
		fmt.Println("attached:", m.Attached())

		guard := thread.NewGuard(m)
		ok := thread.Run(guard, func(env thread.Env) (bool, error) {
			return env != 0, nil
		})
		fmt.Println("guarded call:", ok)

		m.Detach()
		fmt.Println("attached after detach:", m.Attached())
		m.Detach() // already detached, still a no-op
	}()
	<-done
}
