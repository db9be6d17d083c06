//go:build (linux || darwin) && (amd64 || arm64)

// Package libjvm loads the JVM shared library and creates or adopts a
// JavaVM without cgo, using purego. The resulting VM satisfies
// thread.VM, so a plain Go process can exercise the whole attachment
// stack.
package libjvm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/buraindo/jnithread/bridge/thread"
)

// ErrLibraryNotFound is returned when no jvm library can be located.
var ErrLibraryNotFound = errors.New("libjvm: jvm library not found")

// ErrNoCreatedVM is returned by CreatedVM when the process holds no JVM.
var ErrNoCreatedVM = errors.New("libjvm: no jvm created in this process")

// Library is a loaded jvm shared library.
type Library struct {
	handle            uintptr
	createJavaVM      uintptr
	getCreatedJavaVMs uintptr
}

// Open loads the jvm library at path, or searches the default locations
// when path is empty.
func Open(path string) (*Library, error) {
	if path == "" {
		found, err := Find()
		if err != nil {
			return nil, err
		}
		path = found
	}

	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	create, err := purego.Dlsym(handle, "JNI_CreateJavaVM")
	if err != nil {
		return nil, fmt.Errorf("resolve JNI_CreateJavaVM: %w", err)
	}
	created, err := purego.Dlsym(handle, "JNI_GetCreatedJavaVMs")
	if err != nil {
		return nil, fmt.Errorf("resolve JNI_GetCreatedJavaVMs: %w", err)
	}

	return &Library{
		handle:            handle,
		createJavaVM:      create,
		getCreatedJavaVMs: created,
	}, nil
}

// Find returns the path of the first jvm library present in the default
// search locations.
func Find() (string, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrLibraryNotFound
}

// SearchPaths returns candidate jvm library paths, JAVA_HOME first.
func SearchPaths() []string {
	name := "libjvm.so"
	if runtime.GOOS == "darwin" {
		name = "libjvm.dylib"
	}

	var paths []string
	if home := os.Getenv("JAVA_HOME"); home != "" {
		paths = append(paths,
			filepath.Join(home, "lib", "server", name),
			filepath.Join(home, "jre", "lib", "server", name),
		)
	}
	for _, root := range []string{"/usr/lib/jvm", "/usr/java", "/opt/java"} {
		matches, _ := filepath.Glob(filepath.Join(root, "*", "lib", "server", name))
		paths = append(paths, matches...)
	}
	if runtime.GOOS == "darwin" {
		pattern := filepath.Join("/Library/Java/JavaVirtualMachines",
			"*", "Contents", "Home", "lib", "server", name)
		matches, _ := filepath.Glob(pattern)
		paths = append(paths, matches...)
	}
	return paths
}

type vmOption struct {
	optionString uintptr
	extraInfo    uintptr
}

type vmInitArgs struct {
	version            int32
	nOptions           int32
	options            uintptr
	ignoreUnrecognized uint8
	_                  [7]byte
}

// CreateVM starts a JVM in this process with the given launcher options
// (for example "-Djava.class.path=..."). The calling thread becomes the
// JVM's main thread and is returned attached.
func (l *Library) CreateVM(opts ...string) (*VM, thread.Env, error) {
	cstrs := make([][]byte, len(opts))
	options := make([]vmOption, len(opts))
	for i, opt := range opts {
		cstrs[i] = append([]byte(opt), 0)
		options[i].optionString = uintptr(unsafe.Pointer(&cstrs[i][0]))
	}
	args := vmInitArgs{
		version:  jniVersion16,
		nOptions: int32(len(opts)),
	}
	if len(options) > 0 {
		args.options = uintptr(unsafe.Pointer(&options[0]))
	}

	var vm, env uintptr
	ret, _, _ := purego.SyscallN(l.createJavaVM,
		uintptr(unsafe.Pointer(&vm)),
		uintptr(unsafe.Pointer(&env)),
		uintptr(unsafe.Pointer(&args)),
	)
	runtime.KeepAlive(cstrs)
	runtime.KeepAlive(options)
	if int32(ret) != jniOK {
		return nil, 0, fmt.Errorf("create jvm: %d", int32(ret))
	}
	return &VM{handle: vm}, thread.Env(env), nil
}

// CreatedVM adopts a JVM already created in this process, e.g. when the
// library is loaded into a running java host.
func (l *Library) CreatedVM() (*VM, error) {
	var vm uintptr
	var count int32
	ret, _, _ := purego.SyscallN(l.getCreatedJavaVMs,
		uintptr(unsafe.Pointer(&vm)),
		1,
		uintptr(unsafe.Pointer(&count)),
	)
	if int32(ret) != jniOK || count == 0 {
		return nil, ErrNoCreatedVM
	}
	return &VM{handle: vm}, nil
}
