// Package core holds process-wide crash handling for goroutines that share the terminal
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	mu      sync.Mutex
	cleanup func()
	output  io.Writer = os.Stderr
	exit              = os.Exit
)

// SetCrashCleanup registers the terminal restore run before a crash report is printed
func SetCrashCleanup(fn func()) {
	mu.Lock()
	cleanup = fn
	mu.Unlock()
}

// HandleCrash restores the terminal, prints the panic value and stack, then exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	mu.Lock()
	fn := cleanup
	cleanup = nil
	mu.Unlock()
	if fn != nil {
		fn()
	}

	fmt.Fprintf(output, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(output, "Stack Trace:\n%s\n", debug.Stack())
	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crash still restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
