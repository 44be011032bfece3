// Package testkit holds assertions and seam helpers shared by package tests
package testkit

import (
	"strings"
	"sync"
	"testing"
)

var seams sync.Mutex

func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}

func MustContain(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("%q not found in:\n%s", want, got)
	}
}

// Swap replaces *target for the rest of the test
func Swap[T any](t *testing.T, target *T, v T) {
	t.Helper()
	old := *target
	*target = v
	t.Cleanup(func() { *target = old })
}

// Serial holds a process wide lock until the test ends; use it before Swap
// on package level seams
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
