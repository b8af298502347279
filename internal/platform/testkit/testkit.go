// Package testkit is shared test plumbing: package var swaps, panic checks,
// fixture files and, under integration_pg, a throwaway postgres
package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap sets *v to tmp for the rest of the test
func Swap[T any](t testing.TB, v *T, tmp T) {
	t.Helper()
	saved := *v
	*v = tmp
	t.Cleanup(func() { *v = saved })
}

// Serial keeps tests that Swap shared package state from overlapping.
// Call it first in any such test that may run in parallel.
func Serial(t testing.TB) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}

// MustPanicWith runs fn and fails unless it panics with a value whose text contains want
func MustPanicWith(t testing.TB, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		var msg string
		switch v := r.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		default:
			msg = fmt.Sprint(v)
		}
		if !strings.Contains(msg, want) {
			t.Fatalf("panic %q does not contain %q", msg, want)
		}
	}()
	fn()
}

// WriteFile writes body to dir/name, creating parent directories, and returns the path
// lines are joined with \n so CSV fixtures read naturally in tests
func WriteFile(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	body := strings.Join(lines, "\n")
	if len(lines) > 0 {
		body += "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
