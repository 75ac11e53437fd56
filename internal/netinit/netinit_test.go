package netinit

import (
	"sync"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/wippyai/rawsock/errors"
)

func reset(t *testing.T, fn func() error) {
	t.Helper()
	prev := startup
	once = sync.Once{}
	initErr = nil
	startup = fn
	t.Cleanup(func() {
		startup = prev
		once = sync.Once{}
		initErr = nil
	})
}

func TestEnsure_RunsOnce(t *testing.T) {
	var calls atomic.Int32
	reset(t, func() error {
		calls.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Ensure(); err != nil {
				t.Errorf("Ensure() = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("startup ran %d times, want 1", got)
	}
}

func TestEnsure_MemoizesFailure(t *testing.T) {
	var calls atomic.Int32
	reset(t, func() error {
		calls.Add(1)
		return syscall.Errno(1)
	})

	first := Ensure()
	second := Ensure()

	if first == nil {
		t.Fatal("expected startup error")
	}
	if first != second {
		t.Errorf("second call returned a different error: %v vs %v", first, second)
	}
	if calls.Load() != 1 {
		t.Errorf("startup ran %d times, want 1", calls.Load())
	}
	if code, ok := errors.CodeOf(first); !ok || code != 1 {
		t.Errorf("CodeOf = %d, %v; want 1, true", code, ok)
	}
}

func TestEnsure_Platform(t *testing.T) {
	if err := Ensure(); err != nil {
		t.Fatalf("Ensure() = %v", err)
	}
}
