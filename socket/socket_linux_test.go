package socket

import (
	"fmt"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/wippyai/rawsock/errors"
)

func openDescriptors(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot list descriptors: %v", err)
	}
	return len(entries)
}

func TestDrop_NoDescriptorLeak(t *testing.T) {
	before := openDescriptors(t)

	for range 100 {
		s, err := New(FamilyIPv4, Stream, ProtocolTCP)
		if err != nil {
			t.Fatal(err)
		}
		s.Drop()
	}

	if after := openDescriptors(t); after != before {
		t.Errorf("descriptors before %d, after %d", before, after)
	}
}

func TestCleanup_ReleasesUnreachableSocket(t *testing.T) {
	before := openDescriptors(t)

	func() {
		for range 20 {
			if _, err := New(FamilyIPv4, Datagram, ProtocolUDP); err != nil {
				t.Fatal(err)
			}
		}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		if openDescriptors(t) <= before {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("descriptors before %d, after %d", before, openDescriptors(t))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestShutdown_UnconnectedRecvReturnsZero(t *testing.T) {
	s, _ := boundUDP(t)

	// Linux reports ENOTCONN for an unconnected datagram socket but still
	// marks both directions shut down.
	if err := s.Shutdown(ShutdownBoth); err != nil && !errors.IsCondition(err, errors.ConditionNotConnected) {
		t.Fatalf("Shutdown: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		n, err := s.Recv(make([]byte, 16), 0)
		if err == nil && n != 0 {
			err = fmt.Errorf("received %d bytes", n)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Recv after shutdown: %v; want 0, nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Recv after shutdown blocked")
	}
}

func TestName_UnboundIsWildcard(t *testing.T) {
	s := newUDP(t)

	a, err := s.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if !a.IsValid() || !a.IP().IsUnspecified() || a.Port() != 0 {
		t.Errorf("Name of unbound socket = %v, want 0.0.0.0:0", a)
	}
}
