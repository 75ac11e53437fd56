package socket

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/sockaddr"
)

var loopback4 = sockaddr.MustParse("127.0.0.1:0")

func newUDP(t *testing.T) *Socket {
	t.Helper()
	s, err := New(FamilyIPv4, Datagram, ProtocolUDP)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Drop)
	return s
}

func boundUDP(t *testing.T) (*Socket, sockaddr.Addr) {
	t.Helper()
	s := newUDP(t)
	if err := s.Bind(loopback4); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	a, err := s.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	return s, a
}

func newTCP(t *testing.T) *Socket {
	t.Helper()
	s, err := New(FamilyIPv4, Stream, ProtocolTCP)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Drop)
	return s
}

func TestBind_EphemeralPort(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		addr   string
	}{
		{"ipv4", FamilyIPv4, "127.0.0.1:0"},
		{"ipv6", FamilyIPv6, "[::1]:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.family, Datagram, ProtocolUDP)
			if err != nil {
				if errors.IsCondition(err, errors.ConditionAddressFamilyNotSupported) {
					t.Skip("family not supported")
				}
				t.Fatalf("New: %v", err)
			}
			defer s.Drop()

			if err := s.Bind(sockaddr.MustParse(tt.addr)); err != nil {
				if errors.IsCondition(err, errors.ConditionAddressNotAvailable) {
					t.Skip("loopback not configured")
				}
				t.Fatalf("Bind: %v", err)
			}

			a, err := s.Name()
			if err != nil {
				t.Fatalf("Name: %v", err)
			}
			if a.Port() == 0 {
				t.Error("expected a non-zero ephemeral port")
			}
			if tt.family == FamilyIPv4 && !a.Is4() {
				t.Errorf("Name() = %v, want IPv4", a)
			}
			if tt.family == FamilyIPv6 && !a.Is6() {
				t.Errorf("Name() = %v, want IPv6", a)
			}
		})
	}
}

func TestBind_AddressInUse(t *testing.T) {
	_, a := boundUDP(t)

	s := newUDP(t)
	err := s.Bind(a)
	if !errors.IsCondition(err, errors.ConditionAddressInUse) {
		t.Fatalf("Bind to taken port = %v, want address in use", err)
	}
	if _, ok := errors.CodeOf(err); !ok {
		t.Error("expected a platform code on an OS error")
	}
}

func TestSendTo_RecvFrom(t *testing.T) {
	rx, rxAddr := boundUDP(t)
	tx, txAddr := boundUDP(t)

	msg := []byte("hello")
	n, err := tx.SendTo(msg, rxAddr, 0)
	if err != nil || n != len(msg) {
		t.Fatalf("SendTo = %d, %v", n, err)
	}

	buf := make([]byte, 64)
	n, from, err := rx.RecvFrom(buf, 0)
	if err != nil {
		t.Fatalf("RecvFrom: %v", err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Errorf("received %q, want %q", buf[:n], msg)
	}
	if from != txAddr {
		t.Errorf("from = %v, want %v", from, txAddr)
	}
}

func TestSendTo_ImplicitBind(t *testing.T) {
	_, rxAddr := boundUDP(t)
	tx := newUDP(t)

	if _, err := tx.SendTo([]byte("x"), rxAddr, 0); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	a, err := tx.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if a.Port() == 0 {
		t.Error("SendTo did not bind an ephemeral port")
	}
}

func TestShutdown_RecvReturnsZero(t *testing.T) {
	s, _ := boundUDP(t)
	_, peer := boundUDP(t)

	// Connected so that shutdown succeeds on every platform. The unconnected
	// case is covered on Linux in socket_linux_test.go.
	if err := s.Connect(peer); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Shutdown(ShutdownBoth); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := s.Recv(make([]byte, 16), 0)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		if r.err != nil || r.n != 0 {
			t.Fatalf("Recv after shutdown = %d, %v; want 0, nil", r.n, r.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Recv after shutdown blocked")
	}
}

func TestRecv_BlockedSocketSurvivesGC(t *testing.T) {
	type result struct {
		n    int
		data string
		err  error
	}
	addrs := make(chan sockaddr.Addr, 1)
	done := make(chan result, 1)

	// Nothing references the receiving socket once Recv has started.
	go func() {
		s, err := New(FamilyIPv4, Datagram, ProtocolUDP)
		if err == nil {
			err = s.Bind(loopback4)
		}
		var a sockaddr.Addr
		if err == nil {
			a, err = s.Name()
		}
		if err != nil {
			close(addrs)
			done <- result{err: err}
			return
		}
		addrs <- a

		buf := make([]byte, 16)
		n, err := s.Recv(buf, 0)
		done <- result{n: n, data: string(buf[:n]), err: err}
	}()

	to, ok := <-addrs
	if !ok {
		t.Fatalf("setup: %v", (<-done).err)
	}

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		runtime.GC()
		select {
		case r := <-done:
			t.Fatalf("Recv returned %d, %v before any data was sent", r.n, r.err)
		default:
		}
		time.Sleep(5 * time.Millisecond)
	}

	tx := newUDP(t)
	if _, err := tx.SendTo([]byte("late"), to, 0); err != nil {
		t.Fatalf("SendTo: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil || r.data != "late" {
			t.Fatalf("Recv = %q, %v; want \"late\", nil", r.data, r.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Recv did not return after data was sent")
	}
}

func TestAccept_PeerAddress(t *testing.T) {
	ln := newTCP(t)
	if err := ln.Bind(loopback4); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := ln.Listen(1); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	lnAddr, err := ln.Name()
	if err != nil {
		t.Fatal(err)
	}

	client := newTCP(t)
	if err := client.Connect(lnAddr); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	clientAddr, err := client.Name()
	if err != nil {
		t.Fatal(err)
	}

	child, peer, err := ln.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer child.Drop()

	if peer != clientAddr {
		t.Errorf("peer = %v, want %v", peer, clientAddr)
	}

	msg := []byte("ping")
	if n, err := client.Send(msg, 0); err != nil || n != len(msg) {
		t.Fatalf("Send = %d, %v", n, err)
	}
	buf := make([]byte, 16)
	n, err := child.Recv(buf, 0)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Errorf("child received %q", buf[:n])
	}

	// Orderly close by the peer reads as end of stream.
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	n, err = child.Recv(buf, 0)
	if err != nil || n != 0 {
		t.Errorf("Recv after peer close = %d, %v; want 0, nil", n, err)
	}
}

func TestNonblocking_WouldBlock(t *testing.T) {
	s, _ := boundUDP(t)
	if err := s.SetNonblocking(true); err != nil {
		t.Fatalf("SetNonblocking: %v", err)
	}

	_, err := s.Recv(make([]byte, 8), 0)
	if !errors.IsWouldBlock(err) {
		t.Fatalf("Recv on empty non-blocking socket = %v, want would block", err)
	}
	if !errors.ConditionOf(err).Temporary() {
		t.Error("would block should be temporary")
	}
}

func TestAvailable(t *testing.T) {
	rx, rxAddr := boundUDP(t)
	tx := newUDP(t)

	if n, err := rx.Available(); err != nil || n != 0 {
		t.Fatalf("Available() = %d, %v on empty socket", n, err)
	}

	if _, err := tx.SendTo([]byte("12345"), rxAddr, 0); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := rx.Available()
		if err != nil {
			t.Fatalf("Available: %v", err)
		}
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("datagram never became available")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClose_Twice(t *testing.T) {
	s, err := New(FamilyIPv4, Datagram, ProtocolUDP)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	err = s.Close()
	if !errors.Is(err, errors.ErrClosed) {
		t.Fatalf("second Close = %v, want closed", err)
	}

	if _, err := s.Recv(make([]byte, 1), 0); !errors.Is(err, errors.ErrClosed) {
		t.Errorf("Recv after Close = %v, want closed", err)
	}
	if s.Raw() != InvalidDescriptor {
		t.Error("Raw() after Close should be invalid")
	}

	s.Drop() // no-op
}

func TestIntoRaw_FromRaw(t *testing.T) {
	s, err := New(FamilyIPv4, Datagram, ProtocolUDP)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Bind(loopback4); err != nil {
		t.Fatal(err)
	}
	want, _ := s.Name()

	d := s.IntoRaw()
	if d == InvalidDescriptor {
		t.Fatal("IntoRaw returned an invalid descriptor")
	}
	if s.IntoRaw() != InvalidDescriptor {
		t.Error("second IntoRaw should return an invalid descriptor")
	}
	s.Drop() // must not close d

	adopted := FromRaw(d)
	defer adopted.Drop()

	got, err := adopted.Name()
	if err != nil {
		t.Fatalf("Name on adopted descriptor: %v", err)
	}
	if got != want {
		t.Errorf("Name() = %v, want %v", got, want)
	}
}

func TestOperationsOnClosedSocket(t *testing.T) {
	s, err := New(FamilyIPv4, Stream, ProtocolTCP)
	if err != nil {
		t.Fatal(err)
	}
	s.Drop()

	a := sockaddr.MustParse("127.0.0.1:1")
	ops := map[string]func() error{
		"bind":    func() error { return s.Bind(a) },
		"listen":  func() error { return s.Listen(1) },
		"connect": func() error { return s.Connect(a) },
		"accept":  func() error { _, _, err := s.Accept(); return err },
		"send":    func() error { _, err := s.Send(nil, 0); return err },
		"sendto":  func() error { _, err := s.SendTo(nil, a, 0); return err },
		"recv":    func() error { _, err := s.Recv(nil, 0); return err },
		"recvfrom": func() error {
			_, _, err := s.RecvFrom(nil, 0)
			return err
		},
		"name":     func() error { _, err := s.Name(); return err },
		"ioctl":    func() error { _, err := s.Ioctl(FIONREAD, 0); return err },
		"shutdown": func() error { return s.Shutdown(ShutdownBoth) },
		"getopt":   func() error { _, err := GetOption(s, OptType); return err },
		"setopt":   func() error { return SetOption(s, OptReuseAddr, 1) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, errors.ErrClosed) {
				t.Errorf("%s on dropped socket = %v, want closed", name, err)
			}
		})
	}
}

func TestEncodeUnspecifiedRejected(t *testing.T) {
	s := newUDP(t)
	if err := s.Bind(sockaddr.Addr{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Bind(unspecified) = %v, want invalid input", err)
	}
}
