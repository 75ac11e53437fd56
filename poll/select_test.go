package poll

import (
	"testing"
	"time"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/sockaddr"
	"github.com/wippyai/rawsock/socket"
)

func udpPair(t *testing.T) (rx, tx *socket.Socket, rxAddr sockaddr.Addr) {
	t.Helper()
	rx = newBound(t)
	tx = newBound(t)
	rxAddr, err := rx.Name()
	if err != nil {
		t.Fatal(err)
	}
	return rx, tx, rxAddr
}

func newBound(t *testing.T) *socket.Socket {
	t.Helper()
	s, err := socket.New(socket.FamilyIPv4, socket.Datagram, socket.ProtocolUDP)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Drop)
	if err := s.Bind(sockaddr.MustParse("127.0.0.1:0")); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSelect_ZeroTimeoutNoData(t *testing.T) {
	rx, _, _ := udpPair(t)

	start := time.Now()
	n, err := Select([]*socket.Socket{rx}, nil, nil, 0)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if n != 0 {
		t.Errorf("Select() = %d, want 0", n)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("zero-timeout Select took %v", elapsed)
	}
}

func TestSelect_PendingData(t *testing.T) {
	rx, tx, rxAddr := udpPair(t)

	if _, err := tx.SendTo([]byte("x"), rxAddr, 0); err != nil {
		t.Fatal(err)
	}

	n, err := Select([]*socket.Socket{rx}, nil, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if n != 1 {
		t.Errorf("Select() = %d, want 1", n)
	}
}

func TestWait_ReadyIndices(t *testing.T) {
	idle, _, _ := udpPair(t)
	busy, tx, busyAddr := udpPair(t)

	if _, err := tx.SendTo([]byte("x"), busyAddr, 0); err != nil {
		t.Fatal(err)
	}

	res, err := Wait([]*socket.Socket{idle, busy}, []*socket.Socket{tx}, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(res.Read) != 1 || res.Read[0] != 1 {
		t.Errorf("Read = %v, want [1]", res.Read)
	}
	// an idle UDP socket is always writable
	if len(res.Write) != 1 || res.Write[0] != 0 {
		t.Errorf("Write = %v, want [0]", res.Write)
	}
	if len(res.Except) != 0 {
		t.Errorf("Except = %v, want none", res.Except)
	}
	if res.N != 2 {
		t.Errorf("N = %d, want 2", res.N)
	}
}

func TestSelect_Capacity(t *testing.T) {
	s := newBound(t)

	set := make([]*socket.Socket, MaxSetSize+1)
	for i := range set {
		set[i] = s
	}

	_, err := Select(set, nil, nil, 0)
	if !errors.Is(err, errors.ErrCapacity) {
		t.Fatalf("Select with %d entries = %v, want capacity error", len(set), err)
	}
}

func TestSelect_ClosedSocket(t *testing.T) {
	s, err := socket.New(socket.FamilyIPv4, socket.Datagram, socket.ProtocolUDP)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = Select(nil, []*socket.Socket{s}, nil, 0)
	if !errors.Is(err, errors.ErrClosed) {
		t.Fatalf("Select on closed socket = %v, want closed", err)
	}
}

func TestSelect_NilSocket(t *testing.T) {
	_, err := Select([]*socket.Socket{nil}, nil, nil, 0)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Select with nil entry = %v, want invalid input", err)
	}
}
