package sockaddr

import (
	"testing"
	"unsafe"

	"pgregory.net/rapid"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/internal/native"
)

func rawBytes(s *Storage) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.raw)), unsafe.Sizeof(s.raw))
}

func TestStorage_RoundTripIPv4(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var ip [4]byte
		copy(ip[:], rapid.SliceOfN(rapid.Byte(), 4, 4).Draw(t, "ip"))
		a := From4(ip, rapid.Uint16().Draw(t, "port"))

		var s Storage
		if err := s.Encode(a); err != nil {
			t.Fatalf("Encode(%v) = %v", a, err)
		}
		if int(s.Len()) != native.SizeofSockaddrInet4 {
			t.Fatalf("Len() = %d, want %d", s.Len(), native.SizeofSockaddrInet4)
		}
		got, err := s.Decode()
		if err != nil {
			t.Fatalf("Decode() = %v", err)
		}
		if got != a {
			t.Fatalf("round trip: got %v, want %v", got, a)
		}
	})
}

func TestStorage_RoundTripIPv6(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var ip [16]byte
		copy(ip[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "ip"))
		a := From16(ip, rapid.Uint16().Draw(t, "port")).
			WithFlowInfo(rapid.Uint32().Draw(t, "flow")).
			WithScopeID(rapid.Uint32().Draw(t, "scope"))

		var s Storage
		if err := s.Encode(a); err != nil {
			t.Fatalf("Encode(%v) = %v", a, err)
		}
		if int(s.Len()) != native.SizeofSockaddrInet6 {
			t.Fatalf("Len() = %d, want %d", s.Len(), native.SizeofSockaddrInet6)
		}
		got, err := s.Decode()
		if err != nil {
			t.Fatalf("Decode() = %v", err)
		}
		if got != a {
			t.Fatalf("round trip: got %v, want %v", got, a)
		}
	})
}

func TestStorage_PortNetworkOrder(t *testing.T) {
	tests := []struct {
		name string
		addr Addr
	}{
		{"ipv4", From4([4]byte{127, 0, 0, 1}, 0x1234)},
		{"ipv6", From16([16]byte{15: 1}, 0x1234)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Storage
			if err := s.Encode(tt.addr); err != nil {
				t.Fatal(err)
			}
			b := rawBytes(&s)
			// family is 2 bytes, the port follows
			if b[2] != 0x12 || b[3] != 0x34 {
				t.Errorf("port bytes = %#x %#x, want 0x12 0x34", b[2], b[3])
			}
		})
	}
}

func TestStorage_EncodeUnspecified(t *testing.T) {
	var s Storage
	err := s.Encode(Addr{})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Encode(Addr{}) = %v, want invalid input", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after failed encode", s.Len())
	}
}

func TestDecode_ZeroLength(t *testing.T) {
	var s Storage
	s.Reset()
	*s.LenPtr() = 0

	a, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if a.IsValid() {
		t.Errorf("Decode() = %v, want unspecified", a)
	}
}

func TestDecode_UnsupportedFamily(t *testing.T) {
	var s Storage
	s.Reset()
	s.raw.Addr.Family = 1 // AF_UNIX on every supported platform

	_, err := s.Decode()
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Decode() = %v, want invalid input", err)
	}
}

func TestDecode_ShortLengthPanics(t *testing.T) {
	tests := []struct {
		name   string
		family int
		n      int
	}{
		{"ipv4", native.AF_INET, native.SizeofSockaddrInet4 - 1},
		{"ipv6", native.AF_INET6, native.SizeofSockaddrInet4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw native.RawSockaddrAny
			raw.Addr.Family = uint16(tt.family)

			defer func() {
				if recover() == nil {
					t.Fatalf("Decode with length %d should panic", tt.n)
				}
			}()
			_, _ = Decode(&raw, tt.n)
		})
	}
}

func TestStorage_Reset(t *testing.T) {
	var s Storage
	if err := s.Encode(MustParse("1.2.3.4:5")); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if int(s.Len()) != native.SizeofSockaddrAny {
		t.Errorf("Len() = %d, want %d", s.Len(), native.SizeofSockaddrAny)
	}
	if s.raw.Addr.Family != 0 {
		t.Errorf("family = %d after Reset", s.raw.Addr.Family)
	}
}
