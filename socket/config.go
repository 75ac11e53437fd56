package socket

// Options configures a socket created with Open.
type Options struct {
	// Nonblocking switches the socket to non-blocking mode.
	Nonblocking bool

	// ReuseAddr sets SO_REUSEADDR.
	ReuseAddr bool

	// IPv6Only sets IPV6_V6ONLY. Applied to IPv6 sockets only.
	IPv6Only bool

	// NoDelay sets TCP_NODELAY. Applied to stream sockets only.
	NoDelay bool

	// Broadcast sets SO_BROADCAST.
	Broadcast bool

	// RecvBufferSize and SendBufferSize set SO_RCVBUF and SO_SNDBUF when positive.
	RecvBufferSize int
	SendBufferSize int
}

// DefaultOptions returns the default socket configuration.
func DefaultOptions() Options {
	return Options{
		ReuseAddr: true,
	}
}

// Open creates a socket and applies opts. If any option fails the socket is
// destroyed and the error returned.
func Open(family Family, typ Type, proto Protocol, opts Options) (*Socket, error) {
	s, err := New(family, typ, proto)
	if err != nil {
		return nil, err
	}
	if err := opts.apply(s, family, typ); err != nil {
		s.Drop()
		return nil, err
	}
	return s, nil
}

// Apply configures an existing socket, for example one adopted with FromRaw.
// Family and type dependent options are skipped.
func (o Options) Apply(s *Socket) error {
	return o.apply(s, FamilyUnspecified, 0)
}

func (o Options) apply(s *Socket, family Family, typ Type) error {
	if o.ReuseAddr {
		if err := SetOption(s, OptReuseAddr, 1); err != nil {
			return err
		}
	}
	if o.Broadcast {
		if err := SetOption(s, OptBroadcast, 1); err != nil {
			return err
		}
	}
	if family == FamilyIPv6 {
		if err := SetOption(s, OptIPv6Only, boolValue(o.IPv6Only)); err != nil {
			return err
		}
	}
	if o.NoDelay && typ == Stream {
		if err := SetOption(s, OptNoDelay, 1); err != nil {
			return err
		}
	}
	if o.RecvBufferSize > 0 {
		if err := SetOption(s, OptRecvBuffer, int32(o.RecvBufferSize)); err != nil {
			return err
		}
	}
	if o.SendBufferSize > 0 {
		if err := SetOption(s, OptSendBuffer, int32(o.SendBufferSize)); err != nil {
			return err
		}
	}
	if o.Nonblocking {
		if err := s.SetNonblocking(true); err != nil {
			return err
		}
	}
	return nil
}
