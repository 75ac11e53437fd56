// Package rawsock is a minimal, safe abstraction over the platform's native
// socket API.
//
// It exposes the native calls almost one to one while taking care of the
// parts that are easy to get wrong: descriptor ownership, address layout and
// the translation of platform error codes.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	rawsock/
//	├── socket/          Owning socket handle, constants, typed options
//	├── sockaddr/        Portable address and native address storage codec
//	├── poll/            select-style readiness over socket sets
//	├── registry/        Owning table of sockets addressed by handles
//	├── errors/          Structured errors and portable error conditions
//	├── internal/native  Per-platform system calls (linux, windows)
//	├── internal/netinit One-time subsystem startup
//	└── cmd/sockprobe    Echo client/server and interactive probe
//
// # Quick Start
//
// Send a datagram and wait for the reply:
//
//	s, err := socket.New(socket.FamilyIPv4, socket.Datagram, socket.ProtocolUDP)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Drop()
//
//	peer := sockaddr.MustParse("127.0.0.1:9000")
//	if _, err := s.SendTo([]byte("ping"), peer, 0); err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := poll.Select([]*socket.Socket{s}, nil, nil, time.Second)
//	if err != nil || n == 0 {
//	    log.Fatal("no reply")
//	}
//
//	buf := make([]byte, 1500)
//	n, from, err := s.RecvFrom(buf, 0)
//
// # Ownership
//
// A socket.Socket releases its descriptor exactly once. Close reports the
// native close result, Drop shuts down and closes while discarding errors, and
// IntoRaw hands the descriptor to the caller. Sockets that become unreachable
// while open are dropped by a GC cleanup.
//
// # Errors
//
// Every failure is an *errors.Error. Native failures carry the platform code
// verbatim together with a portable Condition:
//
//	if errors.IsCondition(err, errors.ConditionAddressInUse) {
//	    // pick another port
//	}
//
// The platform's "socket is shut down" code is reported by the transfer
// calls as a 0-byte success rather than an error.
package rawsock
