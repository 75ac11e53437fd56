package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/rawsock/errors"
	"github.com/wippyai/rawsock/poll"
	"github.com/wippyai/rawsock/sockaddr"
	"github.com/wippyai/rawsock/socket"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns the process exit code, so deferred
// cleanup such as the logger sync runs on every exit path.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("sockprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		proto       = fs.String("proto", "udp", "Transport protocol (udp or tcp)")
		listen      = fs.String("listen", "", "Run an echo server on addr (127.0.0.1:9000)")
		connect     = fs.String("connect", "", "Send -data to addr and print the reply")
		data        = fs.String("data", "ping", "Payload sent by the client")
		count       = fs.Int("count", 1, "Messages (client) or exchanges (server) before exiting; 0 runs forever")
		timeout     = fs.Duration("timeout", 5*time.Second, "Wait limit for each reply or request")
		verbose     = fs.Bool("v", false, "Log socket lifecycle to stderr")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
		prev := socket.Logger()
		socket.SetLogger(logger)
		defer socket.SetLogger(prev)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(stderr, "Error: interactive mode requires a terminal")
			return 1
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	typ, protocol, err := parseProto(*proto)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case *listen != "":
		err = serve(*listen, typ, protocol, *count, *timeout)
	case *connect != "":
		err = probe(*connect, typ, protocol, []byte(*data), *count, *timeout)
	default:
		fmt.Fprintln(stderr, "Usage: sockprobe -listen <addr> [-proto udp|tcp] [-count n]")
		fmt.Fprintln(stderr, "       sockprobe -connect <addr> [-proto udp|tcp] [-data s] [-count n] [-timeout d]")
		fmt.Fprintln(stderr, "       sockprobe -i  (interactive mode)")
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseProto(s string) (socket.Type, socket.Protocol, error) {
	switch s {
	case "udp":
		return socket.Datagram, socket.ProtocolUDP, nil
	case "tcp":
		return socket.Stream, socket.ProtocolTCP, nil
	default:
		return 0, 0, fmt.Errorf("unknown protocol %q", s)
	}
}

func familyOf(a sockaddr.Addr) socket.Family {
	if a.Is6() {
		return socket.FamilyIPv6
	}
	return socket.FamilyIPv4
}

// waitReadable blocks until s is readable or the timeout passes.
func waitReadable(s *socket.Socket, timeout time.Duration) error {
	n, err := poll.Select([]*socket.Socket{s}, nil, nil, timeout)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("timed out after %v", timeout)
	}
	return nil
}

func serve(addr string, typ socket.Type, proto socket.Protocol, count int, timeout time.Duration) error {
	local, err := sockaddr.Parse(addr)
	if err != nil {
		return fmt.Errorf("listen address: %w", err)
	}

	s, err := socket.Open(familyOf(local), typ, proto, socket.DefaultOptions())
	if err != nil {
		return fmt.Errorf("create socket: %w", err)
	}
	defer s.Drop()

	if err := s.Bind(local); err != nil {
		return fmt.Errorf("bind %v: %w", local, err)
	}
	bound, err := s.Name()
	if err != nil {
		return fmt.Errorf("local address: %w", err)
	}

	if typ == socket.Stream {
		if err := s.Listen(16); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}
	fmt.Printf("Listening on %v (%s)\n", bound, proto)

	buf := make([]byte, 64<<10)
	for i := 0; count == 0 || i < count; i++ {
		if typ == socket.Stream {
			err = serveConn(s, buf, timeout)
		} else {
			err = serveDatagram(s, buf)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func serveDatagram(s *socket.Socket, buf []byte) error {
	n, from, err := s.RecvFrom(buf, 0)
	if err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	fmt.Printf("%v: %q\n", from, buf[:n])
	if _, err := s.SendTo(buf[:n], from, 0); err != nil {
		return fmt.Errorf("reply to %v: %w", from, err)
	}
	return nil
}

func serveConn(ln *socket.Socket, buf []byte, timeout time.Duration) error {
	conn, peer, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Drop()
	fmt.Printf("Connection from %v\n", peer)

	for {
		if err := waitReadable(conn, timeout); err != nil {
			fmt.Printf("%v: %v\n", peer, err)
			return nil
		}
		n, err := conn.Recv(buf, 0)
		if err != nil {
			if errors.IsCondition(err, errors.ConditionConnectionReset) {
				return nil
			}
			return fmt.Errorf("receive from %v: %w", peer, err)
		}
		if n == 0 {
			fmt.Printf("%v closed\n", peer)
			return nil
		}
		fmt.Printf("%v: %q\n", peer, buf[:n])
		if _, err := conn.Send(buf[:n], 0); err != nil {
			return fmt.Errorf("reply to %v: %w", peer, err)
		}
	}
}

func probe(addr string, typ socket.Type, proto socket.Protocol, payload []byte, count int, timeout time.Duration) error {
	remote, err := sockaddr.Parse(addr)
	if err != nil {
		return fmt.Errorf("connect address: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.NoDelay = true
	s, err := socket.Open(familyOf(remote), typ, proto, opts)
	if err != nil {
		return fmt.Errorf("create socket: %w", err)
	}
	defer s.Drop()

	if typ == socket.Stream {
		if err := s.Connect(remote); err != nil {
			return fmt.Errorf("connect %v: %w", remote, err)
		}
	}

	buf := make([]byte, 64<<10)
	for i := 0; count == 0 || i < count; i++ {
		start := time.Now()
		if typ == socket.Stream {
			_, err = s.Send(payload, 0)
		} else {
			_, err = s.SendTo(payload, remote, 0)
		}
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}

		if err := waitReadable(s, timeout); err != nil {
			return fmt.Errorf("reply from %v: %w", remote, err)
		}
		n, from, err := s.RecvFrom(buf, 0)
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		if !from.IsValid() {
			from = remote
		}
		fmt.Printf("%v: %q in %v\n", from, buf[:n], time.Since(start).Round(time.Microsecond))
	}

	if local, err := s.Name(); err == nil {
		fmt.Printf("Local address %v\n", local)
	}
	return nil
}
