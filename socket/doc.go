// Package socket is an owning handle over a native socket descriptor.
//
// A Socket owns exactly one descriptor and releases it exactly once: through
// Close, through Drop (shutdown of both directions followed by close, errors
// discarded), or through a GC cleanup if it becomes unreachable while open.
// IntoRaw hands the descriptor back to the caller and disarms all of these.
//
//	s, err := socket.New(socket.FamilyIPv4, socket.Datagram, socket.ProtocolUDP)
//	if err != nil {
//	    return err
//	}
//	defer s.Drop()
//
//	if err := s.Bind(sockaddr.MustParse("127.0.0.1:0")); err != nil {
//	    return err
//	}
//
// Every call is a single synchronous native call. Non-blocking sockets report
// "would block" as an error carrying errors.ConditionWouldBlock.
//
// # Shutdown as end of stream
//
// Recv, Send, RecvFrom and SendTo report the platform's "socket is shut down"
// error as a successful transfer of 0 bytes, matching the end-of-stream
// convention of POSIX reads.
//
// # Options
//
// Socket options are typed requests. GetOption checks the size the platform
// reports against the size of the value type:
//
//	v, err := socket.GetOption(s, socket.OptRecvBuffer)
//	err = socket.SetOption(s, socket.OptLinger, socket.Linger{Onoff: 1, Linger: 5})
//
// Open combines New with a set of Options applied at creation.
package socket
