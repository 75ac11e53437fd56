// Package sockaddr converts between the portable endpoint type Addr and the
// platform's native socket address storage.
//
// # Portable Address
//
// Addr is an IPv4 endpoint (address and port) or an IPv6 endpoint (address,
// port, flow information and scope id). The zero Addr is the unspecified
// address, returned when the operating system reports no address at all.
//
//	a := sockaddr.MustParse("127.0.0.1:8080")
//	b := sockaddr.From16(ip6, 443).WithScopeID(3)
//
// # Native Storage
//
// Storage is an over-allocated native address buffer plus its length. It is
// input for bind, connect and sendto and output for getsockname, accept and
// recvfrom:
//
//	var st sockaddr.Storage
//	if err := st.Encode(a); err != nil {
//	    return err
//	}
//	native.Bind(fd, st.Pointer(), st.Len())
//
// Ports travel in network byte order. Encode and Decode always swap through an
// explicit big-endian read or write, so the result does not depend on the host
// byte order. Flow information and scope id are copied verbatim.
//
// Decoding asserts that the reported length covers the structure implied by
// the family. A shorter length is an internal consistency failure and panics.
package sockaddr
