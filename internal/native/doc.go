// Package native binds the platform socket API.
//
// Every function is a thin wrapper over exactly one native call and reports
// failures as the raw syscall.Errno; translation into the portable taxonomy
// happens in Classify and in the socket package. Address arguments are passed
// as untyped pointers into caller-owned storage so that the sockaddr package
// stays in charge of the binary layout.
//
// Supported platforms: linux (raw syscalls through golang.org/x/sys/unix) and
// windows (ws2_32.dll procedures through golang.org/x/sys/windows).
package native

// FdSetCapacity is the maximum number of descriptors per readiness set.
const FdSetCapacity = 64
