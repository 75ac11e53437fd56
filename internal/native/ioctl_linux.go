//go:build linux && !mips && !mipsle && !mips64 && !mips64le && !ppc64 && !ppc64le && !sparc64

package native

const (
	FIONBIO  = 0x5421
	FIONREAD = 0x541b
)
