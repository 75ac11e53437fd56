//go:build linux && (ppc64 || ppc64le || sparc64)

package native

const (
	FIONBIO  = 0x8004667e
	FIONREAD = 0x4004667f
)
