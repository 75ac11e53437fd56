//go:build linux && (mips || mipsle || mips64 || mips64le)

package native

const (
	FIONBIO  = 0x667e
	FIONREAD = 0x467f
)
