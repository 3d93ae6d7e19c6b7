package fast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

func TestRegisterFile(t *testing.T) {
	var r RegisterFile
	r.Reset()
	require.Equal(t, uint32(0), r.Get(0))
	for i := uint8(1); i < 32; i++ {
		require.Equal(t, uint32(riscv.RegisterPoison), r.Get(i))
	}

	r.Set(0, 0x1234)
	require.Equal(t, uint32(0), r.Get(0), "x0 is hardwired to zero")

	r.Set(31, 0xdeadbeef)
	require.Equal(t, uint32(0xdeadbeef), r.Get(31))

	r.Set(33, 7) // index masked to 5 bits: x1
	require.Equal(t, uint32(7), r.Get(1))
}

func TestRegisterFileDump(t *testing.T) {
	var r RegisterFile
	for i := range r {
		r[i] = uint32(i)
	}
	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, "> "))
	require.Equal(t,
		">  x0 00000000 00000001 00000002 00000003  00000004 00000005 00000006 00000007\n"+
			">  x8 00000008 00000009 0000000A 0000000B  0000000C 0000000D 0000000E 0000000F\n"+
			"> x16 00000010 00000011 00000012 00000013  00000014 00000015 00000016 00000017\n"+
			"> x24 00000018 00000019 0000001A 0000001B  0000001C 0000001D 0000001E 0000001F\n",
		buf.String())
}
