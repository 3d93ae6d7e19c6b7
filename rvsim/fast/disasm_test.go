package fast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	cases := []struct {
		pc   uint32
		word uint32
		want string
	}{
		{0, 0x00100093, "addi    x1,x0,1"},
		{0, 0xff010113, "addi    x2,x2,-16"},
		{0, 0x402081b3, "sub     x3,x1,x2"},
		{0, 0x00812503, "lw      x10,8(x2)"},
		{0, 0xfff34283, "lbu     x5,-1(x6)"},
		{0, 0x00112623, "sw      x1,12(x2)"},
		{0, 0x4040d093, "srai    x1,x1,4"},
		{0x10, 0xfe209ee3, "bne     x1,x2,0x0000000C"},
		{0, 0x00000063, "beq     x0,x0,0x00000000"},
		{0, 0x123452b7, "lui     x5,0x12345"},
		{0, 0xfffff097, "auipc   x1,0xFFFFF"},
		{0x100, 0x001000ef, "jal     x1,0x00000900"},
		{0, 0x00008067, "jalr    x0,0(x1)"},
		{0, 0x0ff0000f, "fence"},
		{0, 0x00000073, "ecall"},
		{0, 0x00100073, "ebreak"},
		{0, 0x340110f3, "csrrw   x1,0x340,x2"},
		{0, 0x30046073, "csrrsi  x0,0x300,8"},
		{0, 0xFFFFFFFF, "ERROR: UNIMPLEMENTED INSTRUCTION"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			require.Equal(t, tc.want, Disassemble(tc.pc, Decode(tc.word)))
		})
	}
}

func TestDisassembleMemory(t *testing.T) {
	s := newTestState(16, 0x00100093, 0x00000073)
	var buf bytes.Buffer
	require.NoError(t, DisassembleMemory(&buf, s.Memory))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"00000000: 00100093  addi    x1,x0,1",
		"00000004: 00000073  ecall",
		"00000008: A5A5A5A5  ERROR: UNIMPLEMENTED INSTRUCTION",
		"0000000C: A5A5A5A5  ERROR: UNIMPLEMENTED INSTRUCTION",
	}, lines)
}
