package fast

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

// RegisterFile holds the 32 general purpose registers of the hart.
// x0 is hardwired to zero: writes to it are discarded.
type RegisterFile [32]uint32

func (r *RegisterFile) Get(reg uint8) uint32 {
	return r[reg&0x1F]
}

func (r *RegisterFile) Set(reg uint8, v uint32) {
	reg &= 0x1F
	if reg == 0 {
		return
	}
	r[reg] = v
}

// Reset zeroes x0 and poisons every other register.
func (r *RegisterFile) Reset() {
	r[0] = 0
	for i := 1; i < len(r); i++ {
		r[i] = riscv.RegisterPoison
	}
}

// Dump writes the registers, 8 per line, each line prefixed with hdr.
func (r *RegisterFile) Dump(w io.Writer, hdr string) error {
	var sb strings.Builder
	for i := 0; i < len(r); i += 8 {
		sb.WriteString(hdr)
		sb.WriteString(fmt.Sprintf("%3s", fmt.Sprintf("x%d", i)))
		for j := 0; j < 8; j++ {
			sb.WriteByte(' ')
			if j == 4 {
				sb.WriteByte(' ')
			}
			sb.WriteString(ToHex32(r[i+j]))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
