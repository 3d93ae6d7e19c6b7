package fast

import (
	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

// CSRFile is the minimal machine-mode CSR store behind the Zicsr instructions.
// Only a fixed set of addresses is backed by storage; the rest read as zero
// and drop writes. No CSR has side effects on the hart.
type CSRFile struct {
	Mstatus  uint32 `json:"mstatus"`
	Mie      uint32 `json:"mie"`
	Mtvec    uint32 `json:"mtvec"`
	Mscratch uint32 `json:"mscratch"`
	Mepc     uint32 `json:"mepc"`
	Mcause   uint32 `json:"mcause"`
	Mtval    uint32 `json:"mtval"`
	Mip      uint32 `json:"mip"`
}

// reg returns the storage of a writable CSR, or nil if the CSR is read-only or not implemented.
func (c *CSRFile) reg(num uint16) *uint32 {
	switch num {
	case riscv.CsrMstatus:
		return &c.Mstatus
	case riscv.CsrMie:
		return &c.Mie
	case riscv.CsrMtvec:
		return &c.Mtvec
	case riscv.CsrMscratch:
		return &c.Mscratch
	case riscv.CsrMepc:
		return &c.Mepc
	case riscv.CsrMcause:
		return &c.Mcause
	case riscv.CsrMtval:
		return &c.Mtval
	case riscv.CsrMip:
		return &c.Mip
	}
	return nil
}

// Read returns the value of the CSR. retired feeds the cycle and instret counters.
func (c *CSRFile) Read(num uint16, retired uint64) uint32 {
	switch num {
	case riscv.CsrMisa:
		return riscv.MisaRV32I
	case riscv.CsrCycle, riscv.CsrInstret:
		return uint32(retired)
	case riscv.CsrCycleh, riscv.CsrInstreth:
		return uint32(retired >> 32)
	case riscv.CsrMhartid, riscv.CsrMvendorid, riscv.CsrMarchid, riscv.CsrMimpid:
		return 0
	}
	if r := c.reg(num); r != nil {
		return *r
	}
	return 0
}

// Write stores v in the CSR. Writes to read-only or unknown CSRs are ignored.
func (c *CSRFile) Write(num uint16, v uint32) {
	r := c.reg(num)
	if r == nil {
		return
	}
	if num == riscv.CsrMepc { // IALIGN=32: the low two bits of mepc are always zero
		v &^= 3
	}
	*r = v
}
