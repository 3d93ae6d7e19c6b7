package fast

import (
	"io"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

func testLogger(w io.Writer) log.Logger {
	if w == nil {
		w = io.Discard
	}
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, log.LevelWarn))
}

// Instruction assemblers, the inverse of the parse functions.

func encodeR(funct7, funct3, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | riscv.OpcodeOp
}

func encodeI(opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(funct3, rs1, rs2 uint32, imm int32) uint32 {
	i := uint32(imm)
	return ((i>>5)&0x7F)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (i&0x1F)<<7 | riscv.OpcodeStore
}

func encodeB(funct3, rs1, rs2 uint32, imm int32) uint32 {
	i := uint32(imm)
	return ((i>>12)&1)<<31 | ((i>>5)&0x3F)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		((i>>1)&0xF)<<8 | ((i>>11)&1)<<7 | riscv.OpcodeBranch
}

func encodeU(opcode, rd, imm uint32) uint32 {
	return imm&0xFFFFF000 | rd<<7 | opcode
}

func encodeJ(rd uint32, imm int32) uint32 {
	i := uint32(imm)
	return ((i>>20)&1)<<31 | ((i>>1)&0x3FF)<<21 | ((i>>11)&1)<<20 | ((i>>12)&0xFF)<<12 | rd<<7 | riscv.OpcodeJal
}

func encodeCSR(funct3, rd, rs1, csr uint32) uint32 {
	return csr<<20 | rs1<<15 | funct3<<12 | rd<<7 | riscv.OpcodeSystem
}

// newTestState returns a hart with memory of the given size holding the program words from address 0.
func newTestState(memSize uint32, program ...uint32) *VMState {
	s := NewVMState(memSize, testLogger(nil))
	for i, w := range program {
		s.Memory.Set32(uint32(i*4), w)
	}
	return s
}
