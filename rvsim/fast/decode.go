package fast

import (
	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

// Functions to parse the instruction field values from the different RISC-V instruction types.
// Fields are extracted regardless of whether the instruction type uses them.

func parseOpcode(instr uint32) uint32 {
	return instr & 0x7F
}

func parseRd(instr uint32) uint8 {
	return uint8((instr >> 7) & 0x1F)
}

func parseFunct3(instr uint32) uint8 {
	return uint8((instr >> 12) & 0x7)
}

func parseRs1(instr uint32) uint8 {
	return uint8((instr >> 15) & 0x1F)
}

func parseRs2(instr uint32) uint8 {
	return uint8((instr >> 20) & 0x1F)
}

func parseFunct7(instr uint32) uint8 {
	return uint8(instr >> 25)
}

func parseCSSR(instr uint32) uint16 {
	return uint16(instr >> 20)
}

// imm[11:0] = instr[31:20]
func parseImmTypeI(instr uint32) int32 {
	return int32(instr) >> 20
}

// imm[11:5] = instr[31:25], imm[4:0] = instr[11:7]
func parseImmTypeS(instr uint32) int32 {
	return int32(signExtend32(((instr>>25)<<5)|((instr>>7)&0x1F), 11))
}

// imm[12] = instr[31], imm[11] = instr[7], imm[10:5] = instr[30:25], imm[4:1] = instr[11:8]
func parseImmTypeB(instr uint32) int32 {
	return int32(signExtend32(
		((instr>>8)&0xF)<<1|
			((instr>>25)&0x3F)<<5|
			((instr>>7)&1)<<11|
			(instr>>31)<<12,
		12,
	))
}

// imm[31:12] = instr[31:12]
func parseImmTypeU(instr uint32) uint32 {
	return instr & 0xFFFFF000
}

// imm[20] = instr[31], imm[19:12] = instr[19:12], imm[11] = instr[20], imm[10:1] = instr[30:21]
func parseImmTypeJ(instr uint32) int32 {
	return int32(signExtend32(
		((instr>>21)&0x3FF)<<1|
			((instr>>20)&1)<<11|
			((instr>>12)&0xFF)<<12|
			(instr>>31)<<20,
		20,
	))
}

var branchOps = [8]Op{
	riscv.Funct3Beq:  OpBeq,
	riscv.Funct3Bne:  OpBne,
	riscv.Funct3Blt:  OpBlt,
	riscv.Funct3Bge:  OpBge,
	riscv.Funct3Bltu: OpBltu,
	riscv.Funct3Bgeu: OpBgeu,
}

var loadOps = [8]Op{
	riscv.Funct3Lb:  OpLb,
	riscv.Funct3Lh:  OpLh,
	riscv.Funct3Lw:  OpLw,
	riscv.Funct3Lbu: OpLbu,
	riscv.Funct3Lhu: OpLhu,
}

var storeOps = [8]Op{
	riscv.Funct3Sb: OpSb,
	riscv.Funct3Sh: OpSh,
	riscv.Funct3Sw: OpSw,
}

// shifts are resolved separately, they need funct7
var opImmOps = [8]Op{
	riscv.Funct3Add:  OpAddi,
	riscv.Funct3Slt:  OpSlti,
	riscv.Funct3Sltu: OpSltiu,
	riscv.Funct3Xor:  OpXori,
	riscv.Funct3Or:   OpOri,
	riscv.Funct3And:  OpAndi,
}

var opBaseOps = [8]Op{
	riscv.Funct3Add:  OpAdd,
	riscv.Funct3Sll:  OpSll,
	riscv.Funct3Slt:  OpSlt,
	riscv.Funct3Sltu: OpSltu,
	riscv.Funct3Xor:  OpXor,
	riscv.Funct3Srx:  OpSrl,
	riscv.Funct3Or:   OpOr,
	riscv.Funct3And:  OpAnd,
}

var opAltOps = [8]Op{
	riscv.Funct3Add: OpSub,
	riscv.Funct3Srx: OpSra,
}

var csrOps = [8]Op{
	riscv.Funct3Csrrw:  OpCsrrw,
	riscv.Funct3Csrrs:  OpCsrrs,
	riscv.Funct3Csrrc:  OpCsrrc,
	riscv.Funct3Csrrwi: OpCsrrwi,
	riscv.Funct3Csrrsi: OpCsrrsi,
	riscv.Funct3Csrrci: OpCsrrci,
}

// decoders is keyed by major opcode. A nil entry is not an RV32I opcode.
var decoders = [128]func(instr uint32) Instruction{
	riscv.OpcodeLoad:   decodeLoad,
	riscv.OpcodeFence:  decodeFence,
	riscv.OpcodeOpImm:  decodeOpImm,
	riscv.OpcodeAuipc:  decodeUpper,
	riscv.OpcodeStore:  decodeStore,
	riscv.OpcodeOp:     decodeOp,
	riscv.OpcodeLui:    decodeUpper,
	riscv.OpcodeBranch: decodeBranch,
	riscv.OpcodeJalr:   decodeJalr,
	riscv.OpcodeJal:    decodeJal,
	riscv.OpcodeSystem: decodeSystem,
}

// Decode turns a raw instruction word into a structured instruction.
// It is total: words that are not RV32I instructions decode to Illegal.
func Decode(instr uint32) Instruction {
	dec := decoders[parseOpcode(instr)]
	if dec == nil {
		return Illegal{Word: instr}
	}
	return dec(instr)
}

func decodeTypeI(op Op, instr uint32) Instruction {
	if op == OpIllegal {
		return Illegal{Word: instr}
	}
	return IType{
		Op:     op,
		Rd:     parseRd(instr),
		Rs1:    parseRs1(instr),
		Funct3: parseFunct3(instr),
		Imm:    parseImmTypeI(instr),
		Word:   instr,
	}
}

func decodeLoad(instr uint32) Instruction {
	return decodeTypeI(loadOps[parseFunct3(instr)], instr)
}

func decodeOpImm(instr uint32) Instruction {
	funct3 := parseFunct3(instr)
	op := opImmOps[funct3]
	switch funct3 {
	case riscv.Funct3Sll: // 001 = SLLI, shamt[5] must be zero in RV32I
		if parseFunct7(instr) == riscv.Funct7Base {
			op = OpSlli
		}
	case riscv.Funct3Srx: // 101 = SR~, the top 7 bits select the shift type
		switch parseFunct7(instr) {
		case riscv.Funct7Base: // 0000000 = SRLI
			op = OpSrli
		case riscv.Funct7Alt: // 0100000 = SRAI
			op = OpSrai
		}
	}
	return decodeTypeI(op, instr)
}

func decodeJalr(instr uint32) Instruction {
	if parseFunct3(instr) != 0 {
		return Illegal{Word: instr}
	}
	return decodeTypeI(OpJalr, instr)
}

func decodeFence(instr uint32) Instruction {
	if parseFunct3(instr) != riscv.Funct3Fence {
		return Illegal{Word: instr}
	}
	return decodeTypeI(OpFence, instr)
}

func decodeOp(instr uint32) Instruction {
	funct3 := parseFunct3(instr)
	funct7 := parseFunct7(instr)
	var op Op
	switch funct7 {
	case riscv.Funct7Base:
		op = opBaseOps[funct3]
	case riscv.Funct7Alt:
		op = opAltOps[funct3]
	}
	if op == OpIllegal {
		return Illegal{Word: instr}
	}
	return RType{
		Op:     op,
		Rd:     parseRd(instr),
		Rs1:    parseRs1(instr),
		Rs2:    parseRs2(instr),
		Funct3: funct3,
		Funct7: funct7,
		Word:   instr,
	}
}

func decodeStore(instr uint32) Instruction {
	op := storeOps[parseFunct3(instr)]
	if op == OpIllegal {
		return Illegal{Word: instr}
	}
	return SType{
		Op:     op,
		Rs1:    parseRs1(instr),
		Rs2:    parseRs2(instr),
		Funct3: parseFunct3(instr),
		Imm:    parseImmTypeS(instr),
		Word:   instr,
	}
}

func decodeBranch(instr uint32) Instruction {
	op := branchOps[parseFunct3(instr)]
	if op == OpIllegal {
		return Illegal{Word: instr}
	}
	return BType{
		Op:     op,
		Rs1:    parseRs1(instr),
		Rs2:    parseRs2(instr),
		Funct3: parseFunct3(instr),
		Imm:    parseImmTypeB(instr),
		Word:   instr,
	}
}

func decodeUpper(instr uint32) Instruction {
	op := OpLui
	if parseOpcode(instr) == riscv.OpcodeAuipc {
		op = OpAuipc
	}
	return UType{
		Op:   op,
		Rd:   parseRd(instr),
		Imm:  parseImmTypeU(instr),
		Word: instr,
	}
}

func decodeJal(instr uint32) Instruction {
	return JType{
		Op:   OpJal,
		Rd:   parseRd(instr),
		Imm:  parseImmTypeJ(instr),
		Word: instr,
	}
}

func decodeSystem(instr uint32) Instruction {
	switch instr {
	case riscv.InsnEcall:
		return System{Op: OpEcall, Word: instr}
	case riscv.InsnEbreak:
		return System{Op: OpEbreak, Word: instr}
	}
	// MRET, WFI etc. share funct3 000 with ECALL/EBREAK, and are not supported
	op := csrOps[parseFunct3(instr)]
	if op == OpIllegal {
		return Illegal{Word: instr}
	}
	return CSRType{
		Op:     op,
		Rd:     parseRd(instr),
		Rs1:    parseRs1(instr),
		Funct3: parseFunct3(instr),
		CSR:    parseCSSR(instr),
		Word:   instr,
	}
}
