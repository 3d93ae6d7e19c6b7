package fast

import (
	"fmt"
)

// EffectKind tells the simulation loop how to continue after an instruction.
type EffectKind uint8

const (
	EffectContinue EffectKind = iota
	EffectHalt
	EffectTrap
)

func (k EffectKind) String() string {
	switch k {
	case EffectContinue:
		return "continue"
	case EffectHalt:
		return "halt"
	case EffectTrap:
		return "trap"
	default:
		return fmt.Sprintf("EffectKind(%d)", uint8(k))
	}
}

// AccessFault describes a load or store that reached beyond the end of memory.
type AccessFault struct {
	Addr  uint32
	Size  uint32
	Write bool
}

func (f *AccessFault) Error() string {
	kind := "load"
	if f.Write {
		kind = "store"
	}
	return fmt.Sprintf("%s of %d bytes at %s out of range", kind, f.Size, ToHex0x32(f.Addr))
}

// Effect is the control-flow result of executing one instruction.
type Effect struct {
	Kind   EffectKind
	NextPC uint32
	Reason Reason       // set for EffectHalt and EffectTrap
	Fault  *AccessFault // set when a load/store touched memory out of range
}

func continueAt(pc uint32) Effect {
	return Effect{Kind: EffectContinue, NextPC: pc}
}

func (s *VMState) checkAccess(addr uint32, size uint32, write bool) *AccessFault {
	if s.Memory.Contains(addr, size) {
		return nil
	}
	return &AccessFault{Addr: addr, Size: size, Write: write}
}

// Execute applies the semantics of insn to the state, at the current PC.
// It does not update the PC, the step counter or the status: that is up to the caller,
// based on the returned Effect.
func Execute(insn Instruction, s *VMState) Effect {
	pc := s.PC
	regs := &s.Registers

	switch in := insn.(type) {
	case RType: // 011_0011: register arithmetic and logic
		rs1Value := regs.Get(in.Rs1)
		rs2Value := regs.Get(in.Rs2)
		var rdValue uint32
		switch in.Op {
		case OpAdd:
			rdValue = rs1Value + rs2Value
		case OpSub:
			rdValue = rs1Value - rs2Value
		case OpSll:
			rdValue = shl32(rs2Value, rs1Value) // only the low 5 bits are considered
		case OpSlt:
			rdValue = slt32(rs1Value, rs2Value)
		case OpSltu:
			rdValue = lt32(rs1Value, rs2Value)
		case OpXor:
			rdValue = rs1Value ^ rs2Value
		case OpSrl:
			rdValue = shr32(rs2Value, rs1Value) // logical: fill with zeroes
		case OpSra:
			rdValue = sar32(rs2Value, rs1Value) // arithmetic: sign bit is extended
		case OpOr:
			rdValue = rs1Value | rs2Value
		case OpAnd:
			rdValue = rs1Value & rs2Value
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		regs.Set(in.Rd, rdValue)
		return continueAt(pc + 4)

	case IType:
		rs1Value := regs.Get(in.Rs1)
		imm := uint32(in.Imm)
		switch in.Op {
		case OpLb, OpLh, OpLw, OpLbu, OpLhu: // 000_0011: memory loading
			addr := rs1Value + imm
			var rdValue, size uint32
			switch in.Op {
			case OpLb:
				size, rdValue = 1, s.Memory.Get8SX(addr)
			case OpLh:
				size, rdValue = 2, s.Memory.Get16SX(addr)
			case OpLw:
				size, rdValue = 4, s.Memory.Get32SX(addr)
			case OpLbu:
				size, rdValue = 1, uint32(s.Memory.Get8(addr))
			case OpLhu:
				size, rdValue = 2, uint32(s.Memory.Get16(addr))
			}
			regs.Set(in.Rd, rdValue)
			eff := continueAt(pc + 4)
			eff.Fault = s.checkAccess(addr, size, false)
			return eff
		case OpJalr: // 110_0111: JALR = Jump and link register
			target := (rs1Value + imm) &^ 1 // least significant bit is set to 0
			regs.Set(in.Rd, pc+4)
			return continueAt(target)
		case OpFence: // 000_1111: no pipeline, no other harts: nothing to order
			return continueAt(pc + 4)
		}
		// 001_0011: immediate arithmetic and logic
		var rdValue uint32
		switch in.Op {
		case OpAddi:
			rdValue = rs1Value + imm
		case OpSlti:
			rdValue = slt32(rs1Value, imm)
		case OpSltiu:
			rdValue = lt32(rs1Value, imm)
		case OpXori:
			rdValue = rs1Value ^ imm
		case OpOri:
			rdValue = rs1Value | imm
		case OpAndi:
			rdValue = rs1Value & imm
		case OpSlli:
			rdValue = shl32(in.Shamt(), rs1Value)
		case OpSrli:
			rdValue = shr32(in.Shamt(), rs1Value)
		case OpSrai:
			rdValue = sar32(in.Shamt(), rs1Value)
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		regs.Set(in.Rd, rdValue)
		return continueAt(pc + 4)

	case SType: // 010_0011: memory storing
		addr := regs.Get(in.Rs1) + uint32(in.Imm)
		value := regs.Get(in.Rs2)
		var size uint32
		switch in.Op {
		case OpSb:
			size = 1
			s.Memory.Set8(addr, uint8(value))
		case OpSh:
			size = 2
			s.Memory.Set16(addr, uint16(value))
		case OpSw:
			size = 4
			s.Memory.Set32(addr, value)
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		eff := continueAt(pc + 4)
		eff.Fault = s.checkAccess(addr, size, true)
		return eff

	case BType: // 110_0011: branching
		rs1Value := regs.Get(in.Rs1)
		rs2Value := regs.Get(in.Rs2)
		var branchHit bool
		switch in.Op {
		case OpBeq:
			branchHit = rs1Value == rs2Value
		case OpBne:
			branchHit = rs1Value != rs2Value
		case OpBlt:
			branchHit = slt32(rs1Value, rs2Value) != 0
		case OpBge:
			branchHit = slt32(rs1Value, rs2Value) == 0
		case OpBltu:
			branchHit = rs1Value < rs2Value
		case OpBgeu:
			branchHit = rs1Value >= rs2Value
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		if !branchHit {
			return continueAt(pc + 4)
		}
		// imm is a signed offset, in multiples of 2 bytes.
		return continueAt(pc + uint32(in.Imm))

	case UType:
		switch in.Op {
		case OpLui: // 011_0111: LUI = Load upper immediate
			regs.Set(in.Rd, in.Imm)
		case OpAuipc: // 001_0111: AUIPC = Add upper immediate to PC
			regs.Set(in.Rd, pc+in.Imm)
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		return continueAt(pc + 4)

	case JType: // 110_1111: JAL = Jump and link
		regs.Set(in.Rd, pc+4)
		return continueAt(pc + uint32(in.Imm))

	case System: // 111_0011: environment things
		// There is no OS and no trap vector: both end the program.
		switch in.Op {
		case OpEcall:
			return Effect{Kind: EffectHalt, NextPC: pc + 4, Reason: ReasonEcall}
		case OpEbreak:
			return Effect{Kind: EffectHalt, NextPC: pc + 4, Reason: ReasonEbreak}
		default:
			return trap(pc, ReasonIllegalInstruction)
		}

	case CSRType: // 111_0011: CSR instructions
		old := s.CSR.Read(in.CSR, s.Step)
		value := uint32(in.Rs1) // zimm
		if !in.Immediate() {
			value = regs.Get(in.Rs1)
		}
		switch in.Op {
		case OpCsrrw, OpCsrrwi:
			s.CSR.Write(in.CSR, value)
		case OpCsrrs, OpCsrrsi:
			if in.Rs1 != 0 { // x0 or zimm=0: read only
				s.CSR.Write(in.CSR, old|value)
			}
		case OpCsrrc, OpCsrrci:
			if in.Rs1 != 0 {
				s.CSR.Write(in.CSR, old&^value)
			}
		default:
			return trap(pc, ReasonIllegalInstruction)
		}
		regs.Set(in.Rd, old)
		return continueAt(pc + 4)

	default: // Illegal, or anything Decode does not produce
		return trap(pc, ReasonIllegalInstruction)
	}
}

func trap(pc uint32, reason Reason) Effect {
	return Effect{Kind: EffectTrap, NextPC: pc, Reason: reason}
}
