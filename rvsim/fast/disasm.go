package fast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const mnemonicWidth = 8

func regName(r uint8) string {
	return "x" + strconv.Itoa(int(r))
}

func render(mnemonic string, operands ...string) string {
	if len(operands) == 0 {
		return mnemonic
	}
	return fmt.Sprintf("%-*s%s", mnemonicWidth, mnemonic, strings.Join(operands, ","))
}

func offsetOperand(imm int32, base uint8) string {
	return fmt.Sprintf("%d(%s)", imm, regName(base))
}

// Disassemble renders insn, located at pc, as a single line of assembly.
// Branch and jump targets are absolute addresses.
func Disassemble(pc uint32, insn Instruction) string {
	mnemonic := insn.Operation().String()
	switch in := insn.(type) {
	case RType:
		return render(mnemonic, regName(in.Rd), regName(in.Rs1), regName(in.Rs2))
	case IType:
		switch in.Op {
		case OpLb, OpLh, OpLw, OpLbu, OpLhu, OpJalr:
			return render(mnemonic, regName(in.Rd), offsetOperand(in.Imm, in.Rs1))
		case OpSlli, OpSrli, OpSrai:
			return render(mnemonic, regName(in.Rd), regName(in.Rs1), strconv.Itoa(int(in.Shamt())))
		case OpFence:
			return render(mnemonic)
		default:
			return render(mnemonic, regName(in.Rd), regName(in.Rs1), strconv.Itoa(int(in.Imm)))
		}
	case SType:
		return render(mnemonic, regName(in.Rs2), offsetOperand(in.Imm, in.Rs1))
	case BType:
		return render(mnemonic, regName(in.Rs1), regName(in.Rs2), ToHex0x32(pc+uint32(in.Imm)))
	case UType:
		return render(mnemonic, regName(in.Rd), ToHex0x20(in.Imm>>12))
	case JType:
		return render(mnemonic, regName(in.Rd), ToHex0x32(pc+uint32(in.Imm)))
	case CSRType:
		src := regName(in.Rs1)
		if in.Immediate() {
			src = strconv.Itoa(int(in.Rs1))
		}
		return render(mnemonic, regName(in.Rd), ToHex0x12(uint32(in.CSR)), src)
	case System:
		return render(mnemonic)
	default:
		return "ERROR: UNIMPLEMENTED INSTRUCTION"
	}
}

// DisassembleMemory writes one line per word of memory: address, raw word and assembly.
func DisassembleMemory(w io.Writer, mem *Memory) error {
	for addr := uint32(0); mem.Contains(addr, 4); addr += 4 {
		instr := mem.Get32(addr)
		if _, err := fmt.Fprintf(w, "%s: %s  %s\n", ToHex32(addr), ToHex32(instr), Disassemble(addr, Decode(instr))); err != nil {
			return err
		}
	}
	return nil
}
