package fast

// Format is the encoding family of a decoded instruction.
type Format uint8

const (
	FormatR Format = iota
	FormatI
	FormatS
	FormatB
	FormatU
	FormatJ
	FormatSystem
	FormatIllegal
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	case FormatSystem:
		return "SYSTEM"
	default:
		return "ILLEGAL"
	}
}

// Op identifies a single RV32I (+ Zicsr) operation.
type Op uint8

const (
	OpIllegal Op = iota

	OpLui
	OpAuipc
	OpJal
	OpJalr

	OpBeq
	OpBne
	OpBlt
	OpBge
	OpBltu
	OpBgeu

	OpLb
	OpLh
	OpLw
	OpLbu
	OpLhu

	OpSb
	OpSh
	OpSw

	OpAddi
	OpSlti
	OpSltiu
	OpXori
	OpOri
	OpAndi
	OpSlli
	OpSrli
	OpSrai

	OpAdd
	OpSub
	OpSll
	OpSlt
	OpSltu
	OpXor
	OpSrl
	OpSra
	OpOr
	OpAnd

	OpFence
	OpEcall
	OpEbreak

	OpCsrrw
	OpCsrrs
	OpCsrrc
	OpCsrrwi
	OpCsrrsi
	OpCsrrci

	opCount
)

var opNames = [opCount]string{
	OpIllegal: "illegal",
	OpLui:     "lui",
	OpAuipc:   "auipc",
	OpJal:     "jal",
	OpJalr:    "jalr",
	OpBeq:     "beq",
	OpBne:     "bne",
	OpBlt:     "blt",
	OpBge:     "bge",
	OpBltu:    "bltu",
	OpBgeu:    "bgeu",
	OpLb:      "lb",
	OpLh:      "lh",
	OpLw:      "lw",
	OpLbu:     "lbu",
	OpLhu:     "lhu",
	OpSb:      "sb",
	OpSh:      "sh",
	OpSw:      "sw",
	OpAddi:    "addi",
	OpSlti:    "slti",
	OpSltiu:   "sltiu",
	OpXori:    "xori",
	OpOri:     "ori",
	OpAndi:    "andi",
	OpSlli:    "slli",
	OpSrli:    "srli",
	OpSrai:    "srai",
	OpAdd:     "add",
	OpSub:     "sub",
	OpSll:     "sll",
	OpSlt:     "slt",
	OpSltu:    "sltu",
	OpXor:     "xor",
	OpSrl:     "srl",
	OpSra:     "sra",
	OpOr:      "or",
	OpAnd:     "and",
	OpFence:   "fence",
	OpEcall:   "ecall",
	OpEbreak:  "ebreak",
	OpCsrrw:   "csrrw",
	OpCsrrs:   "csrrs",
	OpCsrrc:   "csrrc",
	OpCsrrwi:  "csrrwi",
	OpCsrrsi:  "csrrsi",
	OpCsrrci:  "csrrci",
}

func (op Op) String() string {
	if op >= opCount {
		return "illegal"
	}
	return opNames[op]
}

// Instruction is a decoded instruction word. The concrete type is one of
// RType, IType, SType, BType, UType, JType, CSRType, System or Illegal.
type Instruction interface {
	Format() Format
	Operation() Op
	Raw() uint32
}

// RType: register-register ALU operations.
type RType struct {
	Op     Op
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8
	Word   uint32
}

// IType: immediate ALU operations, loads, JALR and FENCE.
type IType struct {
	Op     Op
	Rd     uint8
	Rs1    uint8
	Funct3 uint8
	Imm    int32 // sign-extended 12 bit
	Word   uint32
}

// Shamt is the shift amount of SLLI/SRLI/SRAI.
func (i IType) Shamt() uint32 {
	return uint32(i.Imm) & 0x1F
}

// CSRType: the Zicsr instructions. For the immediate forms Rs1 holds the 5 bit zimm.
type CSRType struct {
	Op     Op
	Rd     uint8
	Rs1    uint8
	Funct3 uint8
	CSR    uint16
	Word   uint32
}

// Immediate returns whether Rs1 is an unsigned immediate rather than a register index.
func (c CSRType) Immediate() bool {
	return c.Funct3&4 != 0
}

// SType: stores.
type SType struct {
	Op     Op
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Imm    int32 // sign-extended 12 bit
	Word   uint32
}

// BType: conditional branches.
type BType struct {
	Op     Op
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Imm    int32 // sign-extended 13 bit, bit 0 is always zero
	Word   uint32
}

// UType: LUI and AUIPC.
type UType struct {
	Op   Op
	Rd   uint8
	Imm  uint32 // upper 20 bits, low 12 bits zero
	Word uint32
}

// JType: JAL.
type JType struct {
	Op   Op
	Rd   uint8
	Imm  int32 // sign-extended 21 bit, bit 0 is always zero
	Word uint32
}

// System: ECALL and EBREAK.
type System struct {
	Op   Op
	Word uint32
}

// Illegal carries a word that is not a defined RV32I instruction.
type Illegal struct {
	Word uint32
}

func (i RType) Format() Format   { return FormatR }
func (i IType) Format() Format   { return FormatI }
func (i CSRType) Format() Format { return FormatSystem }
func (i SType) Format() Format   { return FormatS }
func (i BType) Format() Format   { return FormatB }
func (i UType) Format() Format   { return FormatU }
func (i JType) Format() Format   { return FormatJ }
func (i System) Format() Format  { return FormatSystem }
func (i Illegal) Format() Format { return FormatIllegal }

func (i RType) Operation() Op   { return i.Op }
func (i IType) Operation() Op   { return i.Op }
func (i CSRType) Operation() Op { return i.Op }
func (i SType) Operation() Op   { return i.Op }
func (i BType) Operation() Op   { return i.Op }
func (i UType) Operation() Op   { return i.Op }
func (i JType) Operation() Op   { return i.Op }
func (i System) Operation() Op  { return i.Op }
func (i Illegal) Operation() Op { return OpIllegal }

func (i RType) Raw() uint32   { return i.Word }
func (i IType) Raw() uint32   { return i.Word }
func (i CSRType) Raw() uint32 { return i.Word }
func (i SType) Raw() uint32   { return i.Word }
func (i BType) Raw() uint32   { return i.Word }
func (i UType) Raw() uint32   { return i.Word }
func (i JType) Raw() uint32   { return i.Word }
func (i System) Raw() uint32  { return i.Word }
func (i Illegal) Raw() uint32 { return i.Word }
