package riscv

// Major opcodes, bits [6:0] of every 32-bit instruction.
const (
	OpcodeLoad   = 0x03 // 000_0011
	OpcodeFence  = 0x0F // 000_1111
	OpcodeOpImm  = 0x13 // 001_0011
	OpcodeAuipc  = 0x17 // 001_0111
	OpcodeStore  = 0x23 // 010_0011
	OpcodeOp     = 0x33 // 011_0011
	OpcodeLui    = 0x37 // 011_0111
	OpcodeBranch = 0x63 // 110_0011
	OpcodeJalr   = 0x67 // 110_0111
	OpcodeJal    = 0x6F // 110_1111
	OpcodeSystem = 0x73 // 111_0011
)

const (
	Funct3Beq  = 0b000
	Funct3Bne  = 0b001
	Funct3Blt  = 0b100
	Funct3Bge  = 0b101
	Funct3Bltu = 0b110
	Funct3Bgeu = 0b111

	Funct3Lb  = 0b000
	Funct3Lh  = 0b001
	Funct3Lw  = 0b010
	Funct3Lbu = 0b100
	Funct3Lhu = 0b101

	Funct3Sb = 0b000
	Funct3Sh = 0b001
	Funct3Sw = 0b010

	Funct3Add  = 0b000
	Funct3Sll  = 0b001
	Funct3Slt  = 0b010
	Funct3Sltu = 0b011
	Funct3Xor  = 0b100
	Funct3Srx  = 0b101
	Funct3Or   = 0b110
	Funct3And  = 0b111

	Funct3Priv   = 0b000
	Funct3Csrrw  = 0b001
	Funct3Csrrs  = 0b010
	Funct3Csrrc  = 0b011
	Funct3Csrrwi = 0b101
	Funct3Csrrsi = 0b110
	Funct3Csrrci = 0b111

	Funct3Fence = 0b000
)

const (
	Funct7Base = 0b0000000 // ADD, SRL, SLL, ...
	Funct7Alt  = 0b0100000 // SUB, SRA
)

// Full instruction words of the two environment instructions.
const (
	InsnEcall  = 0x00000073
	InsnEbreak = 0x00100073
)

// Machine-level CSR addresses understood by the CSR pass-through.
const (
	CsrMstatus   = 0x300
	CsrMisa      = 0x301
	CsrMie       = 0x304
	CsrMtvec     = 0x305
	CsrMscratch  = 0x340
	CsrMepc      = 0x341
	CsrMcause    = 0x342
	CsrMtval     = 0x343
	CsrMip       = 0x344
	CsrCycle     = 0xC00
	CsrInstret   = 0xC02
	CsrCycleh    = 0xC80
	CsrInstreth  = 0xC82
	CsrMvendorid = 0xF11
	CsrMarchid   = 0xF12
	CsrMimpid    = 0xF13
	CsrMhartid   = 0xF14

	// MisaRV32I is MXL=1 (32 bit) with only the I extension bit set.
	MisaRV32I = 0x40000100
)

const (
	// MemorySentinel fills fresh memory so reads of uninitialized bytes stand out.
	MemorySentinel = 0xA5
	// RegisterPoison is written to x1..x31 on reset.
	RegisterPoison = 0xF0F0F0F0
	// DefaultMemorySize is the memory size used when none is configured.
	DefaultMemorySize = 0x100
)
