package fast

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

// buildELF32 assembles a little-endian RISC-V ELF32 executable with a single PT_LOAD
// segment holding code at vaddr, followed by bss zero bytes.
func buildELF32(t *testing.T, class elf.Class, entry, vaddr uint32, code []uint32, bss uint32) *elf.File {
	t.Helper()
	const ehsize, phentsize = 52, 32
	var seg bytes.Buffer
	for _, w := range code {
		require.NoError(t, binary.Write(&seg, binary.LittleEndian, w))
	}
	hdr := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_RISCV),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Phoff:     ehsize,
		Ehsize:    ehsize,
		Phentsize: phentsize,
		Phnum:     2,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(class)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	progs := []elf.Prog32{
		{
			Type:   uint32(elf.PT_LOAD),
			Off:    ehsize + 2*phentsize,
			Vaddr:  vaddr,
			Paddr:  vaddr,
			Filesz: uint32(seg.Len()),
			Memsz:  uint32(seg.Len()) + bss,
			Flags:  uint32(elf.PF_R | elf.PF_X),
			Align:  4,
		},
		{Type: 0x70000003}, // .riscv.attributes
	}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, hdr))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, progs))
	buf.Write(seg.Bytes())
	f, err := elf.NewFile(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return f
}

func TestLoadELF(t *testing.T) {
	t.Run("segments and entry", func(t *testing.T) {
		f := buildELF32(t, elf.ELFCLASS32, 0x24, 0x20, []uint32{0x00100093, riscv.InsnEcall, 0x00200113}, 8)
		s, err := LoadELF(f, 0x100, testLogger(nil))
		require.NoError(t, err)
		require.Equal(t, uint32(0x24), s.PC)
		require.Equal(t, uint32(0x00100093), s.Memory.Get32(0x20))
		require.Equal(t, uint32(riscv.InsnEcall), s.Memory.Get32(0x24))
		require.Equal(t, uint32(0), s.Memory.Get32(0x2C), "bss is zeroed")
		require.Equal(t, uint32(0), s.Memory.Get32(0x30), "bss is zeroed")
		require.Equal(t, uint32(0xA5A5A5A5), s.Memory.Get32(0x34))
		require.Equal(t, uint32(riscv.RegisterPoison), s.Registers.Get(1))
	})
	t.Run("segment past memory", func(t *testing.T) {
		f := buildELF32(t, elf.ELFCLASS32, 0xF8, 0xF8, []uint32{0x00100093, riscv.InsnEcall}, 4)
		_, err := LoadELF(f, 0x100, testLogger(nil))
		require.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestMetadataLookupSymbol(t *testing.T) {
	meta := &Metadata{Symbols: []Symbol{
		{Name: "_start", Start: 0x10, Size: 0},
		{Name: "main", Start: 0x20, Size: 0x10},
		{Name: "exit", Start: 0x40, Size: 0x8},
	}}
	require.Equal(t, "!start", meta.LookupSymbol(0x4))
	require.Equal(t, "_start", meta.LookupSymbol(0x10))
	require.Equal(t, "!gap", meta.LookupSymbol(0x14))
	require.Equal(t, "main", meta.LookupSymbol(0x2C))
	require.Equal(t, "!gap", meta.LookupSymbol(0x38))
	require.Equal(t, "exit", meta.LookupSymbol(0x44))

	var empty *Metadata
	require.Equal(t, "!unknown", empty.LookupSymbol(0))
}

func TestMemorySetMemoryRange(t *testing.T) {
	m := NewMemory(16, testLogger(nil))
	require.NoError(t, m.SetMemoryRange(12, bytes.NewReader([]byte{1, 2, 3, 4})))
	require.Equal(t, uint32(0x04030201), m.Get32(12))
	require.ErrorIs(t, m.SetMemoryRange(14, bytes.NewReader([]byte{1, 2, 3})), ErrFileTooLarge)
	require.ErrorIs(t, m.SetMemoryRange(17, bytes.NewReader(nil)), ErrFileTooLarge)
	require.NoError(t, m.SetMemoryRange(16, bytes.NewReader(nil)))
}
