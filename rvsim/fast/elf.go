package fast

import (
	"bytes"
	"cmp"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/exp/slices"
)

// LoadELF creates a hart with memSize bytes of memory holding the loadable segments of f.
// Segments are placed at their virtual address; the PC starts at the ELF entry point.
func LoadELF(f *elf.File, memSize uint32, logger log.Logger) (*VMState, error) {
	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("ELF is not 32 bit, but got %s", f.Class)
	}
	if f.Entry > 0xFFFF_FFFF {
		return nil, fmt.Errorf("entry point %x exceeds the 32 bit address space", f.Entry)
	}
	out := NewVMState(memSize, logger)
	out.PC = uint32(f.Entry)

	for i, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			// .riscv.attributes (0x70000003), notes, GNU_STACK etc. occupy no memory
			continue
		}
		if prog.Filesz > prog.Memsz {
			return nil, fmt.Errorf("invalid PT_LOAD program segment %d, file size (%d) > mem size (%d)", i, prog.Filesz, prog.Memsz)
		}
		if prog.Vaddr+prog.Memsz > uint64(out.Memory.Size()) {
			return nil, fmt.Errorf("%w: program segment %d at %x-%x does not fit in %d bytes of memory",
				ErrFileTooLarge, i, prog.Vaddr, prog.Vaddr+prog.Memsz, out.Memory.Size())
		}
		r := io.Reader(io.NewSectionReader(prog, 0, int64(prog.Filesz)))
		if prog.Filesz < prog.Memsz {
			// .bss
			r = io.MultiReader(r, bytes.NewReader(make([]byte, prog.Memsz-prog.Filesz)))
		}
		if err := out.Memory.SetMemoryRange(uint32(prog.Vaddr), r); err != nil {
			return nil, fmt.Errorf("failed to read program segment %d: %w", i, err)
		}
	}
	return out, nil
}

type Symbol struct {
	Name  string `json:"name"`
	Start uint32 `json:"start"`
	Size  uint32 `json:"size"`
}

// Metadata holds the ELF symbols, sorted by start address, to name addresses in logs.
type Metadata struct {
	Symbols []Symbol `json:"symbols"`
}

// MakeMetadata collects the symbols of f. An ELF without a symbol table gives empty metadata.
func MakeMetadata(f *elf.File) (*Metadata, error) {
	syms, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return &Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read symbols data: %w", err)
	}
	out := &Metadata{Symbols: make([]Symbol, 0, len(syms))}
	for _, s := range syms {
		if s.Name == "" || s.Value > 0xFFFF_FFFF {
			continue
		}
		out.Symbols = append(out.Symbols, Symbol{Name: s.Name, Start: uint32(s.Value), Size: uint32(s.Size)})
	}
	// not every ELF has sorted symbols
	slices.SortFunc(out.Symbols, func(a, b Symbol) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out, nil
}

// LookupSymbol returns the name of the symbol that contains addr.
func (m *Metadata) LookupSymbol(addr uint32) string {
	if m == nil || len(m.Symbols) == 0 {
		return "!unknown"
	}
	// find first symbol with higher start. Or n if no such symbol exists
	i := sort.Search(len(m.Symbols), func(i int) bool {
		return m.Symbols[i].Start > addr
	})
	if i == 0 {
		return "!start"
	}
	out := &m.Symbols[i-1]
	if uint64(out.Start)+uint64(out.Size) < uint64(addr) { // addr may be pointing to a gap between symbols
		return "!gap"
	}
	return out.Name
}
