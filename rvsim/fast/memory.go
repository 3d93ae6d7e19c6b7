package fast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

var (
	ErrFileUnreadable = errors.New("file unreadable")
	ErrFileTooLarge   = errors.New("file too large for memory")
)

// Memory is a flat little-endian byte array of fixed capacity.
// Accesses outside of the capacity never panic: they are logged,
// reads of missing bytes return zero and writes to them are dropped.
type Memory struct {
	data []byte
	log  log.Logger
}

// NewMemory allocates size bytes, rounded up to the next multiple of 16,
// all set to the uninitialized-memory sentinel.
func NewMemory(size uint32, logger log.Logger) *Memory {
	n := (uint64(size) + 15) &^ 15
	if n > 1<<32-16 {
		n = 1<<32 - 16
	}
	data := make([]byte, n)
	for i := range data {
		data[i] = riscv.MemorySentinel
	}
	return &Memory{data: data, log: logger}
}

func (m *Memory) SetLogger(logger log.Logger) {
	m.log = logger
}

func (m *Memory) logger() log.Logger {
	if m.log == nil {
		return log.Root()
	}
	return m.log
}

func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// Contains returns whether all n bytes starting at addr are within memory.
func (m *Memory) Contains(addr uint32, n uint32) bool {
	return uint64(addr)+uint64(n) <= uint64(len(m.data))
}

// load composes an n-byte little-endian value from sequential byte reads.
func (m *Memory) load(addr uint32, n uint32) uint32 {
	if !m.Contains(addr, n) {
		m.logger().Warn("Address out of range", "addr", ToHex0x32(addr), "size", n)
	}
	var out uint32
	for i := uint32(0); i < n; i++ {
		a := uint64(addr) + uint64(i)
		if a < uint64(len(m.data)) {
			out |= uint32(m.data[a]) << (8 * i)
		}
	}
	return out
}

func (m *Memory) store(addr uint32, n uint32, v uint32) {
	if !m.Contains(addr, n) {
		m.logger().Warn("Address out of range", "addr", ToHex0x32(addr), "size", n)
	}
	for i := uint32(0); i < n; i++ {
		a := uint64(addr) + uint64(i)
		if a < uint64(len(m.data)) {
			m.data[a] = uint8(v >> (8 * i))
		}
	}
}

func (m *Memory) Get8(addr uint32) uint8 {
	return uint8(m.load(addr, 1))
}

func (m *Memory) Get16(addr uint32) uint16 {
	return uint16(m.load(addr, 2))
}

func (m *Memory) Get32(addr uint32) uint32 {
	return m.load(addr, 4)
}

func (m *Memory) Get8SX(addr uint32) uint32 {
	return signExtend32(uint32(m.Get8(addr)), 7)
}

func (m *Memory) Get16SX(addr uint32) uint32 {
	return signExtend32(uint32(m.Get16(addr)), 15)
}

// Get32SX is Get32: a full word has nothing left to extend into.
func (m *Memory) Get32SX(addr uint32) uint32 {
	return m.Get32(addr)
}

func (m *Memory) Set8(addr uint32, v uint8) {
	m.store(addr, 1, uint32(v))
}

func (m *Memory) Set16(addr uint32, v uint16) {
	m.store(addr, 2, uint32(v))
}

func (m *Memory) Set32(addr uint32, v uint32) {
	m.store(addr, 4, v)
}

// LoadImage copies the contents of r into the low bytes of memory.
// Memory is left untouched if the image does not fit.
func (m *Memory) LoadImage(r io.Reader) error {
	dat, err := io.ReadAll(io.LimitReader(r, int64(len(m.data))+1))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	if len(dat) > len(m.data) {
		return fmt.Errorf("%w: image exceeds %d bytes", ErrFileTooLarge, len(m.data))
	}
	copy(m.data, dat)
	return nil
}

// SetMemoryRange copies r into memory starting at addr, until r is exhausted.
// Data that would not fit is an error, the in-range part is still written.
func (m *Memory) SetMemoryRange(addr uint32, r io.Reader) error {
	if uint64(addr) > uint64(len(m.data)) {
		return fmt.Errorf("%w: range start %s is past the end of memory", ErrFileTooLarge, ToHex0x32(addr))
	}
	n, err := io.ReadFull(r, m.data[addr:])
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	// memory is full: anything left in r does not fit
	var extra [1]byte
	if k, _ := r.Read(extra[:]); k > 0 {
		return fmt.Errorf("%w: range at %s exceeds %d bytes", ErrFileTooLarge, ToHex0x32(addr), n)
	}
	return nil
}

// LoadFile loads a raw flat binary into memory, starting at address 0.
func (m *Memory) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.Size() > int64(len(m.data)) {
		return fmt.Errorf("%w: %q is %d bytes, memory is %d bytes", ErrFileTooLarge, path, info.Size(), len(m.data))
	}
	if err := m.LoadImage(f); err != nil {
		return fmt.Errorf("failed to load %q: %w", path, err)
	}
	return nil
}

// Dump writes the memory contents as hex and ASCII, 16 bytes per line.
func (m *Memory) Dump(w io.Writer) error {
	var sb strings.Builder
	for base := 0; base < len(m.data); base += 16 {
		sb.Reset()
		sb.WriteString(ToHex32(uint32(base)))
		sb.WriteString(": ")
		for i := 0; i < 16; i++ {
			sb.WriteString(ToHex8(m.data[base+i]))
			sb.WriteByte(' ')
			if i == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('*')
		for i := 0; i < 16; i++ {
			c := m.data[base+i]
			if c < 0x20 || c > 0x7E {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteString("*\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

type memoryJSON struct {
	Size uint32        `json:"size"`
	Data hexutil.Bytes `json:"data"`
}

func (m *Memory) MarshalJSON() ([]byte, error) {
	return json.Marshal(memoryJSON{Size: m.Size(), Data: m.data})
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var v memoryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if uint32(len(v.Data)) != v.Size {
		return fmt.Errorf("memory size %d does not match data length %d", v.Size, len(v.Data))
	}
	if v.Size%16 != 0 {
		return fmt.Errorf("memory size %d is not a multiple of 16", v.Size)
	}
	m.data = v.Data
	return nil
}
