package fast

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/rv32sim/rvsim/riscv"
)

func TestNewMemory(t *testing.T) {
	t.Run("rounds up to 16", func(t *testing.T) {
		require.Equal(t, uint32(0x100), NewMemory(0x100, nil).Size())
		require.Equal(t, uint32(0x110), NewMemory(0x101, nil).Size())
		require.Equal(t, uint32(16), NewMemory(1, nil).Size())
		require.Equal(t, uint32(0), NewMemory(0, nil).Size())
	})
	t.Run("sentinel filled", func(t *testing.T) {
		m := NewMemory(64, nil)
		for addr := uint32(0); addr < m.Size(); addr++ {
			require.Equal(t, uint8(riscv.MemorySentinel), m.Get8(addr))
		}
		require.Equal(t, uint32(0xA5A5A5A5), m.Get32(0x10))
	})
}

func TestMemoryReadWrite(t *testing.T) {
	t.Run("little endian", func(t *testing.T) {
		m := NewMemory(32, testLogger(nil))
		m.Set32(4, 0x11223344)
		require.Equal(t, uint8(0x44), m.Get8(4))
		require.Equal(t, uint8(0x11), m.Get8(7))
		require.Equal(t, uint16(0x3344), m.Get16(4))
		require.Equal(t, uint16(0x1122), m.Get16(6))
		require.Equal(t, uint32(0x11223344), m.Get32(4))
	})
	t.Run("unaligned", func(t *testing.T) {
		m := NewMemory(32, testLogger(nil))
		m.Set32(5, 0xdeadbeef)
		require.Equal(t, uint32(0xdeadbeef), m.Get32(5))
		require.Equal(t, uint16(0xadbe), m.Get16(6))
		m.Set16(1, 0xcafe)
		require.Equal(t, uint16(0xcafe), m.Get16(1))
	})
	t.Run("sign extension", func(t *testing.T) {
		m := NewMemory(16, testLogger(nil))
		m.Set8(0, 0x80)
		m.Set8(1, 0x7F)
		m.Set16(2, 0x8001)
		m.Set16(4, 0x7FFF)
		m.Set32(8, 0x80000000)
		require.Equal(t, uint32(0xFFFFFF80), m.Get8SX(0))
		require.Equal(t, uint32(0x7F), m.Get8SX(1))
		require.Equal(t, uint32(0xFFFF8001), m.Get16SX(2))
		require.Equal(t, uint32(0x7FFF), m.Get16SX(4))
		require.Equal(t, uint32(0x80000000), m.Get32SX(8))
	})
	t.Run("out of range", func(t *testing.T) {
		var logs bytes.Buffer
		m := NewMemory(16, testLogger(&logs))
		require.Equal(t, uint8(0), m.Get8(16))
		require.Equal(t, uint32(0), m.Get32(0xFFFFFFFC))
		require.Contains(t, logs.String(), "Address out of range")

		m.Set32(16, 0x12345678) // dropped
		require.Equal(t, uint32(0), m.Get32(16))
	})
	t.Run("straddling the end", func(t *testing.T) {
		m := NewMemory(16, testLogger(nil))
		m.Set32(12, 0x01020304)
		m.Set32(14, 0xAABBCCDD) // only the low two bytes land
		require.Equal(t, uint32(0xCCDD0304), m.Get32(12))
		require.Equal(t, uint32(0x0000CCDD), m.Get32(14))
	})
	t.Run("address wraparound does not alias", func(t *testing.T) {
		m := NewMemory(16, testLogger(nil))
		m.Set32(0, 0x04030201)
		require.Equal(t, uint32(0), m.Get32(0xFFFFFFFE))
		require.False(t, m.Contains(0xFFFFFFFE, 4))
	})
}

func TestMemoryLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("image", func(t *testing.T) {
		path := filepath.Join(dir, "prog.bin")
		require.NoError(t, os.WriteFile(path, []byte{0x93, 0x00, 0x10, 0x00}, 0o644))
		m := NewMemory(0x100, testLogger(nil))
		require.NoError(t, m.LoadFile(path))
		require.Equal(t, uint32(0x00100093), m.Get32(0))
		require.Equal(t, uint8(riscv.MemorySentinel), m.Get8(4), "bytes past the image keep the sentinel")
	})
	t.Run("exactly full", func(t *testing.T) {
		path := filepath.Join(dir, "full.bin")
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{1}, 32), 0o644))
		m := NewMemory(32, testLogger(nil))
		require.NoError(t, m.LoadFile(path))
		require.Equal(t, uint8(1), m.Get8(31))
	})
	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "big.bin")
		require.NoError(t, os.WriteFile(path, make([]byte, 0x101), 0o644))
		m := NewMemory(0x100, testLogger(nil))
		err := m.LoadFile(path)
		require.ErrorIs(t, err, ErrFileTooLarge)
	})
	t.Run("missing", func(t *testing.T) {
		m := NewMemory(0x100, testLogger(nil))
		err := m.LoadFile(filepath.Join(dir, "does-not-exist.bin"))
		require.ErrorIs(t, err, ErrFileUnreadable)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("reader too large", func(t *testing.T) {
		m := NewMemory(16, testLogger(nil))
		err := m.LoadImage(bytes.NewReader(make([]byte, 17)))
		require.ErrorIs(t, err, ErrFileTooLarge)
		require.Equal(t, uint8(riscv.MemorySentinel), m.Get8(0), "memory untouched")
	})
}

func TestMemoryDump(t *testing.T) {
	m := NewMemory(32, testLogger(nil))
	copy(m.data, "Hello, RISC-V!\x00\x7F")
	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "00000000: 48 65 6C 6C 6F 2C 20 52  49 53 43 2D 56 21 00 7F *Hello, RISC-V!..*", lines[0])
	require.Equal(t, "00000010: A5 A5 A5 A5 A5 A5 A5 A5  A5 A5 A5 A5 A5 A5 A5 A5 *................*", lines[1])
}

func TestMemoryJSON(t *testing.T) {
	m := NewMemory(32, testLogger(nil))
	m.Set32(8, 0xcafebabe)
	dat, err := json.Marshal(m)
	require.NoError(t, err)

	var m2 Memory
	require.NoError(t, json.Unmarshal(dat, &m2))
	require.Equal(t, m.data, m2.data)
	require.Equal(t, uint32(0xcafebabe), m2.Get32(8))

	t.Run("size mismatch", func(t *testing.T) {
		var m3 Memory
		err := json.Unmarshal([]byte(`{"size":32,"data":"0x0011"}`), &m3)
		require.ErrorContains(t, err, "does not match")
	})
	t.Run("not a multiple of 16", func(t *testing.T) {
		var m3 Memory
		err := json.Unmarshal([]byte(`{"size":2,"data":"0x0011"}`), &m3)
		require.ErrorContains(t, err, "multiple of 16")
	})
}
