package fast

import "fmt"

// ToHex8 formats a byte as 2 uppercase hex digits.
func ToHex8(v uint8) string {
	return fmt.Sprintf("%02X", v)
}

// ToHex32 formats a word as 8 uppercase hex digits.
func ToHex32(v uint32) string {
	return fmt.Sprintf("%08X", v)
}

// ToHex0x32 formats a word as 0x followed by 8 uppercase hex digits.
func ToHex0x32(v uint32) string {
	return "0x" + ToHex32(v)
}

// ToHex0x20 formats the low 20 bits of v as 0x followed by 5 hex digits.
func ToHex0x20(v uint32) string {
	return fmt.Sprintf("0x%05X", v&0xFFFFF)
}

// ToHex0x12 formats the low 12 bits of v as 0x followed by 3 hex digits.
func ToHex0x12(v uint32) string {
	return fmt.Sprintf("0x%03X", v&0xFFF)
}
