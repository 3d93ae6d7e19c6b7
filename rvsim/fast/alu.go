package fast

// 32 bit integer helpers, all with two's-complement wraparound.

// signExtend32 extends bit `bit` of v into all higher bits.
func signExtend32(v uint32, bit uint32) uint32 {
	switch v & (1 << bit) {
	case 0:
		// fill with zeroes, by masking
		return v & (^uint32(0) >> (31 - bit))
	default:
		// fill with ones, by or-ing
		return v | (^uint32(0) << bit)
	}
}

func slt32(x, y uint32) uint32 {
	if int32(x) < int32(y) {
		return 1
	}
	return 0
}

func lt32(x, y uint32) uint32 {
	if x < y {
		return 1
	}
	return 0
}

func shl32(shamt, v uint32) uint32 {
	return v << (shamt & 0x1F)
}

func shr32(shamt, v uint32) uint32 {
	return v >> (shamt & 0x1F)
}

func sar32(shamt, v uint32) uint32 {
	return uint32(int32(v) >> (shamt & 0x1F))
}
