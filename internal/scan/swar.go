package scan

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// indexByteSWAR broadcasts c into every byte of a word and uses the
// zero-byte test (v - lo8) & ^v & hi8 on word^broadcast. The lowest set bit
// marks the first matching byte, because words are assembled little-endian.
func indexByteSWAR(haystack []byte, c byte) int {
	i := 0
	if len(haystack) >= 8 {
		mask := uint64(c) * lo8
		for ; i+8 <= len(haystack); i += 8 {
			v := binary.LittleEndian.Uint64(haystack[i:]) ^ mask
			if z := (v - lo8) & ^v & hi8; z != 0 {
				return i + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == c {
			return i
		}
	}
	return -1
}
