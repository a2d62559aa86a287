// Package scan provides the byte search primitives used to find candidate
// match starts in a subject.
//
// On CPUs where the runtime's vectorized byte search is available, long
// inputs are handed to it. Short inputs, and every input on other CPUs, use a
// SWAR (SIMD within a register) loop that tests eight bytes per step.
package scan

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// vectorMin is the shortest input worth handing to the vectorized search.
const vectorMin = 32

var vectorized = cpu.X86.HasAVX2 || cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

// IndexByte returns the index of the first c in haystack, or -1.
func IndexByte(haystack []byte, c byte) int {
	if vectorized && len(haystack) >= vectorMin {
		return bytes.IndexByte(haystack, c)
	}
	return indexByteSWAR(haystack, c)
}

// Index returns the index of the first occurrence of needle in haystack, or
// -1. An empty needle matches at 0.
//
// Candidates are located by searching for the needle's rarest byte and then
// verified in full.
func Index(haystack, needle []byte) int {
	n := len(needle)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return IndexByte(haystack, needle[0])
	case n > len(haystack):
		return -1
	}

	rare, off := RareByte(needle)
	from := off
	for from < len(haystack) {
		i := IndexByte(haystack[from:], rare)
		if i < 0 {
			return -1
		}
		start := from + i - off
		if start+n > len(haystack) {
			return -1
		}
		if bytes.Equal(haystack[start:start+n], needle) {
			return start
		}
		from += i + 1
	}
	return -1
}
