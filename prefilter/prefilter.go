// Package prefilter finds candidate match starts in a subject before the
// backtracking VM is run.
//
// A prefilter is built from a prefix literal set: every match of the pattern
// begins with one of the literals, so every offset where none of them occurs
// can be skipped. The VM still verifies each candidate, which keeps capture
// groups and lookaround exact.
//
// The package selects the strategy from the literal set:
//   - Single byte: Memchr
//   - Single substring: Memmem (rare byte search plus verification)
//   - Several literals, none inside another: Aho-Corasick
//   - Several literals with a common prefix: Memmem on the prefix
//
// Example usage:
//
//	tree, _ := syntax.Parse(`(hello|world)\d`)
//	pf := prefilter.New(literal.New(literal.DefaultConfig()).ExtractPrefixes(tree))
//	pos := pf.Find([]byte("say hello1"), 0)
//	// pos == 4
package prefilter

import (
	"strconv"

	"github.com/coregx/btregex/internal/scan"
	"github.com/coregx/btregex/literal"
)

// Prefilter reports candidate match starts.
type Prefilter interface {
	// Find returns the smallest offset at or after start at which one of
	// the literals occurs, or -1 if there is none. A returned offset is
	// only a candidate: the caller must verify the match.
	//
	// Example:
	//
	//	pos := pf.Find(haystack, 0)
	//	for pos != -1 {
	//	    if fullMatchAt(haystack, pos) {
	//	        return pos
	//	    }
	//	    pos = pf.Find(haystack, pos+1)
	//	}
	Find(haystack []byte, start int) int

	// String names the strategy for diagnostics.
	String() string
}

// New returns the best prefilter for seq, or nil if seq cannot prune any
// offset. seq must be sound, as returned by literal.Extractor.ExtractPrefixes.
func New(seq *literal.Seq) Prefilter {
	if seq.Len() == 0 {
		return nil
	}
	if seq.Len() == 1 {
		return NewLiteral(seq.Get(0).Text)
	}
	// The leftmost occurrence of any member is the leftmost candidate only
	// when no member can end inside a longer one.
	if seq.SubstringFree() {
		if pf := newAhoCorasick(seq); pf != nil {
			return pf
		}
	}
	if lcp := seq.LongestCommonPrefix(); lcp != "" {
		return NewLiteral(lcp)
	}
	return nil
}

// NewLiteral returns a prefilter for a single literal, or nil if it is
// empty.
func NewLiteral(lit string) Prefilter {
	switch len(lit) {
	case 0:
		return nil
	case 1:
		return &memchrPrefilter{needle: lit[0]}
	}
	return &memmemPrefilter{needle: []byte(lit)}
}

// memchrPrefilter searches for a single byte.
//
// Example patterns:
//
//	/a.*/     → search for 'a'
//	/a\d+/    → search for 'a'
type memchrPrefilter struct {
	needle byte
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := scan.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) String() string {
	return "memchr(" + strconv.Quote(string([]byte{p.needle})) + ")"
}

// memmemPrefilter searches for a single substring.
//
// Example patterns:
//
//	/hello/        → search for "hello"
//	/foo|foobar/   → after minimization, search for "foo"
//	/foo(bar|baz)/ → two literals with common prefix "fooba"
type memmemPrefilter struct {
	needle []byte
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := scan.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) String() string {
	return "memmem(" + strconv.Quote(string(p.needle)) + ")"
}
