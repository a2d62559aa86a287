// Package literal extracts literal prefixes from parsed patterns.
//
// The search driver uses them to skip offsets at which no match can begin:
// if every match of /(foo|bar)baz/ starts with "foobaz" or "barbaz", a
// multi-literal search finds the only offsets worth handing to the VM.
//
// Key concepts:
//   - A Literal is a string that a match starts with. It is Complete when
//     the match can be exactly that string.
//   - A Seq is a set of alternative literals. A non-nil Seq returned by
//     ExtractPrefixes is sound: every match begins with one of its members.
package literal

import (
	"sort"
	"strconv"
	"strings"
)

// Literal is a string extracted from a pattern.
//
// Example:
//   - Pattern /hello/ gives Literal{"hello", true}
//   - Pattern /hello.*world/ gives Literal{"hello", false}
type Literal struct {
	Text string

	// Complete reports that the pattern can match exactly Text. An
	// incomplete literal is only a prefix of some matches.
	Complete bool
}

// String returns the literal in a debugging form, e.g. "foo" or "foo"+.
func (l Literal) String() string {
	if l.Complete {
		return strconv.Quote(l.Text)
	}
	return strconv.Quote(l.Text) + "+"
}

// Seq is a set of alternative literals.
type Seq struct {
	lits []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{lits: append([]Literal(nil), lits...)}
}

// Len returns the number of literals. A nil sequence has length 0.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lits)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.lits[i]
}

// Texts returns the literal strings in order.
func (s *Seq) Texts() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.lits))
	for i, l := range s.lits {
		out[i] = l.Text
	}
	return out
}

// String returns the sequence in a debugging form, e.g. ["bar" "foo"+].
func (s *Seq) String() string {
	if s == nil {
		return "[inf]"
	}
	parts := make([]string, len(s.lits))
	for i, l := range s.lits {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Minimize removes every literal that has another member as a prefix.
// A match starting with "foobar" also starts with "foo", so keeping the
// shorter literal preserves soundness. A kept literal that covered a removed
// one is marked incomplete. The result is ordered by length, then bytes.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.Literal{Text: "foobar", Complete: true},
//	    literal.Literal{Text: "foo", Complete: true},
//	)
//	seq.Minimize()
//	// seq is now ["foo"+]
func (s *Seq) Minimize() {
	if s.Len() < 2 {
		return
	}
	sort.SliceStable(s.lits, func(i, j int) bool {
		a, b := s.lits[i].Text, s.lits[j].Text
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	kept := s.lits[:0]
outer:
	for _, l := range s.lits {
		for i := range kept {
			if strings.HasPrefix(l.Text, kept[i].Text) {
				if l.Text != kept[i].Text || !l.Complete {
					kept[i].Complete = false
				}
				continue outer
			}
		}
		kept = append(kept, l)
	}
	s.lits = kept
}

// LongestCommonPrefix returns the longest string every literal starts with.
// It is empty for an empty sequence.
func (s *Seq) LongestCommonPrefix() string {
	if s.Len() == 0 {
		return ""
	}
	prefix := s.lits[0].Text
	for _, l := range s.lits[1:] {
		n := 0
		for n < len(prefix) && n < len(l.Text) && prefix[n] == l.Text[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// SubstringFree reports whether no literal occurs inside another literal
// at any offset. Identical literals count as occurring inside each other.
func (s *Seq) SubstringFree() bool {
	for i, a := range s.lits {
		for j, b := range s.lits {
			if i != j && strings.Contains(a.Text, b.Text) {
				return false
			}
		}
	}
	return true
}

func (s *Seq) anyComplete() bool {
	for _, l := range s.lits {
		if l.Complete {
			return true
		}
	}
	return false
}

func (s *Seq) makeInexact() {
	for i := range s.lits {
		s.lits[i].Complete = false
	}
}
