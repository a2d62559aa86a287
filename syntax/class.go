package syntax

import (
	"fmt"
	"strings"
)

// Shorthand is one of the escape classes \d \D \w \W \s \S.
type Shorthand uint8

const (
	Digit Shorthand = iota
	NotDigit
	Word
	NotWord
	Space
	NotSpace
)

// String returns the escape that spells the shorthand.
func (s Shorthand) String() string {
	switch s {
	case Digit:
		return `\d`
	case NotDigit:
		return `\D`
	case Word:
		return `\w`
	case NotWord:
		return `\W`
	case Space:
		return `\s`
	case NotSpace:
		return `\S`
	default:
		return fmt.Sprintf(`\?%d`, uint8(s))
	}
}

// Matches reports whether r belongs to the shorthand class.
// All shorthand classes are ASCII-only.
func (s Shorthand) Matches(r rune) bool {
	switch s {
	case Digit:
		return isDigit(r)
	case NotDigit:
		return !isDigit(r)
	case Word:
		return IsWordChar(r)
	case NotWord:
		return !IsWordChar(r)
	case Space:
		return isSpace(r)
	case NotSpace:
		return !isSpace(r)
	}
	return false
}

// ShorthandClass matches one rune of a shorthand class.
type ShorthandClass struct {
	Kind Shorthand
}

func (n *ShorthandClass) Type() NodeType { return NodeShorthand }

func (n *ShorthandClass) String() string { return "short{" + n.Kind.String() + "}" }

// RuneRange is an inclusive range of runes. A range with Lo > Hi is empty.
type RuneRange struct {
	Lo, Hi rune
}

// Class matches one rune from a set of ranges and shorthand classes,
// or one rune outside it when Negated.
type Class struct {
	Ranges  []RuneRange
	Sets    []Shorthand
	Negated bool
}

func (n *Class) Type() NodeType { return NodeClass }

func (n *Class) String() string {
	var b strings.Builder
	b.WriteString("class{")
	if n.Negated {
		b.WriteByte('^')
	}
	for _, r := range n.Ranges {
		if r.Lo == r.Hi {
			fmt.Fprintf(&b, "%q", r.Lo)
		} else {
			fmt.Fprintf(&b, "%q-%q", r.Lo, r.Hi)
		}
	}
	for _, s := range n.Sets {
		b.WriteString(s.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Matches reports whether r is accepted by the class. With fold set the set
// membership test also accepts the other ASCII case of r; negation applies
// after folding, so (?i:[^a]) rejects both 'a' and 'A'.
func (n *Class) Matches(r rune, fold bool) bool {
	in := n.contains(r)
	if !in && fold {
		if o := SwapCaseASCII(r); o != r {
			in = n.contains(o)
		}
	}
	return in != n.Negated
}

func (n *Class) contains(r rune) bool {
	// Fast path for single range (\d and most hand-written classes)
	if len(n.Ranges) == 1 && len(n.Sets) == 0 {
		return r >= n.Ranges[0].Lo && r <= n.Ranges[0].Hi
	}
	for _, rng := range n.Ranges {
		if r >= rng.Lo && r <= rng.Hi {
			return true
		}
	}
	for _, s := range n.Sets {
		if s.Matches(r) {
			return true
		}
	}
	return false
}

// AnchorKind identifies a zero-width position test.
type AnchorKind uint8

const (
	AnchorBegin           AnchorKind = iota // ^ (start of input)
	AnchorEnd                               // $ (end of input)
	AnchorWordBoundary                      // \b
	AnchorNotWordBoundary                   // \B
	AnchorBeginLine                         // ^ inside (?m:...)
	AnchorEndLine                           // $ inside (?m:...)
)

// String returns the pattern syntax of the anchor.
func (k AnchorKind) String() string {
	switch k {
	case AnchorBegin:
		return "^"
	case AnchorEnd:
		return "$"
	case AnchorWordBoundary:
		return `\b`
	case AnchorNotWordBoundary:
		return `\B`
	case AnchorBeginLine:
		return "(?m:^)"
	case AnchorEndLine:
		return "(?m:$)"
	default:
		return fmt.Sprintf("anchor(%d)", uint8(k))
	}
}

// Anchor matches a position without consuming input.
type Anchor struct {
	Kind AnchorKind
}

func (n *Anchor) Type() NodeType { return NodeAnchor }

func (n *Anchor) String() string { return "anchor{" + n.Kind.String() + "}" }

// IsWordChar reports whether r is an ASCII letter, digit, or underscore.
func IsWordChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '_'
}

// IsWordByte is IsWordChar for a single byte of UTF-8 text.
// Bytes of multi-byte sequences are never word bytes.
func IsWordByte(b byte) bool {
	return IsWordChar(rune(b))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// SwapCaseASCII returns the other case of an ASCII letter and r unchanged otherwise.
func SwapCaseASCII(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	}
	return r
}

// EqualFoldRune reports whether a and b are equal under ASCII case folding.
func EqualFoldRune(a, b rune) bool {
	return a == b || SwapCaseASCII(a) == b
}

// EqualFoldASCII reports whether a and b are equal under ASCII case folding.
// Non-ASCII bytes must match exactly.
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
