package btregex

import (
	"io"
	"strconv"
	"strings"

	"github.com/coregx/btregex/meta"
)

// Kind classifies the result of Search.
type Kind int

const (
	// KindCompileError means the pattern failed to parse or validate.
	KindCompileError Kind = iota
	// KindNoMatch means the pattern compiled but the subject has no match.
	KindNoMatch
	// KindMatch means a leftmost match was found.
	KindMatch
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCompileError:
		return "CompileError"
	case KindNoMatch:
		return "NoMatch"
	case KindMatch:
		return "Match"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Span is the text and byte offsets of a match or group. Matched is false
// for a group that did not participate; its offsets are then -1.
type Span struct {
	Text       string
	Start, End int
	Matched    bool
}

// Outcome is the result of one Search.
type Outcome struct {
	Kind Kind

	// Err is the compile error for KindCompileError.
	Err error

	// Match is the overall match for KindMatch.
	Match Span

	// Groups holds capturing groups 1..n in index order for KindMatch.
	Groups []Span
}

// Search compiles pattern and returns the leftmost match in subject.
//
// Example:
//
//	out := btregex.Search(`(a)(b)(c)`, "abc")
//	fmt.Print(out)
//	// Output:
//	// MATCH:abc
//	// GROUP 1:a
//	// GROUP 2:b
//	// GROUP 3:c
func Search(pattern, subject string) Outcome {
	return SearchWithConfig(pattern, subject, meta.DefaultConfig())
}

// SearchWithConfig is Search with a custom configuration. An invalid
// configuration is reported as a compile error.
func SearchWithConfig(pattern, subject string, config meta.Config) Outcome {
	re, err := CompileWithConfig(pattern, config)
	if err != nil {
		return Outcome{Kind: KindCompileError, Err: err}
	}
	return re.Search(subject)
}

// Search returns the leftmost match of r in subject as an Outcome.
func (r *Regex) Search(subject string) Outcome {
	m := r.engine.Find(subject)
	if m == nil {
		return Outcome{Kind: KindNoMatch}
	}
	out := Outcome{
		Kind:   KindMatch,
		Match:  Span{Text: m.String(), Start: m.Start(), End: m.End(), Matched: true},
		Groups: make([]Span, m.NumGroups()),
	}
	for i := range out.Groups {
		text, ok := m.Group(i + 1)
		start, end := m.GroupIndex(i + 1)
		out.Groups[i] = Span{Text: text, Start: start, End: end, Matched: ok}
	}
	return out
}

// String renders the outcome as lines, each ending in a newline:
//
//	ERROR:<message>
//	NO_MATCH
//	MATCH:<text>
//	GROUP <i>:<text>    (one per group; empty when it did not participate)
func (o Outcome) String() string {
	var b strings.Builder
	switch o.Kind {
	case KindCompileError:
		b.WriteString("ERROR:")
		if o.Err != nil {
			b.WriteString(o.Err.Error())
		}
		b.WriteByte('\n')
	case KindNoMatch:
		b.WriteString("NO_MATCH\n")
	case KindMatch:
		b.WriteString("MATCH:")
		b.WriteString(o.Match.Text)
		b.WriteByte('\n')
		for i, g := range o.Groups {
			b.WriteString("GROUP ")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteByte(':')
			b.WriteString(g.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteTo writes the rendering of String to w.
func (o Outcome) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, o.String())
	return int64(n), err
}
