package literal

import (
	"unicode/utf8"

	"github.com/coregx/btregex/syntax"
)

// Config limits literal extraction.
type Config struct {
	// MaxLiterals is the largest sequence extraction may produce. A union
	// that would exceed it gives up; a concatenation stops extending.
	MaxLiterals int

	// MaxLiteralLen truncates longer literals, which become incomplete.
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into one
	// literal per rune.
	MaxClassSize int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes prefix literal sets.
type Extractor struct {
	config Config
}

// New creates an extractor. Non-positive limits select the defaults.
func New(config Config) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize <= 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Extractor{config: config}
}

// ExtractPrefixes returns a minimized set of literals such that every match
// of the pattern begins with one of them, or nil when no useful set exists.
// A set containing the empty string is useless and reported as nil.
//
// Case-insensitive scopes, classes larger than MaxClassSize, dot,
// backreferences and optional leading atoms all end extraction.
//
// Example:
//
//	tree, _ := syntax.Parse(`(foo|bar)\d+`)
//	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(tree)
//	// seq is ["bar"+ "foo"+]
func (e *Extractor) ExtractPrefixes(tree *syntax.Tree) *Seq {
	seq := e.prefixes(tree.Root)
	if seq.Len() == 0 {
		return nil
	}
	for _, l := range seq.lits {
		if l.Text == "" {
			return nil
		}
	}
	seq.Minimize()
	return seq
}

// prefixes returns nil when the prefixes of n are unknown.
func (e *Extractor) prefixes(n syntax.Node) *Seq {
	switch n := n.(type) {
	case *syntax.Literal:
		// Invalid input bytes decode as U+FFFD without spelling it.
		if n.Rune == utf8.RuneError {
			return nil
		}
		return NewSeq(Literal{Text: string(n.Rune), Complete: true})
	case *syntax.Concat:
		return e.concat(n.Nodes)
	case *syntax.Alternate:
		return e.union(n.Nodes)
	case *syntax.Repeat:
		if n.Min == 0 {
			return nil
		}
		seq := e.prefixes(n.Body)
		if seq != nil && (n.Min != 1 || n.Max != 1) {
			seq.makeInexact()
		}
		return seq
	case *syntax.Group:
		return e.prefixes(n.Body)
	case *syntax.Class:
		return e.class(n)
	case *syntax.Anchor, *syntax.Lookaround:
		// Zero width: the rest of the match still starts here.
		return NewSeq(Literal{Complete: true})
	}
	// Dot, shorthand classes, backreferences and case-insensitive scopes.
	return nil
}

func (e *Extractor) concat(nodes []syntax.Node) *Seq {
	acc := NewSeq(Literal{Complete: true})
	for _, n := range nodes {
		if !acc.anyComplete() {
			break
		}
		next := e.prefixes(n)
		if next == nil {
			acc.makeInexact()
			break
		}
		crossed := e.cross(acc, next)
		if crossed == nil {
			acc.makeInexact()
			break
		}
		acc = crossed
	}
	return acc
}

// cross extends every complete literal of acc by every literal of next. It
// returns nil when the result would exceed MaxLiterals.
func (e *Extractor) cross(acc, next *Seq) *Seq {
	out := &Seq{}
	for _, a := range acc.lits {
		if !a.Complete {
			out.lits = append(out.lits, a)
			continue
		}
		for _, b := range next.lits {
			l := Literal{Text: a.Text + b.Text, Complete: b.Complete}
			if len(l.Text) > e.config.MaxLiteralLen {
				l = Literal{Text: l.Text[:e.config.MaxLiteralLen]}
			}
			out.lits = append(out.lits, l)
		}
		if len(out.lits) > e.config.MaxLiterals {
			return nil
		}
	}
	return out
}

func (e *Extractor) union(branches []syntax.Node) *Seq {
	out := &Seq{}
	for _, b := range branches {
		seq := e.prefixes(b)
		if seq == nil {
			return nil
		}
		out.lits = append(out.lits, seq.lits...)
		if len(out.lits) > e.config.MaxLiterals {
			return nil
		}
	}
	return out
}

// class expands a small positive class of plain ranges.
func (e *Extractor) class(c *syntax.Class) *Seq {
	if c.Negated || len(c.Sets) > 0 {
		return nil
	}
	size := 0
	for _, r := range c.Ranges {
		if r.Hi >= r.Lo {
			size += int(r.Hi-r.Lo) + 1
		}
		if size > e.config.MaxClassSize {
			return nil
		}
	}
	if size == 0 {
		return nil
	}
	out := &Seq{}
	for _, r := range c.Ranges {
		for ch := r.Lo; ch <= r.Hi; ch++ {
			if !utf8.ValidRune(ch) || ch == utf8.RuneError {
				return nil
			}
			out.lits = append(out.lits, Literal{Text: string(ch), Complete: true})
		}
	}
	return out
}
