// Package syntax parses backtracking regular expressions into an abstract
// syntax tree.
//
// The accepted dialect is Perl-like: alternation, concatenation, the
// quantifiers * + ? {n} {n,} {n,m} (with lazy ? suffixes), character classes,
// the shorthand classes \d \w \s and their negations, the anchors ^ $ \b \B,
// capturing and non-capturing groups, backreferences, lookahead and
// lookbehind, and scoped inline flags (?i:...), (?s:...), (?m:...).
//
// Example:
//
//	tree, err := syntax.Parse(`(a+)\1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tree.NumGroups) // 1
package syntax

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of an AST node.
type NodeType int

const (
	NodeLiteral NodeType = iota
	NodeDot
	NodeConcat
	NodeAlternate
	NodeRepeat
	NodeClass
	NodeShorthand
	NodeAnchor
	NodeGroup
	NodeBackref
	NodeLookaround
	NodeFoldCase
)

// String returns a human-readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case NodeLiteral:
		return "Literal"
	case NodeDot:
		return "Dot"
	case NodeConcat:
		return "Concat"
	case NodeAlternate:
		return "Alternate"
	case NodeRepeat:
		return "Repeat"
	case NodeClass:
		return "Class"
	case NodeShorthand:
		return "Shorthand"
	case NodeAnchor:
		return "Anchor"
	case NodeGroup:
		return "Group"
	case NodeBackref:
		return "Backref"
	case NodeLookaround:
		return "Lookaround"
	case NodeFoldCase:
		return "FoldCase"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Node is implemented by every AST node.
type Node interface {
	Type() NodeType
	String() string
}

// Tree is a parsed pattern.
type Tree struct {
	// Root is the top-level node.
	Root Node

	// NumGroups is the number of capturing groups. Capture indices run
	// from 1 to NumGroups; index 0 is the whole match.
	NumGroups int

	// Pattern is the source text.
	Pattern string
}

// Literal matches a single rune.
type Literal struct {
	Rune rune
}

func (n *Literal) Type() NodeType { return NodeLiteral }

func (n *Literal) String() string { return fmt.Sprintf("lit{%q}", n.Rune) }

// Dot matches any rune except '\n', or any rune at all when MatchNL is set
// by an enclosing (?s:...) scope.
type Dot struct {
	MatchNL bool
}

func (n *Dot) Type() NodeType { return NodeDot }

func (n *Dot) String() string {
	if n.MatchNL {
		return "dot{nl}"
	}
	return "dot{}"
}

// Concat matches its nodes in sequence. An empty Concat matches the empty string.
type Concat struct {
	Nodes []Node
}

func (n *Concat) Type() NodeType { return NodeConcat }

func (n *Concat) String() string { return "cat{" + joinNodes(n.Nodes) + "}" }

// Alternate matches the first of its branches that leads to an overall match.
type Alternate struct {
	Nodes []Node
}

func (n *Alternate) Type() NodeType { return NodeAlternate }

func (n *Alternate) String() string { return "alt{" + joinNodes(n.Nodes) + "}" }

// Repeat matches Body between Min and Max times. Max is -1 when unbounded.
type Repeat struct {
	Body   Node
	Min    int
	Max    int
	Greedy bool
}

func (n *Repeat) Type() NodeType { return NodeRepeat }

func (n *Repeat) String() string {
	lazy := ""
	if !n.Greedy {
		lazy = "?"
	}
	if n.Max < 0 {
		return fmt.Sprintf("rep{%d,}%s{%s}", n.Min, lazy, n.Body)
	}
	return fmt.Sprintf("rep{%d,%d}%s{%s}", n.Min, n.Max, lazy, n.Body)
}

// Group wraps Body. Capturing groups carry their 1-based Index.
type Group struct {
	Body    Node
	Capture bool
	Index   int
}

func (n *Group) Type() NodeType { return NodeGroup }

func (n *Group) String() string {
	if n.Capture {
		return fmt.Sprintf("cap%d{%s}", n.Index, n.Body)
	}
	return "group{" + n.Body.String() + "}"
}

// Backref matches the text most recently captured by group Index.
type Backref struct {
	Index int
}

func (n *Backref) Type() NodeType { return NodeBackref }

func (n *Backref) String() string { return fmt.Sprintf("backref{%d}", n.Index) }

// Lookaround is a zero-width test of Body ahead of or behind the current position.
type Lookaround struct {
	Body    Node
	Behind  bool
	Negated bool
}

func (n *Lookaround) Type() NodeType { return NodeLookaround }

func (n *Lookaround) String() string {
	name := "ahead"
	if n.Behind {
		name = "behind"
	}
	if n.Negated {
		name = "not" + name
	}
	return name + "{" + n.Body.String() + "}"
}

// FoldCase matches Body with ASCII case folding enabled.
type FoldCase struct {
	Body Node
}

func (n *FoldCase) Type() NodeType { return NodeFoldCase }

func (n *FoldCase) String() string { return "fold{" + n.Body.String() + "}" }

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}
