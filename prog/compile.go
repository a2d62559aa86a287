package prog

import (
	"fmt"

	"github.com/coregx/btregex/internal/conv"
	"github.com/coregx/btregex/syntax"
)

// DefaultMaxInsts is the default limit on the size of a compiled program.
const DefaultMaxInsts = 100000

// Config controls compilation.
type Config struct {
	// MaxInsts bounds the total number of instructions, lookaround
	// sub-programs included. Compilation stops with ErrPatternTooLarge as
	// soon as the limit would be exceeded, so nested bounded repeats such
	// as ((a{1000}){1000}){1000} never allocate their full expansion.
	// Zero selects DefaultMaxInsts.
	MaxInsts int
}

// Compile lowers a parsed pattern into a program.
//
// Repeats are unrolled: {n,m} becomes n mandatory copies of the body
// followed by m-n optional copies, and {n,} becomes n copies followed by a
// star. Each lookaround body is compiled into its own Prog.
func Compile(tree *syntax.Tree, config Config) (*Prog, error) {
	budget := config.MaxInsts
	if budget <= 0 {
		budget = DefaultMaxInsts
	}
	c := &compiler{
		pattern: tree.Pattern,
		ngroups: tree.NumGroups,
		budget:  &budget,
	}
	p := c.program(tree.Root)
	if c.err != nil {
		return nil, c.err
	}
	setHints(p)
	return p, nil
}

// compiler emits the instructions of one program. Lookaround bodies get
// their own compiler sharing the same budget.
type compiler struct {
	pattern string
	ngroups int
	insts   []Inst
	nloops  int
	budget  *int
	err     error
}

func (c *compiler) program(root syntax.Node) *Prog {
	c.compile(root)
	c.emit(Inst{Op: OpMatch})
	return &Prog{
		Inst:      c.insts,
		NumGroups: c.ngroups,
		NumSlots:  2 * (c.ngroups + 1),
		NumLoops:  c.nloops,
	}
}

func (c *compiler) fail(code syntax.ErrorCode) {
	if c.err == nil {
		c.err = &syntax.Error{Code: code, Expr: c.pattern}
	}
}

// emit appends i and returns its index. After an error it does nothing.
func (c *compiler) emit(i Inst) InstID {
	if c.err != nil {
		return 0
	}
	if *c.budget <= 0 {
		c.fail(syntax.ErrPatternTooLarge)
		return 0
	}
	*c.budget--
	c.insts = append(c.insts, i)
	return c.next() - 1
}

// next returns the index the next emitted instruction will get.
func (c *compiler) next() InstID {
	return InstID(conv.IntToUint32(len(c.insts)))
}

// patch sets the targets of the instruction at pc.
func (c *compiler) patch(pc, x, y InstID) {
	if c.err != nil {
		return
	}
	c.insts[pc].X = x
	c.insts[pc].Y = y
}

// branch patches the split at pc so a greedy split prefers body and a lazy
// one prefers exit.
func (c *compiler) branch(pc, body, exit InstID, greedy bool) {
	if greedy {
		c.patch(pc, body, exit)
	} else {
		c.patch(pc, exit, body)
	}
}

func (c *compiler) compile(node syntax.Node) {
	if c.err != nil {
		return
	}
	switch n := node.(type) {
	case *syntax.Literal:
		c.emit(Inst{Op: OpRune, Rune: n.Rune})
	case *syntax.Dot:
		if n.MatchNL {
			c.emit(Inst{Op: OpAnyNL})
		} else {
			c.emit(Inst{Op: OpAny})
		}
	case *syntax.Concat:
		for _, sub := range n.Nodes {
			c.compile(sub)
		}
	case *syntax.Alternate:
		c.alternate(n.Nodes)
	case *syntax.Repeat:
		c.repeat(n)
	case *syntax.Class:
		c.emit(Inst{Op: OpClass, Class: n})
	case *syntax.ShorthandClass:
		c.emit(Inst{Op: OpClass, Class: &syntax.Class{Sets: []syntax.Shorthand{n.Kind}}})
	case *syntax.Anchor:
		c.emit(Inst{Op: OpAssert, Assert: n.Kind})
	case *syntax.Group:
		if !n.Capture {
			c.compile(n.Body)
			return
		}
		c.emit(Inst{Op: OpSave, Arg: 2 * n.Index})
		c.compile(n.Body)
		c.emit(Inst{Op: OpSave, Arg: 2*n.Index + 1})
	case *syntax.Backref:
		c.emit(Inst{Op: OpBackref, Arg: n.Index})
	case *syntax.Lookaround:
		c.lookaround(n)
	case *syntax.FoldCase:
		c.emit(Inst{Op: OpFoldOn})
		c.compile(n.Body)
		c.emit(Inst{Op: OpFoldOff})
	default:
		c.err = fmt.Errorf("prog: unexpected %s node", node.Type())
	}
}

// alternate lowers b1|b2|...|bn to
//
//	    split L1, L2
//	L1: <b1>
//	    jmp END
//	L2: split L3, L4
//	L3: <b2>
//	    jmp END
//	L4: <bn>
//	END:
func (c *compiler) alternate(branches []syntax.Node) {
	if len(branches) == 0 {
		return
	}
	var jumps []InstID
	for _, b := range branches[:len(branches)-1] {
		split := c.emit(Inst{Op: OpSplit})
		c.compile(b)
		jumps = append(jumps, c.emit(Inst{Op: OpJump}))
		c.patch(split, split+1, c.next())
	}
	c.compile(branches[len(branches)-1])
	end := c.next()
	for _, j := range jumps {
		c.patch(j, end, 0)
	}
}

func (c *compiler) repeat(n *syntax.Repeat) {
	// The parser already enforces these; a hand-built tree must not be able
	// to make the unrolling below size itself from a negative count.
	if n.Min < 0 || n.Min > syntax.MaxRepeat || n.Max > syntax.MaxRepeat || (n.Max >= 0 && n.Min > n.Max) {
		c.fail(syntax.ErrInvalidQuantifierRange)
		return
	}
	switch {
	case n.Min == 0 && n.Max < 0:
		c.star(n.Body, n.Greedy)
	case n.Min == 1 && n.Max < 0:
		c.plus(n.Body, n.Greedy)
	case n.Min == 0 && n.Max == 1:
		c.quest(n.Body, n.Greedy)
	default:
		for i := 0; i < n.Min && c.err == nil; i++ {
			c.compile(n.Body)
		}
		if n.Max < 0 {
			c.star(n.Body, n.Greedy)
			return
		}
		for i := n.Min; i < n.Max && c.err == nil; i++ {
			c.quest(n.Body, n.Greedy)
		}
	}
}

//	L1: split L2, L3
//	L2: <body>
//	    jmp L1
//	L3:
//
// A body that can match empty is guarded:
//
//	L1: split L2, L3
//	L2: mark k
//	    <body>
//	    progress k, L3
//	    jmp L1
//	L3:
func (c *compiler) star(body syntax.Node, greedy bool) {
	split := c.emit(Inst{Op: OpSplit})
	if !nullable(body) {
		c.compile(body)
		c.emit(Inst{Op: OpJump, X: split})
		c.branch(split, split+1, c.next(), greedy)
		return
	}
	k := c.newLoop()
	c.emit(Inst{Op: OpMark, Arg: k})
	c.compile(body)
	progress := c.emit(Inst{Op: OpProgress, Arg: k})
	c.emit(Inst{Op: OpJump, X: split})
	end := c.next()
	c.patch(progress, end, 0)
	c.branch(split, split+1, end, greedy)
}

//	L1: <body>
//	    split L1, L2
//	L2:
//
// A body that can match empty is guarded:
//
//	L1: mark k
//	    <body>
//	    progress k, L2
//	    split L1, L2
//	L2:
func (c *compiler) plus(body syntax.Node, greedy bool) {
	start := c.next()
	if !nullable(body) {
		c.compile(body)
		split := c.emit(Inst{Op: OpSplit})
		c.branch(split, start, split+1, greedy)
		return
	}
	k := c.newLoop()
	c.emit(Inst{Op: OpMark, Arg: k})
	c.compile(body)
	progress := c.emit(Inst{Op: OpProgress, Arg: k})
	split := c.emit(Inst{Op: OpSplit})
	c.patch(progress, split+1, 0)
	c.branch(split, start, split+1, greedy)
}

//	    split L1, L2
//	L1: <body>
//	L2:
func (c *compiler) quest(body syntax.Node, greedy bool) {
	split := c.emit(Inst{Op: OpSplit})
	c.compile(body)
	c.branch(split, split+1, c.next(), greedy)
}

func (c *compiler) newLoop() int {
	c.nloops++
	return c.nloops - 1
}

// nullable reports whether n can match without consuming input.
func nullable(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.Literal, *syntax.Dot, *syntax.Class, *syntax.ShorthandClass:
		return false
	case *syntax.Concat:
		for _, sub := range n.Nodes {
			if !nullable(sub) {
				return false
			}
		}
		return true
	case *syntax.Alternate:
		for _, sub := range n.Nodes {
			if nullable(sub) {
				return true
			}
		}
		return false
	case *syntax.Repeat:
		return n.Min == 0 || nullable(n.Body)
	case *syntax.Group:
		return nullable(n.Body)
	case *syntax.FoldCase:
		return nullable(n.Body)
	}
	// Anchors, lookarounds and backreferences (which may refer to an
	// empty capture).
	return true
}

func (c *compiler) lookaround(n *syntax.Lookaround) {
	sub := &compiler{
		pattern: c.pattern,
		ngroups: c.ngroups,
		budget:  c.budget,
	}
	p := sub.program(n.Body)
	if sub.err != nil {
		if c.err == nil {
			c.err = sub.err
		}
		return
	}
	c.emit(Inst{Op: OpLook, Look: &Look{Prog: p, Behind: n.Behind, Negated: n.Negated}})
}

// setHints fills in the search hints. A first rune is only reported when
// the program starts with a rune test, optionally behind a start-of-input
// assertion: every path through the program passes instruction 0 first.
func setHints(p *Prog) {
	insts := p.Inst
	i := 0
	if insts[0].Op == OpAssert && insts[0].Assert == syntax.AnchorBegin {
		p.Anchored = true
		i = 1
	}
	if i < len(insts) && insts[i].Op == OpRune {
		p.FirstRune = insts[i].Rune
		p.HasFirstRune = true
	}
}
