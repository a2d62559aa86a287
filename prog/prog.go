// Package prog compiles a parsed pattern into a flat bytecode program for
// the backtracking VM.
//
// A Prog is immutable after Compile returns and may be shared by any number
// of concurrent searches.
//
// Greediness is not stored on instructions. A Split always tries X first and
// Y only after X fails, so a greedy loop puts the loop body in X and a lazy
// loop puts it in Y.
//
// An unbounded loop whose body can match the empty string is bracketed by
// OpMark and OpProgress. An iteration that consumed nothing leaves the loop
// instead of starting another one, so such loops cannot spin in place.
package prog

import (
	"fmt"
	"strings"

	"github.com/coregx/btregex/syntax"
)

// InstID indexes an instruction within a Prog.
type InstID uint32

// Op identifies the kind of an instruction.
type Op uint8

const (
	OpMatch   Op = iota // overall success
	OpRune              // consume Rune
	OpClass             // consume one rune accepted by Class
	OpAny               // consume any rune except '\n'
	OpAnyNL             // consume any rune
	OpJump              // continue at X
	OpSplit             // try X, then Y
	OpSave              // record position in capture slot Arg
	OpAssert            // zero-width test Assert
	OpBackref           // consume the text captured by group Arg
	OpLook              // zero-width lookaround running Look.Prog
	OpFoldOn            // enter a case-insensitive scope
	OpFoldOff           // leave a case-insensitive scope
	OpMark              // record the start offset of a loop iteration in loop slot Arg
	OpProgress          // continue at X if the iteration begun at OpMark Arg consumed nothing
)

// String returns the mnemonic of the opcode.
func (op Op) String() string {
	switch op {
	case OpMatch:
		return "match"
	case OpRune:
		return "rune"
	case OpClass:
		return "class"
	case OpAny:
		return "any"
	case OpAnyNL:
		return "anynl"
	case OpJump:
		return "jmp"
	case OpSplit:
		return "split"
	case OpSave:
		return "save"
	case OpAssert:
		return "assert"
	case OpBackref:
		return "backref"
	case OpLook:
		return "look"
	case OpFoldOn:
		return "foldon"
	case OpFoldOff:
		return "foldoff"
	case OpMark:
		return "mark"
	case OpProgress:
		return "progress"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Inst is a single instruction. Which fields are meaningful depends on Op.
type Inst struct {
	Op     Op
	Rune   rune
	Class  *syntax.Class
	X, Y   InstID
	Arg    int
	Assert syntax.AnchorKind
	Look   *Look
}

// Look describes a lookaround sub-program.
type Look struct {
	Prog    *Prog
	Behind  bool
	Negated bool
}

// String returns a disassembly of the instruction.
func (i *Inst) String() string {
	switch i.Op {
	case OpRune:
		return fmt.Sprintf("rune %q", i.Rune)
	case OpClass:
		return i.Class.String()
	case OpJump:
		return fmt.Sprintf("jmp %d", i.X)
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	case OpSave:
		return fmt.Sprintf("save %d", i.Arg)
	case OpAssert:
		return "assert " + i.Assert.String()
	case OpBackref:
		return fmt.Sprintf("backref %d", i.Arg)
	case OpMark:
		return fmt.Sprintf("mark %d", i.Arg)
	case OpProgress:
		return fmt.Sprintf("progress %d, %d", i.Arg, i.X)
	case OpLook:
		dir := "ahead"
		if i.Look.Behind {
			dir = "behind"
		}
		if i.Look.Negated {
			dir = "not" + dir
		}
		return fmt.Sprintf("look %s (%d insts)", dir, len(i.Look.Prog.Inst))
	}
	return i.Op.String()
}

// Prog is a compiled program plus the metadata the search driver uses.
type Prog struct {
	Inst []Inst

	// NumGroups is the number of capturing groups.
	NumGroups int

	// NumSlots is 2*(NumGroups+1): a start and end slot per group, with
	// slots 0 and 1 holding the overall match.
	NumSlots int

	// NumLoops is the number of loop slots used by OpMark and OpProgress.
	NumLoops int

	// FirstRune is the rune every match must begin with, valid when
	// HasFirstRune is set.
	FirstRune    rune
	HasFirstRune bool

	// Anchored reports that the first instruction asserts start of input,
	// so a match can only begin at offset 0.
	Anchored bool
}

// Len returns the number of instructions, including those of lookaround
// sub-programs.
func (p *Prog) Len() int {
	n := len(p.Inst)
	for i := range p.Inst {
		if p.Inst[i].Op == OpLook {
			n += p.Inst[i].Look.Prog.Len()
		}
	}
	return n
}

// String returns a disassembly of the program, one instruction per line.
// Lookaround sub-programs are indented below their instruction.
func (p *Prog) String() string {
	var b strings.Builder
	p.dump(&b, "")
	return b.String()
}

func (p *Prog) dump(b *strings.Builder, indent string) {
	for i := range p.Inst {
		fmt.Fprintf(b, "%s%4d  %s\n", indent, i, p.Inst[i].String())
		if p.Inst[i].Op == OpLook {
			p.Inst[i].Look.Prog.dump(b, indent+"      ")
		}
	}
}
