// Package vm executes compiled programs with a recursive backtracking
// matcher.
//
// A Machine attempts a match that starts exactly at a given offset. Every
// Split instruction is a choice point: the machine records the length of
// its undo log, tries the first target, and on failure replays the log back
// to that mark before trying the second target. The log holds the previous
// value of each capture slot written since the mark, so only slots that were
// actually touched are restored.
//
// The case-insensitive scope depth is logged the same way (under a pseudo
// slot), because backtracking can leave a (?i:...) scope without executing
// its closing toggle. So are the iteration start offsets of loops whose body
// can match empty.
//
// Lookaround bodies run on a separate Machine over a copy of the capture
// slots. Nothing a lookaround body captures is visible to the outer match.
//
// A Machine is not safe for concurrent use. A Prog may be shared by any
// number of Machines.
package vm

import (
	"unicode/utf8"

	"github.com/coregx/btregex/prog"
	"github.com/coregx/btregex/syntax"
)

// DefaultMaxDepth is the default recursion ceiling: the number of choice
// points that may be open at once.
const DefaultMaxDepth = 10000

// foldSlot is the pseudo slot under which changes of the case-insensitive
// depth are logged. Loop slot k is logged as loopBase-k.
const (
	foldSlot = -1
	loopBase = -2
)

// undoEntry records the value slot held before it was overwritten.
type undoEntry struct {
	slot int
	old  int
}

// Machine holds the run state of one match attempt.
type Machine struct {
	prog     *prog.Prog
	maxDepth int

	input string
	caps  []int // -1 marks an unset slot
	loops []int // start offset of the current iteration of each guarded loop
	undo  []undoEntry
	fold  int // nesting depth of active case-insensitive scopes
	depth int // open choice points, shared with lookaround sub-machines

	// matchEnd, when >= 0, is the only offset at which OpMatch succeeds.
	// Lookbehind uses it to require that the body ends at the current position.
	matchEnd int

	sub *Machine // reused for lookaround bodies
}

// New returns a Machine for p. A maxDepth <= 0 selects DefaultMaxDepth.
func New(p *prog.Prog, maxDepth int) *Machine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Machine{
		prog:     p,
		maxDepth: maxDepth,
		caps:     make([]int, p.NumSlots),
		loops:    make([]int, p.NumLoops),
		matchEnd: -1,
	}
}

// Exec attempts a match of the program beginning exactly at byte offset pos
// of input, which must be a rune boundary. On success the capture slots are
// available from Caps until the next call to Exec.
//
// Exceeding the recursion ceiling fails the offending choice point instead
// of aborting, so an extreme input may report no match where an unbounded
// matcher would find one.
func (m *Machine) Exec(input string, pos int) bool {
	m.input = input
	m.reset()
	m.caps[0] = pos
	return m.run(0, pos)
}

// Caps returns the capture slots of the last successful Exec. Slot 2i and
// 2i+1 hold the start and end of group i, or -1 when the group did not
// participate. The slice is owned by the Machine.
func (m *Machine) Caps() []int {
	return m.caps
}

func (m *Machine) reset() {
	for i := range m.caps {
		m.caps[i] = -1
	}
	m.undo = m.undo[:0]
	m.fold = 0
	m.depth = 0
	m.matchEnd = -1
}

// run executes from instruction pc at offset pos. Consuming instructions,
// jumps and saves loop in place; only Split recurses.
func (m *Machine) run(pc prog.InstID, pos int) bool {
	for {
		inst := &m.prog.Inst[pc]
		switch inst.Op {
		case prog.OpMatch:
			if m.matchEnd >= 0 && pos != m.matchEnd {
				return false
			}
			m.save(1, pos)
			return true

		case prog.OpRune:
			r, w := m.step(pos)
			if w == 0 {
				return false
			}
			if r != inst.Rune && (m.fold == 0 || !syntax.EqualFoldRune(r, inst.Rune)) {
				return false
			}
			pos += w
			pc++

		case prog.OpClass:
			r, w := m.step(pos)
			if w == 0 || !inst.Class.Matches(r, m.fold > 0) {
				return false
			}
			pos += w
			pc++

		case prog.OpAny:
			r, w := m.step(pos)
			if w == 0 || r == '\n' {
				return false
			}
			pos += w
			pc++

		case prog.OpAnyNL:
			_, w := m.step(pos)
			if w == 0 {
				return false
			}
			pos += w
			pc++

		case prog.OpJump:
			pc = inst.X

		case prog.OpSplit:
			if m.depth >= m.maxDepth {
				return false
			}
			mark := len(m.undo)
			m.depth++
			ok := m.run(inst.X, pos)
			m.depth--
			if ok {
				return true
			}
			m.rollback(mark)
			pc = inst.Y

		case prog.OpSave:
			m.save(inst.Arg, pos)
			pc++

		case prog.OpAssert:
			if !m.assert(inst.Assert, pos) {
				return false
			}
			pc++

		case prog.OpBackref:
			n, ok := m.backref(inst.Arg, pos)
			if !ok {
				return false
			}
			pos += n
			pc++

		case prog.OpLook:
			if !m.look(inst.Look, pos) {
				return false
			}
			pc++

		case prog.OpFoldOn:
			m.setFold(m.fold + 1)
			pc++

		case prog.OpFoldOff:
			m.setFold(m.fold - 1)
			pc++

		case prog.OpMark:
			m.undo = append(m.undo, undoEntry{slot: loopBase - inst.Arg, old: m.loops[inst.Arg]})
			m.loops[inst.Arg] = pos
			pc++

		case prog.OpProgress:
			// An iteration that consumed nothing ends the loop.
			if pos == m.loops[inst.Arg] {
				pc = inst.X
			} else {
				pc++
			}

		default:
			return false
		}
	}
}

// step decodes the rune at pos. The width is 0 at end of input.
func (m *Machine) step(pos int) (rune, int) {
	if pos >= len(m.input) {
		return 0, 0
	}
	if c := m.input[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(m.input[pos:])
}

func (m *Machine) save(slot, pos int) {
	m.undo = append(m.undo, undoEntry{slot: slot, old: m.caps[slot]})
	m.caps[slot] = pos
}

func (m *Machine) setFold(depth int) {
	m.undo = append(m.undo, undoEntry{slot: foldSlot, old: m.fold})
	m.fold = depth
}

// rollback undoes every logged change after mark, newest first.
func (m *Machine) rollback(mark int) {
	for i := len(m.undo) - 1; i >= mark; i-- {
		e := m.undo[i]
		switch {
		case e.slot >= 0:
			m.caps[e.slot] = e.old
		case e.slot == foldSlot:
			m.fold = e.old
		default:
			m.loops[loopBase-e.slot] = e.old
		}
	}
	m.undo = m.undo[:mark]
}

func (m *Machine) assert(kind syntax.AnchorKind, pos int) bool {
	switch kind {
	case syntax.AnchorBegin:
		return pos == 0
	case syntax.AnchorEnd:
		return pos == len(m.input)
	case syntax.AnchorBeginLine:
		return pos == 0 || m.input[pos-1] == '\n'
	case syntax.AnchorEndLine:
		return pos == len(m.input) || m.input[pos] == '\n'
	case syntax.AnchorWordBoundary:
		return m.wordBefore(pos) != m.wordAt(pos)
	case syntax.AnchorNotWordBoundary:
		return m.wordBefore(pos) == m.wordAt(pos)
	}
	return false
}

func (m *Machine) wordBefore(pos int) bool {
	return pos > 0 && syntax.IsWordByte(m.input[pos-1])
}

func (m *Machine) wordAt(pos int) bool {
	return pos < len(m.input) && syntax.IsWordByte(m.input[pos])
}

// backref matches the current text of group at pos and returns its length.
// A group that has not participated, or is still open, never matches.
func (m *Machine) backref(group, pos int) (int, bool) {
	start, end := m.caps[2*group], m.caps[2*group+1]
	if start < 0 || end < start {
		return 0, false
	}
	want := m.input[start:end]
	if len(m.input)-pos < len(want) {
		return 0, false
	}
	got := m.input[pos : pos+len(want)]
	if got == want || (m.fold > 0 && syntax.EqualFoldASCII(got, want)) {
		return len(want), true
	}
	return 0, false
}

// look runs a lookaround body on the sub-machine and reports whether the
// instruction succeeds. The outer capture slots and undo log are untouched.
func (m *Machine) look(l *prog.Look, pos int) bool {
	sub := m.subMachine(l.Prog)
	copy(sub.caps, m.caps)
	sub.undo = sub.undo[:0]
	sub.fold = m.fold
	sub.depth = m.depth

	matched := false
	if !l.Behind {
		sub.matchEnd = -1
		matched = sub.run(0, pos)
	} else {
		// Variable width: try every start at or before pos, nearest first,
		// and accept only a body that ends exactly at pos.
		sub.matchEnd = pos
		for start := pos; start >= 0; start-- {
			if start < len(m.input) && !utf8.RuneStart(m.input[start]) {
				continue
			}
			if sub.run(0, start) {
				matched = true
				break
			}
			sub.rollback(0)
		}
	}
	return matched != l.Negated
}

func (m *Machine) subMachine(p *prog.Prog) *Machine {
	if m.sub == nil {
		m.sub = &Machine{maxDepth: m.maxDepth}
	}
	sub := m.sub
	sub.prog = p
	sub.input = m.input
	if cap(sub.caps) < len(m.caps) {
		sub.caps = make([]int, len(m.caps))
	}
	sub.caps = sub.caps[:len(m.caps)]
	if cap(sub.loops) < p.NumLoops {
		sub.loops = make([]int, p.NumLoops)
	}
	sub.loops = sub.loops[:p.NumLoops]
	return sub
}
