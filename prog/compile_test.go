package prog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/btregex/syntax"
)

func mustCompile(t *testing.T, pattern string) *Prog {
	t.Helper()
	tree, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	p, err := Compile(tree, Config{})
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return p
}

// listing renders instructions the way Prog.String does.
func listing(lines ...string) string {
	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%4d  %s\n", i, l)
	}
	return b.String()
}

func TestCompileListing(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`a`, listing(`rune 'a'`, `match`)},
		{`ab`, listing(`rune 'a'`, `rune 'b'`, `match`)},
		{`a*`, listing(`split 1, 3`, `rune 'a'`, `jmp 0`, `match`)},
		{`a*?`, listing(`split 3, 1`, `rune 'a'`, `jmp 0`, `match`)},
		{`a+`, listing(`rune 'a'`, `split 0, 2`, `match`)},
		{`a+?`, listing(`rune 'a'`, `split 2, 0`, `match`)},
		{`a?`, listing(`split 1, 2`, `rune 'a'`, `match`)},
		{`a??`, listing(`split 2, 1`, `rune 'a'`, `match`)},
		{`a|b|c`, listing(
			`split 1, 3`,
			`rune 'a'`,
			`jmp 7`,
			`split 4, 6`,
			`rune 'b'`,
			`jmp 7`,
			`rune 'c'`,
			`match`,
		)},
		{`(a)`, listing(`save 2`, `rune 'a'`, `save 3`, `match`)},
		{`(?:a)`, listing(`rune 'a'`, `match`)},
		{`a{2,4}`, listing(
			`rune 'a'`,
			`rune 'a'`,
			`split 3, 4`,
			`rune 'a'`,
			`split 5, 6`,
			`rune 'a'`,
			`match`,
		)},
		{`a{2,}`, listing(`rune 'a'`, `rune 'a'`, `split 3, 5`, `rune 'a'`, `jmp 2`, `match`)},
		{`a{3}`, listing(`rune 'a'`, `rune 'a'`, `rune 'a'`, `match`)},
		{`a{0}`, listing(`match`)},
		{`(?i:a)b`, listing(`foldon`, `rune 'a'`, `foldoff`, `rune 'b'`, `match`)},
		{`^a$`, listing(`assert ^`, `rune 'a'`, `assert $`, `match`)},
		{`(a)\1`, listing(`save 2`, `rune 'a'`, `save 3`, `backref 1`, `match`)},
		{`.`, listing(`any`, `match`)},
		{`(?s:.)`, listing(`anynl`, `match`)},
		{`\d`, listing(`class{\d}`, `match`)},
		{`(?:a?)*`, listing(
			`split 1, 6`,
			`mark 0`,
			`split 3, 4`,
			`rune 'a'`,
			`progress 0, 6`,
			`jmp 0`,
			`match`,
		)},
		{`(?:\b)+`, listing(`mark 0`, `assert \b`, `progress 0, 3`, `split 0, 4`, `match`)},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern)
			if diff := cmp.Diff(tt.want, p.String()); diff != "" {
				t.Errorf("Compile(%q) listing mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestCompileLookaround(t *testing.T) {
	p := mustCompile(t, `(a)(?<!b(c))d`)

	if len(p.Inst) != 6 {
		t.Fatalf("len(Inst) = %d, want 6\n%s", len(p.Inst), p)
	}
	look := p.Inst[3]
	if look.Op != OpLook {
		t.Fatalf("Inst[3].Op = %v, want %v", look.Op, OpLook)
	}
	if !look.Look.Behind || !look.Look.Negated {
		t.Errorf("Look = behind:%v negated:%v, want behind and negated", look.Look.Behind, look.Look.Negated)
	}

	sub := look.Look.Prog
	want := listing(`rune 'b'`, `save 4`, `rune 'c'`, `save 5`, `match`)
	if diff := cmp.Diff(want, sub.String()); diff != "" {
		t.Errorf("sub-program mismatch (-want +got):\n%s", diff)
	}
	if sub.NumSlots != p.NumSlots {
		t.Errorf("sub NumSlots = %d, want %d", sub.NumSlots, p.NumSlots)
	}
	if got := p.Len(); got != 11 {
		t.Errorf("Len() = %d, want 11", got)
	}
}

func TestCompileSlots(t *testing.T) {
	tests := []struct {
		pattern string
		groups  int
	}{
		{`abc`, 0},
		{`(a)(b)(c)`, 3},
		{`((a)|(b))`, 3},
		{`(?:a)(?=(b))`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern)
			if p.NumGroups != tt.groups {
				t.Errorf("NumGroups = %d, want %d", p.NumGroups, tt.groups)
			}
			if p.NumSlots != 2*(tt.groups+1) {
				t.Errorf("NumSlots = %d, want %d", p.NumSlots, 2*(tt.groups+1))
			}
		})
	}
}

func TestCompileGuardsNullableLoops(t *testing.T) {
	tests := []struct {
		pattern string
		loops   int
	}{
		{`a*`, 0},
		{`(ab)+`, 0},
		{`(a|b)*`, 0},
		{`a{2,}`, 0},
		{`(a?)*`, 1},
		{`(a|)+`, 1},
		{`(?:\b)*`, 1},
		{`(?:(?=x))*`, 1},
		{`(a)(?:\1)*`, 1},
		{`(?:a*b*)*`, 1},
		{`(?:(?:a?)*)*`, 2},
		{`(?:a?){3,}`, 1},
		{`(?:a?){0,5}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern)
			if p.NumLoops != tt.loops {
				t.Errorf("NumLoops = %d, want %d\n%s", p.NumLoops, tt.loops, p)
			}
		})
	}
}

func TestCompileHints(t *testing.T) {
	tests := []struct {
		pattern   string
		firstRune rune
		hasFirst  bool
		anchored  bool
	}{
		{`abc`, 'a', true, false},
		{`a+`, 'a', true, false},
		{`a{2,3}`, 'a', true, false},
		{`^abc`, 'a', true, true},
		{`^`, 0, false, true},
		{`^a*`, 0, false, true},
		{`a*b`, 0, false, false},
		{`a?b`, 0, false, false},
		{`a|b`, 0, false, false},
		{`.a`, 0, false, false},
		{`[ab]`, 0, false, false},
		{`\d`, 0, false, false},
		{`(a)`, 0, false, false},
		{`(?i:a)`, 0, false, false},
		{`(?m:^a)`, 0, false, false},
		{`\ba`, 0, false, false},
		{`(?=a)a`, 0, false, false},
		{`^|a`, 0, false, false},
		{`日本`, '日', true, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern)
			if p.HasFirstRune != tt.hasFirst || p.FirstRune != tt.firstRune {
				t.Errorf("first rune = (%q, %v), want (%q, %v)",
					p.FirstRune, p.HasFirstRune, tt.firstRune, tt.hasFirst)
			}
			if p.Anchored != tt.anchored {
				t.Errorf("Anchored = %v, want %v", p.Anchored, tt.anchored)
			}
		})
	}
}

func TestCompileTargetsInRange(t *testing.T) {
	patterns := []string{
		`a|b|c`,
		`(a|bc)*d`,
		`(?:x{1,3}?|y+)+z`,
		`((a)|b)*?\2`,
		`a{0,5}b{2,}`,
		`(?=a|b)(?<!c*)`,
		`(?:a?|\b)+(?:(b?)*)*`,
	}

	var check func(t *testing.T, p *Prog)
	check = func(t *testing.T, p *Prog) {
		n := InstID(len(p.Inst))
		for i, inst := range p.Inst {
			switch inst.Op {
			case OpJump:
				if inst.X >= n {
					t.Errorf("inst %d: jmp target %d out of range [0,%d)", i, inst.X, n)
				}
			case OpSplit:
				if inst.X >= n || inst.Y >= n {
					t.Errorf("inst %d: split targets %d, %d out of range [0,%d)", i, inst.X, inst.Y, n)
				}
			case OpProgress:
				if inst.X >= n {
					t.Errorf("inst %d: progress target %d out of range [0,%d)", i, inst.X, n)
				}
			case OpLook:
				check(t, inst.Look.Prog)
			}
		}
		if last := p.Inst[len(p.Inst)-1]; last.Op != OpMatch {
			t.Errorf("last inst = %v, want match", last.Op)
		}
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			check(t, mustCompile(t, pattern))
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	patterns := []string{
		`(a+)(b*?)\1`,
		`(?i:foo|bar){2,3}`,
		`(?<=x(y))z(?!w)`,
		`[^a-z\d]+$`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			a := mustCompile(t, pattern)
			b := mustCompile(t, pattern)
			if a.String() != b.String() {
				t.Errorf("two compilations differ:\n%s\nvs\n%s", a, b)
			}
		})
	}
}

func TestCompileTooLarge(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		maxInsts int
		wantErr  bool
	}{
		{"fits", `a{10}`, 11, false},
		{"one over", `a{10}`, 10, true},
		{"nested repeats", `((a{1000}){1000}){1000}`, 0, true},
		{"lookaround counts", `(?=aaaa)`, 4, true},
		{"lookaround fits", `(?=aaaa)`, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := syntax.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			_, err = Compile(tree, Config{MaxInsts: tt.maxInsts})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Compile(%q) unexpected error: %v", tt.pattern, err)
				}
				return
			}
			var serr *syntax.Error
			if !errors.As(err, &serr) {
				t.Fatalf("Compile(%q) error = %v, want *syntax.Error", tt.pattern, err)
			}
			if serr.Code != syntax.ErrPatternTooLarge {
				t.Errorf("Code = %q, want %q", serr.Code, syntax.ErrPatternTooLarge)
			}
		})
	}
}

func TestCompileRejectsBadRepeat(t *testing.T) {
	// Hand-built trees bypass the parser's range checks.
	trees := []*syntax.Tree{
		{Root: &syntax.Repeat{Body: &syntax.Literal{Rune: 'a'}, Min: 5, Max: 3, Greedy: true}},
		{Root: &syntax.Repeat{Body: &syntax.Literal{Rune: 'a'}, Min: -1, Max: 2, Greedy: true}},
		{Root: &syntax.Repeat{Body: &syntax.Literal{Rune: 'a'}, Min: 0, Max: syntax.MaxRepeat + 1}},
	}
	for i, tree := range trees {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := Compile(tree, Config{})
			if !errors.Is(err, &syntax.Error{Code: syntax.ErrInvalidQuantifierRange}) {
				t.Errorf("Compile(%s) error = %v, want %s", tree.Root, err, syntax.ErrInvalidQuantifierRange)
			}
		})
	}
}
