package syntax

import (
	"unicode/utf8"
)

const (
	// MaxRepeat is the largest count accepted in a {n,m} quantifier.
	MaxRepeat = 1000

	// maxNesting limits group nesting so parsing cannot exhaust the stack.
	maxNesting = 1000
)

// flags holds the lexically scoped flags that are resolved at parse time.
// Case folding is not here: it is a runtime scope (see FoldCase).
type flags struct {
	dotNL     bool // s: '.' matches '\n'
	multiline bool // m: ^ and $ match at line boundaries
}

// parser is a recursive-descent parser over the UTF-8 pattern text.
type parser struct {
	pattern string
	pos     int
	ncap    int // capture indices assigned so far
	depth   int
	flags   flags
}

// Parse parses pattern into a Tree.
//
// Grammar, lowest precedence first:
//
//	alternate := concat ('|' concat)*
//	concat    := repeat*
//	repeat    := atom quantifier?
//
// A '{' that does not begin a well-formed {n}, {n,} or {n,m} is a literal.
// A well-formed quantifier whose counts are invalid is an error.
//
// Example:
//
//	tree, err := syntax.Parse(`a{5,3}`)
//	// err.(*syntax.Error).Code == syntax.ErrInvalidQuantifierRange
func Parse(pattern string) (*Tree, error) {
	p := &parser{pattern: pattern}
	root, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// parseAlternate only stops early on an unmatched ')'
		return nil, &Error{Code: ErrUnbalancedGroup, Expr: pattern}
	}
	return &Tree{Root: root, NumGroups: p.ncap, Pattern: pattern}, nil
}

func (p *parser) parseAlternate() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return nil, &Error{Code: ErrPatternTooLarge, Expr: p.pattern}
	}

	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if !p.peekIs('|') {
		return first, nil
	}

	branches := []Node{first}
	for p.peekIs('|') {
		p.pos++
		branch, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return &Alternate{Nodes: branches}, nil
}

func (p *parser) parseConcat() (Node, error) {
	var nodes []Node
	for !p.eof() && !p.peekIs('|') && !p.peekIs(')') {
		node, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &Concat{Nodes: nodes}, nil
}

// parseRepeat parses an atom and at most one quantifier. A second
// quantifier directly after the first has nothing valid to repeat.
func (p *parser) parseRepeat() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	quantified := false
	for !p.eof() {
		start := p.pos
		lo, hi, ok, err := p.parseQuantifier()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if quantified {
			return nil, &Error{Code: ErrInvalidQuantifierTarget, Expr: p.pattern[start:p.pos]}
		}
		greedy := true
		if p.peekIs('?') {
			p.pos++
			greedy = false
		}
		atom = &Repeat{Body: atom, Min: lo, Max: hi, Greedy: greedy}
		quantified = true
	}
	return atom, nil
}

// parseQuantifier consumes a quantifier at the current position.
// ok is false, with nothing consumed, when there is none.
func (p *parser) parseQuantifier() (lo, hi int, ok bool, err error) {
	switch p.pattern[p.pos] {
	case '*':
		p.pos++
		return 0, -1, true, nil
	case '+':
		p.pos++
		return 1, -1, true, nil
	case '?':
		p.pos++
		return 0, 1, true, nil
	case '{':
		start := p.pos
		lo, hi, end, ok := parseBrace(p.pattern, p.pos)
		if !ok {
			return 0, 0, false, nil
		}
		p.pos = end
		if err := checkRepeat(lo, hi, p.pattern[start:end]); err != nil {
			return 0, 0, false, err
		}
		return lo, hi, true, nil
	}
	return 0, 0, false, nil
}

// parseBrace recognizes {n}, {n,} and {n,m} starting at s[i] == '{'.
// It returns the counts (hi is -1 when unbounded) and the offset just past
// the closing brace. It never fails with an error: malformed text reports ok=false.
func parseBrace(s string, i int) (lo, hi, end int, ok bool) {
	j := i + 1
	digits := scanDigits(s, j)
	if digits == j {
		return 0, 0, 0, false
	}
	lo = atoiSat(s[j:digits], MaxRepeat+1)
	hi = lo
	j = digits
	if j < len(s) && s[j] == ',' {
		j++
		digits = scanDigits(s, j)
		if digits == j {
			hi = -1
		} else {
			hi = atoiSat(s[j:digits], MaxRepeat+1)
			j = digits
		}
	}
	if j >= len(s) || s[j] != '}' {
		return 0, 0, 0, false
	}
	return lo, hi, j + 1, true
}

// checkRepeat validates counts of a syntactically valid quantifier.
// This runs before any code derived from the counts is sized.
func checkRepeat(lo, hi int, expr string) error {
	if lo > MaxRepeat || hi > MaxRepeat {
		return &Error{Code: ErrInvalidQuantifierRange, Expr: expr}
	}
	if hi >= 0 && lo > hi {
		return &Error{Code: ErrInvalidQuantifierRange, Expr: expr}
	}
	return nil
}

func (p *parser) parseAtom() (Node, error) {
	switch p.pattern[p.pos] {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		return &Dot{MatchNL: p.flags.dotNL}, nil
	case '^':
		p.pos++
		if p.flags.multiline {
			return &Anchor{Kind: AnchorBeginLine}, nil
		}
		return &Anchor{Kind: AnchorBegin}, nil
	case '$':
		p.pos++
		if p.flags.multiline {
			return &Anchor{Kind: AnchorEndLine}, nil
		}
		return &Anchor{Kind: AnchorEnd}, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return nil, &Error{Code: ErrInvalidQuantifierTarget, Expr: p.pattern[p.pos : p.pos+1]}
	case '{':
		if _, _, end, ok := parseBrace(p.pattern, p.pos); ok {
			return nil, &Error{Code: ErrInvalidQuantifierTarget, Expr: p.pattern[p.pos:end]}
		}
		p.pos++
		return &Literal{Rune: '{'}, nil
	}
	return &Literal{Rune: p.next()}, nil
}

func (p *parser) parseGroup() (Node, error) {
	start := p.pos
	p.pos++ // (

	if p.peekIs('?') {
		p.pos++
		switch {
		case p.peekIs(':'):
			p.pos++
			body, err := p.parseGroupBody()
			if err != nil {
				return nil, err
			}
			return &Group{Body: body}, nil
		case p.peekIs('='):
			p.pos++
			return p.parseLookaround(false, false)
		case p.peekIs('!'):
			p.pos++
			return p.parseLookaround(false, true)
		case p.peekIs('<'):
			p.pos++
			switch {
			case p.peekIs('='):
				p.pos++
				return p.parseLookaround(true, false)
			case p.peekIs('!'):
				p.pos++
				return p.parseLookaround(true, true)
			}
			return nil, &Error{Code: ErrInvalidGroup, Expr: p.pattern[start:p.pos]}
		}
		return p.parseFlagGroup(start)
	}

	p.ncap++
	index := p.ncap
	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}
	return &Group{Body: body, Capture: true, Index: index}, nil
}

// parseGroupBody parses the contents of a group and its closing ')'.
func (p *parser) parseGroupBody() (Node, error) {
	body, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !p.peekIs(')') {
		return nil, &Error{Code: ErrUnbalancedGroup, Expr: p.pattern}
	}
	p.pos++
	return body, nil
}

func (p *parser) parseLookaround(behind, negated bool) (Node, error) {
	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}
	return &Lookaround{Body: body, Behind: behind, Negated: negated}, nil
}

// parseFlagGroup parses (?flags:...) after the "(?". Only the scoped form
// is supported; a flag group without ':' is rejected.
func (p *parser) parseFlagGroup(start int) (Node, error) {
	fold := false
	saved := p.flags
	n := 0
scan:
	for !p.eof() {
		switch p.pattern[p.pos] {
		case 'i':
			fold = true
		case 's':
			p.flags.dotNL = true
		case 'm':
			p.flags.multiline = true
		default:
			break scan
		}
		p.pos++
		n++
	}
	if n == 0 || !p.peekIs(':') {
		p.flags = saved
		end := p.pos
		if end < len(p.pattern) {
			end++
		}
		return nil, &Error{Code: ErrInvalidGroup, Expr: p.pattern[start:end]}
	}
	p.pos++ // :

	body, err := p.parseGroupBody()
	p.flags = saved
	if err != nil {
		return nil, err
	}
	if fold {
		return &FoldCase{Body: body}, nil
	}
	return &Group{Body: body}, nil
}

func (p *parser) parseEscape() (Node, error) {
	start := p.pos
	p.pos++ // \
	if p.eof() {
		return nil, &Error{Code: ErrInvalidEscape, Expr: `\`}
	}

	c := p.next()
	if s, ok := shorthandFor(c); ok {
		return &ShorthandClass{Kind: s}, nil
	}
	switch {
	case c == 'b':
		return &Anchor{Kind: AnchorWordBoundary}, nil
	case c == 'B':
		return &Anchor{Kind: AnchorNotWordBoundary}, nil
	case c >= '1' && c <= '9':
		// Backreferences take every following digit: \10 is group 10.
		end := scanDigits(p.pattern, p.pos)
		p.pos = end
		index := atoiSat(p.pattern[start+1:end], p.ncap+1)
		if index > p.ncap {
			return nil, &Error{Code: ErrUnknownGroupReference, Expr: p.pattern[start:end]}
		}
		return &Backref{Index: index}, nil
	}

	r, err := p.escapeRune(c, start)
	if err != nil {
		return nil, err
	}
	return &Literal{Rune: r}, nil
}

// escapeRune resolves a single-rune escape whose letter c has been consumed.
// Unrecognized punctuation and letters stand for themselves.
func (p *parser) escapeRune(c rune, start int) (rune, error) {
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'x':
		return p.parseHex(start)
	case 'p', 'P':
		return 0, &Error{Code: ErrInvalidEscape, Expr: p.pattern[start:p.pos]}
	}
	return c, nil
}

// parseHex parses the digits of \xHH or \x{H...} after the 'x'.
func (p *parser) parseHex(start int) (rune, error) {
	bad := func() (rune, error) {
		return 0, &Error{Code: ErrInvalidEscape, Expr: p.pattern[start:p.pos]}
	}

	if p.peekIs('{') {
		p.pos++
		var r rune
		n := 0
		for !p.eof() && !p.peekIs('}') {
			v, ok := hexValue(p.pattern[p.pos])
			if !ok {
				return bad()
			}
			p.pos++
			r = r*16 + v
			n++
			if r > utf8.MaxRune {
				return bad()
			}
		}
		if n == 0 || p.eof() {
			return bad()
		}
		p.pos++ // }
		return r, nil
	}

	var r rune
	for i := 0; i < 2; i++ {
		if p.eof() {
			return bad()
		}
		v, ok := hexValue(p.pattern[p.pos])
		if !ok {
			return bad()
		}
		p.pos++
		r = r*16 + v
	}
	return r, nil
}

func (p *parser) parseClass() (Node, error) {
	start := p.pos
	p.pos++ // [

	cls := &Class{}
	if p.peekIs('^') {
		p.pos++
		cls.Negated = true
	}
	// ']' right after '[' or '[^' is a literal, not the closer.
	if p.peekIs(']') {
		p.pos++
		cls.Ranges = append(cls.Ranges, RuneRange{Lo: ']', Hi: ']'})
	}

	for {
		if p.eof() {
			return nil, &Error{Code: ErrMissingBracket, Expr: p.pattern[start:]}
		}
		if p.peekIs(']') {
			p.pos++
			return cls, nil
		}

		lo, set, isSet, err := p.parseClassAtom(start)
		if err != nil {
			return nil, err
		}
		if isSet {
			cls.Sets = append(cls.Sets, set)
			continue
		}

		// '-' is a range operator only when something other than ']' follows.
		if p.peekIs('-') && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] != ']' {
			p.pos++
			hi, hiSet, hiIsSet, err := p.parseClassAtom(start)
			if err != nil {
				return nil, err
			}
			if hiIsSet {
				cls.Ranges = append(cls.Ranges, RuneRange{Lo: lo, Hi: lo}, RuneRange{Lo: '-', Hi: '-'})
				cls.Sets = append(cls.Sets, hiSet)
				continue
			}
			cls.Ranges = append(cls.Ranges, RuneRange{Lo: lo, Hi: hi})
			continue
		}
		cls.Ranges = append(cls.Ranges, RuneRange{Lo: lo, Hi: lo})
	}
}

// parseClassAtom parses one class member: a rune, an escaped rune, or a
// shorthand class (isSet).
func (p *parser) parseClassAtom(classStart int) (r rune, set Shorthand, isSet bool, err error) {
	if !p.peekIs('\\') {
		return p.next(), 0, false, nil
	}
	start := p.pos
	p.pos++
	if p.eof() {
		return 0, 0, false, &Error{Code: ErrMissingBracket, Expr: p.pattern[classStart:]}
	}
	c := p.next()
	if s, ok := shorthandFor(c); ok {
		return 0, s, true, nil
	}
	r, err = p.escapeRune(c, start)
	return r, 0, false, err
}

func shorthandFor(c rune) (Shorthand, bool) {
	switch c {
	case 'd':
		return Digit, true
	case 'D':
		return NotDigit, true
	case 'w':
		return Word, true
	case 'W':
		return NotWord, true
	case 's':
		return Space, true
	case 'S':
		return NotSpace, true
	}
	return 0, false
}

// Helpers

func (p *parser) eof() bool {
	return p.pos >= len(p.pattern)
}

func (p *parser) peekIs(b byte) bool {
	return p.pos < len(p.pattern) && p.pattern[p.pos] == b
}

func (p *parser) next() rune {
	r, w := utf8.DecodeRuneInString(p.pattern[p.pos:])
	p.pos += w
	return r
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// atoiSat parses a run of ASCII digits, saturating at limit so oversized
// numbers cannot overflow.
func atoiSat(s string, limit int) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
		if n >= limit {
			return limit
		}
	}
	return n
}

func hexValue(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}
