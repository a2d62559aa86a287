// Package btregex provides a backtracking regular expression engine with
// backreferences and lookaround.
//
// Patterns use a Perl-like dialect: alternation, greedy and lazy
// quantifiers, character classes, \d \w \s, anchors, capturing and
// non-capturing groups, backreferences \1..\N, lookahead (?=...) (?!...),
// lookbehind (?<=...) (?<!...) of any width, and scoped flags (?i:...),
// (?s:...), (?m:...). Case folding is ASCII only.
//
// Basic usage:
//
//	re, err := btregex.Compile(`(\w+)\s+\1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(re.FindString("it is is done")) // "is is"
//
// Matching is leftmost-first: the first start offset that matches wins, and
// at that offset alternatives and quantifiers are tried in priority order.
// Offsets are byte offsets into the UTF-8 subject.
//
// Performance characteristics:
//   - Start offsets are pruned by a leading rune, a start anchor, or a prefix
//     literal set (memchr, memmem, Aho-Corasick)
//   - Each attempt backtracks and is exponential in the worst case
//   - Recursion is bounded by Config.MaxDepth; a path that hits the ceiling
//     fails locally, so pathological inputs can miss a match instead of
//     overflowing the stack
package btregex

import (
	"github.com/coregx/btregex/meta"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := btregex.MustCompile(`a(?=b)`)
//	fmt.Println(re.FindStringIndex("xab")) // [1 2]
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern.
//
// Returns a *syntax.Error if the pattern is invalid.
//
// Example:
//
//	re, err := btregex.Compile(`(a+)\1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, meta.DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// Example:
//
//	var doubled = btregex.MustCompile(`\b(\w+) \1\b`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := btregex.DefaultConfig()
//	config.MaxDepth = 100_000 // deeper backtracking for long subjects
//	re, err := btregex.CompileWithConfig(`(a|b)*c`, config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a regular
// expression matching the literal text.
//
// Example:
//
//	escaped := btregex.QuoteMeta("1+1=2?")
//	// escaped = `1\+1=2\?`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of capturing groups.
func (r *Regex) NumSubexp() int {
	return r.engine.NumCaptures()
}

// Strategy returns the name of the start-offset strategy, for diagnostics.
func (r *Regex) Strategy() string {
	return r.engine.Strategy().String()
}

// Engine returns the underlying search engine.
func (r *Regex) Engine() *meta.Engine {
	return r.engine
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.engine.IsMatch(s)
}

// FindString returns the text of the leftmost match in s. It returns the
// empty string both for no match and for an empty match; use
// FindStringIndex to tell them apart.
func (r *Regex) FindString(s string) string {
	m := r.engine.Find(s)
	if m == nil {
		return ""
	}
	return m.String()
}

// FindStringIndex returns the [start, end) byte offsets of the leftmost
// match in s, or nil if there is none.
func (r *Regex) FindStringIndex(s string) []int {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindStringSubmatch returns the text of the leftmost match and of each
// capturing group. A group that did not participate yields "". It returns
// nil if there is no match.
//
// Example:
//
//	re := btregex.MustCompile(`(\w+)@(\w+)\.com`)
//	m := re.FindStringSubmatch("mail bob@example.com")
//	// m[0] = "bob@example.com", m[1] = "bob", m[2] = "example"
func (r *Regex) FindStringSubmatch(s string) []string {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	out := make([]string, m.NumGroups()+1)
	for i := range out {
		out[i], _ = m.Group(i)
	}
	return out
}

// FindStringSubmatchIndex returns the index pairs of the leftmost match and
// of each capturing group. Result[2*i:2*i+2] bounds group i; a group that
// did not participate has -1 indices. It returns nil if there is no match.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	return m.Slots()
}
