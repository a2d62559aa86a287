package meta

import (
	"unicode/utf8"

	"github.com/coregx/btregex/literal"
	"github.com/coregx/btregex/prefilter"
	"github.com/coregx/btregex/prog"
	"github.com/coregx/btregex/syntax"
)

// Strategy is the way the search driver picks start offsets for the VM.
// It is chosen once per pattern. Every strategy reports the same match as
// UseScan; the others only skip offsets at which no match can begin.
type Strategy int

const (
	// UseScan tries every rune boundary from 0 through len(subject).
	UseScan Strategy = iota

	// UseAnchored tries offset 0 only. Selected when the program begins
	// with a start-of-input assertion.
	UseAnchored

	// UseFirstRune tries only offsets where the subject holds the rune every
	// match must begin with. Selected when the program begins with a
	// case-sensitive rune test.
	UseFirstRune

	// UsePrefilter tries only offsets where one of a set of prefix literals
	// occurs, found with memchr, memmem or Aho-Corasick.
	UsePrefilter
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseScan:
		return "UseScan"
	case UseAnchored:
		return "UseAnchored"
	case UseFirstRune:
		return "UseFirstRune"
	case UsePrefilter:
		return "UsePrefilter"
	default:
		return "Unknown"
	}
}

// selectStrategy picks the strategy for p and builds its candidate finder,
// which is nil for UseScan and UseAnchored.
//
// Selection order:
//  1. Start anchor → UseAnchored
//  2. First rune hint → UseFirstRune
//  3. Sound prefix literal set (if enabled) → UsePrefilter
//  4. Otherwise → UseScan
func selectStrategy(p *prog.Prog, tree *syntax.Tree, config Config) (Strategy, prefilter.Prefilter) {
	if p.Anchored {
		return UseAnchored, nil
	}
	// An invalid input byte decodes as U+FFFD but is not its encoding.
	if p.HasFirstRune && p.FirstRune != utf8.RuneError {
		return UseFirstRune, prefilter.NewLiteral(string(p.FirstRune))
	}
	if config.EnablePrefilter {
		extractor := literal.New(literal.Config{MaxLiterals: config.MaxLiterals})
		if pf := prefilter.New(extractor.ExtractPrefixes(tree)); pf != nil {
			return UsePrefilter, pf
		}
	}
	return UseScan, nil
}
