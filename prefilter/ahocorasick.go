package prefilter

import (
	"strconv"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/btregex/literal"
)

// ahoCorasickPrefilter searches for any literal of a set in one pass.
//
// Example patterns:
//
//	/foo|bar|baz/        → three literals
//	/(cat|dog)s? \w+/    → "cat", "dog"
type ahoCorasickPrefilter struct {
	auto *ahocorasick.Automaton
	n    int
}

// newAhoCorasick returns nil if the automaton cannot be built.
func newAhoCorasick(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern([]byte(seq.Get(i).Text))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, n: seq.Len()}
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) String() string {
	return "aho-corasick(" + strconv.Itoa(p.n) + " literals)"
}
