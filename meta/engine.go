// Package meta implements the search driver: it compiles a pattern once,
// chooses how start offsets are picked, and runs the backtracking VM at each
// candidate offset until the leftmost match is found.
//
// Strategy selection is based on the compiled program and the pattern's
// prefix literals:
//   - A start anchor limits the search to offset 0
//   - A leading case-sensitive rune is searched for directly
//   - A prefix literal set feeds a memchr, memmem or Aho-Corasick prefilter
//   - Otherwise every rune boundary is tried
//
// An Engine is immutable after compilation and safe for concurrent use. The
// mutable run state of a search lives in a pooled SearchState.
package meta

import (
	"github.com/coregx/btregex/prefilter"
	"github.com/coregx/btregex/prog"
	"github.com/coregx/btregex/syntax"
)

// Engine is a compiled pattern plus its search strategy.
type Engine struct {
	pattern  string
	prog     *prog.Prog
	strategy Strategy
	pf       prefilter.Prefilter
	config   Config
	pool     *searchStatePool
}

// Compile compiles pattern with DefaultConfig.
//
// Example:
//
//	engine, err := meta.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m := engine.Find("mail bob@example.com"); m != nil {
//	    fmt.Println(m.String()) // bob@example.com
//	}
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration. It returns
// a *ConfigError for an invalid configuration and a *syntax.Error for an
// invalid pattern.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tree, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	p, err := prog.Compile(tree, prog.Config{MaxInsts: config.MaxProgramSize})
	if err != nil {
		return nil, err
	}
	strategy, pf := selectStrategy(p, tree, config)
	return &Engine{
		pattern:  pattern,
		prog:     p,
		strategy: strategy,
		pf:       pf,
		config:   config,
		pool:     newSearchStatePool(p, config.MaxDepth, pf),
	}, nil
}

// String returns the source pattern.
func (e *Engine) String() string {
	return e.pattern
}

// Strategy returns the selected search strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the candidate finder, or nil for UseScan and
// UseAnchored.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.pf
}

// Prog returns the compiled program. It must not be modified.
func (e *Engine) Prog() *prog.Prog {
	return e.prog
}

// NumCaptures returns the number of capturing groups, excluding group 0.
func (e *Engine) NumCaptures() int {
	return e.prog.NumGroups
}
