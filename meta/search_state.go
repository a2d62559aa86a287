package meta

import (
	"sync"

	"github.com/coregx/btregex/prefilter"
	"github.com/coregx/btregex/prog"
	"github.com/coregx/btregex/vm"
)

// SearchState holds per-search mutable state so that one Engine can be
// used from many goroutines. States are recycled through a sync.Pool.
//
// Usage pattern:
//
//	state := e.pool.get()
//	defer e.pool.put(state)
type SearchState struct {
	machine *vm.Machine

	// buf holds a byte copy of the subject for the candidate finders.
	buf []byte

	// tracker is nil unless the engine has a prefilter.
	tracker *prefilter.Tracker
}

func newSearchState(p *prog.Prog, maxDepth int, pf prefilter.Prefilter) *SearchState {
	return &SearchState{
		machine: vm.New(p, maxDepth),
		tracker: prefilter.NewTracker(pf),
	}
}

// haystack returns subject as bytes, reusing the state's buffer.
func (s *SearchState) haystack(subject string) []byte {
	s.buf = append(s.buf[:0], subject...)
	return s.buf
}

// maxPooledBuf bounds the buffer a pooled state may keep.
const maxPooledBuf = 64 << 10

func (s *SearchState) reset() {
	if cap(s.buf) > maxPooledBuf {
		s.buf = nil
	} else {
		s.buf = s.buf[:0]
	}
	if s.tracker != nil {
		s.tracker.Reset()
	}
}

// searchStatePool manages SearchState instances for one Engine.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool(p *prog.Prog, maxDepth int, pf prefilter.Prefilter) *searchStatePool {
	sp := &searchStatePool{}
	sp.pool = sync.Pool{
		New: func() any {
			return newSearchState(p, maxDepth, pf)
		},
	}
	return sp
}

func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	state.reset()
	p.pool.Put(state)
}
