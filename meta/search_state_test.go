package meta

import (
	"strings"
	"testing"
)

func TestSearchStateReset(t *testing.T) {
	e := mustCompile(t, `x\d`)
	state := newSearchState(e.prog, e.config.MaxDepth, e.pf)

	big := strings.Repeat("a", maxPooledBuf+1)
	if got := state.haystack(big); len(got) != len(big) {
		t.Fatalf("haystack len = %d, want %d", len(got), len(big))
	}
	state.reset()
	if state.buf != nil {
		t.Errorf("reset kept a %d byte buffer", cap(state.buf))
	}

	state.haystack("small")
	state.reset()
	if state.buf == nil || len(state.buf) != 0 {
		t.Errorf("reset dropped a small buffer or left it non-empty: %q", state.buf)
	}
	if !state.tracker.IsActive() {
		t.Error("reset left the tracker inactive")
	}
}

func TestSearchStateWithoutPrefilter(t *testing.T) {
	e := mustCompile(t, `\d+`)
	state := e.pool.get()
	defer e.pool.put(state)
	if state.tracker != nil {
		t.Error("UseScan state has a tracker")
	}
	if !e.search(state, "ab12") {
		t.Fatal("search failed")
	}
	if caps := state.machine.Caps(); caps[0] != 2 || caps[1] != 4 {
		t.Errorf("caps = %v, want [2 4]", caps[:2])
	}
}
