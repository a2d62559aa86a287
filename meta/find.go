package meta

import "unicode/utf8"

// Find returns the leftmost match in subject, or nil.
func (e *Engine) Find(subject string) *Match {
	state := e.pool.get()
	defer e.pool.put(state)

	if !e.search(state, subject) {
		return nil
	}
	slots := append([]int(nil), state.machine.Caps()...)
	return NewMatch(subject, slots)
}

// IsMatch reports whether subject contains a match.
func (e *Engine) IsMatch(subject string) bool {
	state := e.pool.get()
	defer e.pool.put(state)
	return e.search(state, subject)
}

// search runs the VM at each candidate start in increasing order and stops
// at the first success, leaving the captures in state.machine.
func (e *Engine) search(state *SearchState, subject string) bool {
	m := state.machine
	switch e.strategy {
	case UseAnchored:
		return m.Exec(subject, 0)

	case UseFirstRune, UsePrefilter:
		haystack := state.haystack(subject)
		for at := 0; at <= len(subject); at += runeWidth(subject, at) {
			at = state.tracker.Find(haystack, at)
			if at < 0 {
				return false
			}
			if m.Exec(subject, at) {
				return true
			}
		}
		return false

	default:
		for at := 0; at <= len(subject); at += runeWidth(subject, at) {
			if m.Exec(subject, at) {
				return true
			}
		}
		return false
	}
}

// runeWidth returns the width of the rune at at, as the VM decodes it. At
// the end of subject it is 1, which ends the scan.
func runeWidth(subject string, at int) int {
	if at >= len(subject) || subject[at] < utf8.RuneSelf {
		return 1
	}
	_, w := utf8.DecodeRuneInString(subject[at:])
	return w
}
