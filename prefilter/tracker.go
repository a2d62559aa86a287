package prefilter

// Tracker retires a prefilter that is not paying for itself.
//
// Every candidate the prefilter reports costs a VM attempt plus the call
// overhead of the search itself. When candidates are dense, for example a
// memchr on 'e' over English text, scanning every offset directly is
// cheaper. The tracker measures the average number of bytes skipped per
// candidate and, once it has seen enough candidates, disables the prefilter
// for the rest of the search when that average is too small.
//
// A disabled tracker reports every offset as a candidate, so callers need no
// second code path. A Tracker is per search and not safe for concurrent use.
//
// Example usage:
//
//	tr := prefilter.NewTracker(pf)
//	for at := 0; at <= len(haystack); at++ {
//	    if at = tr.Find(haystack, at); at < 0 {
//	        break
//	    }
//	    if fullMatchAt(haystack, at) {
//	        return at
//	    }
//	}
type Tracker struct {
	inner  Prefilter
	config TrackerConfig

	candidates uint64
	skipped    uint64
	active     bool
}

// TrackerConfig holds the retirement thresholds.
type TrackerConfig struct {
	// WarmupPeriod is the number of candidates seen before the tracker
	// judges effectiveness.
	WarmupPeriod uint64

	// MinAvgSkip is the smallest acceptable average number of bytes the
	// prefilter skips per candidate.
	MinAvgSkip uint64
}

// DefaultTrackerConfig returns the default thresholds: judge after 40
// candidates, retire below 8 skipped bytes per candidate.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		WarmupPeriod: 40,
		MinAvgSkip:   8,
	}
}

// NewTracker wraps inner with the default configuration. It returns nil if
// inner is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig wraps inner. It returns nil if inner is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{inner: inner, config: config, active: true}
}

// Find returns the next candidate at or after start, or -1. Once the
// tracker is inactive it returns start itself.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return start
	}
	pos := t.inner.Find(haystack, start)
	if pos < 0 {
		return -1
	}
	t.candidates++
	t.skipped += uint64(pos - start)
	if t.candidates >= t.config.WarmupPeriod && t.skipped < t.config.MinAvgSkip*t.candidates {
		t.active = false
	}
	return pos
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return t.active
}

// Stats returns the number of candidates reported and the bytes skipped.
func (t *Tracker) Stats() (candidates, skipped uint64) {
	return t.candidates, t.skipped
}

// Reset re-enables the prefilter and clears the statistics, so a Tracker
// can be reused for another search.
func (t *Tracker) Reset() {
	t.candidates = 0
	t.skipped = 0
	t.active = true
}

// Inner returns the wrapped prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}
