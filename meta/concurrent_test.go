package meta

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// TestConcurrentFind runs one Engine per strategy from many goroutines and
// checks every result against the sequential one.
func TestConcurrentFind(t *testing.T) {
	patterns := []string{
		`^(\w+)`,        // UseAnchored
		`a(b+)c`,        // UseFirstRune
		`(foo|bar)(\d)`, // UsePrefilter
		`(\d+)-(\d+)`,   // UseScan
	}
	inputs := []string{
		"hello world",
		"xx abbbc yy",
		"bar7 foo9",
		"call 555-1234 now",
		"no match here",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			e := mustCompile(t, pattern)
			want := make([]string, len(inputs))
			for i, in := range inputs {
				want[i] = fmt.Sprint(slotsOf(e.Find(in)))
			}

			const numGoroutines = 50
			const numIterations = 100
			var wg sync.WaitGroup
			var failures atomic.Int64
			for g := 0; g < numGoroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < numIterations; j++ {
						for i, in := range inputs {
							if fmt.Sprint(slotsOf(e.Find(in))) != want[i] {
								failures.Add(1)
							}
						}
					}
				}()
			}
			wg.Wait()
			if n := failures.Load(); n > 0 {
				t.Errorf("%d concurrent results differed from sequential ones", n)
			}
		})
	}
}

func slotsOf(m *Match) []int {
	if m == nil {
		return nil
	}
	return m.Slots()
}
