package meta

import "testing"

func TestMatchGroups(t *testing.T) {
	m := NewMatch("xx abc", []int{3, 6, 3, 4, -1, -1, 5, 5})

	if m.String() != "abc" || m.Start() != 3 || m.End() != 6 || m.Len() != 3 {
		t.Errorf("match = %q [%d,%d) len %d", m.String(), m.Start(), m.End(), m.Len())
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if m.NumGroups() != 3 {
		t.Errorf("NumGroups() = %d, want 3", m.NumGroups())
	}

	tests := []struct {
		i     int
		text  string
		ok    bool
		start int
	}{
		{0, "abc", true, 3},
		{1, "a", true, 3},
		{2, "", false, -1},
		{3, "", true, 5},
		{4, "", false, -1},
		{-1, "", false, -1},
	}
	for _, tt := range tests {
		text, ok := m.Group(tt.i)
		if text != tt.text || ok != tt.ok {
			t.Errorf("Group(%d) = (%q, %v), want (%q, %v)", tt.i, text, ok, tt.text, tt.ok)
		}
		if start, _ := m.GroupIndex(tt.i); start != tt.start {
			t.Errorf("GroupIndex(%d) start = %d, want %d", tt.i, start, tt.start)
		}
	}
}

func TestMatchSlotsCopy(t *testing.T) {
	m := NewMatch("ab", []int{0, 2})
	s := m.Slots()
	s[0] = 1
	if m.Start() != 0 {
		t.Error("Slots() returned the internal slice")
	}
	if !NewMatch("ab", []int{1, 1}).IsEmpty() {
		t.Error("IsEmpty() = false for an empty match")
	}
}
