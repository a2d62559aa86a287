package meta

// Match is a successful match: the overall span and the span of every
// capturing group.
//
// Example:
//
//	m := engine.Find("x abc y")
//	fmt.Println(m.String(), m.Start(), m.End()) // "abc" 2 5
//	text, ok := m.Group(1)
type Match struct {
	subject string

	// slots[2i] and slots[2i+1] bound group i; -1 means the group did not
	// participate. Group 0 is the whole match.
	slots []int
}

// NewMatch creates a Match over subject from capture slots. The slots are
// used, not copied.
func NewMatch(subject string, slots []int) *Match {
	return &Match{subject: subject, slots: slots}
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.slots[1] - m.slots[0]
}

// String returns the matched text.
func (m *Match) String() string {
	return m.subject[m.slots[0]:m.slots[1]]
}

// IsEmpty reports whether the match has zero length.
func (m *Match) IsEmpty() bool {
	return m.Len() == 0
}

// NumGroups returns the number of capturing groups, excluding group 0.
func (m *Match) NumGroups() int {
	return len(m.slots)/2 - 1
}

// GroupIndex returns the span of group i, or (-1, -1) if it did not
// participate or i is out of range.
func (m *Match) GroupIndex(i int) (start, end int) {
	if i < 0 || 2*i+1 >= len(m.slots) || m.slots[2*i] < 0 || m.slots[2*i+1] < 0 {
		return -1, -1
	}
	return m.slots[2*i], m.slots[2*i+1]
}

// Group returns the text of group i and whether it participated.
func (m *Match) Group(i int) (string, bool) {
	start, end := m.GroupIndex(i)
	if start < 0 {
		return "", false
	}
	return m.subject[start:end], true
}

// Slots returns a copy of the capture slots.
func (m *Match) Slots() []int {
	return append([]int(nil), m.slots...)
}
