package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lits(texts ...string) *Seq {
	s := &Seq{}
	for _, t := range texts {
		s.lits = append(s.lits, Literal{Text: t, Complete: true})
	}
	return s
}

func TestMinimize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"single", []string{"a"}, []string{"a"}},
		{"sorted", []string{"foo", "ba", "bar"}, []string{"ba", "foo"}},
		{"duplicates", []string{"x", "x"}, []string{"x"}},
		{"no prefixes", []string{"ab", "ba", "c"}, []string{"c", "ab", "ba"}},
		{"chain", []string{"abcd", "abc", "ab"}, []string{"ab"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := lits(tt.in...)
			s.Minimize()
			if diff := cmp.Diff(tt.want, s.Texts()); diff != "" {
				t.Errorf("Minimize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestMinimizeCompleteness(t *testing.T) {
	s := lits("foobar", "foo", "bar", "bar")
	s.Minimize()
	if got, want := s.String(), `["bar" "foo"+]`; got != want {
		t.Errorf("Minimize() = %s, want %s", got, want)
	}
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"hello"}, "hello"},
		{[]string{"foobar", "foobaz"}, "fooba"},
		{[]string{"abc", "xyz"}, ""},
		{[]string{"ab", "abc", "abd"}, "ab"},
	}
	for _, tt := range tests {
		if got := lits(tt.in...).LongestCommonPrefix(); got != tt.want {
			t.Errorf("LongestCommonPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubstringFree(t *testing.T) {
	tests := []struct {
		in   []string
		want bool
	}{
		{nil, true},
		{[]string{"foo", "bar"}, true},
		{[]string{"abcd", "bc"}, false},
		{[]string{"abc", "bc"}, false},
		{[]string{"x", "x"}, false},
		{[]string{"ab", "ba"}, true},
	}
	for _, tt := range tests {
		if got := lits(tt.in...).SubstringFree(); got != tt.want {
			t.Errorf("SubstringFree(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNilSeq(t *testing.T) {
	var s *Seq
	if s.Len() != 0 || s.Texts() != nil || s.String() != "[inf]" {
		t.Errorf("nil Seq: Len=%d Texts=%q String=%s", s.Len(), s.Texts(), s.String())
	}
}
