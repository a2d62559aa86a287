package main

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunOutcomes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"match with groups", []string{`(\w+)@(\w+)\.com`, "mail bob@example.com now"}, "MATCH:bob@example.com\nGROUP 1:bob\nGROUP 2:example\n"},
		{"match no groups", []string{"b+", "abbbc"}, "MATCH:bbb\n"},
		{"unset group", []string{"(a)|b", "b"}, "MATCH:b\nGROUP 1:\n"},
		{"empty match", []string{"x*", "abc"}, "MATCH:\n"},
		{"no match", []string{"xyz", "abc"}, "NO_MATCH\n"},
		{"compile error", []string{"(a", "a"}, "ERROR:error parsing regexp: unbalanced group: `(a`\n"},
		{"dash pattern after --", []string{"--", "-+", "a--b"}, "MATCH:--\n"},
		{"backreference", []string{`(\w)\1`, "abccd"}, "MATCH:cc\nGROUP 1:c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args...)
			assert.Equal(t, code, 0)
			assert.Equal(t, stdout, tt.want)
			assert.Equal(t, stderr, "")
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no args", nil, "usage: btregex"},
		{"one arg", []string{"abc"}, "usage: btregex"},
		{"three args", []string{"a", "b", "c"}, "usage: btregex"},
		{"unknown flag", []string{"-x", "a", "b"}, "flag provided but not defined: -x"},
		{"timeout missing value", []string{"-timeout"}, "flag needs an argument: -timeout"},
		{"timeout invalid", []string{"-timeout", "soon", "a", "b"}, "invalid timeout: soon"},
		{"depth missing value", []string{"-depth"}, "flag needs an argument: -depth"},
		{"depth zero", []string{"-depth", "0", "a", "b"}, "invalid depth: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args...)
			assert.Equal(t, code, 1)
			assert.Equal(t, stdout, "")
			assert.Assert(t, is.Contains(stderr, tt.wantErr))
		})
	}
}

func TestRunHelpAndVersion(t *testing.T) {
	code, stdout, _ := runCLI("-h")
	assert.Equal(t, code, 0)
	assert.Assert(t, is.Contains(stdout, "-timeout dur"))

	code, stdout, _ = runCLI("-version")
	assert.Equal(t, code, 0)
	assert.Equal(t, stdout, "btregex version dev\n")
}

func TestRunDisassemble(t *testing.T) {
	code, stdout, stderr := runCLI("-d", "ab", "xaby")
	assert.Equal(t, code, 0)
	assert.Equal(t, stdout, "MATCH:ab\n")
	assert.Assert(t, is.Contains(stderr, "rune"))
	assert.Assert(t, is.Contains(stderr, "match"))
}

func TestRunVerbose(t *testing.T) {
	code, stdout, stderr := runCLI("-v", "hello", "say hello")
	assert.Equal(t, code, 0)
	assert.Equal(t, stdout, "MATCH:hello\n")
	assert.Assert(t, is.Contains(stderr, "msg=compiled"))
	assert.Assert(t, is.Contains(stderr, "strategy="))
	assert.Assert(t, is.Contains(stderr, "msg=searched"))
}

func TestRunDepth(t *testing.T) {
	subject := strings.Repeat("a", 10)

	code, stdout, _ := runCLI("a*$", subject)
	assert.Equal(t, code, 0)
	assert.Equal(t, stdout, "MATCH:"+subject+"\n")

	// Each a* iteration opens a choice point, so a shallow ceiling cuts the
	// greedy loop short until the match can start late enough to fit.
	code, stdout, _ = runCLI("-depth", "5", "a*$", subject)
	assert.Equal(t, code, 0)
	assert.Equal(t, stdout, "MATCH:aaaa\n")
}

func TestRunTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("leaves a pathological search running in the background")
	}
	subject := strings.Repeat("a", 26)
	code, stdout, _ := runCLI("-timeout", "1ms", "(a*)*b", subject)
	assert.Equal(t, code, 2)
	assert.Equal(t, stdout, "ERROR:search timed out\n")
}
