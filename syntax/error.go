package syntax

// ErrorCode describes why a pattern failed to compile.
type ErrorCode string

const (
	// ErrUnbalancedGroup reports an unmatched '(' or ')'.
	ErrUnbalancedGroup ErrorCode = "unbalanced group"

	// ErrInvalidQuantifierTarget reports a quantifier with nothing to repeat,
	// including a quantifier applied directly to another quantifier.
	ErrInvalidQuantifierTarget ErrorCode = "missing argument to repetition operator"

	// ErrInvalidQuantifierRange reports a well-formed {n,m} with n > m,
	// or a repeat count above MaxRepeat.
	ErrInvalidQuantifierRange ErrorCode = "invalid repeat count"

	// ErrInvalidEscape reports a trailing backslash or an unsupported or
	// incomplete escape directive.
	ErrInvalidEscape ErrorCode = "invalid escape sequence"

	// ErrUnknownGroupReference reports a backreference to a group that has
	// not been opened at that point of the pattern.
	ErrUnknownGroupReference ErrorCode = "unknown group reference"

	// ErrMissingBracket reports a character class without its closing ']'.
	ErrMissingBracket ErrorCode = "missing closing ]"

	// ErrInvalidGroup reports unsupported (?...) syntax, including
	// standalone flag groups such as (?i).
	ErrInvalidGroup ErrorCode = "invalid or unsupported group syntax"

	// ErrPatternTooLarge reports a pattern that nests too deeply or whose
	// compiled program exceeds the configured size.
	ErrPatternTooLarge ErrorCode = "pattern too large"
)

// String returns the code's message.
func (e ErrorCode) String() string {
	return string(e)
}

// Error describes a failure to parse or compile a pattern.
type Error struct {
	Code ErrorCode
	Expr string
}

// Error implements the error interface using the stdlib regexp message format.
func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() + ": `" + e.Expr + "`"
}

// Is reports whether target is an *Error with the same Code, so callers
// can write errors.Is(err, &syntax.Error{Code: syntax.ErrInvalidEscape}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
