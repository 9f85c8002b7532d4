package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/earley/lex"
)

// ErrNotAccepted is returned when a derivation is requested from a
// failed parse.
var ErrNotAccepted = errors.New("input not accepted")

// SyntaxError describes where a parse failed. Found is nil when the input
// ended too early.
type SyntaxError struct {
	Expected []string   // terminal names, in order of first appearance
	Found    *lex.Token // offending token
	Position int        // 1-based rank of the offending token
	Index    int        // entry set where the parse stopped
}

func (e *SyntaxError) Error() string {
	quoted := make([]string, len(e.Expected))
	for i, name := range e.Expected {
		quoted[i] = "'" + name + "'"
	}
	expected := "[" + strings.Join(quoted, ", ") + "]"

	if e.Found == nil {
		return fmt.Sprintf("syntax error at end of input: expected one of %s", expected)
	}
	return fmt.Sprintf("syntax error at or near token %d >>>%s<<<: expected one of %s, found '%s' instead",
		e.Position, e.Found.Literal, expected, e.Found.Literal)
}

// InternalError reports an inconsistency found while walking a chart or
// building a derivation from it.
type InternalError struct {
	Message string
	Ref     Ref
}

func (e *InternalError) Error() string {
	if e.Ref == NoRef {
		return "internal error: " + e.Message
	}
	return fmt.Sprintf("internal error at entry %s: %s", e.Ref, e.Message)
}

// Internalf creates an InternalError for the entry at ref.
func Internalf(ref Ref, format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...), Ref: ref}
}
