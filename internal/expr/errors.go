package expr

import (
	"fmt"
	"strings"
)

// ParseError reports malformed expression source. It carries the position
// of the offending token and a snippet of the surrounding source.
type ParseError struct {
	Pos     Position
	Msg     string
	Snippet string
}

// newParseError builds a ParseError with a source snippet pointing at pos.
func newParseError(source string, pos Position, msg string) *ParseError {
	return &ParseError{
		Pos:     pos,
		Msg:     msg,
		Snippet: snippetAt(source, pos),
	}
}

func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("parse error at %s: %s\n%s", e.Pos, e.Msg, e.Snippet)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// snippetAt extracts the source line containing pos with a caret marker.
func snippetAt(source string, pos Position) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	line := lines[pos.Line-1]
	col := pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	return line + "\n" + strings.Repeat(" ", col-1) + "^"
}

// UndefinedSymbolError reports an identifier that no scope could resolve.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol %q", e.Name)
}

// TypeMismatchError reports a value that could not be coerced to the
// expected kind.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func mismatch(expected, actual Kind) *TypeMismatchError {
	return &TypeMismatchError{Expected: expected.String(), Actual: actual.String()}
}
