// errors.go — the error taxonomy and user-facing rendering.
//
// Three error families cross the public API:
//   - *LexError   (lexer.go)  — invalid character, unterminated string.
//   - *ParseError (parser.go) — unexpected token, invalid assignment target,
//     malformed literal, unmatched delimiter.
//   - *RuntimeError           — everything the evaluator raises, carrying a
//     Kind from the closed set below.
//
// None of these are recovered internally: every error aborts the current
// evaluation and surfaces to the immediate caller of Eval*. The language has
// no catch/try construct.
//
// WrapErrorWithSource turns lex/parse errors into Python-style caret snippets
// for terminals:
//
//	PARSE ERROR at 3:12: expected ')' to close the group, got end of input
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	     |            ^
//
// Runtime errors carry no source position and pass through unchanged.
package korio

import (
	"fmt"
	"strings"
)

// RuntimeErrKind is the closed set of runtime failure categories.
type RuntimeErrKind int

const (
	ErrUndefinedVariable RuntimeErrKind = iota
	ErrRedeclaredVariable
	ErrConstReassignment
	ErrTypeMismatch // operator types, non-boolean condition, non-function call, non-iterable, annotation violation
	ErrIndex        // out-of-bounds, non-integer or wrong-kind index
)

func (k RuntimeErrKind) String() string {
	switch k {
	case ErrUndefinedVariable:
		return "UndefinedVariable"
	case ErrRedeclaredVariable:
		return "RedeclaredVariable"
	case ErrConstReassignment:
		return "ConstReassignment"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrIndex:
		return "IndexError"
	}
	return "RuntimeError"
}

// RuntimeError is the structured execution-time failure surfaced by all
// Eval* methods.
type RuntimeError struct {
	Kind RuntimeErrKind
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR: %s: %s", e.Kind, e.Msg)
}

/* ===========================
   Caret-snippet rendering
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lexer/parser errors and
// leaves other errors untouched. Lex/parse Col are 0-based and rendered
// 1-based.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", caretSnippet(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", caretSnippet(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// caretSnippet builds a plain-text snippet with a header, one line of context
// on each side and a caret under the 1-based column. Out-of-range coordinates
// are clamped so rendering never fails.
func caretSnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	if width := len(lines[line-1]); col > width+1 {
		col = width + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)

	gutter := len(fmt.Sprintf("%d", minInt(line+1, len(lines))))
	writeLine := func(n int) {
		if n < 1 || n > len(lines) {
			return
		}
		fmt.Fprintf(&b, "  %*d | %s\n", gutter, n, lines[n-1])
	}

	writeLine(line - 1)
	writeLine(line)
	fmt.Fprintf(&b, "  %s | %s^\n", strings.Repeat(" ", gutter), strings.Repeat(" ", col-1))
	writeLine(line + 1)

	return strings.TrimRight(b.String(), "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
