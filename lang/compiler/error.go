package compiler

import "fmt"

// Error reports one compile-time diagnostic, formatted per spec 7:
// "[Line N] Error at '<lexeme>': <msg>" or "[Line N] Error at end: <msg>"
// when the offending token is EOF.
type Error struct {
	Line   int
	Lexeme string
	// AtEnd is set when the offending token is EOF; Bare is set when it is a
	// scanner-produced error token, whose Lexeme is already the message, not
	// source text, so the "at '<lexeme>'" clause would be redundant.
	AtEnd   bool
	Bare    bool
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.AtEnd:
		return fmt.Sprintf("[Line %d] Error at end: %s", e.Line, e.Message)
	case e.Bare:
		return fmt.Sprintf("[Line %d] Error: %s", e.Line, e.Message)
	default:
		return fmt.Sprintf("[Line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
	}
}

// ErrorList accumulates every diagnostic reported during one compilation.
// Reporting continues past the first error (spec 4.2, "compilation continues
// for diagnostics"); a non-empty list means Compile returns no function.
type ErrorList []*Error

func (el ErrorList) Error() string {
	if len(el) == 1 {
		return el[0].Error()
	}
	s := fmt.Sprintf("%d compile errors:\n", len(el))
	for _, e := range el {
		s += "  " + e.Error() + "\n"
	}
	return s
}
