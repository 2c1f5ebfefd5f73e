package parser

import "fmt"

// ParseError reports malformed WebIDL input. It is the only error the parser
// returns for syntactically invalid documents.
type ParseError struct {
	Line    int    // 1-based
	Column  int    // 1-based, in runes
	Token   string // offending token text; empty at end of input
	Message string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s (near %q)", e.Line, e.Column, e.Message, e.Token)
}

// bailout is raised by the parser to unwind on the first error.
type bailout struct{}
