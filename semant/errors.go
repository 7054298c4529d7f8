// Package semant implements the cp language's semantic analyzer: the
// cursor-driven dispatcher that performs every grammar semantic action
// (§4.5), building each statement's expression tree and populating the
// symbol table as the parser drives it.
package semant

import "fmt"

// ErrorKind classifies a recovered semantic error (§4.5, §7).
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	TypeMismatch
	InvalidType
	DuplicateDeclaration
	MissingParameters
	InvalidArraySize
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case TypeMismatch:
		return "type mismatch"
	case InvalidType:
		return "invalid type"
	case DuplicateDeclaration:
		return "duplicate declaration"
	case MissingParameters:
		return "missing parameters"
	case InvalidArraySize:
		return "invalid array size"
	default:
		return "semantic error"
	}
}

// Error is one recovered semantic error. Like the parser, analysis never
// stops at the first one: the analyzer collects every error it finds and
// abandons only the one expression tree it was building when it occurred.
type Error struct {
	Kind   ErrorKind
	Line   int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Detail)
}
