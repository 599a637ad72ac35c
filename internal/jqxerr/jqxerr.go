// Package jqxerr defines the error kinds produced by the jqx language
// pipeline: lexing, parsing, grammar construction, and evaluation.
package jqxerr

import "fmt"

// Kind identifies which stage of the pipeline an error came from.
type Kind int

const (
	// Lex is raised when no terminal pattern matches at a position, or the
	// only matching pattern matched zero characters.
	Lex Kind = iota

	// Parse is raised when the parse table has no row for the current
	// (state, token) pair.
	Parse

	// Grammar is raised at table-construction time when a shift/reduce or
	// reduce/reduce conflict cannot be resolved by lookahead.
	Grammar

	// Type is raised when an operand has the wrong JSON type for an
	// operator or built-in.
	Type

	// Index is raised when an array index is out of range or is not an
	// integer.
	Index

	// IO is raised for filesystem, subprocess, or stdin errors.
	IO

	// UnknownFunction is raised when an identifier used as a function is
	// not in the built-in registry.
	UnknownFunction
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LexError"
	case Parse:
		return "ParseError"
	case Grammar:
		return "GrammarError"
	case Type:
		return "TypeError"
	case Index:
		return "IndexError"
	case IO:
		return "IOError"
	case UnknownFunction:
		return "UnknownFunction"
	default:
		return "Error"
	}
}

// Error is an error produced somewhere in the jqx pipeline. It carries the
// Kind of failure and, where applicable, the byte offset in the source text
// that the failure occurred at.
type Error struct {
	kind Kind
	msg  string
	pos  int
	has  bool // whether pos is meaningful
	wrap error
}

func (e *Error) Error() string {
	if e.has {
		return fmt.Sprintf("%s at position %d: %s", e.kind, e.pos, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap gives the error that this Error wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

// KindOf returns the Kind of the error.
func (e *Error) KindOf() Kind {
	return e.kind
}

func newErr(kind Kind, pos int, has bool, format string, a ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), pos: pos, has: has}
}

// Lexf returns a LexError at the given byte position.
func Lexf(pos int, format string, a ...interface{}) error {
	return newErr(Lex, pos, true, format, a...)
}

// Parsef returns a ParseError at the given byte position.
func Parsef(pos int, format string, a ...interface{}) error {
	return newErr(Parse, pos, true, format, a...)
}

// Grammarf returns a GrammarError. Grammar errors occur at table-construction
// time, before any input has been read, so they carry no position.
func Grammarf(format string, a ...interface{}) error {
	return newErr(Grammar, 0, false, format, a...)
}

// Typef returns a TypeError.
func Typef(format string, a ...interface{}) error {
	return newErr(Type, 0, false, format, a...)
}

// Indexf returns an IndexError.
func Indexf(format string, a ...interface{}) error {
	return newErr(Index, 0, false, format, a...)
}

// WrapIO returns an IOError wrapping the given underlying error.
func WrapIO(err error, format string, a ...interface{}) error {
	e := newErr(IO, 0, false, format, a...)
	e.wrap = err
	return e
}

// UnknownFunctionf returns an UnknownFunction error.
func UnknownFunctionf(format string, a ...interface{}) error {
	return newErr(UnknownFunction, 0, false, format, a...)
}
