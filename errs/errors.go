// Package errs defines the error taxonomy shared by the lexer, parser, and
// interpreter. Every error is a {kind, span} pair; rendering to a
// human-readable form is the job of the diag package, not this one.
package errs

import (
	"fmt"

	"github.com/urcl-vm/urcl-vm/token"
)

// Kind partitions errors by the stage that raised them.
type Kind int

const (
	// Lexer
	LexerError Kind = iota

	// Parser
	SyntaxError
	LabelNotDefined
	ExpectingValue
	ExpectingName
	ExpectingImmediate
	UnknownMacro
	OperandWrongType
	UnknownOpcode
	OperandCountNotMatch
	NameNotDefined
	UnexpectedEof

	// Interpreter
	UnsupportedPort
	MemoryAccessOob
	DivideByZero
	StackOverflow
	StackUnderflow
)

var messages = map[Kind]string{
	LexerError:           "unable to tokenize source",
	SyntaxError:          "syntax error",
	LabelNotDefined:      "label is not defined anywhere",
	ExpectingValue:       "expecting a value",
	ExpectingName:        "expecting a name",
	ExpectingImmediate:   "expecting an immediate",
	UnknownMacro:         "unknown macro directive",
	OperandWrongType:     "operand has an incompatible type for this instruction",
	UnknownOpcode:        "unknown opcode",
	OperandCountNotMatch: "opcode does not support the number of operands given",
	NameNotDefined:       "name is not defined",
	UnexpectedEof:        "unexpected end of file",
	UnsupportedPort:      "unsupported port",
	MemoryAccessOob:      "memory access out of bounds",
	DivideByZero:         "division by zero",
	StackOverflow:        "stack overflowed",
	StackUnderflow:       "stack underflowed",
}

// Message returns the static, non-span-specific description of a Kind.
func (k Kind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return "unknown error"
}

func (k Kind) String() string {
	return k.Message()
}

// Error is a single diagnostic: a Kind with the span it applies to, an
// optional data payload (e.g. the offending port or address), and an
// optional one-line hint.
type Error struct {
	Kind Kind
	Span token.Span
	Data int64  // UnsupportedPort: port id; MemoryAccessOob: address
	Hint string // e.g. "did you mean .loop?" — advisory only
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s at %s (%s)", e.Kind.Message(), e.Span, e.Hint)
	}
	return fmt.Sprintf("%s at %s", e.Kind.Message(), e.Span)
}

// New creates an Error with no payload.
func New(kind Kind, span token.Span) *Error {
	return &Error{Kind: kind, Span: span}
}

// WithData creates an Error carrying a numeric payload (port id or address).
func WithData(kind Kind, span token.Span, data int64) *Error {
	return &Error{Kind: kind, Span: span, Data: data}
}

// List accumulates errors from a stage that recovers from per-line/per-token
// failures and reports everything it found at once.
type List struct {
	Errors []*Error
}

// Add appends an error to the list.
func (l *List) Add(err *Error) {
	l.Errors = append(l.Errors, err)
}

// HasErrors reports whether any error was recorded.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error implements the error interface, concatenating every recorded error.
func (l *List) Error() string {
	var out string
	for _, e := range l.Errors {
		out += e.Error() + "\n"
	}
	return out
}
