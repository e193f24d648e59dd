// Package token defines the lexical atoms produced by the lexer.
package token

import "fmt"

// Span is a half-open byte range [Start, End) into the original source
// text. Every token, AST instruction, SSA block, and error carries one.
type Span struct {
	Start int
	End   int
}

// String renders a span as "start:end" for debug output.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Type identifies the lexical category of a Token.
type Type int

const (
	Number Type = iota
	Macro
	Label
	Port
	Name
	Register
	Memory
	Char
	Newline
	Dw
	ArrayStart
	ArrayEnd
)

var typeNames = map[Type]string{
	Number:     "NUMBER",
	Macro:      "MACRO",
	Label:      "LABEL",
	Port:       "PORT",
	Name:       "NAME",
	Register:   "REGISTER",
	Memory:     "MEMORY",
	Char:       "CHAR",
	Newline:    "NEWLINE",
	Dw:         "DW",
	ArrayStart: "[",
	ArrayEnd:   "]",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Token is a tagged union over the lexical atoms of the language. Only the
// fields relevant to Type are meaningful; the rest are zero.
type Token struct {
	Type  Type
	Span  Span
	Int   int64  // Number, Register, Memory, Char (as code point)
	Str   string // Macro, Label, Port, Name
	Runes string // the exact source text the token was scanned from
}

func (t Token) String() string {
	switch t.Type {
	case Number, Register, Memory, Char:
		return fmt.Sprintf("%s(%d)@%s", t.Type, t.Int, t.Span)
	case Macro, Label, Port, Name:
		return fmt.Sprintf("%s(%q)@%s", t.Type, t.Str, t.Span)
	default:
		return fmt.Sprintf("%s@%s", t.Type, t.Span)
	}
}
