// Package ast defines the parsed representation of a URCL-family program:
// a header of machine parameters, an initial-memory word table, and an
// ordered instruction list with resolved operands.
package ast

import "github.com/urcl-vm/urcl-vm/token"

// Default header values, used when the source has no matching directive.
const (
	DefaultBits     = 8
	DefaultMinHeap  = 16
	DefaultMinStack = 8
	DefaultMinReg   = 8
)

// Program is the root of the parsed AST.
type Program struct {
	Filename string // diagnostics only, not part of program semantics

	Bits     uint
	MinHeap  uint
	MinStack uint
	MinReg   uint

	Dw []uint64

	Instructions []InstrSpan

	// Labels maps each declared label name to the instruction index it
	// names. Populated by the parser once every fixup has resolved;
	// consumed by format/xref/lint, which need label names the
	// resolved Operand.Imm values alone no longer carry.
	Labels map[string]int
}

// NewProgram returns a Program with the default header values.
func NewProgram(filename string) *Program {
	return &Program{
		Filename: filename,
		Bits:     DefaultBits,
		MinHeap:  DefaultMinHeap,
		MinStack: DefaultMinStack,
		MinReg:   DefaultMinReg,
	}
}

// InstrSpan pairs a resolved instruction with the source span it was
// parsed from.
type InstrSpan struct {
	Instr Instr
	Span  token.Span
}

// Opcode identifies the variant of an Instr.
type Opcode int

const (
	OpAdd Opcode = iota
	OpRsh
	OpLod
	OpStr
	OpBge
	OpNor
	OpImm
	OpMov
	OpIn
	OpOut
)

var opcodeNames = map[Opcode]string{
	OpAdd: "ADD",
	OpRsh: "RSH",
	OpLod: "LOD",
	OpStr: "STR",
	OpBge: "BGE",
	OpNor: "NOR",
	OpImm: "IMM",
	OpMov: "MOV",
	OpIn:  "IN",
	OpOut: "OUT",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return "UNKNOWN"
}

// Arity is the number of operand slots each opcode expects, in the order
// documented on each Instr variant. Used by the parser for arity checking.
var Arity = map[string]int{
	"ADD": 3,
	"RSH": 2,
	"LOD": 2,
	"STR": 2,
	"BGE": 3,
	"NOR": 3,
	"IMM": 2,
	"MOV": 2,
	"IN":  2,
	"OUT": 2,
}

// Instr is a single decoded instruction. Operands holds the instruction's
// slots in the positional order of its mnemonic signature:
//
//	ADD(d,a,b)  RSH(d,a)  LOD(d,a)  STR(a,d)  BGE(target,a,b)
//	NOR(d,a,b)  IMM(d,a)  MOV(d,a)  IN(d,port)  OUT(port,d)
//
// SlotIsRegister reports, for each opcode, which positions must resolve to
// a register index (the conventional "d" destination slots) versus a bare
// operand that may be a register or an immediate.
type Instr struct {
	Op       Opcode
	Operands []Operand
}

// OperandKind tags the variant of an Operand.
type OperandKind int

const (
	KindRegister OperandKind = iota
	KindImmediate
	KindUnresolvedLabel
	KindName
)

// Operand is a tagged union over what an instruction's operand slot can
// hold, the destination register slot included. After parsing completes no
// KindUnresolvedLabel or KindName remains: both are replaced by
// KindRegister or KindImmediate operands.
type Operand struct {
	Kind OperandKind

	Register int64  // KindRegister: register index, >= 0
	Imm      uint64 // KindImmediate: word value
	LabelID  int    // KindUnresolvedLabel: id from the label table
	Name     string // KindName: identifier looked up against @define names
}

// RegisterOperand builds a KindRegister operand.
func RegisterOperand(idx int64) Operand { return Operand{Kind: KindRegister, Register: idx} }

// ImmediateOperand builds a KindImmediate operand.
func ImmediateOperand(word uint64) Operand { return Operand{Kind: KindImmediate, Imm: word} }

// UnresolvedLabelOperand builds a KindUnresolvedLabel operand.
func UnresolvedLabelOperand(id int) Operand { return Operand{Kind: KindUnresolvedLabel, LabelID: id} }

// NameOperand builds a KindName operand.
func NameOperand(name string) Operand { return Operand{Kind: KindName, Name: name} }

// IsResolved reports whether the operand is free of any UnresolvedLabel or
// Name placeholder — the invariant the parser must establish for every
// operand by the time parsing completes.
func (o Operand) IsResolved() bool {
	return o.Kind == KindRegister || o.Kind == KindImmediate
}

// Mnemonics maps a case-insensitive opcode spelling to its Opcode, for use
// by the parser's line dispatcher.
var Mnemonics = map[string]Opcode{
	"ADD": OpAdd,
	"RSH": OpRsh,
	"LOD": OpLod,
	"STR": OpStr,
	"BGE": OpBge,
	"NOR": OpNor,
	"IMM": OpImm,
	"MOV": OpMov,
	"IN":  OpIn,
	"OUT": OpOut,
}

// SlotIsRegister[op][i] is true when operand position i of op must resolve
// to a register index rather than a bare register-or-immediate operand.
var SlotIsRegister = map[Opcode][]bool{
	OpAdd: {true, false, false},
	OpRsh: {true, false},
	OpLod: {true, false},
	OpStr: {false, false},
	OpBge: {false, false, false},
	OpNor: {true, false, false},
	OpImm: {true, false},
	OpMov: {true, false},
	OpIn:  {true, false},
	OpOut: {false, false},
}
