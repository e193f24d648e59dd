// Package parser consumes a token stream and builds an ast.Program,
// resolving named constants (`@define`) and label references as it goes.
//
// The parser processes one logical line at a time: classify the line by
// its first token, then validate the rest, once the token stream has been
// split on Newline. On any per-line error the line's partial result is
// discarded and the next line still gets a chance: all errors accumulate
// and are returned together.
package parser

import (
	"strings"

	"github.com/urcl-vm/urcl-vm/ast"
	"github.com/urcl-vm/urcl-vm/errs"
	"github.com/urcl-vm/urcl-vm/lexer"
	"github.com/urcl-vm/urcl-vm/token"
)

// Parser holds the state accumulated while walking one token stream.
type Parser struct {
	tokens  []token.Token
	program *ast.Program
	names   map[string]ast.Operand
	labels  *labelTable
	fixups  []fixup
	errors  errs.List
}

// Parse lexes and parses src, returning the resolved AST. If the lexer
// itself reports errors, parsing never starts and those errors are
// returned directly: lexer failure fails parser construction.
func Parse(src, filename string) (*ast.Program, *errs.List) {
	toks, lexErrs := lexer.New(src).Lex()
	if lexErrs != nil {
		return nil, lexErrs
	}

	p := &Parser{
		tokens:  toks,
		program: ast.NewProgram(filename),
		names:   make(map[string]ast.Operand),
		labels:  newLabelTable(),
	}

	p.run()
	p.resolveFixups()
	p.program.Labels = p.labels.names()

	if p.errors.HasErrors() {
		return p.program, &p.errors
	}
	return p.program, nil
}

func span(start, end int) token.Span { return token.Span{Start: start, End: end} }

func (p *Parser) run() {
	lineStart := 0
	for lineStart < len(p.tokens) {
		end := lineStart
		for p.tokens[end].Type != token.Newline {
			end++
		}
		p.processLine(p.tokens[lineStart:end], p.tokens[end])
		lineStart = end + 1
	}
}

func (p *Parser) processLine(line []token.Token, newline token.Token) {
	if len(line) == 0 {
		return
	}

	first := line[0]
	switch {
	case first.Type == token.Label:
		if len(line) != 1 {
			p.errors.Add(errs.New(errs.SyntaxError, span(first.Span.Start, newline.Span.End)))
			return
		}
		id := p.labels.giveID(first.Str)
		p.labels.declare(id, len(p.program.Instructions))

	case first.Type == token.Dw:
		p.processDw(line, newline)

	case first.Type == token.Macro && strings.EqualFold(first.Str, "define"):
		p.processDefine(line, newline)

	case first.Type == token.Macro:
		p.processDirective(line, newline)

	case first.Type == token.Name:
		p.processInstruction(line, newline)

	default:
		p.errors.Add(errs.New(errs.SyntaxError, span(first.Span.Start, newline.Span.End)))
	}
}

// tokenToRawOperand converts a single token into its raw (pre-slot-check)
// Operand form. Labels are assigned ids via giveID on first sight.
func (p *Parser) tokenToRawOperand(tok token.Token) (ast.Operand, bool) {
	switch tok.Type {
	case token.Register:
		return ast.RegisterOperand(tok.Int), true
	case token.Number, token.Char:
		return ast.ImmediateOperand(uint64(tok.Int)), true
	case token.Label:
		return ast.UnresolvedLabelOperand(p.labels.giveID(tok.Str)), true
	case token.Port:
		num, ok := ast.PortNumbers[strings.ToUpper(tok.Str)]
		if !ok {
			p.errors.Add(errs.New(errs.OperandWrongType, tok.Span))
			return ast.Operand{}, false
		}
		return ast.ImmediateOperand(num), true
	case token.Name:
		return ast.NameOperand(tok.Str), true
	default:
		p.errors.Add(errs.New(errs.ExpectingValue, tok.Span))
		return ast.Operand{}, false
	}
}

// resolveRegisterSlot enforces that operand resolves to a register index,
// following one level of @define name indirection.
func (p *Parser) resolveRegisterSlot(op ast.Operand, sp token.Span) (ast.Operand, bool) {
	switch op.Kind {
	case ast.KindRegister:
		return op, true
	case ast.KindName:
		val, ok := p.names[op.Name]
		if !ok {
			p.errors.Add(p.nameNotDefinedErr(op.Name, sp))
			return ast.Operand{}, false
		}
		if val.Kind != ast.KindRegister {
			p.errors.Add(errs.New(errs.OperandWrongType, sp))
			return ast.Operand{}, false
		}
		return val, true
	default:
		p.errors.Add(errs.New(errs.OperandWrongType, sp))
		return ast.Operand{}, false
	}
}

// resolveAnySlot enforces that operand resolves to a register or an
// immediate. Unresolved labels (directly or via a name alias) are deferred
// as fixups against instrIndex/slot rather than rejected.
func (p *Parser) resolveAnySlot(op ast.Operand, instrIndex, slot int, sp token.Span) (ast.Operand, bool) {
	switch op.Kind {
	case ast.KindRegister, ast.KindImmediate:
		return op, true
	case ast.KindUnresolvedLabel:
		p.fixups = append(p.fixups, fixup{LabelID: op.LabelID, InstrIndex: instrIndex, Slot: slot, Span: sp})
		return ast.ImmediateOperand(0), true
	case ast.KindName:
		val, ok := p.names[op.Name]
		if !ok {
			p.errors.Add(p.nameNotDefinedErr(op.Name, sp))
			return ast.Operand{}, false
		}
		if val.Kind == ast.KindUnresolvedLabel {
			p.fixups = append(p.fixups, fixup{LabelID: val.LabelID, InstrIndex: instrIndex, Slot: slot, Span: sp})
			return ast.ImmediateOperand(0), true
		}
		if val.Kind != ast.KindRegister && val.Kind != ast.KindImmediate {
			p.errors.Add(errs.New(errs.OperandWrongType, sp))
			return ast.Operand{}, false
		}
		return val, true
	default:
		p.errors.Add(errs.New(errs.OperandWrongType, sp))
		return ast.Operand{}, false
	}
}

// resolveImmediateOnly is used by `dw` and header directives, which accept
// only a bare immediate (optionally via a @define name alias).
func (p *Parser) resolveImmediateOnly(tok token.Token) (uint64, bool) {
	op, ok := p.tokenToRawOperand(tok)
	if !ok {
		return 0, false
	}
	switch op.Kind {
	case ast.KindImmediate:
		return op.Imm, true
	case ast.KindName:
		val, ok := p.names[op.Name]
		if !ok {
			p.errors.Add(p.nameNotDefinedErr(op.Name, tok.Span))
			return 0, false
		}
		if val.Kind != ast.KindImmediate {
			p.errors.Add(errs.New(errs.OperandWrongType, tok.Span))
			return 0, false
		}
		return val.Imm, true
	default:
		p.errors.Add(errs.New(errs.ExpectingImmediate, tok.Span))
		return 0, false
	}
}

func (p *Parser) processDw(line []token.Token, newline token.Token) {
	args := line[1:]
	if len(args) != 1 {
		p.errors.Add(errs.New(errs.ExpectingImmediate, span(line[0].Span.Start, newline.Span.End)))
		return
	}
	val, ok := p.resolveImmediateOnly(args[0])
	if !ok {
		return
	}
	p.program.Dw = append(p.program.Dw, val)
}

func (p *Parser) processDirective(line []token.Token, newline token.Token) {
	first := line[0]
	args := line[1:]
	if len(args) != 1 {
		p.errors.Add(errs.New(errs.ExpectingImmediate, span(first.Span.Start, newline.Span.End)))
		return
	}
	val, ok := p.resolveImmediateOnly(args[0])
	if !ok {
		return
	}
	switch strings.ToLower(first.Str) {
	case "bits":
		p.program.Bits = uint(val)
	case "minheap":
		p.program.MinHeap = uint(val)
	case "minstack":
		p.program.MinStack = uint(val)
	case "minreg":
		p.program.MinReg = uint(val)
	default:
		p.errors.Add(errs.New(errs.UnknownMacro, first.Span))
	}
}

func (p *Parser) processDefine(line []token.Token, newline token.Token) {
	rest := line[1:]
	if len(rest) == 0 {
		p.errors.Add(errs.New(errs.ExpectingName, span(line[0].Span.Start, newline.Span.End)))
		return
	}
	nameTok := rest[0]
	if nameTok.Type != token.Name {
		p.errors.Add(errs.New(errs.ExpectingName, nameTok.Span))
		return
	}
	if len(rest) != 2 {
		p.errors.Add(errs.New(errs.ExpectingValue, span(line[0].Span.Start, newline.Span.End)))
		return
	}
	valueTok := rest[1]
	op, ok := p.tokenToRawOperand(valueTok)
	if !ok {
		return
	}
	if op.Kind == ast.KindName {
		resolved, ok := p.names[op.Name]
		if !ok {
			p.errors.Add(p.nameNotDefinedErr(op.Name, valueTok.Span))
			return
		}
		op = resolved
	}
	p.names[nameTok.Str] = op
}

func (p *Parser) processInstruction(line []token.Token, newline token.Token) {
	opcodeTok := line[0]
	args := line[1:]
	opName := strings.ToUpper(opcodeTok.Str)

	opcode, ok := ast.Mnemonics[opName]
	if !ok {
		p.errors.Add(errs.New(errs.UnknownOpcode, opcodeTok.Span))
		return
	}

	lineSpan := span(opcodeTok.Span.Start, newline.Span.End)
	arity := ast.Arity[opName]
	if len(args) != arity {
		p.errors.Add(errs.New(errs.OperandCountNotMatch, lineSpan))
		return
	}

	instrIndex := len(p.program.Instructions)
	fixupsBefore := len(p.fixups)
	slotIsRegister := ast.SlotIsRegister[opcode]
	operands := make([]ast.Operand, arity)
	ok = true
	for i, argTok := range args {
		raw, rawOk := p.tokenToRawOperand(argTok)
		if !rawOk {
			ok = false
			continue
		}
		var resolved ast.Operand
		var resolvedOk bool
		if slotIsRegister[i] {
			resolved, resolvedOk = p.resolveRegisterSlot(raw, argTok.Span)
		} else {
			resolved, resolvedOk = p.resolveAnySlot(raw, instrIndex, i, argTok.Span)
		}
		if !resolvedOk {
			ok = false
			continue
		}
		operands[i] = resolved
	}
	if !ok {
		p.fixups = p.fixups[:fixupsBefore]
		return
	}

	// BGE's target slot accepts a register or an immediate from
	// resolveAnySlot (so a literal instruction index or a desugared
	// label both parse), but a register value is a computed/indirect
	// jump target, which this language doesn't support: only a
	// compile-time-known instruction index is a valid branch target.
	if opcode == ast.OpBge && operands[0].Kind == ast.KindRegister {
		p.errors.Add(errs.New(errs.OperandWrongType, args[0].Span))
		p.fixups = p.fixups[:fixupsBefore]
		return
	}

	p.program.Instructions = append(p.program.Instructions, ast.InstrSpan{
		Instr: ast.Instr{Op: opcode, Operands: operands},
		Span:  lineSpan,
	})
}

func (p *Parser) resolveFixups() {
	for _, fx := range p.fixups {
		idx, ok := p.labels.resolved[fx.LabelID]
		if !ok {
			p.errors.Add(p.labelNotDefinedErr(fx.LabelID, fx.Span))
			continue
		}
		p.program.Instructions[fx.InstrIndex].Instr.Operands[fx.Slot] = ast.ImmediateOperand(uint64(idx))
	}
}

// nameNotDefinedErr builds a NameNotDefined error for name, attaching a
// "did you mean" Hint when a known @define name is one edit away.
func (p *Parser) nameNotDefinedErr(name string, sp token.Span) *errs.Error {
	e := errs.New(errs.NameNotDefined, sp)
	if hint := nearestName(name, knownKeys(p.names)); hint != "" {
		e.Hint = "did you mean @" + hint + "?"
	}
	return e
}

// labelNotDefinedErr builds a LabelNotDefined error for the label id,
// attaching a "did you mean" Hint when a declared label is one edit away.
func (p *Parser) labelNotDefinedErr(id int, sp token.Span) *errs.Error {
	e := errs.New(errs.LabelNotDefined, sp)
	name, ok := p.labels.nameOf(id)
	if !ok {
		return e
	}
	if hint := nearestName(name, p.labels.declaredNames(id)); hint != "" {
		e.Hint = "did you mean ." + hint + "?"
	}
	return e
}

func knownKeys(m map[string]ast.Operand) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
