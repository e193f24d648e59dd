package ssa

import (
	"fmt"

	"github.com/urcl-vm/urcl-vm/ast"
)

// Lower translates a parsed Program into an SSA Body using the
// memory-backed-register strategy: both "machine registers" and "machine
// memory" are Allocate'd word arrays, so no phi nodes are ever required.
func Lower(prog *ast.Program) Body {
	l := &lowerer{prog: prog, b: NewBuilder()}
	l.run()
	return l.b.Build()
}

type lowerer struct {
	prog *ast.Program
	b    *Builder

	ram, reg      VariableId
	bitMask, zero ValueId
	initBlock     BlockId
	blocks        []BlockId
}

func (l *lowerer) run() {
	l.lowerAlloc()
	l.lowerInit()

	l.blocks = make([]BlockId, 0, len(l.prog.Instructions)+1)
	for i, is := range l.prog.Instructions {
		span := is.Span
		l.blocks = append(l.blocks, l.b.AppendBlock(fmt.Sprintf("inst_%d", i), &span))
	}
	end := l.b.AppendBlock("end", nil)
	l.blocks = append(l.blocks, end)

	l.b.SetTerminator(l.initBlock, JumpTerminator(l.blocks[0]))

	for i, is := range l.prog.Instructions {
		l.lowerInstruction(i, is.Instr)
	}

	l.b.SetTerminator(end, ReturnTerminator())
}

func (l *lowerer) lowerAlloc() {
	alloc := l.b.AppendBlock("alloc", nil)

	l.ram = l.b.AllocateVariable()
	ramSize := uint64(l.prog.MinHeap) + uint64(l.prog.MinStack) + uint64(len(l.prog.Dw))
	ramSizeVal := l.b.EmitAssign(alloc, IntegerOp(ramSize))
	l.b.EmitVoid(alloc, AllocateOp(l.ram, ramSizeVal))

	l.reg = l.b.AllocateVariable()
	regSizeVal := l.b.EmitAssign(alloc, IntegerOp(uint64(l.prog.MinReg)))
	l.b.EmitVoid(alloc, AllocateOp(l.reg, regSizeVal))

	l.initBlock = l.b.AppendBlock("init", nil)
	l.b.SetTerminator(alloc, JumpTerminator(l.initBlock))
}

func (l *lowerer) lowerInit() {
	init := l.initBlock

	mask := uint64(1)<<uint(l.prog.Bits) - 1
	l.bitMask = l.b.EmitAssign(init, IntegerOp(mask))
	l.zero = l.b.EmitAssign(init, IntegerOp(0))

	for i, w := range l.prog.Dw {
		idx := l.b.EmitAssign(init, IntegerOp(uint64(i)))
		wrd := l.b.EmitAssign(init, IntegerOp(w))
		l.b.EmitVoid(init, StoreIndexOp(l.ram, idx, wrd))
	}
}

// load materializes operand into a ValueId, reading through the register
// array for non-zero registers (R0 always reads as the shared zero
// value) or emitting a fresh Integer for an immediate.
func (l *lowerer) load(block BlockId, op ast.Operand) ValueId {
	switch op.Kind {
	case ast.KindRegister:
		if op.Register == 0 {
			return l.zero
		}
		idx := l.b.EmitAssign(block, IntegerOp(uint64(op.Register-1)))
		return l.b.EmitAssign(block, LoadIndexOp(l.reg, idx))
	case ast.KindImmediate:
		return l.b.EmitAssign(block, IntegerOp(op.Imm))
	default:
		// The parser guarantees every operand is Register or Immediate by
		// the time lowering runs.
		panic("ssa: unresolved operand reached the lowerer")
	}
}

// storeReg writes v into register d, or discards it when d is R0.
func (l *lowerer) storeReg(block BlockId, d ast.Operand, v ValueId) {
	if d.Kind != ast.KindRegister {
		panic("ssa: destination operand is not a register")
	}
	if d.Register == 0 {
		return
	}
	idx := l.b.EmitAssign(block, IntegerOp(uint64(d.Register-1)))
	l.b.EmitVoid(block, StoreIndexOp(l.reg, idx, v))
}

func (l *lowerer) lowerInstruction(i int, instr ast.Instr) {
	block := l.blocks[i]
	next := l.blocks[i+1]
	ops := instr.Operands

	switch instr.Op {
	case ast.OpAdd:
		a := l.load(block, ops[1])
		b := l.load(block, ops[2])
		t := l.b.EmitAssign(block, BinOpOp(Add, a, b))
		l.storeReg(block, ops[0], t)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpNor:
		a := l.load(block, ops[1])
		b := l.load(block, ops[2])
		or := l.b.EmitAssign(block, BinOpOp(Or, a, b))
		inv := l.b.EmitAssign(block, BinOpOp(Xor, or, l.bitMask))
		l.storeReg(block, ops[0], inv)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpMov, ast.OpImm:
		a := l.load(block, ops[1])
		l.storeReg(block, ops[0], a)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpBge:
		a := l.load(block, ops[1])
		b := l.load(block, ops[2])
		cond := l.b.EmitAssign(block, BinOpOp(Ge, a, b))

		target := ops[0]
		if target.Kind != ast.KindImmediate {
			// The parser rejects a register-valued BGE target as
			// OperandWrongType before it ever reaches lowering: a
			// computed/indirect jump through a register isn't supported.
			panic("ssa: register-valued BGE target reached the lowerer")
		}
		idx := int(target.Imm)
		dest := l.endBlock()
		if idx >= 0 && idx < len(l.blocks) {
			dest = l.blocks[idx]
		}
		l.b.SetTerminator(block, BranchTerminator(cond, dest, next))

	case ast.OpIn:
		p := l.load(block, ops[1])
		t := l.b.EmitAssign(block, CallOp(PortRead, p))
		l.storeReg(block, ops[0], t)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpOut:
		p := l.load(block, ops[0])
		d := l.load(block, ops[1])
		l.b.EmitVoid(block, CallOp(PortWrite, p, d))
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpRsh:
		a := l.load(block, ops[1])
		one := l.b.EmitAssign(block, IntegerOp(1))
		t := l.b.EmitAssign(block, BinOpOp(Shr, a, one))
		l.storeReg(block, ops[0], t)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpLod:
		a := l.load(block, ops[1])
		t := l.b.EmitAssign(block, LoadIndexOp(l.ram, a))
		l.storeReg(block, ops[0], t)
		l.b.SetTerminator(block, JumpTerminator(next))

	case ast.OpStr:
		a := l.load(block, ops[0])
		d := l.load(block, ops[1])
		l.b.EmitVoid(block, StoreIndexOp(l.ram, a, d))
		l.b.SetTerminator(block, JumpTerminator(next))
	}
}

func (l *lowerer) endBlock() BlockId { return l.blocks[len(l.blocks)-1] }
