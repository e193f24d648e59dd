package ssa

import "github.com/urcl-vm/urcl-vm/token"

// Builder accumulates a Body one block/instruction at a time, handing out
// monotonically increasing ValueIds, VariableIds, and BlockIds. It mirrors
// the lowerer's append-only construction style: nothing is ever removed
// once appended, and ids are never reused.
type Builder struct {
	body      Body
	nextBlock uint32
	nextValue uint32
	nextVar   uint32
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build returns the accumulated Body and finalizes its value/variable
// counts. The Builder should not be used afterward.
func (b *Builder) Build() Body {
	b.body.ValueCount = int(b.nextValue)
	b.body.VariableCount = int(b.nextVar)
	return b.body
}

// AppendBlock creates a new block named name and returns its id. span, if
// non-nil, records the source span the block was lowered from.
func (b *Builder) AppendBlock(name string, span *token.Span) BlockId {
	id := BlockId(b.nextBlock)
	blk := Block{Name: name, Id: id}
	if span != nil {
		blk.HasSpan = true
		blk.SpanStart = span.Start
		blk.SpanEnd = span.End
	}
	b.body.Blocks = append(b.body.Blocks, blk)
	b.nextBlock++
	return id
}

// AppendInstruction appends inst to the end of block.
func (b *Builder) AppendInstruction(block BlockId, inst Instruction) {
	b.body.Blocks[block].Instructions = append(b.body.Blocks[block].Instructions, inst)
}

// SetTerminator overwrites block's terminator.
func (b *Builder) SetTerminator(block BlockId, term Terminator) {
	b.body.Blocks[block].Terminator = term
}

// AllocateValue reserves a fresh ValueId.
func (b *Builder) AllocateValue() ValueId {
	id := ValueId(b.nextValue)
	b.nextValue++
	return id
}

// AllocateVariable reserves a fresh VariableId.
func (b *Builder) AllocateVariable() VariableId {
	id := VariableId(b.nextVar)
	b.nextVar++
	return id
}

// EmitAssign is a convenience for appending an Instruction that writes its
// result to a newly allocated ValueId, returning that id.
func (b *Builder) EmitAssign(block BlockId, op Operation) ValueId {
	v := b.AllocateValue()
	b.AppendInstruction(block, Instruction{Destination: &v, Operation: op})
	return v
}

// EmitVoid appends an Instruction whose result is discarded (e.g. a
// PortWrite call).
func (b *Builder) EmitVoid(block BlockId, op Operation) {
	b.AppendInstruction(block, Instruction{Operation: op})
}
