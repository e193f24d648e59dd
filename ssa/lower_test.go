package ssa_test

import (
	"testing"

	"github.com/urcl-vm/urcl-vm/ast"
	"github.com/urcl-vm/urcl-vm/parser"
	"github.com/urcl-vm/urcl-vm/ssa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSrc(t *testing.T, src string) ssa.Body {
	t.Helper()
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)
	return ssa.Lower(prog)
}

func TestLower_PrologueAllocatesRamAndReg(t *testing.T) {
	body := lowerSrc(t, "IMM R1 1\n")
	require.GreaterOrEqual(t, len(body.Blocks), 3)
	assert.Equal(t, "alloc", body.Blocks[0].Name)
	assert.Equal(t, "init", body.Blocks[1].Name)

	allocBlock := body.Blocks[0]
	var sawRamAlloc, sawRegAlloc int
	for _, instr := range allocBlock.Instructions {
		if instr.Operation.Kind == ssa.OpAllocate {
			switch instr.Operation.Var {
			case 0: // ram is allocated first
				sawRamAlloc++
			case 1: // reg second
				sawRegAlloc++
			}
		}
	}
	assert.Equal(t, 1, sawRamAlloc)
	assert.Equal(t, 1, sawRegAlloc)
}

func TestLower_EveryBlockTerminated(t *testing.T) {
	body := lowerSrc(t, "IMM R1 1\nADD R1 R1 R1\nOUT %TEXT R1\n")
	for _, blk := range body.Blocks {
		assert.NotEqual(t, ssa.TermNone, blk.Terminator.Kind, blk.Name)
	}
}

func TestLower_JumpAndBranchTargetsAreValid(t *testing.T) {
	body := lowerSrc(t, "IMM R1 1\n.loop\nADD R1 R1 R1\nBGE .loop R1 R1\n")
	valid := func(id ssa.BlockId) bool { return int(id) < len(body.Blocks) }
	for _, blk := range body.Blocks {
		switch blk.Terminator.Kind {
		case ssa.TermJump:
			assert.True(t, valid(blk.Terminator.IfTrue), blk.Name)
		case ssa.TermBranch:
			assert.True(t, valid(blk.Terminator.IfTrue), blk.Name)
			assert.True(t, valid(blk.Terminator.IfElse), blk.Name)
		}
	}
}

func TestLower_NoInstructionsJumpsInitToEnd(t *testing.T) {
	body := lowerSrc(t, "@bits 8\n")
	init := body.Blocks[1]
	require.Equal(t, ssa.TermJump, init.Terminator.Kind)
	target := body.Blocks[init.Terminator.IfTrue]
	assert.Equal(t, "end", target.Name)
}

func TestLower_OutOfRangeBranchTargetFallsThroughToEnd(t *testing.T) {
	// 99 is a syntactically valid immediate target with no matching
	// instruction index, exercising the lowerer's real out-of-range
	// fallback through ordinary source text.
	body := lowerSrc(t, "BGE 99 R1 R1\n")

	var branchBlock *ssa.Block
	for i := range body.Blocks {
		if body.Blocks[i].Terminator.Kind == ssa.TermBranch {
			branchBlock = &body.Blocks[i]
		}
	}
	require.NotNil(t, branchBlock)
	endIdx := len(body.Blocks) - 1
	assert.EqualValues(t, endIdx, branchBlock.Terminator.IfTrue)
}

func TestLower_RegisterValuedBranchTargetPanics(t *testing.T) {
	// The parser rejects this at parse time (OperandWrongType), so a
	// register-valued BGE target can only reach the lowerer if that
	// invariant is ever broken; confirm the lowerer still refuses to
	// silently misexecute it rather than guessing a fallback branch.
	prog, errList := parser.Parse("BGE 0 R1 R1\n", "t.urcl")
	require.Nil(t, errList)
	prog.Instructions[0].Instr.Operands[0] = ast.Operand{Kind: ast.KindRegister, Register: 1}

	assert.Panics(t, func() { ssa.Lower(prog) })
}
