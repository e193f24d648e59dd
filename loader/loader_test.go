package loader_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urcl-vm/urcl-vm/interp"
	"github.com/urcl-vm/urcl-vm/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidProgramRunsToHalt(t *testing.T) {
	var out bytes.Buffer
	program, it, errList := loader.Load("IMM R1 65\nOUT %TEXT R1\n", "t.urcl", &out, strings.NewReader(""), 0)
	require.Nil(t, errList)
	require.NotNil(t, it)
	assert.NotZero(t, len(program.AST.Instructions))
	assert.NotEmpty(t, program.Body.Blocks)

	status, runErr := loader.Run(it, 10_000)
	require.Nil(t, runErr)
	assert.Equal(t, interp.Halted, status)
	assert.Equal(t, "A", out.String())
}

func TestLoad_SyntaxErrorReturnsListAndNoInterpreter(t *testing.T) {
	_, it, errList := loader.Load("FROB R1 R2\n", "t.urcl", &bytes.Buffer{}, strings.NewReader(""), 0)
	require.NotNil(t, errList)
	assert.True(t, errList.HasErrors())
	assert.Nil(t, it)
}

func TestRun_StopsAtInstructionBudget(t *testing.T) {
	_, it, errList := loader.Load(".loop\nBGE .loop R0 R0\n", "t.urcl", &bytes.Buffer{}, strings.NewReader(""), 0)
	require.Nil(t, errList)

	status, runErr := loader.Run(it, 50)
	require.Nil(t, runErr)
	assert.Equal(t, interp.Running, status)
	assert.GreaterOrEqual(t, it.InstructionCount(), uint64(50))
}

func TestLoad_BitsOverrideAffectsNorMask(t *testing.T) {
	// NOR is the only instruction whose lowering consults prog.Bits (it
	// inverts via XOR against the bit-width mask). A bitsOverride must
	// widen the mask the SSA body actually lowers with, not just the
	// AST field returned alongside it, since ssa.Lower bakes the mask
	// into the SSA body at lowering time, before any caller could
	// observe or mutate the AST.
	src := "@bits 8\nNOR R1 R0 R0\nOUT %NUMBER R1\n"

	var narrow bytes.Buffer
	_, itNarrow, errList := loader.Load(src, "t.urcl", &narrow, strings.NewReader(""), 0)
	require.Nil(t, errList)
	_, runErr := loader.Run(itNarrow, 10_000)
	require.Nil(t, runErr)
	assert.Equal(t, "255", narrow.String())

	var wide bytes.Buffer
	program, itWide, errList := loader.Load(src, "t.urcl", &wide, strings.NewReader(""), 16)
	require.Nil(t, errList)
	assert.EqualValues(t, 16, program.AST.Bits)
	_, runErr = loader.Run(itWide, 10_000)
	require.Nil(t, runErr)
	assert.Equal(t, "65535", wide.String())
}
