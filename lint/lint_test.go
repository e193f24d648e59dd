package lint_test

import (
	"testing"

	"github.com/urcl-vm/urcl-vm/lint"
	"github.com/urcl-vm/urcl-vm/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasCode(issues []lint.Issue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func TestRun_UnreachableCodeAfterUnconditionalJump(t *testing.T) {
	src := "IMM R1 1\nBGE .end R0 R0\nIMM R2 2\n.end\nOUT %NUMBER R1\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	issues := lint.Run(prog)
	assert.True(t, hasCode(issues, "UNREACHABLE_CODE"))
}

func TestRun_NoUnreachableWhenNextInstructionIsLabeled(t *testing.T) {
	src := "IMM R1 1\nBGE .dest R0 R0\n.dest\nOUT %NUMBER R1\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	issues := lint.Run(prog)
	assert.False(t, hasCode(issues, "UNREACHABLE_CODE"))
}

func TestRun_ZeroRegisterWriteFlagged(t *testing.T) {
	prog, errList := parser.Parse("IMM R0 5\n", "t.urcl")
	require.Nil(t, errList)

	issues := lint.Run(prog)
	require.True(t, hasCode(issues, "ZERO_REGISTER_WRITE"))
}

func TestRun_AliasedLabelsFlagged(t *testing.T) {
	src := ".a\n.b\nIMM R1 1\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	issues := lint.Run(prog)
	assert.True(t, hasCode(issues, "ALIASED_LABEL"))
}
