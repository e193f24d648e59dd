package diag_test

import (
	"strings"
	"testing"

	"github.com/urcl-vm/urcl-vm/diag"
	"github.com/urcl-vm/urcl-vm/errs"
	"github.com/urcl-vm/urcl-vm/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlain_ContainsMessageAndSourceLine(t *testing.T) {
	src := "FROB R1 R2\n"
	list := &errs.List{}
	list.Add(errs.New(errs.UnknownOpcode, token.Span{Start: 0, End: 4}))

	var buf strings.Builder
	require.NoError(t, diag.RenderPlain(&buf, src, list))

	out := buf.String()
	assert.Contains(t, out, "unknown opcode")
	assert.Contains(t, out, "FROB R1 R2")
	assert.Contains(t, out, "^")
	assert.NotContains(t, out, "\x1b[") // no ANSI escapes
}

func TestRenderPlain_NilListIsNoop(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, diag.RenderPlain(&buf, "x\n", nil))
	assert.Empty(t, buf.String())
}

func TestRenderPlain_MultipleErrorsBothRendered(t *testing.T) {
	src := "FROB R1\nBLORP R2\n"
	list := &errs.List{}
	list.Add(errs.New(errs.UnknownOpcode, token.Span{Start: 0, End: 4}))
	list.Add(errs.New(errs.UnknownOpcode, token.Span{Start: 8, End: 13}))

	var buf strings.Builder
	require.NoError(t, diag.RenderPlain(&buf, src, list))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "unknown opcode"))
}
