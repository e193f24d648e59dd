package xref_test

import (
	"testing"

	"github.com/urcl-vm/urcl-vm/parser"
	"github.com/urcl-vm/urcl-vm/xref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_LabelReferencedByBge(t *testing.T) {
	src := "IMM R1 1\n.loop\nADD R1 R1 R1\nBGE .loop R1 R1\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	report := xref.Build(prog)
	require.Len(t, report.Labels, 1)
	assert.Equal(t, "loop", report.Labels[0].Name)
	assert.Len(t, report.Labels[0].References, 1)
	assert.Empty(t, report.Unused())
}

func TestBuild_UnusedLabelReported(t *testing.T) {
	src := "IMM R1 1\n.dead\nIMM R2 2\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	report := xref.Build(prog)
	unused := report.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "dead", unused[0].Name)
}

func TestBuild_RegisterUseCounts(t *testing.T) {
	src := "IMM R1 1\nADD R1 R1 R1\n"
	prog, errList := parser.Parse(src, "t.urcl")
	require.Nil(t, errList)

	report := xref.Build(prog)
	var r1 *xref.Register
	for i := range report.Registers {
		if report.Registers[i].Index == 1 {
			r1 = &report.Registers[i]
		}
	}
	require.NotNil(t, r1)
	assert.Len(t, r1.References, 4) // IMM R1(d), ADD R1(d) R1(a) R1(b)
}
