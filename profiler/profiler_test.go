package profiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urcl-vm/urcl-vm/interp"
	"github.com/urcl-vm/urcl-vm/parser"
	"github.com/urcl-vm/urcl-vm/profiler"
	"github.com/urcl-vm/urcl-vm/ssa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh_PopulatesRegisterAndMemoryViews(t *testing.T) {
	prog, errList := parser.Parse("IMM R1 7\nOUT %PROFILE R1\n", "t.urcl")
	require.Nil(t, errList)
	body := ssa.Lower(prog)

	var out bytes.Buffer
	it := interp.New(body, &out, strings.NewReader(""))
	for i := 0; i < 50; i++ {
		status, stepErr := it.Step()
		require.Nil(t, stepErr)
		if status == interp.Halted {
			break
		}
	}

	v := profiler.New(it)
	v.Refresh()

	assert.Contains(t, v.RegisterView.GetText(true), "R1")
	assert.Contains(t, v.StatusView.GetText(true), "debugging: true")
}
