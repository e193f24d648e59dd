// Package format pretty-prints a parsed ast.Program back to source text,
// grounded on the example pack's column-aligned assembly formatter.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urcl-vm/urcl-vm/ast"
)

// Options controls column alignment, mirroring the example pack
// formatter's configurable instruction/operand columns.
type Options struct {
	InstructionColumn int
	OperandColumn     int
}

// DefaultOptions gives an 8-column indent before the mnemonic, with
// operands starting at column 16.
func DefaultOptions() Options {
	return Options{InstructionColumn: 8, OperandColumn: 16}
}

// Program renders prog using the default layout.
func Program(prog *ast.Program) string {
	return ProgramWithOptions(prog, DefaultOptions())
}

// ProgramWithOptions renders prog's header directives, dw table, and
// instructions (with label declarations interleaved at the instruction
// index they name) back to source text.
func ProgramWithOptions(prog *ast.Program, opts Options) string {
	var sb strings.Builder

	if prog.Bits != ast.DefaultBits {
		fmt.Fprintf(&sb, "@bits %d\n", prog.Bits)
	}
	if prog.MinHeap != ast.DefaultMinHeap {
		fmt.Fprintf(&sb, "@minheap %d\n", prog.MinHeap)
	}
	if prog.MinStack != ast.DefaultMinStack {
		fmt.Fprintf(&sb, "@minstack %d\n", prog.MinStack)
	}
	if prog.MinReg != ast.DefaultMinReg {
		fmt.Fprintf(&sb, "@minreg %d\n", prog.MinReg)
	}
	for _, w := range prog.Dw {
		fmt.Fprintf(&sb, "dw %d\n", w)
	}

	labelsAt := labelsByIndex(prog.Labels)
	for i, is := range prog.Instructions {
		for _, name := range labelsAt[i] {
			fmt.Fprintf(&sb, ".%s\n", name)
		}
		writeInstruction(&sb, is.Instr, opts)
	}
	for _, name := range labelsAt[len(prog.Instructions)] {
		fmt.Fprintf(&sb, ".%s\n", name)
	}

	return sb.String()
}

// labelsByIndex groups label names by the instruction index they name,
// sorted for deterministic output when several labels alias one index.
func labelsByIndex(labels map[string]int) map[int][]string {
	out := make(map[int][]string, len(labels))
	for name, idx := range labels {
		out[idx] = append(out[idx], name)
	}
	for idx := range out {
		sort.Strings(out[idx])
	}
	return out
}

func writeInstruction(sb *strings.Builder, instr ast.Instr, opts Options) {
	sb.WriteString(strings.Repeat(" ", opts.InstructionColumn))
	mnemonic := instr.Op.String()
	sb.WriteString(mnemonic)

	pad := opts.OperandColumn - opts.InstructionColumn - len(mnemonic)
	if pad < 1 {
		pad = 1
	}
	sb.WriteString(strings.Repeat(" ", pad))

	operands := make([]string, len(instr.Operands))
	for i, op := range instr.Operands {
		operands[i] = formatOperand(op)
	}
	sb.WriteString(strings.Join(operands, " "))
	sb.WriteString("\n")
}

func formatOperand(op ast.Operand) string {
	switch op.Kind {
	case ast.KindRegister:
		return fmt.Sprintf("R%d", op.Register)
	case ast.KindImmediate:
		return fmt.Sprintf("%d", op.Imm)
	default:
		return "?"
	}
}
