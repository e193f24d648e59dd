// Package loader turns source text into a running interpreter in one
// call: lex, parse, lower to SSA, then construct the interpreter around
// the result.
package loader

import (
	"io"

	"github.com/urcl-vm/urcl-vm/ast"
	"github.com/urcl-vm/urcl-vm/errs"
	"github.com/urcl-vm/urcl-vm/interp"
	"github.com/urcl-vm/urcl-vm/parser"
	"github.com/urcl-vm/urcl-vm/ssa"
)

// Program bundles the parsed AST (consumed by format/xref/lint) with the
// SSA body it was lowered to (consumed by interp).
type Program struct {
	AST  *ast.Program
	Body ssa.Body
}

// Load parses and lowers src, then builds an interpreter around the
// result, writing to out and reading from in. A non-nil, non-empty
// *errs.List means compilation failed and the returned Program and
// *interp.Interpreter are zero/nil; Load never steps the interpreter
// itself, leaving the run loop to the caller.
//
// bitsOverride, when non-zero, replaces the program's own @bits header
// value before lowering. It must be applied here rather than by mutating
// the returned Program afterward: lowering bakes the bit-width mask into
// the SSA body (ssa.Lower reads prog.Bits while building the init
// block), so a mutation applied after Load returns would have no effect
// on the already-lowered body or the interpreter built around it.
func Load(src, filename string, out io.Writer, in io.Reader, bitsOverride uint) (Program, *interp.Interpreter, *errs.List) {
	program, parseErrs := parser.Parse(src, filename)
	if parseErrs != nil && parseErrs.HasErrors() {
		return Program{}, nil, parseErrs
	}

	if bitsOverride != 0 {
		program.Bits = bitsOverride
	}

	body := ssa.Lower(program)
	return Program{AST: program, Body: body}, interp.New(body, out, in), nil
}

// Run steps it until it halts, errors, or maxInstructions terminator
// traversals have elapsed. maxInstructions of 0 means unbounded. When the
// instruction budget is exhausted, Run returns interp.Running with a nil
// error; the caller decides whether that counts as success or a timeout.
func Run(it *interp.Interpreter, maxInstructions uint64) (interp.Status, *errs.Error) {
	for {
		status, err := it.Step()
		if status != interp.Running {
			return status, err
		}
		if maxInstructions > 0 && it.InstructionCount() >= maxInstructions {
			return interp.Running, nil
		}
	}
}
