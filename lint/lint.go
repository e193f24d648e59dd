// Package lint runs a handful of static checks over a parsed program,
// grounded on the example pack's assembly linter: several labels naming
// one instruction, code unreachable after an unconditional jump, and
// writes to the
// hardwired zero register.
package lint

import (
	"fmt"
	"sort"

	"github.com/urcl-vm/urcl-vm/ast"
)

// Level is the severity of an Issue.
type Level int

const (
	Warning Level = iota
	Info
)

func (l Level) String() string {
	if l == Warning {
		return "warning"
	}
	return "info"
}

// Issue is a single finding against an instruction index.
type Issue struct {
	Level          Level
	InstructionIdx int
	Message        string
	Code           string
}

func (i Issue) String() string {
	return fmt.Sprintf("instruction %d: %s: %s [%s]", i.InstructionIdx, i.Level, i.Message, i.Code)
}

// Run checks prog and returns every issue found, ordered by instruction
// index.
func Run(prog *ast.Program) []Issue {
	var issues []Issue
	issues = append(issues, checkAliasedLabels(prog)...)
	issues = append(issues, checkUnreachableCode(prog)...)
	issues = append(issues, checkZeroRegisterWrites(prog)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].InstructionIdx < issues[j].InstructionIdx
	})
	return issues
}

// checkAliasedLabels flags labels that name the same instruction index,
// worth a second look even though the language allows aliasing.
func checkAliasedLabels(prog *ast.Program) []Issue {
	byIdx := make(map[int][]string)
	for name, idx := range prog.Labels {
		byIdx[idx] = append(byIdx[idx], name)
	}
	var issues []Issue
	for idx, names := range byIdx {
		if len(names) > 1 {
			sort.Strings(names)
			issues = append(issues, Issue{
				Level:          Info,
				InstructionIdx: idx,
				Message:        fmt.Sprintf("labels %v name the same instruction", names),
				Code:           "ALIASED_LABEL",
			})
		}
	}
	return issues
}

// isUnconditionalJump reports whether is is a BGE whose condition
// operands are both R0 (always true, since R0 == R0) or otherwise
// identical registers — the idiomatic "always branch" pattern.
func isUnconditionalJump(instr ast.Instr) bool {
	if instr.Op != ast.OpBge {
		return false
	}
	a, b := instr.Operands[1], instr.Operands[2]
	return a.Kind == ast.KindRegister && b.Kind == ast.KindRegister && a.Register == b.Register
}

// checkUnreachableCode flags instructions following an unconditional jump
// that are not themselves a declared label target, mirroring the example
// pack's "unreachable code after branch" check.
func checkUnreachableCode(prog *ast.Program) []Issue {
	targeted := make(map[int]bool, len(prog.Labels))
	for _, idx := range prog.Labels {
		targeted[idx] = true
	}

	var issues []Issue
	for i, is := range prog.Instructions {
		if !isUnconditionalJump(is.Instr) {
			continue
		}
		next := i + 1
		if next < len(prog.Instructions) && !targeted[next] {
			issues = append(issues, Issue{
				Level:          Warning,
				InstructionIdx: next,
				Message:        "instruction is unreachable: falls after an unconditional jump with no label of its own",
				Code:           "UNREACHABLE_CODE",
			})
		}
	}
	return issues
}

// destinationSlots reports which operand positions of op are destination
// ("d") register writes, for the opcodes that have one.
var destinationSlots = map[ast.Opcode]int{
	ast.OpAdd: 0,
	ast.OpRsh: 0,
	ast.OpLod: 0,
	ast.OpNor: 0,
	ast.OpImm: 0,
	ast.OpMov: 0,
	ast.OpIn:  0,
}

// checkZeroRegisterWrites flags instructions that write to R0, which the
// interpreter silently discards: always a no-op, usually a typo for a
// different register.
func checkZeroRegisterWrites(prog *ast.Program) []Issue {
	var issues []Issue
	for i, is := range prog.Instructions {
		slot, ok := destinationSlots[is.Instr.Op]
		if !ok {
			continue
		}
		d := is.Instr.Operands[slot]
		if d.Kind == ast.KindRegister && d.Register == 0 {
			issues = append(issues, Issue{
				Level:          Warning,
				InstructionIdx: i,
				Message:        fmt.Sprintf("%s writes to R0, which discards the result", is.Instr.Op),
				Code:           "ZERO_REGISTER_WRITE",
			})
		}
	}
	return issues
}
