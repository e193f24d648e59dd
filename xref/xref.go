// Package xref builds a cross-reference report over a parsed program:
// where each label and register is defined and every place it's used,
// grounded on the example pack's symbol cross-referencer.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urcl-vm/urcl-vm/ast"
)

// RefKind is how a symbol is used at one site.
type RefKind int

const (
	RefBranchTarget RefKind = iota // BGE operand naming this label
	RefRegisterUse                 // any operand naming this register
)

func (k RefKind) String() string {
	switch k {
	case RefBranchTarget:
		return "branch"
	case RefRegisterUse:
		return "use"
	default:
		return "unknown"
	}
}

// Reference is one site referencing a symbol.
type Reference struct {
	Kind           RefKind
	InstructionIdx int
	Mnemonic       string
}

// Label describes one declared label: where it's defined and every BGE
// that targets it.
type Label struct {
	Name           string
	InstructionIdx int
	References     []Reference
}

// Register describes one register's instruction-index usage sites; R0
// (the hardwired zero register) is tracked but never flagged unused.
type Register struct {
	Index      int64
	References []Reference
}

// Report is the full cross-reference over a program.
type Report struct {
	Labels    []Label
	Registers []Register
}

// Build walks prog's instructions once, collecting every label's
// definition and branch references, and every register's use sites.
func Build(prog *ast.Program) Report {
	labels := make(map[string]*Label, len(prog.Labels))
	for name, idx := range prog.Labels {
		labels[name] = &Label{Name: name, InstructionIdx: idx}
	}
	// Reverse lookup: instruction index -> label name, for matching a
	// resolved BGE target operand back to the label it came from.
	byIdx := make(map[int]string, len(prog.Labels))
	for name, idx := range prog.Labels {
		byIdx[idx] = name
	}

	registers := make(map[int64]*Register)

	for i, is := range prog.Instructions {
		mnem := is.Instr.Op.String()
		for slot, op := range is.Instr.Operands {
			switch op.Kind {
			case ast.KindRegister:
				reg := registers[op.Register]
				if reg == nil {
					reg = &Register{Index: op.Register}
					registers[op.Register] = reg
				}
				reg.References = append(reg.References, Reference{Kind: RefRegisterUse, InstructionIdx: i, Mnemonic: mnem})
			case ast.KindImmediate:
				if is.Instr.Op == ast.OpBge && slot == 0 {
					if name, ok := byIdx[int(op.Imm)]; ok {
						labels[name].References = append(labels[name].References, Reference{Kind: RefBranchTarget, InstructionIdx: i, Mnemonic: mnem})
					}
				}
			}
		}
	}

	report := Report{
		Labels:    make([]Label, 0, len(labels)),
		Registers: make([]Register, 0, len(registers)),
	}
	for _, l := range labels {
		report.Labels = append(report.Labels, *l)
	}
	for _, r := range registers {
		report.Registers = append(report.Registers, *r)
	}
	sort.Slice(report.Labels, func(i, j int) bool { return report.Labels[i].InstructionIdx < report.Labels[j].InstructionIdx })
	sort.Slice(report.Registers, func(i, j int) bool { return report.Registers[i].Index < report.Registers[j].Index })
	return report
}

// Unused returns the labels defined but never branched to.
func (r Report) Unused() []Label {
	var out []Label
	for _, l := range r.Labels {
		if len(l.References) == 0 {
			out = append(out, l)
		}
	}
	return out
}

// String renders a plain-text report in the style of the example pack's
// symbol cross-reference listing.
func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString("Label Cross-Reference\n")
	sb.WriteString("======================\n\n")
	for _, l := range r.Labels {
		fmt.Fprintf(&sb, "%-20s defined at instruction %d\n", "."+l.Name, l.InstructionIdx)
		if len(l.References) == 0 {
			sb.WriteString("  referenced: (never)\n")
			continue
		}
		lines := make([]string, len(l.References))
		for i, ref := range l.References {
			lines[i] = fmt.Sprintf("%d", ref.InstructionIdx)
		}
		fmt.Fprintf(&sb, "  referenced at instruction(s): %s\n", strings.Join(lines, ", "))
	}

	sb.WriteString("\nRegister Cross-Reference\n")
	sb.WriteString("=========================\n\n")
	for _, r := range r.Registers {
		fmt.Fprintf(&sb, "R%-4d used %d time(s)\n", r.Index, len(r.References))
	}
	return sb.String()
}
