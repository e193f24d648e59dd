package interp

import "github.com/urcl-vm/urcl-vm/ssa"

// Snapshot is a read-only copy of the interpreter's execution state,
// intended for the profiler package and for tests — Step never
// consults it.
type Snapshot struct {
	BlockCursor      ssa.BlockId
	PrevBlock        ssa.BlockId
	InstrCursor      int
	Values           []uint64
	Variables        [][]uint64
	InstructionCount uint64
	Debugging        bool
}

// Snapshot copies the interpreter's current state. Variable arrays are
// copied shallowly per-slice so the caller cannot mutate live execution
// state through the snapshot.
func (it *Interpreter) Snapshot() Snapshot {
	values := make([]uint64, len(it.values))
	copy(values, it.values)

	variables := make([][]uint64, len(it.variables))
	for i, v := range it.variables {
		if v == nil {
			continue
		}
		cp := make([]uint64, len(v))
		copy(cp, v)
		variables[i] = cp
	}

	return Snapshot{
		BlockCursor:      it.blockCursor,
		PrevBlock:        it.prevBlock,
		InstrCursor:      it.instrCursor,
		Values:           values,
		Variables:        variables,
		InstructionCount: it.instructionCount,
		Debugging:        it.debugging,
	}
}
