// Package interp walks an ssa.Body block by block, maintaining a value
// table and a variable (array) table, dispatching host-facing port calls
// as it goes.
package interp

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/urcl-vm/urcl-vm/errs"
	"github.com/urcl-vm/urcl-vm/ssa"
	"github.com/urcl-vm/urcl-vm/token"
)

// Status is the outcome of one Step call.
type Status int

const (
	Running Status = iota
	Halted
	Errored
)

// Interpreter holds the mutable execution state for one run of a Body.
type Interpreter struct {
	body ssa.Body

	blockCursor ssa.BlockId
	prevBlock   ssa.BlockId
	instrCursor int

	values    []uint64
	variables [][]uint64 // nil entry means "unset"

	instructionCount uint64
	debugging        bool

	out io.Writer
	in  io.Reader
}

// New returns an Interpreter ready to execute body from its entry block,
// reading port input from in and writing port output to out.
func New(body ssa.Body, out io.Writer, in io.Reader) *Interpreter {
	return &Interpreter{
		body:      body,
		values:    make([]uint64, body.ValueCount),
		variables: make([][]uint64, body.VariableCount),
		out:       out,
		in:        in,
	}
}

// InstructionCount is the number of terminator traversals so far.
func (it *Interpreter) InstructionCount() uint64 { return it.instructionCount }

// Debugging reports whether the last PortWrite(Profile, ·) enabled the
// debugging flag.
func (it *Interpreter) Debugging() bool { return it.debugging }

func (it *Interpreter) currentBlock() *ssa.Block { return &it.body.Blocks[it.blockCursor] }

func (it *Interpreter) currentSpan() token.Span {
	blk := it.currentBlock()
	if blk.HasSpan {
		return token.Span{Start: blk.SpanStart, End: blk.SpanEnd}
	}
	return token.Span{}
}

// Step executes one instruction, or — when the current block's
// instructions are exhausted — the block's terminator, returning the
// resulting Status and, on Errored, the error that caused it.
func (it *Interpreter) Step() (Status, *errs.Error) {
	blk := it.currentBlock()

	if it.instrCursor < len(blk.Instructions) {
		instr := blk.Instructions[it.instrCursor]
		val, err := it.evalOperation(instr.Operation)
		if err != nil {
			return Errored, err
		}
		if instr.Destination != nil {
			it.values[*instr.Destination] = val
		}
		it.instrCursor++
		return Running, nil
	}

	it.instructionCount++
	switch blk.Terminator.Kind {
	case ssa.TermJump:
		it.prevBlock = it.blockCursor
		it.blockCursor = blk.Terminator.IfTrue
		it.instrCursor = 0
	case ssa.TermBranch:
		it.prevBlock = it.blockCursor
		if it.values[blk.Terminator.Target] != 0 {
			it.blockCursor = blk.Terminator.IfTrue
		} else {
			it.blockCursor = blk.Terminator.IfElse
		}
		it.instrCursor = 0
	case ssa.TermReturn:
		return Halted, nil
	default:
		return Errored, errs.New(errs.SyntaxError, it.currentSpan())
	}
	return Running, nil
}

func (it *Interpreter) evalOperation(op ssa.Operation) (uint64, *errs.Error) {
	switch op.Kind {
	case ssa.OpInteger:
		return op.Integer, nil

	case ssa.OpBinOp:
		return it.evalBinOp(op.BinOp, it.values[op.Lhs], it.values[op.Rhs])

	case ssa.OpAllocate:
		size := it.values[op.Size]
		it.variables[op.Var] = make([]uint64, size)
		return 0, nil

	case ssa.OpLoadIndex:
		idx := it.values[op.Idx]
		arr := it.variables[op.Var]
		if arr == nil || idx >= uint64(len(arr)) {
			return 0, errs.WithData(errs.MemoryAccessOob, it.currentSpan(), int64(idx))
		}
		return arr[idx], nil

	case ssa.OpStoreIndex:
		idx := it.values[op.Idx]
		arr := it.variables[op.Var]
		if arr == nil || idx >= uint64(len(arr)) {
			return 0, errs.WithData(errs.MemoryAccessOob, it.currentSpan(), int64(idx))
		}
		arr[idx] = it.values[op.Data]
		return 0, nil

	case ssa.OpCall:
		return it.evalCall(op)

	case ssa.OpPhi:
		for _, edge := range op.PhiEdges {
			if edge.Block == it.prevBlock {
				return it.values[edge.Value], nil
			}
		}
		return 0, nil

	default:
		return 0, errs.New(errs.SyntaxError, it.currentSpan())
	}
}

func (it *Interpreter) evalBinOp(op ssa.BinOp, l, r uint64) (uint64, *errs.Error) {
	switch op {
	case ssa.Add:
		return l + r, nil
	case ssa.Sub:
		return l - r, nil
	case ssa.Mul:
		return l * r, nil
	case ssa.Div:
		if r == 0 {
			return 0, errs.New(errs.DivideByZero, it.currentSpan())
		}
		return l / r, nil
	case ssa.Mod:
		if r == 0 {
			return 0, errs.New(errs.DivideByZero, it.currentSpan())
		}
		return l % r, nil
	case ssa.And:
		return l & r, nil
	case ssa.Or:
		return l | r, nil
	case ssa.Xor:
		return l ^ r, nil
	case ssa.Shl:
		return l << r, nil
	case ssa.Shr:
		return l >> r, nil
	case ssa.Eq:
		return boolWord(l == r), nil
	case ssa.Ne:
		return boolWord(l != r), nil
	case ssa.Lt:
		return boolWord(l < r), nil
	case ssa.Le:
		return boolWord(l <= r), nil
	case ssa.Gt:
		return boolWord(l > r), nil
	case ssa.Ge:
		return boolWord(l >= r), nil
	default:
		return 0, errs.New(errs.SyntaxError, it.currentSpan())
	}
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (it *Interpreter) evalCall(op ssa.Operation) (uint64, *errs.Error) {
	switch op.Func {
	case ssa.PortWrite:
		port := it.values[op.Args[0]]
		data := it.values[op.Args[1]]
		return 0, it.portWrite(Port(port), data)
	case ssa.PortRead:
		port := it.values[op.Args[0]]
		return it.portRead(Port(port))
	case ssa.LastOk:
		// Not produced by this lowering; always reports success.
		return 1, nil
	default:
		return 0, errs.New(errs.SyntaxError, it.currentSpan())
	}
}

func (it *Interpreter) portWrite(port Port, data uint64) *errs.Error {
	switch port {
	case Text:
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], rune(uint32(data)))
		_, _ = it.out.Write(buf[:n])
		return nil
	case Number:
		_, _ = io.WriteString(it.out, strconv.FormatUint(data, 10))
		return nil
	case Profile:
		it.debugging = data&1 != 0
		return nil
	default:
		return errs.WithData(errs.UnsupportedPort, it.currentSpan(), int64(port))
	}
}

func (it *Interpreter) portRead(port Port) (uint64, *errs.Error) {
	switch port {
	case Text:
		var buf [1]byte
		if _, err := io.ReadFull(it.in, buf[:]); err != nil {
			return 0, errs.New(errs.UnexpectedEof, it.currentSpan())
		}
		return uint64(buf[0]), nil
	default:
		return 0, errs.WithData(errs.UnsupportedPort, it.currentSpan(), int64(port))
	}
}
