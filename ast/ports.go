package ast

// PortNumbers maps a case-insensitive port name (as lexed from a `%name`
// token) to its fixed numeric id. The parser resolves port operands
// through this table at parse time; unrecognized names are
// OperandWrongType, since a port name is not an arbitrary identifier.
var PortNumbers = map[string]uint64{
	"CPUBUS":    0,
	"TEXT":      1,
	"NUMBER":    2,
	"SUPPORTED": 5,
	"SPECIAL":   6,
	"PROFILE":   7,
	"X":         8,
	"Y":         9,
	"COLOR":     10,
	"BUFFER":    11,
	"GSPECIAL":  15,
	"ASCII8":    16,
	"CHAR5":     17,
	"CHAR6":     18,
	"ASCII7":    19,
	"UTF8":      20,
	"TSPECIAL":  23,
	"INT":       24,
	"UINT":      25,
	"BIN":       26,
	"HEX":       27,
	"FLOAT":     28,
	"FIXED":     29,
	"NSPECIAL":  31,
	"ADDR":      32,
	"BUS":       33,
	"PAGE":      34,
	"SSPECIAL":  39,
	"RNG":       40,
	"NOTE":      41,
	"INSTR":     42,
	"NLEG":      43,
	"WAIT":      44,
	"NADDR":     45,
	"DATA":      46,
	"MSPECIAL":  47,
}
