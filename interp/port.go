package interp

// Port identifies one of the fixed port numbers of the I/O bus. Only a
// handful are implemented by the core; everything else is a structural
// UnsupportedPort error, left for an external device map to extend.
type Port uint64

const (
	CpuBus    Port = 0
	Text      Port = 1
	Number    Port = 2
	Supported Port = 5
	Special   Port = 6
	Profile   Port = 7
	X         Port = 8
	Y         Port = 9
	Color     Port = 10
	Buffer    Port = 11
	GSpecial  Port = 15
	Ascii8    Port = 16
	Char5     Port = 17
	Char6     Port = 18
	Ascii7    Port = 19
	Utf8      Port = 20
	TSpecial  Port = 23
	Int       Port = 24
	UInt      Port = 25
	Bin       Port = 26
	Hex       Port = 27
	Float     Port = 28
	Fixed     Port = 29
	NSpecial  Port = 31
	Addr      Port = 32
	Bus       Port = 33
	Page      Port = 34
	SSpecial  Port = 39
	Rng       Port = 40
	Note      Port = 41
	Instr     Port = 42
	NLeg      Port = 43
	Wait      Port = 44
	NAddr     Port = 45
	Data      Port = 46
	MSpecial  Port = 47
)
