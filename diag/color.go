package diag

import "fmt"

// Color is an ANSI foreground color used by the segment-based formatter.
type Color int

const (
	Default Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightRed
	BrightBlue
	BrightYellow
)

var ansiFG = map[Color]string{
	Red: "31", Green: "32", Yellow: "33", Blue: "34", Magenta: "35", Cyan: "36", White: "37",
	BrightRed: "91", BrightBlue: "94", BrightYellow: "93",
}

// Segment is one run of text carrying a single foreground color.
type Segment struct {
	Text string
	FG   Color
}

// ansi renders s wrapped in its ANSI escape, or bare text when s.FG is
// Default or color is false.
func (s Segment) ansi(color bool) string {
	if !color || s.FG == Default {
		return s.Text
	}
	code, ok := ansiFG[s.FG]
	if !ok {
		return s.Text
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, s.Text)
}
