// Package diag renders an errs.List against the source text it was
// produced from: a gutter of line numbers, the offending line, and a
// caret underline spanning the error's byte range, with a segment-based
// ANSI formatter when the output is a terminal.
package diag

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urcl-vm/urcl-vm/errs"
	"golang.org/x/term"
)

// Render writes every error in list against src to w. Color is enabled
// automatically when w is a terminal (via golang.org/x/term), matching
// the driver's "don't paint a log file with escape codes" expectation.
func Render(w io.Writer, src string, list *errs.List) error {
	return render(w, src, list, autoColor(w))
}

// RenderPlain writes every error with no ANSI escapes, for redirected
// output or when the config's color_output setting is off.
func RenderPlain(w io.Writer, src string, list *errs.List) error {
	return render(w, src, list, false)
}

func autoColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func render(w io.Writer, src string, list *errs.List, color bool) error {
	if list == nil {
		return nil
	}
	lines := strings.Split(src, "\n")
	starts := lineStarts(lines)

	for _, e := range list.Errors {
		for _, seg := range formatError(e, lines, starts) {
			if _, err := io.WriteString(w, seg.ansi(color)); err != nil {
				return err
			}
		}
	}
	return nil
}

// lineStarts returns the byte offset at which each line (as split on
// "\n") begins in the original source.
func lineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	offset := 0
	for i, l := range lines {
		starts[i] = offset
		offset += len(l) + 1
	}
	return starts
}

func lineOf(offset int, starts []int) int {
	for i := len(starts) - 1; i >= 0; i-- {
		if offset >= starts[i] {
			return i + 1 // 1-based
		}
	}
	return 1
}

func formatError(e *errs.Error, lines []string, starts []int) []Segment {
	startLine := lineOf(e.Span.Start, starts)
	endLine := lineOf(e.Span.End, starts)
	if endLine < startLine {
		endLine = startLine
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	chw := len(strconv.Itoa(endLine))

	segs := []Segment{
		{Text: "Error", FG: BrightRed},
		{Text: fmt.Sprintf(": %s\n", e.Kind.Message())},
	}

	for i := startLine; i <= endLine; i++ {
		lineText := lines[i-1]
		spaces := e.Span.Start - starts[i-1]
		if spaces < 0 {
			spaces = 0
		}
		if spaces > len(lineText) {
			spaces = len(lineText)
		}

		gutter := fmt.Sprintf("%d%s │ ", i, strings.Repeat(" ", chw-len(strconv.Itoa(i))))
		segs = append(segs, Segment{Text: gutter, FG: BrightBlue})
		segs = append(segs, Segment{Text: strings.ReplaceAll(strings.TrimRight(lineText, "\r"), "\t", "    ")})
		segs = append(segs, Segment{Text: fmt.Sprintf("\n%s │", strings.Repeat(" ", chw)), FG: BrightBlue})

		caretLen := spanWidthOnLine(e, i, lineText, starts)
		segs = append(segs, Segment{
			Text: fmt.Sprintf(" %s%s\n", strings.Repeat(" ", spaces), strings.Repeat("^", caretLen)),
			FG:   BrightYellow,
		})
	}
	segs = append(segs, Segment{Text: "\n"})
	return segs
}

// spanWidthOnLine computes how many carets to draw on line i for e's
// span, clamped to at least one and to the line's own length.
func spanWidthOnLine(e *errs.Error, i int, lineText string, starts []int) int {
	lineStart := starts[i-1]
	lineEnd := lineStart + len(lineText)

	from := e.Span.Start
	if from < lineStart {
		from = lineStart
	}
	to := e.Span.End
	if to > lineEnd {
		to = lineEnd
	}

	width := to - from
	if width < 1 {
		width = 1
	}
	if width > len(lineText) {
		width = len(lineText)
	}
	return width
}
