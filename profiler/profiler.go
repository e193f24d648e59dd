// Package profiler is a passive terminal viewer over a running
// interpreter: register/memory state and the Profile-port debugging flag,
// redrawn each time Refresh is called. The panels are drawn whether or
// not the debugging flag is on. It exposes no breakpoints, watchpoints, or
// stepping commands — only the debugging flag and value/variable tables
// the core already computes — grounded on the example pack's debugger
// TUI, stripped to its view-refresh half.
package profiler

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/urcl-vm/urcl-vm/interp"
)

// Viewer renders an Interpreter's Snapshot in a tcell/tview layout.
type Viewer struct {
	App          *tview.Application
	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	StatusView   *tview.TextView

	layout *tview.Flex
	it     *interp.Interpreter
}

// New builds a Viewer attached to it. Call Run to start the event loop.
func New(it *interp.Interpreter) *Viewer {
	v := &Viewer{it: it}
	v.RegisterView = tview.NewTextView().SetDynamicColors(true)
	v.RegisterView.SetBorder(true).SetTitle(" Registers ")

	v.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.MemoryView.SetBorder(true).SetTitle(" Memory ")

	v.StatusView = tview.NewTextView().SetDynamicColors(true)
	v.StatusView.SetBorder(true).SetTitle(" Status ")

	v.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.StatusView, 3, 0, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(v.RegisterView, 0, 1, false).
			AddItem(v.MemoryView, 0, 1, false), 0, 1, false)

	v.App = tview.NewApplication()
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			v.App.Stop()
			return nil
		}
		return event
	})
	return v
}

// Refresh redraws every panel from the interpreter's current snapshot.
func (v *Viewer) Refresh() {
	snap := v.it.Snapshot()

	v.StatusView.SetText(fmt.Sprintf(
		"instructions: %d   block: %s   debugging: %v",
		snap.InstructionCount, snap.BlockCursor, snap.Debugging,
	))

	var regLines []string
	if len(snap.Variables) > 1 && snap.Variables[1] != nil {
		reg := snap.Variables[1]
		for i := 0; i < len(reg); i += 4 {
			end := i + 4
			if end > len(reg) {
				end = len(reg)
			}
			var cols []string
			for j, val := range reg[i:end] {
				cols = append(cols, fmt.Sprintf("R%-3d: %d", i+j+1, val))
			}
			regLines = append(regLines, strings.Join(cols, "  "))
		}
	}
	v.RegisterView.SetText(strings.Join(regLines, "\n"))

	var memLines []string
	if len(snap.Variables) > 0 && snap.Variables[0] != nil {
		ram := snap.Variables[0]
		for i := 0; i < len(ram); i += 8 {
			end := i + 8
			if end > len(ram) {
				end = len(ram)
			}
			words := make([]string, end-i)
			for j, val := range ram[i:end] {
				words[j] = fmt.Sprintf("%d", val)
			}
			memLines = append(memLines, fmt.Sprintf("%04d: %s", i, strings.Join(words, " ")))
		}
	}
	v.MemoryView.SetText(strings.Join(memLines, "\n"))
}

// Run draws an initial frame and enters the tview event loop. The caller
// is expected to step the interpreter from another goroutine and call
// v.App.QueueUpdateDraw(v.Refresh) after each step (or batch of steps).
func (v *Viewer) Run() error {
	v.Refresh()
	return v.App.SetRoot(v.layout, true).Run()
}

// Stop tears down the event loop.
func (v *Viewer) Stop() {
	v.App.Stop()
}
