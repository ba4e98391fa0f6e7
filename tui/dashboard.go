// Package tui provides an optional terminal dashboard summarizing the
// outcome of assembling a batch of file stems, one row per stem.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Row is one input stem's outcome, added to the Dashboard as its pipeline
// finishes.
type Row struct {
	Stem       string
	Stage      string // furthest pipeline stage reached: "preprocess", "first pass", "second pass", "emit", "ok"
	FirstError string // empty on success
}

// Dashboard is a single scrolling status table, reduced from the teacher's
// multi-panel debugger TUI (source/registers/memory/stack) since there is
// no running machine state here — only a fixed per-file result to display.
type Dashboard struct {
	App   *tview.Application
	Table *tview.Table
	rows  []Row
}

// NewDashboard builds the table shell with its header row.
func NewDashboard() *Dashboard {
	d := &Dashboard{
		App:   tview.NewApplication(),
		Table: tview.NewTable().SetBorders(false).SetFixed(1, 0),
	}
	d.Table.SetBorder(true).SetTitle(" w14asm ")
	d.writeHeader()
	return d
}

func (d *Dashboard) writeHeader() {
	headers := []string{"Stem", "Stage", "First error"}
	for col, h := range headers {
		d.Table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold))
	}
}

// AddRow appends one finished stem's outcome and redraws its table row.
func (d *Dashboard) AddRow(r Row) {
	d.rows = append(d.rows, r)
	row := len(d.rows)
	color := tcell.ColorGreen
	if r.FirstError != "" {
		color = tcell.ColorRed
	}
	d.Table.SetCell(row, 0, tview.NewTableCell(r.Stem).SetTextColor(color))
	d.Table.SetCell(row, 1, tview.NewTableCell(r.Stage).SetTextColor(color))
	d.Table.SetCell(row, 2, tview.NewTableCell(r.FirstError).SetTextColor(color))
}

// Run shows the table and blocks until the user presses 'q' or Ctrl-C.
func (d *Dashboard) Run() error {
	footer := tview.NewTextView().
		SetText("press q to exit").
		SetTextAlign(tview.AlignCenter)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.Table, 0, 1, true).
		AddItem(footer, 1, 0, false)

	d.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyCtrlC {
			d.App.Stop()
			return nil
		}
		return event
	})

	if err := d.App.SetRoot(layout, true).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
