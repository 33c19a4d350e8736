package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"swiftcheck/internal/domain"
	"swiftcheck/internal/storage"
)

// FailuresViewer browses failing and errored cases of the last run
type FailuresViewer struct {
	storage storage.Storage
}

// NewFailuresViewer creates a new FailuresViewer
func NewFailuresViewer(st storage.Storage) *FailuresViewer {
	return &FailuresViewer{storage: st}
}

// View shows non-passing cases. R toggles the reviewed mark, which is
// written back to the last-run file.
func (fv *FailuresViewer) View(report *domain.Report) error {
	problems := report.Problems()
	if len(problems) == 0 {
		color.Green("✓ No failing cases found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(n int) string {
		e := report.Cases[problems[n]]
		tag := "[red]FAIL"
		if e.Verdict == domain.StatusError {
			tag = "[yellow]ERR "
		}
		if e.Reviewed {
			return fmt.Sprintf("[gray]✓ %d. %s %s[white]", n+1, e.ID, e.Category)
		}
		return fmt.Sprintf("%s[white] %d. %s", tag, n+1, e.ID)
	}

	for n := range problems {
		list.AddItem(itemText(n), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(detailsView, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		open := 0
		for _, i := range problems {
			if !report.Cases[i].Reviewed {
				open++
			}
		}
		headerView.SetText(fmt.Sprintf(" Failing cases (%d total, %d not reviewed) | ↑↓ navigate, [yellow]R[white] mark reviewed, → details, ← back, Ctrl+C exit ", len(problems), open))
	}

	var saveErr error

	updateDetails := func() {
		n := list.GetCurrentItem()
		if n < 0 || n >= len(problems) {
			return
		}
		e := report.Cases[problems[n]]
		stats := formatEntryStats(e)
		if saveErr != nil {
			stats += fmt.Sprintf("[red]✗ %s[white]\n", tview.Escape(saveErr.Error()))
		}
		statsView.SetText(stats)
		detailsView.SetText(formatEntryDetails(e))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				n := list.GetCurrentItem()
				if n >= 0 && n < len(problems) {
					saveErr = toggleReviewed(fv.storage, report, problems[n])
					list.SetItemText(n, itemText(n), "")
					updateHeader()
					updateDetails()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// toggleReviewed flips the reviewed mark of report.Cases[i] and writes the
// report back. The mark stays flipped in memory when the write fails.
func toggleReviewed(st storage.Storage, report *domain.Report, i int) error {
	e := &report.Cases[i]
	e.Reviewed = !e.Reviewed
	if st == nil {
		return nil
	}
	if err := st.Save(report); err != nil {
		return fmt.Errorf("reviewed mark for %s not saved: %w", e.ID, err)
	}
	return nil
}

// formatEntryStats renders the one-line header for a case using tview color tags
func formatEntryStats(e domain.ReportEntry) string {
	line := fmt.Sprintf("[cyan]case:[white] [yellow]%s[white] [cyan]category:[white] %s [cyan]attempts:[white] %d [cyan]time:[white] %dms",
		e.ID, e.Category, e.Attempts, e.DurationMs)
	if e.Quarantined {
		line += " [magenta](quarantined)[white]"
	}
	return line + "\n"
}

// formatEntryDetails renders input, expected, actual and the diff
func formatEntryDetails(e domain.ReportEntry) string {
	var b strings.Builder
	esc := tview.Escape

	if e.Verdict == domain.StatusError {
		fmt.Fprintf(&b, "[yellow]✗ Error: %s[white]\n\n", esc(e.Cause))
	} else {
		fmt.Fprintf(&b, "[red]✗ Mismatch[white]\n\n")
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "[cyan]Description:[white] %s\n\n", esc(e.Description))
	}
	fmt.Fprintf(&b, "[yellow]Input:[white]\n%s\n\n", esc(e.Input))
	fmt.Fprintf(&b, "[yellow]Expected:[white]\n%s\n\n", esc(e.Expected))
	fmt.Fprintf(&b, "[yellow]Actual:[white]\n%s\n\n", esc(e.Actual))
	if e.Detail != "" {
		fmt.Fprintf(&b, "[yellow]Detail:[white]\n%s\n\n", esc(e.Detail))
	}
	if e.Diff != "" {
		fmt.Fprintf(&b, "[yellow]Diff (-expected +actual):[white]\n%s\n", esc(e.Diff))
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "\n[gray]tags: %s[white]\n", esc(strings.Join(e.Tags, ", ")))
	}
	return b.String()
}
