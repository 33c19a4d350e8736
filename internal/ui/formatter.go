package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
	"swiftcheck/internal/storage"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: os.Stdout}
}

// SetOutput redirects formatter output
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

func verdictColor(s domain.Status) *color.Color {
	switch s {
	case domain.StatusPass:
		return color.New(color.FgGreen)
	case domain.StatusFail:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// PrintEntry prints one case block: id, input, expected, actual and verdict
func (f *Formatter) PrintEntry(e domain.ReportEntry) {
	fmt.Fprintln(f.out, "------------------------------")
	fmt.Fprintf(f.out, "%s %s\n", color.CyanString(e.ID), e.Description)
	fmt.Fprintf(f.out, "Input   : %s\n", e.Input)
	fmt.Fprintf(f.out, "Expected: %s\n", e.Expected)
	fmt.Fprintf(f.out, "Actual  : %s\n", e.Actual)

	verdict := strings.ToUpper(string(e.Verdict))
	if e.Quarantined {
		verdict += " (quarantined)"
	}
	fmt.Fprintf(f.out, "Verdict : %s\n", verdictColor(e.Verdict).Sprint(verdict))

	if e.Cause != "" {
		fmt.Fprintf(f.out, "Cause   : %s\n", color.YellowString(e.Cause))
	}
	if e.Detail != "" {
		fmt.Fprintf(f.out, "Detail  : %s\n", e.Detail)
	}
	if e.Diff != "" {
		fmt.Fprintf(f.out, "%s\n%s\n", color.YellowString("Diff (-expected +actual):"), e.Diff)
	}
}

// PrintReport prints every case in table order followed by the summary
func (f *Formatter) PrintReport(report *domain.Report) {
	for _, e := range report.Cases {
		f.PrintEntry(e)
	}
	f.PrintSummary(report)
}

// PrintSummary prints the per-category table and run statistics
func (f *Formatter) PrintSummary(report *domain.Report) {
	meta := report.Meta

	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Transliteration Results                    ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────┬─────────┬─────────┐")
	fmt.Fprintf(f.out, "│ %-31s │ %-7s │ %-7s │ %-7s │\n", "Category", "Pass", "Fail", "Error")
	for _, c := range report.Categories {
		fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────┼─────────┼─────────┤")
		fmt.Fprintf(f.out, "│ %-31s │ %s │ %s │ %s │\n",
			fmt.Sprintf("%s (%s)", c.Category, c.Class),
			color.GreenString("%-7d", c.Pass),
			color.RedString("%-7d", c.Fail),
			color.YellowString("%-7d", c.Error))
	}
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────┼─────────┼─────────┤")
	fmt.Fprintf(f.out, "│ %-31s │ %s │ %s │ %s │\n", "Total",
		color.GreenString("%-7d", meta.Passed),
		color.RedString("%-7d", meta.Failed),
		color.YellowString("%-7d", meta.Errored))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────┴─────────┴─────────┘")

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.statRow("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
	f.statRow("Sessions", fmt.Sprintf("%d", meta.Sessions))
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
	f.statRow("Run", meta.RunID)
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
	f.statRow("Timestamp", meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.Failed == 0 && meta.Errored == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All %d cases passed!", meta.TotalCases))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ %d failed, %d errored of %d cases", meta.Failed, meta.Errored, meta.TotalCases))
	f.printProblemTree(report)
}

func (f *Formatter) statRow(label, value string) {
	if len(value) > 27 {
		value = value[:24] + "..."
	}
	fmt.Fprintf(f.out, "│ %-31s │ %-27s │\n", label, value)
}

// printProblemTree lists non-passing cases grouped by category
func (f *Formatter) printProblemTree(report *domain.Report) {
	groups := make(map[string][]domain.ReportEntry)
	var order []string
	for _, i := range report.Problems() {
		e := report.Cases[i]
		if _, ok := groups[e.Category]; !ok {
			order = append(order, e.Category)
		}
		groups[e.Category] = append(groups[e.Category], e)
	}

	for i, cat := range order {
		lastCat := i == len(order)-1
		branch, indent := "├── ", "│   "
		if lastCat {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s", branch, cat))
		entries := groups[cat]
		for j, e := range entries {
			leaf := "├── "
			if j == len(entries)-1 {
				leaf = "└── "
			}
			label := e.ID
			if e.Cause != "" {
				label += " [" + e.Cause + "]"
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, leaf, verdictColor(e.Verdict).Sprint(label))
		}
	}
}

// PrintLastRun reads the stored report and prints its summary
func (f *Formatter) PrintLastRun(st storage.Storage) error {
	report, err := st.Load()
	if err != nil {
		return err
	}
	f.PrintSummary(report)
	return nil
}

// PrintCaseList prints the case table as a tree by category.
// failed is optional; ids in it are marked with [F] in red (from last run).
func (f *Formatter) PrintCaseList(cases []domain.TestCase, verbose bool, failed map[string]struct{}) {
	groups := make(map[domain.Category][]domain.TestCase)
	var order []domain.Category
	for _, tc := range cases {
		cat := tc.Category()
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], tc)
	}

	fmt.Fprintln(f.out, color.GreenString("Found %d case(s) in %d categor(ies):", len(cases), len(order)))
	fmt.Fprintln(f.out)

	for i, cat := range order {
		lastCat := i == len(order)-1
		branch, indent := "├── ", "│   "
		if lastCat {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s (%d)", branch, cat, len(groups[cat])))

		for j, tc := range groups[cat] {
			leaf := "├── "
			if j == len(groups[cat])-1 {
				leaf = "└── "
			}

			marker := ""
			if _, ok := failed[tc.ID]; ok {
				marker = " " + color.RedString("[F]")
			}
			if tc.HasTag(domain.TagAspirational) {
				marker += " " + color.MagentaString("[aspirational]")
			}

			line := color.YellowString(tc.ID)
			if verbose {
				line += fmt.Sprintf("  %s → %s", tc.Input, tc.Expected)
			} else if tc.Description != "" {
				line += "  " + tc.Description
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", indent, leaf, line, marker)
		}
	}
}
