package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"swiftcheck/internal/domain"
)

// WriteReport writes the report to path. The extension picks the format:
// .json and .yaml/.yml are machine readable, anything else gets the text log.
func WriteReport(path string, report *domain.Report) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(path, report)
	case ".yaml", ".yml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		return writeFile(path, data)
	default:
		var buf bytes.Buffer
		WriteText(&buf, report)
		return writeFile(path, buf.Bytes())
	}
}

// WriteText renders the per-case log followed by the category summary
func WriteText(w io.Writer, report *domain.Report) {
	for _, e := range report.Cases {
		fmt.Fprintf(w, "------------------------------\n")
		fmt.Fprintf(w, "%s  %s\n", e.ID, e.Description)
		fmt.Fprintf(w, "Input   : %s\n", e.Input)
		fmt.Fprintf(w, "Expected: %s\n", e.Expected)
		fmt.Fprintf(w, "Actual  : %s\n", e.Actual)
		verdict := strings.ToUpper(string(e.Verdict))
		if e.Quarantined {
			verdict += " (quarantined)"
		}
		fmt.Fprintf(w, "Verdict : %s\n", verdict)
		if e.Cause != "" {
			fmt.Fprintf(w, "Cause   : %s\n", e.Cause)
		}
		if e.Detail != "" {
			fmt.Fprintf(w, "Detail  : %s\n", e.Detail)
		}
		if e.Diff != "" {
			fmt.Fprintf(w, "Diff (-expected +actual):\n%s\n", e.Diff)
		}
	}

	fmt.Fprintf(w, "==============================\n")
	fmt.Fprintf(w, "%-12s %6s %6s %6s\n", "Category", "Pass", "Fail", "Error")
	for _, c := range report.Categories {
		fmt.Fprintf(w, "%-12s %6d %6d %6d\n", c.Category, c.Pass, c.Fail, c.Error)
	}
	m := report.Meta
	fmt.Fprintf(w, "%-12s %6d %6d %6d\n", "Total", m.Passed, m.Failed, m.Errored)
	fmt.Fprintf(w, "Run %s against %s in %s\n", m.RunID, m.Target, m.Duration)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
