package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"swiftcheck/internal/domain"
)

// Save writes the report to the configured JSON output file.
func (s *JSONStorage) Save(report *domain.Report) error {
	return writeJSON(s.cfg.GetOutputPath(), report)
}

// Load reads the last report from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.Report, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &report, nil
}

// FailedIDs returns ids of cases that did not pass in the last run
func (s *JSONStorage) FailedIDs() ([]string, error) {
	report, err := s.Load()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, i := range report.Problems() {
		ids = append(ids, report.Cases[i].ID)
	}
	return ids, nil
}

func writeJSON(path string, report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
