package storage

import (
	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
)

// Storage persists and loads the last run report (e.g. for the failures viewer).
type Storage interface {
	Save(report *domain.Report) error
	Load() (*domain.Report, error)
	// FailedIDs lists cases that did not pass in the stored run
	FailedIDs() ([]string, error)
}

// JSONStorage stores the report in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

var _ Storage = (*JSONStorage)(nil)
