package ui

import "swiftcheck/internal/domain"

// Viewer displays a run report in an interactive TUI
type Viewer interface {
	View(report *domain.Report) error
}

var _ Viewer = (*FailuresViewer)(nil)
