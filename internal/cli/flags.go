package cli

import (
	"time"

	"swiftcheck/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	// Global
	ConfigFile string
	Verbose    bool

	Sessions       int
	Retries        int
	CategoryFilter string
	IDFilter       string
	CasesPath      string
	ReportPath     string
	URL            string
	SubmitTimeout  time.Duration
	RunTimeout     time.Duration
	FailFast       bool
	OnlyFailed     bool
	OpenFailures   bool
	ReplayPath     string
	RecordPath     string
	Headless       bool
	Quarantine     bool
	ShowIO         bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Sessions:       f.Sessions,
		Retries:        f.Retries,
		CategoryFilter: f.CategoryFilter,
		IDFilter:       f.IDFilter,
		CasesPath:      f.CasesPath,
		ReportPath:     f.ReportPath,
		URL:            f.URL,
		SubmitTimeout:  f.SubmitTimeout,
		RunTimeout:     f.RunTimeout,
		FailFast:       f.FailFast,
		OnlyFailed:     f.OnlyFailed,
		OpenFailures:   f.OpenFailures,
		ReplayPath:     f.ReplayPath,
		RecordPath:     f.RecordPath,
		Headless:       f.Headless,
		Quarantine:     f.Quarantine,
		ShowIO:         f.ShowIO,
	}
}
