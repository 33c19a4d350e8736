package config

import "time"

const (
	// DefaultTargetURL is the page under test
	DefaultTargetURL = "https://www.swifttranslator.com/"
	// DefaultInputSelector locates the Singlish input surface
	DefaultInputSelector = `textarea[placeholder="Input Your Singlish Text Here."]`
	// DefaultOutputSelector is the structural role of the output region; the first match wins
	DefaultOutputSelector = "div.bg-slate-50"
	// DefaultClearSelector is the explicit clear control
	DefaultClearSelector = `button[aria-label="Clear"]`

	// DefaultOutputJSONFile is the last-run report file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"

	// DefaultSessions is the number of isolated browser sessions
	DefaultSessions = 1
	// DefaultRetries is the number of retries on transient adapter errors
	DefaultRetries = 1

	// DefaultSubmitTimeout bounds a single submit or reset
	DefaultSubmitTimeout = 15 * time.Second
	// DefaultNavigationTimeout bounds page loads
	DefaultNavigationTimeout = 30 * time.Second
	// DefaultPollInterval is the output sampling interval
	DefaultPollInterval = 150 * time.Millisecond
	// DefaultStableSamples is how many equal consecutive samples count as stable
	DefaultStableSamples = 4

	// DefaultHistoryDriver is the database/sql driver for the history store
	DefaultHistoryDriver = "sqlite"

	// DefaultConfigFile is read when present in the project directory
	DefaultConfigFile = "swiftcheck.yaml"
	// EnvPrefix prefixes environment overrides
	EnvPrefix = "SWIFTCHECK_"
)

// DefaultPathsToIgnore are the directories skipped when scanning for fixture files
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
	"testdata",
}
