package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`
	CasesPath   string `yaml:"cases_path"` // empty means the built-in table

	// Target settings
	Target TargetConfig `yaml:"target"`

	// Browser settings
	Browser BrowserConfig `yaml:"browser"`

	// Output settings
	OutputJSONFile string `yaml:"output_json_file"`
	OutputJSONDir  string `yaml:"output_json_dir"`

	// Execution settings
	Sessions   int           `yaml:"sessions"`
	Retries    int           `yaml:"retries"`
	RunTimeout time.Duration `yaml:"run_timeout"`

	// History store
	History HistoryConfig `yaml:"history"`

	// Paths to ignore when scanning
	PathsToIgnore []string `yaml:"paths_to_ignore"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// TargetConfig describes the page under test and how to find its surfaces
type TargetConfig struct {
	URL            string        `yaml:"url"`
	InputSelector  string        `yaml:"input_selector"`
	OutputSelector string        `yaml:"output_selector"`
	ClearSelector  string        `yaml:"clear_selector"`
	SubmitTimeout  time.Duration `yaml:"submit_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	StableSamples  int           `yaml:"stable_samples"`
	// SettleFallback accepts the last sample after this long when the output
	// never moves away from its pre-submit value. Zero disables it.
	SettleFallback time.Duration `yaml:"settle_fallback"`
}

// BrowserConfig controls the Chrome instance
type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	Bin               string        `yaml:"bin"`
	ControlURL        string        `yaml:"control_url"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ViewportWidth     int           `yaml:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height"`
}

// HistoryConfig selects the run history database
type HistoryConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	DSN    string `yaml:"dsn"`    // sqlite falls back to a file under the output dir
}

// Flags holds command-line flags
type Flags struct {
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
	ShowIO         bool
	OpenFailures   bool
	ReplayPath     string
	RecordPath     string
	Headless       bool
	Quarantine     bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: ".",
		Target: TargetConfig{
			URL:            DefaultTargetURL,
			InputSelector:  DefaultInputSelector,
			OutputSelector: DefaultOutputSelector,
			ClearSelector:  DefaultClearSelector,
			SubmitTimeout:  DefaultSubmitTimeout,
			PollInterval:   DefaultPollInterval,
			StableSamples:  DefaultStableSamples,
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: DefaultNavigationTimeout,
			ViewportWidth:     1366,
			ViewportHeight:    900,
		},
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Sessions:       DefaultSessions,
		Retries:        DefaultRetries,
		History:        HistoryConfig{Driver: DefaultHistoryDriver},
		Flags:          Flags{Sessions: DefaultSessions, Retries: DefaultRetries, Headless: true},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load builds the config from defaults, an optional YAML file, the project
// .env file and SWIFTCHECK_* environment variables, in that order.
func Load(projectPath, file string) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	path := file
	if path == "" {
		path = filepath.Join(cfg.ProjectPath, DefaultConfigFile)
	}
	if err := cfg.loadFile(path, file != ""); err != nil {
		return nil, err
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvPrefix + "URL"); v != "" {
		c.Target.URL = v
	}
	if v := os.Getenv(EnvPrefix + "CASES"); v != "" {
		c.CasesPath = v
	}
	if v := os.Getenv(EnvPrefix + "CHROME_BIN"); v != "" {
		c.Browser.Bin = v
	}
	if v := os.Getenv(EnvPrefix + "CONTROL_URL"); v != "" {
		c.Browser.ControlURL = v
	}
	if v := os.Getenv(EnvPrefix + "HISTORY_DRIVER"); v != "" {
		c.History.Driver = v
	}
	if v := os.Getenv(EnvPrefix + "HISTORY_DSN"); v != "" {
		c.History.DSN = v
	}
	if v := os.Getenv(EnvPrefix + "HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADLESS: %w", EnvPrefix, err)
		}
		c.Browser.Headless = b
	}
	if v := os.Getenv(EnvPrefix + "SUBMIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSUBMIT_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Target.SubmitTimeout = d
	}
	return nil
}

// ApplyFlags copies parsed command flags into the config
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Sessions > 0 {
		c.Sessions = flags.Sessions
	}
	if flags.Retries >= 0 {
		c.Retries = flags.Retries
	}
	if flags.CasesPath != "" {
		c.CasesPath = flags.CasesPath
	}
	if flags.URL != "" {
		c.Target.URL = flags.URL
	}
	if flags.SubmitTimeout > 0 {
		c.Target.SubmitTimeout = flags.SubmitTimeout
	}
	if flags.RunTimeout > 0 {
		c.RunTimeout = flags.RunTimeout
	}
	c.Browser.Headless = flags.Headless
}

// GetCasesPath returns the fixture path, resolved against the project path.
// An empty result means the built-in table.
func (c *Config) GetCasesPath() string {
	if c.CasesPath == "" {
		return ""
	}
	if filepath.IsAbs(c.CasesPath) {
		return c.CasesPath
	}
	return filepath.Join(c.ProjectPath, c.CasesPath)
}

// GetOutputPath returns the full path to the last-run JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetHistoryDSN returns the history DSN; sqlite defaults to a file under the output dir
func (c *Config) GetHistoryDSN() string {
	if c.History.DSN != "" {
		return c.History.DSN
	}
	if c.History.Driver == "sqlite" {
		return filepath.Join(c.ProjectPath, c.OutputJSONDir, "history.db")
	}
	return ""
}
