package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tildaslashalef/prreview/internal/review"
	"github.com/tildaslashalef/prreview/internal/rules"
)

// FailOnNone disables the severity gate
const FailOnNone = "none"

// OutputFormats lists the report formats the review command can write
var OutputFormats = []string{"markdown", "json", "sarif", "text"}

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig
	GitHub    GitHubConfig
	Logging   LoggingConfig
	Output    OutputConfig
	configDir string // Internal: Directory where config was loaded from
}

// AnalysisConfig holds the rule thresholds and pipeline settings
type AnalysisConfig struct {
	LengthThreshold  int      // Maximum body lines per function
	ParamThreshold   int      // Maximum parameters per function
	NestingThreshold int      // Maximum block nesting inside a function
	Workers          int      // Files analyzed at once, 0 uses GOMAXPROCS
	LineResolution   string   // exact or first-occurrence
	DisabledPatterns []string // Issue pattern IDs to skip
	FailOn           string   // Lowest severity that fails the run, or none
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token             string        // GitHub Personal Access Token
	APIURL            string        // GitHub API base URL
	RequestTimeout    time.Duration // Request timeout for GitHub API
	RequestsPerMinute int           // Client side rate limit, 0 disables it
	MaxRetries        int           // Retries for server errors and secondary rate limits
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// OutputConfig controls how reports are rendered
type OutputConfig struct {
	Format    string // markdown, json, sarif, or text
	Path      string // Report file, empty writes to stdout
	Color     bool   // Colorize terminal output
	WrapWidth int    // Column at which terminal messages wrap
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		Analysis: AnalysisConfig{},
		GitHub:   GitHubConfig{},
		Logging:  LoggingConfig{},
		Output:   OutputConfig{},
	}
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.validateGitHub(); err != nil {
		return fmt.Errorf("GitHub config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.validateOutput(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	return nil
}

// RuleConfig builds the immutable rule configuration for a run from the
// built-in tables and the analysis settings
func (c *Config) RuleConfig() (rules.Config, error) {
	rc := rules.DefaultConfig()
	rc.LengthThreshold = c.Analysis.LengthThreshold
	rc.ParamThreshold = c.Analysis.ParamThreshold
	rc.NestingThreshold = c.Analysis.NestingThreshold

	resolution, err := rules.ParseLineResolution(c.Analysis.LineResolution)
	if err != nil {
		return rules.Config{}, err
	}
	rc.LineResolution = resolution

	known := make(map[string]bool, len(rc.IssuePatterns))
	for _, p := range rc.IssuePatterns {
		known[p.ID] = true
	}
	for _, id := range c.Analysis.DisabledPatterns {
		if !known[id] {
			return rules.Config{}, fmt.Errorf("%w: unknown issue pattern %q", rules.ErrInvalidConfig, id)
		}
	}
	rc = rc.DisablePatterns(c.Analysis.DisabledPatterns...)

	if err := rc.Validate(); err != nil {
		return rules.Config{}, err
	}
	return rc, nil
}

// FailOnSeverity returns the gate severity; ok is false when the gate is disabled
func (c *Config) FailOnSeverity() (severity review.Severity, ok bool, err error) {
	if strings.EqualFold(strings.TrimSpace(c.Analysis.FailOn), FailOnNone) {
		return "", false, nil
	}
	severity, err = review.ParseSeverity(c.Analysis.FailOn)
	if err != nil {
		return "", false, err
	}
	return severity, true, nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	if _, _, err := c.FailOnSeverity(); err != nil {
		return fmt.Errorf("fail_on: %w", err)
	}

	if _, err := c.RuleConfig(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateGitHub() error {
	if c.GitHub.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	if c.GitHub.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	return nil
}

func (c *Config) validateLogging() error {
	// Validate logging level
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate format
	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "", "stdout", "stderr":
	default:
		if err := checkDirectoryWritable(filepath.Dir(c.Logging.Output)); err != nil {
			return fmt.Errorf("log output: %w", err)
		}
	}

	return nil
}

func (c *Config) validateOutput() error {
	for _, format := range OutputFormats {
		if strings.EqualFold(c.Output.Format, format) {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be one of %s)", c.Output.Format, strings.Join(OutputFormats, ", "))
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated list from the environment variable,
// dropping blanks and entries starting with #
func getEnvList(key string) []string {
	var values []string
	for _, value := range strings.Split(getEnvString(key, ""), ",") {
		value = strings.TrimSpace(value)
		if value != "" && !strings.HasPrefix(value, "#") {
			values = append(values, value)
		}
	}
	return values
}

// getTimeFormat converts a named time format to its actual format string
func getTimeFormat(name string) string {
	switch name {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	case "RFC822":
		return time.RFC822
	case "RFC1123":
		return time.RFC1123
	case "Kitchen":
		return time.Kitchen
	case "Stamp":
		return time.Stamp
	case "StampMilli":
		return time.StampMilli
	case "DateTime":
		return "2006-01-02 15:04:05"
	case "DateTimeMS":
		return "2006-01-02 15:04:05.000"
	case "Date":
		return "2006-01-02"
	case "Time":
		return "15:04:05"
	default:
		return name
	}
}

// checkDirectoryWritable tests if a directory is writable
func checkDirectoryWritable(dir string) error {
	// Create a temporary file to test write permissions
	testFile := filepath.Join(dir, fmt.Sprintf("test_write_%d", time.Now().UnixNano()))
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}

	// Clean up
	f.Close()
	os.Remove(testFile)

	return nil
}
