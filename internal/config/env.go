package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// DefaultConfigDirName is the directory under the user's home holding the .env file
const DefaultConfigDirName = ".prreview"

// DefaultConfigDir returns ~/.prreview
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDirName), nil
}

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
//
// Variables already set in the environment win over values from .env files.
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	cfg.configDir = configDir

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first
		if err := godotenv.Load(configFilePath); err != nil {
			// Then try current directory as fallback
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	// Analysis Configuration
	cfg.Analysis = AnalysisConfig{
		LengthThreshold:  getEnvInt("PRREVIEW_LENGTH_THRESHOLD", 50),
		ParamThreshold:   getEnvInt("PRREVIEW_PARAM_THRESHOLD", 5),
		NestingThreshold: getEnvInt("PRREVIEW_NESTING_THRESHOLD", 3),
		Workers:          getEnvInt("PRREVIEW_WORKERS", 0),
		LineResolution:   getEnvString("PRREVIEW_LINE_RESOLUTION", "exact"),
		DisabledPatterns: getEnvList("PRREVIEW_DISABLED_PATTERNS"),
		FailOn:           getEnvString("PRREVIEW_FAIL_ON", "high"),
	}

	// GitHub Configuration, falling back to the token GitHub Actions exports
	token := getEnvString("PRREVIEW_GITHUB_TOKEN", "")
	if token == "" {
		token = getEnvString("GITHUB_TOKEN", "")
	}
	cfg.GitHub = GitHubConfig{
		Token:             token,
		APIURL:            getEnvString("PRREVIEW_GITHUB_API_URL", "https://api.github.com"),
		RequestTimeout:    getEnvDuration("PRREVIEW_GITHUB_REQUEST_TIMEOUT", 30*time.Second),
		RequestsPerMinute: getEnvInt("PRREVIEW_GITHUB_REQUESTS_PER_MINUTE", 300),
		MaxRetries:        getEnvInt("PRREVIEW_GITHUB_MAX_RETRIES", 3),
	}

	// Logging Configuration
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("PRREVIEW_LOG_LEVEL", "warn"),
		Format:     getEnvString("PRREVIEW_LOG_FORMAT", "text"),
		Output:     getEnvString("PRREVIEW_LOG_OUTPUT", "stderr"),
		AddSource:  getEnvBool("PRREVIEW_LOG_ADD_SOURCE", false),
		TimeFormat: getTimeFormat(getEnvString("PRREVIEW_LOG_TIME_FORMAT", "RFC3339")),
	}

	// Output Configuration
	cfg.Output = OutputConfig{
		Format:    getEnvString("PRREVIEW_OUTPUT_FORMAT", "markdown"),
		Path:      getEnvString("PRREVIEW_OUTPUT_PATH", ""),
		Color:     getEnvBool("PRREVIEW_OUTPUT_COLOR", true),
		WrapWidth: getEnvInt("PRREVIEW_OUTPUT_WRAP_WIDTH", 80),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}
