// Package app provides the application initialization and lifecycle management
package app

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/analysis"
	"github.com/tildaslashalef/prreview/internal/config"
	"github.com/tildaslashalef/prreview/internal/git"
	"github.com/tildaslashalef/prreview/internal/github"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// App represents the application instance with its dependencies
type App struct {
	Config *config.Config
	Logger *loggy.Logger
	Git    *git.Service
	GitHub *github.Service
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
		"config_dir", cfg.ConfigDir(),
	)

	app, err := initServices(cfg)
	if err != nil {
		return nil, err
	}

	loggy.Debug("Application initialized successfully")
	return app, nil
}

// initConfig loads the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config) (*App, error) {
	logger := loggy.GetGlobalLogger()

	githubService, err := github.NewService(cfg.GitHub, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub service: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Git:    git.NewService(logger),
		GitHub: githubService,
	}, nil
}

// Analyzer builds an analysis service from the current configuration. It is
// built per run so command line overrides applied to Config take effect.
func (app *App) Analyzer() (*analysis.Service, error) {
	ruleConfig, err := app.Config.RuleConfig()
	if err != nil {
		return nil, err
	}
	return analysis.NewService(ruleConfig, app.Logger, analysis.WithWorkers(app.Config.Analysis.Workers))
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Debug("Shutting down application")
	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
