package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/app"
	"github.com/tildaslashalef/prreview/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "prreview",
		Usage: "Rule-based pull request review",
		Description: "prreview checks changed files for naming convention violations, overly complex " +
			"functions, and risky patterns such as hardcoded secrets or leftover debug code.\n\n" +
			"When run without subcommands, prreview reviews staged changes (default action).\n" +
			"Use --commit, --base-ref/--head-ref, --dir, or --pr to review something else.",
		Version: fmt.Sprintf("%s (%s)", Version, CommitHash),
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Flags: commands.ReviewFlags(),
		Before: func(c *cli.Context) error {
			// Initialize the application
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			// Gracefully shutdown the application
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.ReviewCommand(),
			commands.RulesCommand(),
			commands.LanguagesCommand(),
			commands.InitCommand(),
		},
		// Default action is to run the review
		Action: commands.ReviewAction,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
