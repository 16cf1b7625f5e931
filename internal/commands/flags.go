package commands

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/config"
)

// ReviewFlags returns the flags of the review action. They are registered on
// both the root command and the review subcommand.
func ReviewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     "staged",
			Aliases:  []string{"s"},
			Usage:    "Review staged changes (default when no other source is given)",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "commit",
			Aliases:  []string{"c"},
			Usage:    "Review the changes introduced by a commit",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "base-ref",
			Aliases:  []string{"base"},
			Usage:    "Base reference of a branch comparison (e.g. main)",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "head-ref",
			Aliases:  []string{"head"},
			Usage:    "Head reference of a branch comparison (default: HEAD)",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "dir",
			Aliases:  []string{"d"},
			Usage:    "Review every file under a directory instead of a git change set",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "pr",
			Usage:    "Review a GitHub pull request: URL, owner/repo#N, or a number of the origin repository",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "repo",
			Usage:    "Path inside the git repository to review",
			Value:    ".",
			Category: "Source",
		},
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    "Report format: " + strings.Join(config.OutputFormats, ", "),
			Category: "Output",
		},
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o", "output-file"},
			Usage:    "Write the report to a file instead of stdout",
			Category: "Output",
		},
		&cli.BoolFlag{
			Name:     "comment",
			Usage:    "Post the markdown report as a comment on the pull request given with --pr",
			Category: "Output",
		},
		&cli.BoolFlag{
			Name:     "no-color",
			Usage:    "Disable colors in terminal output",
			Category: "Output",
		},
		&cli.IntFlag{
			Name:     "length-threshold",
			Usage:    "Maximum function body length in lines",
			Category: "Rules",
		},
		&cli.IntFlag{
			Name:     "param-threshold",
			Usage:    "Maximum number of function parameters",
			Category: "Rules",
		},
		&cli.IntFlag{
			Name:     "nesting-threshold",
			Usage:    "Maximum block nesting depth inside a function",
			Category: "Rules",
		},
		&cli.StringFlag{
			Name:     "line-resolution",
			Usage:    "How finding lines are computed: exact or first-occurrence",
			Category: "Rules",
		},
		&cli.StringSliceFlag{
			Name:     "disable-pattern",
			Usage:    "Issue pattern ID to skip (repeatable), see `prreview rules`",
			Category: "Rules",
		},
		&cli.StringFlag{
			Name:     "fail-on",
			Usage:    "Lowest severity that makes the run fail: critical, high, medium, low, or none",
			Category: "Rules",
		},
		&cli.IntFlag{
			Name:     "workers",
			Aliases:  []string{"w"},
			Usage:    "Files analyzed at once (0 uses every CPU)",
			Category: "Rules",
		},
	}
}

// applyOverrides copies explicitly set flags over the loaded configuration
func applyOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("length-threshold") {
		cfg.Analysis.LengthThreshold = c.Int("length-threshold")
	}
	if c.IsSet("param-threshold") {
		cfg.Analysis.ParamThreshold = c.Int("param-threshold")
	}
	if c.IsSet("nesting-threshold") {
		cfg.Analysis.NestingThreshold = c.Int("nesting-threshold")
	}
	if c.IsSet("line-resolution") {
		cfg.Analysis.LineResolution = c.String("line-resolution")
	}
	if c.IsSet("disable-pattern") {
		cfg.Analysis.DisabledPatterns = append(cfg.Analysis.DisabledPatterns, c.StringSlice("disable-pattern")...)
	}
	if c.IsSet("fail-on") {
		cfg.Analysis.FailOn = c.String("fail-on")
	}
	if c.IsSet("workers") {
		cfg.Analysis.Workers = c.Int("workers")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
}
