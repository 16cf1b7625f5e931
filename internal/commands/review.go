package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prreview/internal/analysis"
	"github.com/tildaslashalef/prreview/internal/app"
	"github.com/tildaslashalef/prreview/internal/git"
	"github.com/tildaslashalef/prreview/internal/github"
	"github.com/tildaslashalef/prreview/internal/loggy"
	"github.com/tildaslashalef/prreview/internal/report"
	"github.com/tildaslashalef/prreview/internal/utils"
	"github.com/tildaslashalef/prreview/internal/workspace"
)

// ReviewCommand returns the CLI command that analyzes a change set and writes a report
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Analyze a change set and write a review report",
		Description: "Runs the naming, complexity, and pattern rules over staged changes, a commit, " +
			"a branch comparison, a directory, or a GitHub pull request. Exits with status 1 when " +
			"a finding at or above --fail-on is reported.",
		Flags:  ReviewFlags(),
		Action: ReviewAction,
	}
}

// source is a change set together with the text used to describe it
type source struct {
	files       analysis.FileSet
	description string
	pr          *github.PRRef
}

// ReviewAction is the action of the review command and of the root command
func ReviewAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	cfg := application.Config
	applyOverrides(c, cfg)

	failOn, gate, err := cfg.FailOnSeverity()
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	if _, err := report.GetWriter(cfg.Output.Format, report.Options{}); err != nil {
		return err
	}

	analyzer, err := application.Analyzer()
	if err != nil {
		return fmt.Errorf("invalid rule configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	ctx = loggy.WithRunID(loggy.WithLogger(ctx, application.Logger), loggy.NewRunID())
	logger := loggy.FromContext(ctx)

	src, err := resolveSource(ctx, c, application)
	if err != nil {
		return err
	}
	if c.Bool("comment") && src.pr == nil {
		return fmt.Errorf("--comment requires --pr")
	}

	logger.Info("Reviewing change set", "source", src.description, "files", len(src.files.Paths()))

	result, err := analyzer.Analyze(ctx, src.files)
	if err != nil {
		return err
	}

	rep := report.New(result, src.description, c.App.Version)
	opts := report.Options{Color: cfg.Output.Color, WrapWidth: cfg.Output.WrapWidth}
	if err := report.WriteReport(rep, cfg.Output.Format, cfg.Output.Path, opts); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	result.MarkReported()

	if cfg.Output.Path != "" {
		utils.PrintSuccess("Report written to " + cfg.Output.Path)
	}

	if c.Bool("comment") {
		if err := application.GitHub.PostReport(ctx, *src.pr, report.Markdown(rep)); err != nil {
			return fmt.Errorf("posting review comment: %w", err)
		}
		utils.PrintSuccess("Posted review comment on " + src.pr.String())
	}

	for _, d := range rep.Diagnostics {
		utils.PrintWarning(fmt.Sprintf("Skipped %s: %s", d.File, d.Message))
	}

	if gate && result.Findings.HasAtLeast(failOn) {
		return cli.Exit(fmt.Sprintf("review failed: findings at or above %s severity", failOn), 1)
	}
	return nil
}

// resolveSource picks the change set named by the flags, defaulting to staged changes
func resolveSource(ctx context.Context, c *cli.Context, application *app.App) (*source, error) {
	selected := 0
	for _, set := range []bool{
		c.Bool("staged"),
		c.String("commit") != "",
		c.String("base-ref") != "" || c.String("head-ref") != "",
		c.String("dir") != "",
		c.String("pr") != "",
	} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return nil, fmt.Errorf("choose only one of --staged, --commit, --base-ref/--head-ref, --dir, --pr")
	}

	repoPath := c.String("repo")

	switch {
	case c.String("dir") != "":
		tree, err := workspace.Scan(ctx, c.String("dir"), workspace.Options{}, application.Logger)
		if err != nil {
			return nil, fmt.Errorf("scanning directory: %w", err)
		}
		return &source{files: tree, description: tree.Describe()}, nil

	case c.String("pr") != "":
		remote := ""
		if application.Git.HasGitRepo(repoPath) {
			if err := application.Git.OpenRepo(repoPath); err == nil {
				remote, _ = application.Git.RemoteURL("origin")
			}
		}
		ref, err := github.ParsePRRef(c.String("pr"), remote)
		if err != nil {
			return nil, err
		}
		files, err := application.GitHub.PullRequestFiles(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("loading pull request: %w", err)
		}
		return &source{files: files, description: files.Describe(), pr: &ref}, nil
	}

	req := git.DiffRequest{RepoPath: repoPath, DiffType: git.DiffTypeStaged}
	switch {
	case c.String("commit") != "":
		req.DiffType = git.DiffTypeCommit
		req.CommitID = c.String("commit")
	case c.String("base-ref") != "" || c.String("head-ref") != "":
		req.DiffType = git.DiffTypeBranch
		req.BaseRef = c.String("base-ref")
		req.HeadRef = c.String("head-ref")
		if req.BaseRef == "" {
			return nil, fmt.Errorf("--head-ref requires --base-ref")
		}
		if req.HeadRef == "" {
			req.HeadRef = "HEAD"
		}
	}

	diff, err := application.Git.GetDiff(req)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", req.Describe(), err)
	}
	return &source{files: diff, description: req.Describe()}, nil
}
