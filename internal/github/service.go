// Package github reads pull requests as change sets and posts review reports
// back to them
package github

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tildaslashalef/prreview/internal/config"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// PRRef identifies a pull request
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// String formats the reference as owner/repo#number
func (r PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	prURLPattern       = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+)/pull/(\d+)`)
	prShorthandPattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
)

// ParsePRRef parses "owner/repo#123", a pull request URL, or a bare number.
// A bare number takes owner and repo from remoteURL.
func ParsePRRef(value, remoteURL string) (PRRef, error) {
	value = strings.TrimSpace(value)

	if m := prURLPattern.FindStringSubmatch(value); m != nil {
		n, _ := strconv.Atoi(m[3])
		return PRRef{Owner: m[1], Repo: m[2], Number: n}, nil
	}
	if m := prShorthandPattern.FindStringSubmatch(value); m != nil {
		n, _ := strconv.Atoi(m[3])
		return PRRef{Owner: m[1], Repo: m[2], Number: n}, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(value, "#"))
	if err != nil || n <= 0 {
		return PRRef{}, fmt.Errorf("invalid pull request reference %q", value)
	}
	owner, repo, err := ExtractRepoDetailsFromURL(remoteURL)
	if err != nil {
		return PRRef{}, fmt.Errorf("pull request %d: %w", n, err)
	}
	return PRRef{Owner: owner, Repo: repo, Number: n}, nil
}

// ExtractRepoDetailsFromURL extracts owner and repo from a Git URL
func ExtractRepoDetailsFromURL(gitURL string) (owner, repo string, err error) {
	if gitURL == "" {
		return "", "", fmt.Errorf("empty Git URL")
	}

	// https://github.com/owner/repo.git
	// git@github.com:owner/repo.git
	// https://github.com/owner/repo
	gitURL = strings.TrimSuffix(gitURL, ".git")

	var parts []string
	if strings.Contains(gitURL, "github.com/") {
		parts = strings.Split(gitURL, "github.com/")
	} else if strings.Contains(gitURL, "github.com:") {
		parts = strings.Split(gitURL, "github.com:")
	} else {
		return "", "", fmt.Errorf("unsupported Git URL format: %s", gitURL)
	}
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid GitHub URL format: %s", gitURL)
	}

	ownerRepo := strings.Split(parts[1], "/")
	if len(ownerRepo) < 2 || ownerRepo[0] == "" || ownerRepo[1] == "" {
		return "", "", fmt.Errorf("could not extract owner/repo from URL: %s", gitURL)
	}

	return ownerRepo[0], ownerRepo[1], nil
}

// Service provides GitHub integration functionality
type Service struct {
	client *Client
	logger *loggy.Logger
}

// NewService creates a new GitHub service
func NewService(cfg config.GitHubConfig, logger *loggy.Logger) (*Service, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// PullRequestFiles returns the files of a pull request as a FileSet. Removed
// files are left out; content is fetched at the head commit on demand.
func (s *Service) PullRequestFiles(ctx context.Context, ref PRRef) (*PullRequestFileSet, error) {
	pr, err := s.client.GetPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to get PR details: %w", err)
	}
	if pr.GetHead().GetSHA() == "" {
		return nil, fmt.Errorf("unable to determine head commit SHA for PR #%d", ref.Number)
	}

	files, err := s.client.ListPullRequestFiles(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to list PR files: %w", err)
	}

	set := &PullRequestFileSet{
		Ref:     ref,
		Title:   pr.GetTitle(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
		client:  s.client,
	}
	for _, f := range files {
		if f.GetStatus() == "removed" {
			continue
		}
		set.paths = append(set.paths, f.GetFilename())
	}
	sort.Strings(set.paths)

	s.logger.Info("Loaded pull request",
		"pr", ref.String(),
		"head_sha", set.HeadSHA,
		"files", len(set.paths),
		"removed", len(files)-len(set.paths))

	return set, nil
}

// PostReport posts body as a comment on the pull request
func (s *Service) PostReport(ctx context.Context, ref PRRef, body string) error {
	comment, err := s.client.CreateIssueComment(ctx, ref.Owner, ref.Repo, ref.Number, body)
	if err != nil {
		s.logger.Error("Failed to post report to GitHub PR", "error", err, "pr", ref.String())
		return fmt.Errorf("failed to submit comment: %w", err)
	}

	s.logger.Info("Posted report to GitHub PR", "pr", ref.String(), "comment_url", comment.GetHTMLURL())
	return nil
}

// PullRequestFileSet is the FileSet of one pull request at its head commit
type PullRequestFileSet struct {
	Ref     PRRef
	Title   string
	BaseRef string
	HeadRef string
	HeadSHA string

	client *Client
	paths  []string
}

// Paths returns the changed file paths in lexical order
func (p *PullRequestFileSet) Paths() []string {
	return p.paths
}

// Content fetches path at the head commit
func (p *PullRequestFileSet) Content(ctx context.Context, path string) (string, error) {
	i := sort.SearchStrings(p.paths, path)
	if i == len(p.paths) || p.paths[i] != path {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return p.client.GetFileContent(ctx, p.Ref.Owner, p.Ref.Repo, path, p.HeadSHA)
}

// Describe returns a short human readable description of the pull request
func (p *PullRequestFileSet) Describe() string {
	return fmt.Sprintf("%s (%s..%s)", p.Ref.String(), p.BaseRef, p.HeadRef)
}
