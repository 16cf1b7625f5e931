package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v59/github"
	"github.com/tildaslashalef/prreview/internal/config"
	"github.com/tildaslashalef/prreview/internal/loggy"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultAPIURL = "https://api.github.com"

// Client is a rate limited GitHub API client that retries transient failures
type Client struct {
	client     *github.Client
	config     config.GitHubConfig
	logger     *loggy.Logger
	limiter    *rate.Limiter
	maxRetries int
	newBackOff func() backoff.BackOff
}

// NewClient creates a GitHub API client from cfg. Without a token the client
// is anonymous and only sees public repositories.
func NewClient(cfg config.GitHubConfig, logger *loggy.Logger) (*Client, error) {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var tc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		tc = oauth2.NewClient(context.Background(), ts)
	} else {
		tc = &http.Client{}
	}
	tc.Timeout = timeout

	client := github.NewClient(tc)
	if cfg.APIURL != "" && strings.TrimSuffix(cfg.APIURL, "/") != defaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub API URL %q: %w", cfg.APIURL, err)
		}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		client:     client,
		config:     cfg,
		logger:     logger,
		limiter:    newLimiter(cfg.RequestsPerMinute),
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

// newLimiter creates a limiter allowing rpm requests per minute; zero or less disables limiting
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
}

// call waits for the limiter and runs op, retrying server errors and
// secondary rate limits with exponential backoff
func (c *Client) call(ctx context.Context, name string, op func() (*github.Response, error)) error {
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := op()
		if err == nil {
			return nil
		}
		if retryable(resp, err) {
			c.logger.Debug("Retrying GitHub request", "request", name, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func retryable(resp *github.Response, err error) bool {
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return true
	}
	if resp == nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
}

// GetPullRequest gets a pull request by number
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo must be provided")
	}

	var pr *github.PullRequest
	err := c.call(ctx, "getting pull request", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		pr, resp, err = c.client.PullRequests.Get(ctx, owner, repo, number)
		return resp, err
	})
	return pr, err
}

// ListPullRequestFiles lists every file of a pull request, following pagination
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*github.CommitFile, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo must be provided")
	}

	opts := &github.ListOptions{PerPage: 100}
	var all []*github.CommitFile
	for {
		var files []*github.CommitFile
		var next int
		err := c.call(ctx, "listing pull request files", func() (*github.Response, error) {
			var resp *github.Response
			var err error
			files, resp, err = c.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
			if resp != nil {
				next = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		all = append(all, files...)
		if next == 0 {
			break
		}
		opts.Page = next
	}

	return all, nil
}

// GetFileContent returns the decoded content of path at ref
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	var file *github.RepositoryContent
	err := c.call(ctx, "getting file content", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		file, _, resp, err = c.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
		return resp, err
	})
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

// CreateIssueComment posts body as a comment on an issue or pull request
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error) {
	var comment *github.IssueComment
	err := c.call(ctx, "creating comment", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		comment, resp, err = c.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: github.String(body)})
		return resp, err
	})
	return comment, err
}
