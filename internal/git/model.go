// Package git provides the change sets of a local Git repository
package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DiffType represents the source of a diff
type DiffType string

const (
	// DiffTypeStaged represents staged changes in a Git repository
	DiffTypeStaged DiffType = "staged"
	// DiffTypeCommit represents changes in a specific commit
	DiffTypeCommit DiffType = "commit"
	// DiffTypeBranch represents changes between two refs
	DiffTypeBranch DiffType = "branch"
)

// ChangeType represents the type of change to a file
type ChangeType string

const (
	// ChangeTypeAdded represents a file that was added
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeModified represents a file that was modified
	ChangeTypeModified ChangeType = "modified"
	// ChangeTypeDeleted represents a file that was deleted
	ChangeTypeDeleted ChangeType = "deleted"
	// ChangeTypeRenamed represents a file that was renamed
	ChangeTypeRenamed ChangeType = "renamed"
)

// ChangedFile represents a file that was changed in a diff
type ChangedFile struct {
	Path       string     `json:"path"`
	OldPath    string     `json:"old_path,omitempty"` // Only used for renamed files
	ChangeType ChangeType `json:"change_type"`

	blob plumbing.Hash
}

// HasContent reports whether the file still exists after the change
func (f ChangedFile) HasContent() bool {
	return f.ChangeType != ChangeTypeDeleted && !f.blob.IsZero()
}

// Commit represents a Git commit
type Commit struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// DiffRequest represents a request to get a diff
type DiffRequest struct {
	RepoPath string   `json:"repo_path"`
	DiffType DiffType `json:"diff_type"`
	CommitID string   `json:"commit_id,omitempty"`
	BaseRef  string   `json:"base_ref,omitempty"`
	HeadRef  string   `json:"head_ref,omitempty"`
}

// Describe returns a short human readable description of the request
func (r DiffRequest) Describe() string {
	switch r.DiffType {
	case DiffTypeStaged:
		return "staged changes"
	case DiffTypeCommit:
		return fmt.Sprintf("commit %s", r.CommitID)
	case DiffTypeBranch:
		return fmt.Sprintf("%s..%s", r.BaseRef, r.HeadRef)
	default:
		return string(r.DiffType)
	}
}

// DiffResult represents the result of a diff operation. It is a FileSet over
// the files that still exist after the change; content is read from the
// object store when asked for.
type DiffResult struct {
	Files      []ChangedFile `json:"files"`
	CommitInfo *Commit       `json:"commit_info,omitempty"`

	repo   *git.Repository
	byPath map[string]ChangedFile
}

func newDiffResult(repo *git.Repository, files []ChangedFile, commit *Commit) *DiffResult {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	byPath := make(map[string]ChangedFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	return &DiffResult{
		Files:      files,
		CommitInfo: commit,
		repo:       repo,
		byPath:     byPath,
	}
}

// Paths returns the changed files that have content, in path order
func (d *DiffResult) Paths() []string {
	var paths []string
	for _, f := range d.Files {
		if f.HasContent() {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Content reads the post-change content of path
func (d *DiffResult) Content(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, ok := d.byPath[path]
	if !ok || !f.HasContent() {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	blob, err := d.repo.BlobObject(f.blob)
	if err != nil {
		return "", fmt.Errorf("getting blob for %s: %w", path, err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("getting reader for %s: %w", path, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return string(content), nil
}
