package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// Service provides Git operations
type Service struct {
	logger *loggy.Logger
	repo   *git.Repository
}

// NewService creates a new Git service
func NewService(logger *loggy.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// OpenRepo opens the repository at repoPath, searching parent directories
func (s *Service) OpenRepo(repoPath string) error {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("opening git repo: %w", err)
	}

	s.repo = repo
	return nil
}

// ensureRepo ensures the repository is opened before performing operations
func (s *Service) ensureRepo() error {
	if s.repo == nil {
		return fmt.Errorf("git repository not initialized")
	}
	return nil
}

// HasGitRepo checks if the provided path contains a valid Git repository
func (s *Service) HasGitRepo(path string) bool {
	_, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		s.logger.Debug("Not a valid Git repository", "path", path, "error", err)
		return false
	}

	return true
}

// GetDiff retrieves a diff based on the request parameters. The repository
// at req.RepoPath is opened when the service has none yet.
func (s *Service) GetDiff(req DiffRequest) (*DiffResult, error) {
	if s.repo == nil && req.RepoPath != "" {
		if err := s.OpenRepo(req.RepoPath); err != nil {
			return nil, err
		}
	}
	if err := s.ensureRepo(); err != nil {
		return nil, err
	}

	switch req.DiffType {
	case DiffTypeStaged:
		return s.getStagedDiff()
	case DiffTypeCommit:
		return s.getCommitDiff(req.CommitID)
	case DiffTypeBranch:
		return s.getBranchDiff(req.BaseRef, req.HeadRef)
	default:
		return nil, fmt.Errorf("unsupported diff type: %s", req.DiffType)
	}
}

// getStagedDiff lists the files staged in the index. Content is the staged
// version, not the working tree copy.
func (s *Service) getStagedDiff() (*DiffResult, error) {
	worktree, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("getting worktree status: %w", err)
	}

	index, err := s.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var files []ChangedFile
	for filePath, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified || fileStatus.Staging == git.Untracked {
			continue
		}

		file := ChangedFile{
			Path:       filepath.ToSlash(filePath),
			ChangeType: getChangeType(fileStatus.Staging),
		}
		if fileStatus.Staging == git.Renamed && fileStatus.Extra != "" {
			file.OldPath = filepath.ToSlash(fileStatus.Extra)
		}

		if file.ChangeType != ChangeTypeDeleted {
			entry, err := index.Entry(filePath)
			if err != nil {
				s.logger.Warn("Staged file missing from index", "path", filePath, "error", err)
				continue
			}
			file.blob = entry.Hash
		}

		files = append(files, file)
	}

	s.logger.Debug("Collected staged changes", "files", len(files))

	return newDiffResult(s.repo, files, nil), nil
}

// getCommitDiff retrieves changes in a specific commit against its first parent
func (s *Service) getCommitDiff(commitID string) (*DiffResult, error) {
	commit, err := s.resolveCommit(commitID)
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("getting parent commit: %w", err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, fmt.Errorf("getting parent tree: %w", err)
		}
	} else {
		s.logger.Debug("No parent commit found, diffing against empty tree", "hash", commit.Hash.String())
		parentTree = &object.Tree{}
	}

	currentTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting commit tree: %w", err)
	}

	changes, err := parentTree.Diff(currentTree)
	if err != nil {
		return nil, fmt.Errorf("getting commit changes: %w", err)
	}

	commitInfo := &Commit{
		Hash:      commit.Hash.String(),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Message:   commit.Message,
		Timestamp: commit.Author.When,
	}

	return newDiffResult(s.repo, s.processChanges(changes), commitInfo), nil
}

// getBranchDiff retrieves the changes needed to go from baseRef to headRef
func (s *Service) getBranchDiff(baseRef, headRef string) (*DiffResult, error) {
	if baseRef == "" || headRef == "" {
		return nil, fmt.Errorf("branch diff needs both a base and a head ref")
	}

	baseCommit, err := s.resolveCommit(baseRef)
	if err != nil {
		return nil, err
	}
	headCommit, err := s.resolveCommit(headRef)
	if err != nil {
		return nil, err
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting head tree: %w", err)
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return nil, fmt.Errorf("getting diff: %w", err)
	}

	s.logger.Debug("Compared refs", "base", baseRef, "head", headRef, "changes", len(changes))

	return newDiffResult(s.repo, s.processChanges(changes), nil), nil
}

// resolveCommit resolves a branch, tag, hash, or revision expression to a commit
func (s *Service) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}

	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit object: %w", err)
	}
	return commit, nil
}

// processChanges converts go-git Changes to our ChangedFile model
func (s *Service) processChanges(changes object.Changes) []ChangedFile {
	files := make([]ChangedFile, 0, len(changes))

	for _, change := range changes {
		fromName := ""
		if change.From.Name != "" {
			fromName = filepath.ToSlash(filepath.Clean(change.From.Name))
		}
		toName := ""
		if change.To.Name != "" {
			toName = filepath.ToSlash(filepath.Clean(change.To.Name))
		}

		file := ChangedFile{
			Path:       toName,
			ChangeType: getChangeTypeFromChange(change),
			blob:       change.To.TreeEntry.Hash,
		}
		if file.Path == "" {
			file.Path = fromName
		}
		if file.ChangeType == ChangeTypeRenamed {
			file.OldPath = fromName
		}

		s.logger.Debug("Found change", "path", file.Path, "old_path", file.OldPath, "change_type", file.ChangeType)
		files = append(files, file)
	}

	return files
}

// getChangeTypeFromChange determines the type of change from a git object.Change
func getChangeTypeFromChange(change *object.Change) ChangeType {
	if change.From.TreeEntry.Hash.IsZero() && !change.To.TreeEntry.Hash.IsZero() {
		return ChangeTypeAdded
	}

	if !change.From.TreeEntry.Hash.IsZero() && change.To.TreeEntry.Hash.IsZero() {
		return ChangeTypeDeleted
	}

	if change.From.Name != "" && change.To.Name != "" && change.From.Name != change.To.Name {
		return ChangeTypeRenamed
	}

	return ChangeTypeModified
}

// getChangeType converts go-git StatusCode to our ChangeType
func getChangeType(code git.StatusCode) ChangeType {
	switch code {
	case git.Added:
		return ChangeTypeAdded
	case git.Modified, git.UpdatedButUnmerged, git.Copied:
		return ChangeTypeModified
	case git.Deleted:
		return ChangeTypeDeleted
	case git.Renamed:
		return ChangeTypeRenamed
	default:
		return ChangeTypeModified
	}
}

// RemoteURL returns the first URL configured for the named remote
func (s *Service) RemoteURL(name string) (string, error) {
	if err := s.ensureRepo(); err != nil {
		return "", err
	}

	remote, err := s.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("getting remote %q: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}
