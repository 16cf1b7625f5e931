// Package workspace exposes a directory tree as a change set so a whole
// checkout can be analyzed without git history.
package workspace

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/tildaslashalef/prreview/internal/loggy"
)

// binarySniffSize is how much of a file is read to decide whether it is binary
const binarySniffSize = 8 * 1024

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	"vendor":        {},
	"venv":          {},
	"env":           {},
	"build":         {},
	"dist":          {},
	"target":        {},
	"egg-info":      {},
	".git":          {},
	".tox":          {},
	".mypy_cache":   {},
	".pytest_cache": {},
}

// Options controls which files Scan keeps
type Options struct {
	IncludeVendored bool     // Keep files enry recognizes as vendored or generated
	IncludeDocs     bool     // Keep documentation files
	MaxFileSize     int64    // Skip files larger than this, 0 means no limit
	Extensions      []string // Only keep these extensions (with dot), empty keeps all
}

// Tree is the set of files found under a root directory
type Tree struct {
	root   string
	paths  []string
	logger *loggy.Logger
}

// Scan walks root and collects every file that is not ignored by the root
// .gitignore, not inside a skipped directory and not binary.
func Scan(ctx context.Context, root string, opts Options, logger *loggy.Logger) (*Tree, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	gi := loadGitignore(absRoot)
	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || strings.HasPrefix(name, ".") {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if len(extensions) > 0 {
			if _, ok := extensions[strings.ToLower(filepath.Ext(name))]; !ok {
				return nil
			}
		}
		if !opts.IncludeVendored && enry.IsVendor(rel) {
			return nil
		}
		if !opts.IncludeDocs && enry.IsDocumentation(rel) {
			return nil
		}
		if opts.MaxFileSize > 0 {
			if fi, err := d.Info(); err == nil && fi.Size() > opts.MaxFileSize {
				logger.Debug("Skipping large file", "path", rel, "size", fi.Size())
				return nil
			}
		}
		if isBinary(path) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	sort.Strings(paths)
	logger.Debug("Scanned workspace", "root", absRoot, "files", len(paths))

	return &Tree{root: absRoot, paths: paths, logger: logger}, nil
}

// Root returns the absolute directory the tree was scanned from
func (t *Tree) Root() string {
	return t.root
}

// Paths returns the slash separated paths relative to the root, sorted
func (t *Tree) Paths() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Content reads a file of the tree from disk
func (t *Tree) Content(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(t.root, filepath.FromSlash(path)))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Describe names the tree for reports
func (t *Tree) Describe() string {
	return "directory " + t.root
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

// isBinary sniffs the head of path. A file that cannot be read is not
// treated as binary, so reading it later reports the failure.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, binarySniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false
	}
	return enry.IsBinary(buf[:n])
}
