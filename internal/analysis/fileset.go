package analysis

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// FileSet supplies the files of one change set. Paths are analyzed in the
// order they are returned; Content is called at most once per path.
type FileSet interface {
	Paths() []string
	Content(ctx context.Context, path string) (string, error)
}

// MapFileSet is an in-memory FileSet keyed by path
type MapFileSet map[string]string

// Paths returns the paths in lexical order
func (m MapFileSet) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Content returns the content stored for path
func (m MapFileSet) Content(_ context.Context, path string) (string, error) {
	content, ok := m[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return content, nil
}
