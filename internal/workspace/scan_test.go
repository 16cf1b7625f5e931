package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/prreview/internal/analysis"
	"github.com/tildaslashalef/prreview/internal/loggy"
	"github.com/tildaslashalef/prreview/internal/rules"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "app.py", []byte("def main():\n    pass\n"))
	writeFile(t, root, "src/util.js", []byte("function util() {}\n"))
	writeFile(t, root, "src/generated.log", []byte("noise\n"))
	writeFile(t, root, "build/out.js", []byte("var x = 1;\n"))
	writeFile(t, root, "node_modules/lib/index.js", []byte("module.exports = {};\n"))
	writeFile(t, root, ".hidden/secret.py", []byte("x = 1\n"))
	writeFile(t, root, "logs/today.txt", []byte("ignored by directory rule\n"))
	writeFile(t, root, "image.png", []byte{0x89, 'P', 'N', 'G', 0x00, 0x00, 0x01, 0x02})
	writeFile(t, root, ".gitignore", []byte("*.log\nlogs/\n"))

	return root
}

func TestScan(t *testing.T) {
	root := setupTree(t)

	tree, err := Scan(context.Background(), root, Options{}, loggy.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"app.py", "src/util.js"}, tree.Paths())
	assert.Contains(t, tree.Describe(), tree.Root())

	content, err := tree.Content(context.Background(), "src/util.js")
	require.NoError(t, err)
	assert.Equal(t, "function util() {}\n", content)
}

func TestScan_Extensions(t *testing.T) {
	root := setupTree(t)

	tree, err := Scan(context.Background(), root, Options{Extensions: []string{".PY"}}, loggy.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"app.py"}, tree.Paths())
}

func TestScan_MaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.py", []byte("x = 1\n"))
	writeFile(t, root, "large.py", []byte("y = 2\n# padding padding padding\n"))

	tree, err := Scan(context.Background(), root, Options{MaxFileSize: 10}, loggy.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"small.py"}, tree.Paths())
}

func TestScan_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.py", []byte("x = 1\n"))

	_, err := Scan(context.Background(), filepath.Join(root, "file.py"), Options{}, loggy.NewNoopLogger())
	assert.Error(t, err)

	_, err = Scan(context.Background(), filepath.Join(root, "missing"), Options{}, loggy.NewNoopLogger())
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	root := setupTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, Options{}, loggy.NewNoopLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTree_ContentMissing(t *testing.T) {
	root := setupTree(t)
	tree, err := Scan(context.Background(), root, Options{}, loggy.NewNoopLogger())
	require.NoError(t, err)

	_, err = tree.Content(context.Background(), "missing.py")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_UnreadableFileBecomesDiagnostic(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, root, "ok.py", []byte("x = 1\n"))
	writeFile(t, root, "locked.py", []byte("y = 2\n"))
	locked := filepath.Join(root, "locked.py")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	tree, err := Scan(context.Background(), root, Options{}, loggy.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"locked.py", "ok.py"}, tree.Paths())

	_, err = tree.Content(context.Background(), "locked.py")
	assert.ErrorIs(t, err, os.ErrPermission)

	svc, err := analysis.NewService(rules.DefaultConfig(), loggy.NewNoopLogger())
	require.NoError(t, err)
	result, err := svc.Analyze(context.Background(), tree)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "locked.py", result.Diagnostics[0].File)
	assert.Equal(t, analysis.DiagnosticUnreadableFile, result.Diagnostics[0].Kind)
}

func TestIsBinary_UnreadablePathIsKept(t *testing.T) {
	assert.False(t, isBinary(filepath.Join(t.TempDir(), "missing.py")))
}
