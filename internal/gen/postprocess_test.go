package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostProcessFormatsAndPrunesImports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.go")
	// Badly indented, with one unused import the cleanup pass must drop.
	src := "package native\n\nimport (\n\"fmt\"\n\"strings\"\n)\n\nfunc greeting( ) string {\nreturn fmt.Sprintf(\"hi\")\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	require.NoError(t, postProcess(path))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "func greeting() string {")
	assert.Contains(t, string(out), `"fmt"`)
	assert.NotContains(t, string(out), `"strings"`)
}

func TestPostProcessRejectsInvalidSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	require.NoError(t, os.WriteFile(path, []byte("package native\n\nfunc {"), 0o644))

	assert.ErrorContains(t, postProcess(path), "format")
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "bindings.go")

	require.NoError(t, writeFileAtomic(path, []byte("first")))
	require.NoError(t, writeFileAtomic(path, []byte("second")))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(out))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
