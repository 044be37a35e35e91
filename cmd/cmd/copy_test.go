package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImportCandidatesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))

	files, skipped, err := importCandidates(path)
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)
	require.Empty(t, skipped)
}

func TestImportCandidatesDirectorySkipsInvalidNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ""+longName()+".txt"), []byte("b"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	files, skipped, err := importCandidates(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, filepath.Join(dir, "ok.txt"), files[0])
	require.Len(t, skipped, 1)
}

func TestImportCandidatesMissingPathFails(t *testing.T) {
	_, _, err := importCandidates(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

// longName returns a filename body long enough that, with its ".txt"
// suffix, it exceeds fs/dir's name-length limit.
func longName() string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
