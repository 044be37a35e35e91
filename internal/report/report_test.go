package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/report"
	"github.com/ostafen/ecs150fs/internal/testimage"
)

func mustMount(t *testing.T, dataBlocks uint16) *fs.FileSystem {
	t.Helper()
	dev, err := testimage.NewMemImage(dataBlocks)
	require.NoError(t, err)

	fsys := fs.New(nil)
	require.NoError(t, fsys.MountDevice(dev))
	return fsys
}

func writeFile(t *testing.T, fsys *fs.FileSystem, name, content string) {
	t.Helper()
	require.NoError(t, fsys.Create(name))
	fd, err := fsys.Open(name)
	require.NoError(t, err)
	_, err = fsys.Write(fd, []byte(content))
	require.NoError(t, err)
	require.NoError(t, fsys.Close(fd))
}

func TestBuildReportsSizeAndHash(t *testing.T) {
	fsys := mustMount(t, 16)
	writeFile(t, fsys, "greeting", "hello world")

	entries, err := report.Build(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "greeting", entries[0].Filename)
	require.Equal(t, uint64(11), entries[0].FileSize)
	require.NotEmpty(t, entries[0].Blake2b)
	require.NotEmpty(t, entries[0].ByteRuns.Runs)
}

func TestWriteDFXMLThenVerifyIsClean(t *testing.T) {
	fsys := mustMount(t, 16)
	writeFile(t, fsys, "greeting", "hello world")

	entries, err := report.Build(fsys)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteDFXML(&buf, "test.img", 4096*32, entries))

	diff, err := report.Verify(bytes.NewReader(buf.Bytes()), fsys)
	require.NoError(t, err)
	require.True(t, diff.Clean())
}

func TestVerifyDetectsDrift(t *testing.T) {
	fsys := mustMount(t, 16)
	writeFile(t, fsys, "greeting", "hello world")

	entries, err := report.Build(fsys)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteDFXML(&buf, "test.img", 4096*32, entries))
	manifest := buf.Bytes()

	// Grow the file so its size no longer matches the manifest.
	fd, err := fsys.Open("greeting")
	require.NoError(t, err)
	require.NoError(t, fsys.Seek(fd, 11))
	_, err = fsys.Write(fd, []byte("!"))
	require.NoError(t, err)
	require.NoError(t, fsys.Close(fd))

	require.NoError(t, fsys.Create("new-file"))

	diff, err := report.Verify(bytes.NewReader(manifest), fsys)
	require.NoError(t, err)
	require.False(t, diff.Clean())
	require.Contains(t, diff.Resized, "greeting")
	require.Contains(t, diff.Added, "new-file")
}
