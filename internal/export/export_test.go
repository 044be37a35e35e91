package export_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/export"
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

func TestFileRawCodecRoundTrips(t *testing.T) {
	fsys := mustMount(t, 16)
	writeFile(t, fsys, "greeting", "hello world")

	dest := filepath.Join(t.TempDir(), "greeting")

	var progressed int
	err := export.File(fsys, "greeting", dest, export.Raw, func(n int) { progressed += n })
	require.NoError(t, err)
	require.Equal(t, 11, progressed)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestFileLZ4CodecProducesDecodableOutput(t *testing.T) {
	fsys := mustMount(t, 16)
	writeFile(t, fsys, "greeting", "hello world")

	dest := filepath.Join(t.TempDir(), "greeting.lz4")
	require.NoError(t, export.File(fsys, "greeting", dest, export.LZ4, nil))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	r := lz4.NewReader(f)
	out := make([]byte, 11)
	_, err = r.Read(out)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(out))
}

func TestFileMissingSourceFails(t *testing.T) {
	fsys := mustMount(t, 16)
	dest := filepath.Join(t.TempDir(), "missing")
	err := export.File(fsys, "missing", dest, export.Raw, nil)
	require.Error(t, err)
}
