package fs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs"
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

func TestMountReportsInfo(t *testing.T) {
	fsys := mustMount(t, 4096)

	info, err := fsys.Info()
	require.NoError(t, err)
	require.Equal(t, uint16(4096), info.DataBlockCount)
	require.Equal(t, 1.0, info.FreeFATRatio)
	require.Equal(t, 1.0, info.FreeRootRatio)
}

func TestDoubleMountFails(t *testing.T) {
	fsys := mustMount(t, 16)
	dev, err := testimage.NewMemImage(16)
	require.NoError(t, err)
	err = fsys.MountDevice(dev)
	require.ErrorIs(t, err, fs.ErrAlreadyMounted)
}

func TestCreateOpenWriteReadClose(t *testing.T) {
	fsys := mustMount(t, 16)

	require.NoError(t, fsys.Create("greeting"))
	require.ErrorIs(t, fsys.Create("greeting"), fs.ErrExists)

	fd, err := fsys.Open("greeting")
	require.NoError(t, err)

	n, err := fsys.Write(fd, []byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, 11, n)

	size, err := fsys.Stat(fd)
	require.NoError(t, err)
	require.Equal(t, uint32(11), size)

	require.NoError(t, fsys.Seek(fd, 0))
	out := make([]byte, 11)
	n, err = fsys.Read(fd, out)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, "hello world", string(out))

	require.NoError(t, fsys.Close(fd))
}

func TestDeleteRejectsWhileOpen(t *testing.T) {
	fsys := mustMount(t, 16)
	require.NoError(t, fsys.Create("f"))
	fd, err := fsys.Open("f")
	require.NoError(t, err)

	err = fsys.Delete("f")
	require.ErrorIs(t, err, fs.ErrBusy)

	require.NoError(t, fsys.Close(fd))
	require.NoError(t, fsys.Delete("f"))
}

func TestUnmountRejectsWhileDescriptorsOpen(t *testing.T) {
	fsys := mustMount(t, 16)
	require.NoError(t, fsys.Create("f"))
	fd, err := fsys.Open("f")
	require.NoError(t, err)

	err = fsys.Unmount()
	require.ErrorIs(t, err, fs.ErrDescriptorsOpen)

	require.NoError(t, fsys.Close(fd))
	require.NoError(t, fsys.Unmount())
	require.False(t, fsys.Mounted())
}

func TestSeekRejectsOffsetBeyondSize(t *testing.T) {
	fsys := mustMount(t, 16)
	require.NoError(t, fsys.Create("f"))
	fd, err := fsys.Open("f")
	require.NoError(t, err)

	err = fsys.Seek(fd, 1)
	require.ErrorIs(t, err, fs.ErrOffsetOutOfRange)

	require.NoError(t, fsys.Seek(fd, 0))
}

func TestCreateDelete100TimesRestoresFreeRatios(t *testing.T) {
	fsys := mustMount(t, 4096)
	before, err := fsys.Info()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, fsys.Create("tmp"))
		fd, err := fsys.Open("tmp")
		require.NoError(t, err)
		_, err = fsys.Write(fd, []byte("some bytes of file content"))
		require.NoError(t, err)
		require.NoError(t, fsys.Close(fd))
		require.NoError(t, fsys.Delete("tmp"))
	}

	after, err := fsys.Info()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestLsReportsEntriesInSlotOrder(t *testing.T) {
	fsys := mustMount(t, 16)
	require.NoError(t, fsys.Create("b"))
	require.NoError(t, fsys.Create("a"))

	entries, err := fsys.Ls()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "b", entries[0].Name)
	require.Equal(t, "a", entries[1].Name)
}

func TestMountUnmountRoundTripIsByteIdentical(t *testing.T) {
	dev, err := testimage.NewMemImage(16)
	require.NoError(t, err)

	before := snapshotAll(t, dev)

	fsys := fs.New(nil)
	require.NoError(t, fsys.MountDevice(dev))
	require.NoError(t, fsys.Unmount())

	after := snapshotAll(t, dev)
	require.Equal(t, before, after)
}

func snapshotAll(t *testing.T, dev interface {
	BlockCount() uint32
	ReadBlock(uint32) ([]byte, error)
}) []byte {
	t.Helper()
	var out []byte
	for i := uint32(0); i < dev.BlockCount(); i++ {
		b, err := dev.ReadBlock(i)
		require.NoError(t, err)
		out = append(out, b...)
	}
	return out
}
