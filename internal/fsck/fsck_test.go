package fsck_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
	"github.com/ostafen/ecs150fs/internal/fsck"
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

func TestRunOnCleanImageReportsNoErrors(t *testing.T) {
	fsys := mustMount(t, 16)
	require.NoError(t, fsys.Create("a"))
	fd, err := fsys.Open("a")
	require.NoError(t, err)
	_, err = fsys.Write(fd, []byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, fsys.Close(fd))

	report, err := fsck.Run(context.Background(), fsys)
	require.NoError(t, err)
	require.Equal(t, 1, report.FilesChecked)
	require.True(t, report.OK())
	require.NoError(t, report.Errors)
}

func TestRunOnEmptyImageReportsNoErrors(t *testing.T) {
	fsys := mustMount(t, 16)

	report, err := fsck.Run(context.Background(), fsys)
	require.NoError(t, err)
	require.Equal(t, 0, report.FilesChecked)
	require.True(t, report.OK())
}

// corruptedImage formats a fresh image, then overwrites it with
// caller-supplied FAT entries and directory entries, bypassing
// fs.FileSystem entirely so tests can construct states the library itself
// would never produce.
func corruptedImage(t *testing.T, dataBlocks uint16, fatEntries []uint16, dirEntries [ondisk.MaxFiles]ondisk.DirEntry) *blockdev.MemDevice {
	t.Helper()
	dev, err := testimage.NewMemImage(dataBlocks)
	require.NoError(t, err)

	raw, err := dev.ReadBlock(0)
	require.NoError(t, err)
	sb, err := ondisk.ReadSuperblock(raw)
	require.NoError(t, err)

	fatBlockCount := uint16(sb.FATBlockCount)
	fatBytes, err := ondisk.EncodeFAT(fatEntries, int(fatBlockCount))
	require.NoError(t, err)
	for i := uint16(0); i < fatBlockCount; i++ {
		block := fatBytes[int(i)*ondisk.BlockSize : int(i+1)*ondisk.BlockSize]
		require.NoError(t, dev.WriteBlock(uint32(1+i), block))
	}

	rootBytes, err := ondisk.EncodeRootDir(dirEntries)
	require.NoError(t, err)
	require.NoError(t, dev.WriteBlock(uint32(sb.RootDirBlock), rootBytes))

	return dev
}

func TestRunDetectsDuplicateNames(t *testing.T) {
	var entries [ondisk.MaxFiles]ondisk.DirEntry
	require.NoError(t, entries[0].SetName("dup"))
	entries[0].FirstBlock = ondisk.EOC
	require.NoError(t, entries[1].SetName("dup"))
	entries[1].FirstBlock = ondisk.EOC

	dev := corruptedImage(t, 16, make([]uint16, 16), entries)

	fsys := fs.New(nil)
	require.NoError(t, fsys.MountDevice(dev))

	report, err := fsck.Run(context.Background(), fsys)
	require.NoError(t, err)
	require.False(t, report.OK())
	require.ErrorContains(t, report.Errors, `"dup": duplicate directory entry`)
}

func TestRunDetectsSharedChainBlocks(t *testing.T) {
	fatEntries := make([]uint16, 16)
	fatEntries[0] = ondisk.EOC

	var entries [ondisk.MaxFiles]ondisk.DirEntry
	require.NoError(t, entries[0].SetName("a"))
	entries[0].FirstBlock = 0
	entries[0].Size = ondisk.BlockSize
	require.NoError(t, entries[1].SetName("b"))
	entries[1].FirstBlock = 0
	entries[1].Size = ondisk.BlockSize

	dev := corruptedImage(t, 16, fatEntries, entries)

	fsys := fs.New(nil)
	require.NoError(t, fsys.MountDevice(dev))

	report, err := fsck.Run(context.Background(), fsys)
	require.NoError(t, err)
	require.False(t, report.OK())
	require.ErrorContains(t, report.Errors, "data block 0 is shared by")
}
