package ondisk_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/ondisk"
)

func TestSuperblockRoundTrip(t *testing.T) {
	sb := ondisk.NewSuperblock(4100, 2, 4096)
	require.True(t, sb.HasValidSignature())
	require.True(t, sb.HasValidGeometry())
	require.Equal(t, uint16(3), sb.RootDirBlock)
	require.Equal(t, uint16(4), sb.DataStartBlock)

	raw, err := sb.Bytes()
	require.NoError(t, err)
	require.Len(t, raw, ondisk.BlockSize)

	got, err := ondisk.ReadSuperblock(raw)
	require.NoError(t, err)
	require.Equal(t, sb, got)
}

func TestSuperblockBadSignature(t *testing.T) {
	block := make([]byte, ondisk.BlockSize)
	copy(block, "NOTVALID")
	sb, err := ondisk.ReadSuperblock(block)
	require.NoError(t, err)
	require.False(t, sb.HasValidSignature())
}

func TestDirEntryNameRoundTrip(t *testing.T) {
	var e ondisk.DirEntry
	require.True(t, e.Empty())

	require.NoError(t, e.SetName("file.txt"))
	require.False(t, e.Empty())
	require.Equal(t, "file.txt", e.NameString())

	require.Error(t, e.SetName("this-name-is-way-too-long"))
}

func TestDirEntryClear(t *testing.T) {
	var e ondisk.DirEntry
	require.NoError(t, e.SetName("x"))
	e.Size = 42
	e.FirstBlock = 7
	e.Clear()
	require.True(t, e.Empty())
	require.Equal(t, uint32(0), e.Size)
}

func TestRootDirRoundTrip(t *testing.T) {
	var entries [ondisk.MaxFiles]ondisk.DirEntry
	require.NoError(t, entries[0].SetName("a"))
	entries[0].Size = 10
	require.NoError(t, entries[5].SetName("b"))
	entries[5].Size = 20

	raw, err := ondisk.EncodeRootDir(entries)
	require.NoError(t, err)
	require.Len(t, raw, ondisk.BlockSize)

	got, err := ondisk.DecodeRootDir(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Fatalf("root directory round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFATRoundTrip(t *testing.T) {
	entries := make([]uint16, 100)
	entries[0] = ondisk.EOC
	entries[1] = 2
	entries[2] = ondisk.EOC

	raw, err := ondisk.EncodeFAT(entries, 1)
	require.NoError(t, err)
	require.Len(t, raw, ondisk.BlockSize)

	got, err := ondisk.DecodeFAT(raw, 100)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}
