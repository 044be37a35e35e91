package blockdev_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
)

func TestFileDeviceCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.fs")

	dev, err := blockdev.Create(path, 8)
	require.NoError(t, err)
	require.Equal(t, uint32(8), dev.BlockCount())

	payload := bytes.Repeat([]byte{0x42}, ondisk.BlockSize)
	require.NoError(t, dev.WriteBlock(3, payload))
	require.NoError(t, dev.Close())

	reopened, err := blockdev.Open(path, false)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint32(8), reopened.BlockCount())
	got, err := reopened.ReadBlock(3)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFileDeviceReadOnlyRejectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.fs")
	dev, err := blockdev.Create(path, 4)
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	ro, err := blockdev.Open(path, true)
	require.NoError(t, err)
	defer ro.Close()

	err = ro.WriteBlock(0, make([]byte, ondisk.BlockSize))
	require.Error(t, err)
}
