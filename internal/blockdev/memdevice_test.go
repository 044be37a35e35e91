package blockdev_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
)

func TestMemDeviceReadWrite(t *testing.T) {
	dev := blockdev.NewMemDevice(4)
	require.Equal(t, uint32(4), dev.BlockCount())

	zero, err := dev.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, ondisk.BlockSize), zero)

	payload := bytes.Repeat([]byte{0xAB}, ondisk.BlockSize)
	require.NoError(t, dev.WriteBlock(2, payload))

	got, err := dev.ReadBlock(2)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	other, err := dev.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, make([]byte, ondisk.BlockSize), other)
}

func TestMemDeviceOutOfRange(t *testing.T) {
	dev := blockdev.NewMemDevice(2)
	_, err := dev.ReadBlock(2)
	require.ErrorIs(t, err, blockdev.ErrOutOfRange)

	err = dev.WriteBlock(5, make([]byte, ondisk.BlockSize))
	require.ErrorIs(t, err, blockdev.ErrOutOfRange)
}

func TestMemDeviceRejectsBadBufferSize(t *testing.T) {
	dev := blockdev.NewMemDevice(2)
	err := dev.WriteBlock(0, make([]byte, 10))
	require.Error(t, err)
}
