package ioengine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/fat"
	"github.com/ostafen/ecs150fs/fs/ioengine"
	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
)

func newEngine(t *testing.T, dataBlocks uint32) (*ioengine.Engine, *fat.Table) {
	t.Helper()
	dev := blockdev.NewMemDevice(dataBlocks)
	table := fat.NewEmpty(int(dataBlocks))
	return ioengine.New(dev, table, 0), table
}

func TestWriteThenReadWithinOneBlock(t *testing.T) {
	eng, _ := newEngine(t, 4)

	data := []byte("hello, ecs150fs")
	res, err := eng.Write(ondisk.EOC, 0, data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.N)
	require.NotEqual(t, ondisk.EOC, res.FirstBlock)

	out := make([]byte, len(data))
	n, newOff, err := eng.Read(res.FirstBlock, int64(len(data)), 0, out)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, int64(len(data)), newOff)
	require.Equal(t, data, out)
}

func TestWriteSpanningMultipleBlocks(t *testing.T) {
	eng, _ := newEngine(t, 4)

	data := bytes.Repeat([]byte{0x7A}, ondisk.BlockSize+100)
	res, err := eng.Write(ondisk.EOC, 0, data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.N)

	out := make([]byte, len(data))
	n, _, err := eng.Read(res.FirstBlock, int64(len(data)), 0, out)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, out)
}

func TestPartialOverwritePreservesUntouchedBytes(t *testing.T) {
	eng, _ := newEngine(t, 4)

	initial := bytes.Repeat([]byte{0x01}, ondisk.BlockSize)
	res, err := eng.Write(ondisk.EOC, 0, initial)
	require.NoError(t, err)

	patch := []byte{0xFF, 0xFF, 0xFF}
	res2, err := eng.Write(res.FirstBlock, 10, patch)
	require.NoError(t, err)
	require.Equal(t, len(patch), res2.N)

	out := make([]byte, ondisk.BlockSize)
	_, _, err = eng.Read(res.FirstBlock, ondisk.BlockSize, 0, out)
	require.NoError(t, err)

	require.Equal(t, byte(0x01), out[9])
	require.Equal(t, byte(0xFF), out[10])
	require.Equal(t, byte(0xFF), out[12])
	require.Equal(t, byte(0x01), out[13])
}

func TestReadCapsAtFileSize(t *testing.T) {
	eng, _ := newEngine(t, 4)
	res, err := eng.Write(ondisk.EOC, 0, []byte("abcdef"))
	require.NoError(t, err)

	out := make([]byte, 100)
	n, newOff, err := eng.Read(res.FirstBlock, 6, 2, out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, int64(6), newOff)
	require.Equal(t, []byte("cdef"), out[:n])
}

func TestWriteFailsGracefullyWhenDiskFull(t *testing.T) {
	eng, table := newEngine(t, 1)

	data := bytes.Repeat([]byte{0x09}, ondisk.BlockSize)
	res, err := eng.Write(ondisk.EOC, 0, data)
	require.NoError(t, err)
	require.Equal(t, len(data), res.N)
	require.Equal(t, 0, table.FreeCount())

	more, err := eng.Write(res.FirstBlock, ondisk.BlockSize, []byte("overflow"))
	require.NoError(t, err)
	require.Equal(t, 0, more.N)
}
