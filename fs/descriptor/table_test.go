package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/descriptor"
)

func TestAllocReleaseLifecycle(t *testing.T) {
	table := descriptor.NewTable()

	fd, err := table.Alloc(3)
	require.NoError(t, err)
	require.Equal(t, 0, fd)

	d, err := table.Get(fd)
	require.NoError(t, err)
	require.Equal(t, 3, d.DirIndex())
	require.Equal(t, int64(0), d.Offset())

	d.SetOffset(100)
	d2, err := table.Get(fd)
	require.NoError(t, err)
	require.Equal(t, int64(100), d2.Offset())

	require.NoError(t, table.Release(fd))
	_, err = table.Get(fd)
	require.ErrorIs(t, err, descriptor.ErrInvalidFD)
}

func TestTableFillsUp(t *testing.T) {
	table := descriptor.NewTable()
	for i := 0; i < descriptor.MaxOpen; i++ {
		_, err := table.Alloc(0)
		require.NoError(t, err)
	}
	_, err := table.Alloc(0)
	require.ErrorIs(t, err, descriptor.ErrTableFull)
}

func TestCountOpenForAndAnyOpen(t *testing.T) {
	table := descriptor.NewTable()
	require.False(t, table.AnyOpen())

	fd1, err := table.Alloc(5)
	require.NoError(t, err)
	fd2, err := table.Alloc(5)
	require.NoError(t, err)
	_, err = table.Alloc(6)
	require.NoError(t, err)

	require.Equal(t, 2, table.CountOpenFor(5))
	require.Equal(t, 1, table.CountOpenFor(6))
	require.True(t, table.AnyOpen())

	require.NoError(t, table.Release(fd1))
	require.NoError(t, table.Release(fd2))
	require.Equal(t, 0, table.CountOpenFor(5))
}
