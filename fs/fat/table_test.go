package fat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/ecs150fs/fs/fat"
	"github.com/ostafen/ecs150fs/fs/ondisk"
)

func TestEntryZeroOrdinarilyAllocatable(t *testing.T) {
	table := fat.NewEmpty(10)
	free, err := table.IsFree(0)
	require.NoError(t, err)
	require.True(t, free)

	for i := 0; i < 10; i++ {
		_, err := table.Alloc()
		require.NoError(t, err)
	}
	_, err = table.Alloc()
	require.ErrorIs(t, err, fat.ErrNoFreeBlocks)
}

func TestFirstFitLowestIndex(t *testing.T) {
	table := fat.NewEmpty(5)
	a, err := table.Alloc()
	require.NoError(t, err)
	require.Equal(t, 0, a)

	b, err := table.Alloc()
	require.NoError(t, err)
	require.Equal(t, 1, b)

	require.NoError(t, table.Free(a))

	c, err := table.Alloc()
	require.NoError(t, err)
	require.Equal(t, 0, c)
}

func TestChainAndFree(t *testing.T) {
	table := fat.NewEmpty(5)
	head, n1, err := table.Extend(ondisk.EOC)
	require.NoError(t, err)
	require.Equal(t, n1, head)

	_, n2, err := table.Extend(head)
	require.NoError(t, err)
	require.NotEqual(t, n1, n2)

	length, err := table.ChainLength(head)
	require.NoError(t, err)
	require.Equal(t, 2, length)

	require.NoError(t, table.FreeChain(head))
	require.Equal(t, 5, table.FreeCount())
}

func TestFreeChainOfEmptyFileIsNoop(t *testing.T) {
	table := fat.NewEmpty(5)
	require.NoError(t, table.FreeChain(ondisk.EOC))
	require.Equal(t, 5, table.FreeCount())
}
