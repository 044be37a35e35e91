// Package fat implements the ECS150FS file allocation table: a flat array of
// 16-bit entries chaining a file's data blocks together.
package fat

import (
	"errors"
	"fmt"

	"github.com/ostafen/ecs150fs/fs/ondisk"
)

// ErrNoFreeBlocks is returned when the table has no free entry left to
// extend a chain with.
var ErrNoFreeBlocks = errors.New("fat: no free blocks available")

// ErrInvalidIndex is returned when an operation references an entry index
// outside the table.
var ErrInvalidIndex = errors.New("fat: index out of range")

// Table is the in-memory FAT. Every entry, including index 0, is an
// ordinary allocatable data-block slot; a file with no data at all is
// represented by its directory entry storing ondisk.EOC as its first-block
// pointer rather than by any reserved FAT index.
type Table struct {
	entries []uint16
}

// New wraps a freshly decoded or freshly formatted entry slice.
func New(entries []uint16) *Table {
	return &Table{entries: entries}
}

// NewEmpty builds a table of count entries, all free.
func NewEmpty(count int) *Table {
	return New(make([]uint16, count))
}

// Len returns the number of data blocks the table tracks.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries exposes the backing slice for serialization.
func (t *Table) Entries() []uint16 {
	return t.entries
}

func (t *Table) check(idx int) error {
	if idx < 0 || idx >= len(t.entries) {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, idx)
	}
	return nil
}

// Get returns the raw entry at idx.
func (t *Table) Get(idx int) (uint16, error) {
	if err := t.check(idx); err != nil {
		return 0, err
	}
	return t.entries[idx], nil
}

// Next returns the next index in idx's chain. Callers should first confirm
// idx is not already ondisk.EOC.
func (t *Table) Next(idx int) (int, error) {
	v, err := t.Get(idx)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// IsEOC reports whether idx's entry marks the end of a chain.
func (t *Table) IsEOC(idx int) (bool, error) {
	v, err := t.Get(idx)
	if err != nil {
		return false, err
	}
	return v == ondisk.EOC, nil
}

// IsFree reports whether idx is unallocated.
func (t *Table) IsFree(idx int) (bool, error) {
	v, err := t.Get(idx)
	if err != nil {
		return false, err
	}
	return v == ondisk.FATEntryFree, nil
}

// FreeCount returns the number of unallocated entries.
func (t *Table) FreeCount() int {
	n := 0
	for _, e := range t.entries {
		if e == ondisk.FATEntryFree {
			n++
		}
	}
	return n
}

// FirstFit returns the lowest-index free entry.
func (t *Table) FirstFit() (int, error) {
	for i, e := range t.entries {
		if e == ondisk.FATEntryFree {
			return i, nil
		}
	}
	return 0, ErrNoFreeBlocks
}

// Alloc reserves a single free block, marking it EOC, and returns its index.
func (t *Table) Alloc() (int, error) {
	idx, err := t.FirstFit()
	if err != nil {
		return 0, err
	}
	t.entries[idx] = ondisk.EOC
	return idx, nil
}

// Link sets from's entry to point at to, extending a chain.
func (t *Table) Link(from, to int) error {
	if err := t.check(from); err != nil {
		return err
	}
	if err := t.check(to); err != nil {
		return err
	}
	t.entries[from] = uint16(to)
	return nil
}

// SetEOC marks idx as the end of its chain.
func (t *Table) SetEOC(idx int) error {
	if err := t.check(idx); err != nil {
		return err
	}
	t.entries[idx] = ondisk.EOC
	return nil
}

// Free clears a single entry back to the free state.
func (t *Table) Free(idx int) error {
	if err := t.check(idx); err != nil {
		return err
	}
	t.entries[idx] = ondisk.FATEntryFree
	return nil
}

// FreeChain walks the chain starting at head, freeing every entry in it.
// head == ondisk.EOC (an empty file, nothing ever allocated) is a no-op.
func (t *Table) FreeChain(head int) error {
	idx := head
	for idx != ondisk.EOC {
		if err := t.check(idx); err != nil {
			return err
		}
		next := t.entries[idx]
		t.entries[idx] = ondisk.FATEntryFree
		idx = int(next)
	}
	return nil
}

// ChainLength counts the number of blocks in the chain starting at head.
// head == ondisk.EOC (an empty file) has length 0.
func (t *Table) ChainLength(head int) (int, error) {
	n := 0
	idx := head
	for idx != ondisk.EOC {
		if err := t.check(idx); err != nil {
			return n, err
		}
		n++
		idx = int(t.entries[idx])
		if n > len(t.entries) {
			return n, fmt.Errorf("fat: chain starting at %d exceeds table size, cycle suspected", head)
		}
	}
	return n, nil
}

// Chain returns the data-block indices making up head's chain, in order.
// head == ondisk.EOC (an empty file) yields an empty slice.
func (t *Table) Chain(head int) ([]int, error) {
	var out []int
	idx := head
	for idx != ondisk.EOC {
		if err := t.check(idx); err != nil {
			return out, err
		}
		out = append(out, idx)
		idx = int(t.entries[idx])
		if len(out) > len(t.entries) {
			return out, fmt.Errorf("fat: chain starting at %d exceeds table size, cycle suspected", head)
		}
	}
	return out, nil
}

// Extend appends a newly allocated block to the end of the chain starting at
// head and returns the new block's index. If head is ondisk.EOC (an empty
// file), the new block becomes the chain's sole member and its index is
// returned as the new head.
func (t *Table) Extend(head int) (newHead int, newBlock int, err error) {
	blk, err := t.Alloc()
	if err != nil {
		return 0, 0, err
	}

	if head == ondisk.EOC {
		return blk, blk, nil
	}

	idx := head
	for {
		next, nerr := t.Next(idx)
		if nerr != nil {
			return 0, 0, nerr
		}
		if next == ondisk.EOC {
			break
		}
		idx = next
	}
	if err := t.Link(idx, blk); err != nil {
		return 0, 0, err
	}
	return head, blk, nil
}
