// Package descriptor implements the fixed-size table of open-file
// descriptors an ECS150FS mount keeps in memory.
package descriptor

import (
	"errors"
	"fmt"
)

// MaxOpen is the number of file descriptors a single mount can have open
// simultaneously.
const MaxOpen = 32

// ErrTableFull is returned when every descriptor slot is in use.
var ErrTableFull = errors.New("descriptor: no free file descriptor")

// ErrInvalidFD is returned when an fd index is out of range or not open.
var ErrInvalidFD = errors.New("descriptor: invalid file descriptor")

// Descriptor tracks one open file: which directory entry it refers to and
// the current byte offset for subsequent reads/writes.
type Descriptor struct {
	open     bool
	dirIndex int
	offset   int64
}

// DirIndex returns the root-directory slot this descriptor refers to.
func (d *Descriptor) DirIndex() int {
	return d.dirIndex
}

// Offset returns the descriptor's current byte offset.
func (d *Descriptor) Offset() int64 {
	return d.offset
}

// SetOffset repositions the descriptor.
func (d *Descriptor) SetOffset(off int64) {
	d.offset = off
}

// Table is the fixed pool of MaxOpen descriptors.
type Table struct {
	slots [MaxOpen]Descriptor
}

// NewTable returns an empty descriptor table.
func NewTable() *Table {
	return &Table{}
}

// Alloc reserves the lowest-numbered free slot for dirIndex and returns its
// fd.
func (t *Table) Alloc(dirIndex int) (int, error) {
	for i := range t.slots {
		if !t.slots[i].open {
			t.slots[i] = Descriptor{open: true, dirIndex: dirIndex}
			return i, nil
		}
	}
	return -1, ErrTableFull
}

// Get returns the descriptor at fd, or ErrInvalidFD if fd is out of range or
// not currently open.
func (t *Table) Get(fd int) (*Descriptor, error) {
	if fd < 0 || fd >= len(t.slots) || !t.slots[fd].open {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFD, fd)
	}
	return &t.slots[fd], nil
}

// Release closes fd, freeing its slot.
func (t *Table) Release(fd int) error {
	if fd < 0 || fd >= len(t.slots) || !t.slots[fd].open {
		return fmt.Errorf("%w: %d", ErrInvalidFD, fd)
	}
	t.slots[fd] = Descriptor{}
	return nil
}

// CountOpenFor returns how many open descriptors currently reference
// dirIndex — used to refuse deleting a file that's still open.
func (t *Table) CountOpenFor(dirIndex int) int {
	n := 0
	for i := range t.slots {
		if t.slots[i].open && t.slots[i].dirIndex == dirIndex {
			n++
		}
	}
	return n
}

// AnyOpen reports whether any descriptor is currently in use — used to
// refuse Unmount while files remain open.
func (t *Table) AnyOpen() bool {
	for i := range t.slots {
		if t.slots[i].open {
			return true
		}
	}
	return false
}
