// Package dir manages the ECS150FS root directory: the fixed array of 128
// file entries, name lookup, and slot allocation.
package dir

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/ostafen/ecs150fs/fs/ondisk"
)

var (
	// ErrNameEmpty is returned for a zero-length filename.
	ErrNameEmpty = errors.New("dir: filename must not be empty")
	// ErrNameTooLong is returned when a name (plus NUL terminator) would not
	// fit in the fixed 16-byte name field.
	ErrNameTooLong = errors.New("dir: filename too long")
	// ErrNameNotNormalized is returned when a name doesn't round-trip
	// through NFC normalization unchanged, guarding against two distinct
	// byte sequences silently aliasing the same visible name.
	ErrNameNotNormalized = errors.New("dir: filename is not NFC-normalized")
	// ErrExists is returned when a name is already present in the directory.
	ErrExists = errors.New("dir: file already exists")
	// ErrNotFound is returned when a name has no matching directory entry.
	ErrNotFound = errors.New("dir: file not found")
	// ErrFull is returned when every directory slot is occupied.
	ErrFull = errors.New("dir: root directory is full")
)

// ValidateName checks a candidate filename against spec §4.3's acceptance
// rules before it is written into a directory entry.
func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name)+1 > ondisk.MaxFilenameLen {
		return fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	if norm.NFC.String(name) != name {
		return fmt.Errorf("%w: %q", ErrNameNotNormalized, name)
	}
	return nil
}

// Directory is the in-memory root directory: a fixed slice of
// ondisk.MaxFiles entries.
type Directory struct {
	entries [ondisk.MaxFiles]ondisk.DirEntry
}

// New wraps a decoded entry array.
func New(entries [ondisk.MaxFiles]ondisk.DirEntry) *Directory {
	return &Directory{entries: entries}
}

// NewEmpty returns a directory with every slot cleared.
func NewEmpty() *Directory {
	return &Directory{}
}

// Entries exposes the backing array for serialization.
func (d *Directory) Entries() [ondisk.MaxFiles]ondisk.DirEntry {
	return d.entries
}

// Find returns the index of the entry named name, or ErrNotFound.
func (d *Directory) Find(name string) (int, error) {
	for i := range d.entries {
		if !d.entries[i].Empty() && d.entries[i].NameString() == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Get returns a pointer to the entry at idx for in-place mutation.
func (d *Directory) Get(idx int) *ondisk.DirEntry {
	return &d.entries[idx]
}

// Count returns how many slots are currently occupied.
func (d *Directory) Count() int {
	n := 0
	for i := range d.entries {
		if !d.entries[i].Empty() {
			n++
		}
	}
	return n
}

// List returns the indices of occupied entries, in slot order.
func (d *Directory) List() []int {
	out := make([]int, 0, ondisk.MaxFiles)
	for i := range d.entries {
		if !d.entries[i].Empty() {
			out = append(out, i)
		}
	}
	return out
}

// Create validates name, rejects duplicates, and claims the first empty
// slot for a new zero-length file. It returns the claimed index.
func (d *Directory) Create(name string) (int, error) {
	if err := ValidateName(name); err != nil {
		return -1, err
	}
	if _, err := d.Find(name); err == nil {
		return -1, fmt.Errorf("%w: %q", ErrExists, name)
	}

	for i := range d.entries {
		if d.entries[i].Empty() {
			d.entries[i].Clear()
			if err := d.entries[i].SetName(name); err != nil {
				return -1, err
			}
			d.entries[i].Size = 0
			d.entries[i].FirstBlock = ondisk.EOC
			return i, nil
		}
	}
	return -1, ErrFull
}

// Delete clears the entry at idx back to empty.
func (d *Directory) Delete(idx int) error {
	if idx < 0 || idx >= len(d.entries) {
		return fmt.Errorf("%w: index %d", ErrNotFound, idx)
	}
	d.entries[idx].Clear()
	return nil
}
