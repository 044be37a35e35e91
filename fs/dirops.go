package fs

import (
	"errors"
	"fmt"

	"github.com/ostafen/ecs150fs/fs/dir"
)

// Create adds a new, zero-length file named name to the root directory.
func (f *FileSystem) Create(name string) error {
	if !f.mounted {
		return ErrNotMounted
	}

	idx, err := f.directory.Create(name)
	if err != nil {
		switch {
		case errors.Is(err, dir.ErrExists):
			return fmt.Errorf("%w: %q", ErrExists, name)
		case errors.Is(err, dir.ErrFull):
			return ErrDirFull
		default:
			return fmt.Errorf("%w: %v", ErrBadName, err)
		}
	}

	f.log.Debugf("created %q at directory slot %d", name, idx)
	return nil
}

// Delete removes name from the root directory and frees its FAT chain. It
// refuses while any descriptor still references the file.
func (f *FileSystem) Delete(name string) error {
	if !f.mounted {
		return ErrNotMounted
	}

	idx, err := f.directory.Find(name)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if f.fds.CountOpenFor(idx) > 0 {
		return fmt.Errorf("%w: %q", ErrBusy, name)
	}

	entry := f.directory.Get(idx)
	if err := f.table.FreeChain(int(entry.FirstBlock)); err != nil {
		return fmt.Errorf("fs: delete %q: %w", name, err)
	}
	if err := f.directory.Delete(idx); err != nil {
		return fmt.Errorf("fs: delete %q: %w", name, err)
	}

	f.log.Debugf("deleted %q", name)
	return nil
}

// DirEntry is the information Ls reports for a single file.
type DirEntry struct {
	Name       string
	Size       uint32
	FirstBlock uint16
}

// Ls lists every non-empty directory entry in slot order.
func (f *FileSystem) Ls() ([]DirEntry, error) {
	if !f.mounted {
		return nil, ErrNotMounted
	}

	var out []DirEntry
	for _, idx := range f.directory.List() {
		e := f.directory.Get(idx)
		out = append(out, DirEntry{
			Name:       e.NameString(),
			Size:       e.Size,
			FirstBlock: e.FirstBlock,
		})
	}
	return out, nil
}
