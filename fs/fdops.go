package fs

import (
	"fmt"

	"github.com/ostafen/ecs150fs/fs/descriptor"
)

// Open binds a new file descriptor to name, positioned at offset 0.
// Opening the same file multiple times yields independent descriptors.
func (f *FileSystem) Open(name string) (int, error) {
	if !f.mounted {
		return -1, ErrNotMounted
	}

	idx, err := f.directory.Find(name)
	if err != nil {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	fd, err := f.fds.Alloc(idx)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrTooManyOpen, err)
	}
	return fd, nil
}

// Close releases fd.
func (f *FileSystem) Close(fd int) error {
	if !f.mounted {
		return ErrNotMounted
	}
	if err := f.fds.Release(fd); err != nil {
		return fmt.Errorf("%w: %v", ErrBadDescriptor, err)
	}
	return nil
}

func (f *FileSystem) descriptorFor(fd int) (*descriptor.Descriptor, error) {
	d, err := f.fds.Get(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDescriptor, err)
	}
	return d, nil
}

// Stat returns the size of the file referenced by fd.
func (f *FileSystem) Stat(fd int) (uint32, error) {
	if !f.mounted {
		return 0, ErrNotMounted
	}
	d, err := f.descriptorFor(fd)
	if err != nil {
		return 0, err
	}
	return f.directory.Get(d.DirIndex()).Size, nil
}

// Seek repositions fd's offset. offset may equal the file's current size
// (positioning at EOF) but may not exceed it.
func (f *FileSystem) Seek(fd int, offset int64) error {
	if !f.mounted {
		return ErrNotMounted
	}
	d, err := f.descriptorFor(fd)
	if err != nil {
		return err
	}

	size := int64(f.directory.Get(d.DirIndex()).Size)
	if offset < 0 || offset > size {
		return fmt.Errorf("%w: %d (size %d)", ErrOffsetOutOfRange, offset, size)
	}
	d.SetOffset(offset)
	return nil
}
