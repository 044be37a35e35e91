package fs

// Read copies up to len(buf) bytes from fd's current offset, advancing it
// by the number of bytes actually copied. It returns -1 for NotMounted,
// BadDescriptor, a nil buf, or a block I/O failure (the offset is then left
// unchanged); otherwise it returns a non-negative count, which may be less
// than len(buf) or zero at EOF.
func (f *FileSystem) Read(fd int, buf []byte) (int, error) {
	if !f.mounted {
		return -1, ErrNotMounted
	}
	if buf == nil {
		return -1, ErrNullBuffer
	}
	d, err := f.descriptorFor(fd)
	if err != nil {
		return -1, err
	}

	entry := f.directory.Get(d.DirIndex())
	n, newOff, err := f.engine.Read(int(entry.FirstBlock), int64(entry.Size), d.Offset(), buf)
	if err != nil {
		return -1, err
	}
	d.SetOffset(newOff)
	return n, nil
}

// Write copies up to len(buf) bytes into fd's file starting at its current
// offset, allocating new data blocks as needed, and advances the offset by
// the number of bytes actually written. It returns -1 for NotMounted,
// BadDescriptor, a nil buf, or a block I/O failure; otherwise it returns a
// non-negative count, which may be less than len(buf) (including zero) if
// the device fills up mid-write.
func (f *FileSystem) Write(fd int, buf []byte) (int, error) {
	if !f.mounted {
		return -1, ErrNotMounted
	}
	if buf == nil {
		return -1, ErrNullBuffer
	}
	d, err := f.descriptorFor(fd)
	if err != nil {
		return -1, err
	}

	entry := f.directory.Get(d.DirIndex())
	res, err := f.engine.Write(int(entry.FirstBlock), d.Offset(), buf)
	if err != nil {
		return -1, err
	}

	entry.FirstBlock = uint16(res.FirstBlock)
	if uint32(res.NewOffset) > entry.Size {
		entry.Size = uint32(res.NewOffset)
	}
	d.SetOffset(res.NewOffset)
	return res.N, nil
}
