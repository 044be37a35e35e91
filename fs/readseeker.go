package fs

import (
	"fmt"
	"io"
)

// FileReader adapts an open descriptor to io.ReadSeeker, letting stdlib and
// ecosystem code (buffered readers, hashers, compressors) stream a file's
// contents without knowing about descriptors directly.
type FileReader struct {
	fsys *FileSystem
	fd   int
}

// NewFileReader wraps fd, which must already be open on fsys.
func NewFileReader(fsys *FileSystem, fd int) *FileReader {
	return &FileReader{fsys: fsys, fd: fd}
}

func (r *FileReader) Read(p []byte) (int, error) {
	n, err := r.fsys.Read(r.fd, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *FileReader) Seek(offset int64, whence int) (int64, error) {
	size, err := r.fsys.Stat(r.fd)
	if err != nil {
		return 0, err
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		cur, err := r.fsys.descriptorOffset(r.fd)
		if err != nil {
			return 0, err
		}
		abs = cur + offset
	case io.SeekEnd:
		abs = int64(size) + offset
	default:
		return 0, fmt.Errorf("fs: FileReader.Seek: invalid whence %d", whence)
	}

	if err := r.fsys.Seek(r.fd, abs); err != nil {
		return 0, err
	}
	return abs, nil
}

// FileWriter adapts an open descriptor to io.Writer, letting ecosystem
// copy helpers stream bytes into a file without knowing about descriptors.
type FileWriter struct {
	fsys *FileSystem
	fd   int
}

// NewFileWriter wraps fd, which must already be open on fsys.
func NewFileWriter(fsys *FileSystem, fd int) *FileWriter {
	return &FileWriter{fsys: fsys, fd: fd}
}

func (w *FileWriter) Write(p []byte) (int, error) {
	n, err := w.fsys.Write(w.fd, p)
	if err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// descriptorOffset exposes a descriptor's current offset for SeekCurrent.
func (f *FileSystem) descriptorOffset(fd int) (int64, error) {
	d, err := f.descriptorFor(fd)
	if err != nil {
		return 0, err
	}
	return d.Offset(), nil
}
