// Package export copies files out of a mounted filesystem onto the host,
// optionally compressing them, writing each destination atomically so a
// crash mid-export never leaves a half-written file in its place.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"

	"github.com/ostafen/ecs150fs/fs"
)

// Codec selects how exported file content is transformed before it's
// written to the destination path.
type Codec int

const (
	// Raw copies bytes through unmodified.
	Raw Codec = iota
	// LZ4 wraps the destination in an lz4 frame writer.
	LZ4
	// XZ wraps the destination in an xz stream writer.
	XZ
)

// progressWriter calls onWrite with every chunk written through it, letting
// callers drive a progress bar off an otherwise-opaque io.Copy.
type progressWriter struct {
	w       io.Writer
	onWrite func(n int)
}

func (p progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 && p.onWrite != nil {
		p.onWrite(n)
	}
	return n, err
}

// File copies name out of fsys into destPath, applying codec, and replaces
// destPath atomically only once the full copy has succeeded. onWrite, if
// non-nil, is called with each chunk's length as it's written to destPath.
func File(fsys *fs.FileSystem, name, destPath string, codec Codec, onWrite func(n int)) error {
	fd, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("export: open %q: %w", name, err)
	}
	defer fsys.Close(fd)

	if err := ensureDestDir(filepath.Dir(destPath)); err != nil {
		return fmt.Errorf("export: %q: %w", destPath, err)
	}

	src := fs.NewFileReader(fsys, fd)

	pending, err := renameio.TempFile("", destPath)
	if err != nil {
		return fmt.Errorf("export: %q: %w", destPath, err)
	}
	defer pending.Cleanup()

	dst := progressWriter{w: pending, onWrite: onWrite}
	if err := write(dst, src, codec); err != nil {
		return fmt.Errorf("export: %q: %w", destPath, err)
	}
	return pending.CloseAtomicallyReplace()
}

// ensureDestDir creates dir if it doesn't exist yet; renameio.TempFile
// already requires the destination's parent to exist.
func ensureDestDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(dir, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func write(dst io.Writer, src io.Reader, codec Codec) error {
	if codec == Raw {
		_, err := io.Copy(dst, src)
		return err
	}
	return writeCompressed(dst, src, codec)
}

func writeCompressed(dst io.Writer, src io.Reader, codec Codec) error {
	switch codec {
	case LZ4:
		w := lz4.NewWriter(dst)
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		return w.Close()
	case XZ:
		w, err := xz.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		return w.Close()
	default:
		return fmt.Errorf("export: unknown codec %d", codec)
	}
}
