// Package report builds a DFXML manifest of a mounted filesystem's contents.
// Build records each file's size, its data-block extents, and a blake2b
// content hash; WriteDFXML writes the name, size and extents of each file,
// and the hash is not part of the written document.
package report

import (
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/env"
	"github.com/ostafen/ecs150fs/pkg/dfxml"
)

// Entry is one file's worth of manifest detail.
type Entry struct {
	dfxml.FileObject
	Blake2b string
}

// Build walks every file in fsys and returns one Entry per file, in the
// same slot order fs.Ls reports.
func Build(fsys *fs.FileSystem) ([]Entry, error) {
	dirEntries, err := fsys.Ls()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry, err := buildEntry(fsys, de)
		if err != nil {
			return nil, fmt.Errorf("report: %q: %w", de.Name, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func buildEntry(fsys *fs.FileSystem, de fs.DirEntry) (Entry, error) {
	fd, err := fsys.Open(de.Name)
	if err != nil {
		return Entry{}, err
	}
	defer fsys.Close(fd)

	h, err := blake2b.New256(nil)
	if err != nil {
		return Entry{}, err
	}
	if _, err := io.Copy(h, fs.NewFileReader(fsys, fd)); err != nil {
		return Entry{}, err
	}

	chain, err := fsys.Chain(int(de.FirstBlock))
	if err != nil {
		return Entry{}, err
	}
	runs := make([]dfxml.ByteRun, 0, len(chain))
	remaining := uint64(de.Size)
	for i, blk := range chain {
		length := uint64(fs.BlockSize)
		if remaining < length {
			length = remaining
		}
		runs = append(runs, dfxml.ByteRun{
			Offset:    uint64(i) * fs.BlockSize,
			ImgOffset: uint64(fsys.DataBlockOffset(blk)) * fs.BlockSize,
			Length:    length,
		})
		remaining -= length
	}

	return Entry{
		FileObject: dfxml.FileObject{
			Filename: de.Name,
			FileSize: uint64(de.Size),
			ByteRuns: dfxml.ByteRuns{Runs: runs},
		},
		Blake2b: fmt.Sprintf("%x", h.Sum(nil)),
	}, nil
}

// Diff is the outcome of comparing a previously written manifest against
// the current state of a mounted image.
type Diff struct {
	Added   []string
	Removed []string
	Resized []string
}

// Clean reports whether the manifest and the image agree.
func (d Diff) Clean() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Resized) == 0
}

// Verify reads a previously written DFXML manifest and compares its
// filenames and sizes against fsys's current contents.
func Verify(r io.Reader, fsys *fs.FileSystem) (Diff, error) {
	prior, err := dfxml.ReadFileObjects(r)
	if err != nil {
		return Diff{}, fmt.Errorf("report: read manifest: %w", err)
	}
	priorSize := make(map[string]uint64, len(prior))
	for _, fo := range prior {
		priorSize[fo.Filename] = fo.FileSize
	}

	current, err := fsys.Ls()
	if err != nil {
		return Diff{}, err
	}
	currentSize := make(map[string]uint64, len(current))
	for _, e := range current {
		currentSize[e.Name] = uint64(e.Size)
	}

	var d Diff
	for name, size := range currentSize {
		old, ok := priorSize[name]
		if !ok {
			d.Added = append(d.Added, name)
		} else if old != size {
			d.Resized = append(d.Resized, name)
		}
	}
	for name := range priorSize {
		if _, ok := currentSize[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}
	return d, nil
}

// WriteDFXML renders entries as a full DFXML document, in the shape the
// original mount tooling expects to read back.
func WriteDFXML(w io.Writer, imageName string, imageSize uint64, entries []Entry) error {
	dw := dfxml.NewDFXMLWriter(w)

	hdr := dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              "ecs150fs",
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: imageName,
			SectorSize:    fs.BlockSize,
			ImageSize:     imageSize,
		},
	}
	if err := dw.WriteHeader(hdr); err != nil {
		return err
	}
	for _, e := range entries {
		if err := dw.WriteFileObject(e.FileObject); err != nil {
			return err
		}
	}
	return dw.Close()
}
