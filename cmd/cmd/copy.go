package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/fs/dir"
)

// copyHostFile creates (or reopens) name in fsys and streams hostPath's
// contents into it. fs.FileWriter signals a disk-full condition as
// io.ErrShortWrite rather than a dedicated sentinel, so that case is
// reported with the byte count actually written instead of surfacing as an
// unqualified I/O error.
func copyHostFile(fsys *fs.FileSystem, name, hostPath string) (int64, error) {
	if err := fsys.Create(name); err != nil && !errors.Is(err, fs.ErrExists) {
		return 0, err
	}
	fd, err := fsys.Open(name)
	if err != nil {
		return 0, err
	}
	defer fsys.Close(fd)

	src, err := os.Open(hostPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	n, err := io.Copy(fs.NewFileWriter(fsys, fd), src)
	if errors.Is(err, io.ErrShortWrite) {
		return n, fmt.Errorf("image out of free blocks: wrote %d bytes of %s: %w", n, hostPath, err)
	}
	return n, err
}

// importCandidates resolves hostPath to the host files import should copy
// in: itself if it's a regular file, or every regular file directly inside
// it if it's a directory (non-recursive). Entries whose base name wouldn't
// survive fs/dir's name-acceptance check are returned as skipped rather
// than attempted, since fsys.Create would just reject them one by one.
func importCandidates(hostPath string) (files, skipped []string, err error) {
	info, err := os.Stat(hostPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat path %s: %w", hostPath, err)
	}

	if info.Mode().IsRegular() {
		name := filepath.Base(hostPath)
		if err := dir.ValidateName(name); err != nil {
			return nil, []string{name}, nil
		}
		return []string{hostPath}, nil, nil
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("path %s is neither a regular file nor a directory", hostPath)
	}

	entries, err := os.ReadDir(hostPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", hostPath, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if err := dir.ValidateName(name); err != nil {
			skipped = append(skipped, name)
			continue
		}
		files = append(files, filepath.Join(hostPath, name))
	}
	return files, skipped, nil
}
