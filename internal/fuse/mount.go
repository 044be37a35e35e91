//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/ostafen/ecs150fs/fs"
)

// Mount is unavailable outside Linux, where bazil.org/fuse has no backend.
func Mount(mountpoint string, fsys *fs.FileSystem) error {
	return fmt.Errorf("fuse: mount is only supported on Linux")
}
