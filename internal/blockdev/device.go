// Package blockdev adapts a backing store — a regular image file, a real
// block device, or an in-memory buffer — into the fixed-size-block
// primitive the rest of ECS150FS is built on, similar in spirit to the
// teacher's internal/disk.DiskInfo but narrowed to what fs/ioengine needs:
// whole-block ReadAt/WriteAt plus a reported total block count.
package blockdev

import (
	"errors"
	"fmt"
	"os"

	"github.com/ostafen/ecs150fs/fs/ondisk"
)

// ErrOutOfRange is returned when a requested block index falls outside the
// device's reported block count.
var ErrOutOfRange = errors.New("blockdev: block index out of range")

// Device is the minimal block-addressed storage interface fs/ioengine needs.
// Every ReadBlock/WriteBlock call transfers exactly ondisk.BlockSize bytes.
type Device interface {
	// BlockCount returns the total number of ondisk.BlockSize blocks the
	// device exposes.
	BlockCount() uint32
	// ReadBlock reads block index idx in full.
	ReadBlock(idx uint32) ([]byte, error)
	// WriteBlock writes block index idx in full; buf must be exactly
	// ondisk.BlockSize bytes.
	WriteBlock(idx uint32, buf []byte) error
	// Close releases any underlying resources.
	Close() error
}

// FileDevice adapts an *os.File — either a regular disk-image file or a
// genuine block device on Linux — into a Device, reporting geometry learned
// at Open time.
type FileDevice struct {
	file       *os.File
	blockCount uint32
	readOnly   bool
}

// Open opens path for use as a block device, probing its size and deriving
// the number of whole ondisk.BlockSize blocks it holds. On Linux, if path
// refers to a real block device, true device geometry is probed via ioctl
// (see ioctl_linux.go); everywhere else, and for regular image files, the
// size comes from a stat/seek.
func Open(path string, readOnly bool) (*FileDevice, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %s: %w", path, err)
	}

	size, isDevice, err := probeSize(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: probe %s: %w", path, err)
	}
	_ = isDevice

	return &FileDevice{
		file:       f,
		blockCount: uint32(size / ondisk.BlockSize),
		readOnly:   readOnly,
	}, nil
}

// Create truncates (or creates) path to hold exactly blockCount blocks, for
// formatting a brand-new image.
func Create(path string, blockCount uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("blockdev: create %s: %w", path, err)
	}
	size := int64(blockCount) * ondisk.BlockSize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: truncate %s to %d bytes: %w", path, size, err)
	}
	return &FileDevice{file: f, blockCount: blockCount}, nil
}

// BlockCount implements Device.
func (d *FileDevice) BlockCount() uint32 {
	return d.blockCount
}

func (d *FileDevice) check(idx uint32) error {
	if idx >= d.blockCount {
		return fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, idx, d.blockCount)
	}
	return nil
}

// ReadBlock implements Device.
func (d *FileDevice) ReadBlock(idx uint32) ([]byte, error) {
	if err := d.check(idx); err != nil {
		return nil, err
	}
	buf := make([]byte, ondisk.BlockSize)
	if _, err := d.file.ReadAt(buf, int64(idx)*ondisk.BlockSize); err != nil {
		return nil, fmt.Errorf("blockdev: read block %d: %w", idx, err)
	}
	return buf, nil
}

// WriteBlock implements Device.
func (d *FileDevice) WriteBlock(idx uint32, buf []byte) error {
	if err := d.check(idx); err != nil {
		return err
	}
	if len(buf) != ondisk.BlockSize {
		return fmt.Errorf("blockdev: write block %d: buffer must be %d bytes, got %d", idx, ondisk.BlockSize, len(buf))
	}
	if d.readOnly {
		return fmt.Errorf("blockdev: write block %d: device opened read-only", idx)
	}
	if _, err := d.file.WriteAt(buf, int64(idx)*ondisk.BlockSize); err != nil {
		return fmt.Errorf("blockdev: write block %d: %w", idx, err)
	}
	return nil
}

// Close implements Device.
func (d *FileDevice) Close() error {
	return d.file.Close()
}
