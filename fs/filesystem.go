// Package fs is the public API of ECS150FS: a handle-based mount session
// binding a block device to the superblock, FAT, root directory, and
// open-file table that make up its in-memory state.
package fs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ostafen/ecs150fs/fs/descriptor"
	"github.com/ostafen/ecs150fs/fs/dir"
	"github.com/ostafen/ecs150fs/fs/fat"
	"github.com/ostafen/ecs150fs/fs/ioengine"
	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
	"github.com/ostafen/ecs150fs/internal/logger"
)

// BlockSize is the fixed size of every block in an ECS150FS image.
const BlockSize = ondisk.BlockSize

// FileSystem is a single mount session. It holds no package-level mutable
// state — every field lives on the handle, so multiple images can be
// mounted concurrently within one process, each through its own handle.
type FileSystem struct {
	dev       blockdev.Device
	sb        *ondisk.Superblock
	table     *fat.Table
	directory *dir.Directory
	fds       *descriptor.Table
	engine    *ioengine.Engine

	mounted   bool
	sessionID uuid.UUID
	log       *logger.Logger
}

// New returns an unmounted handle. log may be nil, in which case a
// discard logger is used.
func New(log *logger.Logger) *FileSystem {
	if log == nil {
		log = logger.New(discardWriter{}, logger.ErrorLevel)
	}
	return &FileSystem{fds: descriptor.NewTable(), log: log}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Mount opens imagePath as the backing block device, validates its
// superblock, and loads the FAT and root directory into memory.
func (f *FileSystem) Mount(imagePath string) error {
	dev, err := blockdev.Open(imagePath, false)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	return f.MountDevice(dev)
}

// MountDevice performs the same validation and load as Mount but over an
// already-open blockdev.Device — used by the test suite to mount an
// internal/testimage-backed MemDevice without touching the filesystem, and
// by any future caller that already owns a Device.
func (f *FileSystem) MountDevice(dev blockdev.Device) error {
	if f.mounted {
		return ErrAlreadyMounted
	}

	sb0, err := dev.ReadBlock(0)
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: read superblock: %v", ErrOpenFailed, err)
	}
	sb, err := ondisk.ReadSuperblock(sb0)
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	if !sb.HasValidSignature() {
		dev.Close()
		return ErrBadSignature
	}
	if !sb.HasValidGeometry() || uint32(sb.TotalBlocks) != dev.BlockCount() {
		dev.Close()
		return fmt.Errorf("%w: superblock reports %d total blocks, device has %d", ErrBadGeometry, sb.TotalBlocks, dev.BlockCount())
	}

	fatEntries, err := loadFAT(dev, sb)
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	rootBlock, err := dev.ReadBlock(uint32(sb.RootDirBlock))
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: read root directory: %v", ErrOpenFailed, err)
	}
	entries, err := ondisk.DecodeRootDir(rootBlock)
	if err != nil {
		dev.Close()
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	f.dev = dev
	f.sb = sb
	f.table = fat.New(fatEntries)
	f.directory = dir.New(entries)
	f.fds = descriptor.NewTable()
	f.engine = ioengine.New(dev, f.table, uint32(sb.DataStartBlock))
	f.mounted = true
	f.sessionID = uuid.New()
	f.log = f.log.With("session", f.sessionID.String())

	f.log.Infof("mounted image: %d total blocks, %d data blocks", sb.TotalBlocks, sb.DataBlockCount)
	return nil
}

func loadFAT(dev blockdev.Device, sb *ondisk.Superblock) ([]uint16, error) {
	fatBytes := make([]byte, 0, int(sb.FATBlockCount)*ondisk.BlockSize)
	for i := uint16(0); i < uint16(sb.FATBlockCount); i++ {
		block, err := dev.ReadBlock(uint32(1 + i))
		if err != nil {
			return nil, fmt.Errorf("read FAT block %d: %w", i, err)
		}
		fatBytes = append(fatBytes, block...)
	}
	return ondisk.DecodeFAT(fatBytes, int(sb.DataBlockCount))
}

// Unmount flushes the in-memory FAT and root directory back to the device
// and releases the mount session. It refuses while any descriptor is open.
func (f *FileSystem) Unmount() error {
	if !f.mounted {
		return ErrNotMounted
	}
	if f.fds.AnyOpen() {
		return ErrDescriptorsOpen
	}

	fatBytes, err := ondisk.EncodeFAT(f.table.Entries(), int(f.sb.FATBlockCount))
	if err != nil {
		return fmt.Errorf("%w: encode FAT: %v", ErrCloseFailed, err)
	}
	for i := 0; i < int(f.sb.FATBlockCount); i++ {
		block := fatBytes[i*ondisk.BlockSize : (i+1)*ondisk.BlockSize]
		if err := f.dev.WriteBlock(uint32(1+i), block); err != nil {
			return fmt.Errorf("%w: write FAT block %d: %v", ErrCloseFailed, i, err)
		}
	}

	rootBytes, err := ondisk.EncodeRootDir(f.directory.Entries())
	if err != nil {
		return fmt.Errorf("%w: encode root directory: %v", ErrCloseFailed, err)
	}
	if err := f.dev.WriteBlock(uint32(f.sb.RootDirBlock), rootBytes); err != nil {
		return fmt.Errorf("%w: write root directory: %v", ErrCloseFailed, err)
	}

	if err := f.dev.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCloseFailed, err)
	}

	f.log.Infof("unmounted")

	f.dev = nil
	f.sb = nil
	f.table = nil
	f.directory = nil
	f.engine = nil
	f.mounted = false
	return nil
}

// Mounted reports whether a filesystem is currently mounted on this handle.
func (f *FileSystem) Mounted() bool {
	return f.mounted
}

// Info is the read-only snapshot spec.md §4.2 describes.
type Info struct {
	TotalBlocks    uint16
	FATBlockCount  uint8
	RootDirBlock   uint16
	DataStartBlock uint16
	DataBlockCount uint16
	FreeFATRatio   float64
	FreeRootRatio  float64
}

// Info returns a point-in-time snapshot of the mounted image's geometry and
// utilization.
func (f *FileSystem) Info() (Info, error) {
	if !f.mounted {
		return Info{}, ErrNotMounted
	}
	return Info{
		TotalBlocks:    f.sb.TotalBlocks,
		FATBlockCount:  f.sb.FATBlockCount,
		RootDirBlock:   f.sb.RootDirBlock,
		DataStartBlock: f.sb.DataStartBlock,
		DataBlockCount: f.sb.DataBlockCount,
		FreeFATRatio:   float64(f.table.FreeCount()) / float64(f.sb.DataBlockCount),
		FreeRootRatio:  float64(ondisk.MaxFiles-f.directory.Count()) / float64(ondisk.MaxFiles),
	}, nil
}

// ChainLength returns the number of data blocks allocated to the chain
// starting at firstBlock (ondisk.EOC for an empty file).
func (f *FileSystem) ChainLength(firstBlock int) (int, error) {
	if !f.mounted {
		return 0, ErrNotMounted
	}
	return f.table.ChainLength(firstBlock)
}

// Chain returns the data-block indices allocated to the chain starting at
// firstBlock, in order (ondisk.EOC for an empty file yields none).
func (f *FileSystem) Chain(firstBlock int) ([]int, error) {
	if !f.mounted {
		return nil, ErrNotMounted
	}
	return f.table.Chain(firstBlock)
}

// DataBlockOffset converts a data-block index into its absolute block
// number on the underlying device.
func (f *FileSystem) DataBlockOffset(dataBlockIndex int) uint32 {
	return uint32(f.sb.DataStartBlock) + uint32(dataBlockIndex)
}

// String renders an Info snapshot the way the CLI's `info` command prints
// it.
func (i Info) String() string {
	return fmt.Sprintf(
		"total_blk_count=%d\nfat_blk_count=%d\nrdir_blk=%d\ndata_blk=%d\ndata_blk_count=%d\nfat_free_ratio=%.4f\nrdir_free_ratio=%.4f",
		i.TotalBlocks, i.FATBlockCount, i.RootDirBlock, i.DataStartBlock, i.DataBlockCount, i.FreeFATRatio, i.FreeRootRatio,
	)
}
