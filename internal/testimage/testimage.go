// Package testimage builds freshly formatted ECS150FS images for tests. It
// is test-support code, not a disk-image creation tool in its own right —
// no such tool is part of this repository's scope.
package testimage

import (
	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
)

// Format writes a valid, empty superblock + FAT + root directory onto dev,
// whose block count must already equal 1 + FAT blocks + 1 + dataBlockCount
// (the total NewMemImage sizes its device to). dataBlockCount data
// blocks are made available, tracked by a FAT occupying the minimum whole
// number of blocks needed for that many 16-bit entries.
func Format(dev blockdev.Device, dataBlockCount uint16) error {
	fatEntryBytes := int(dataBlockCount) * ondisk.FATEntrySize
	fatBlockCount := uint16((fatEntryBytes + ondisk.BlockSize - 1) / ondisk.BlockSize)
	if fatBlockCount == 0 {
		fatBlockCount = 1
	}

	totalBlocks := uint16(1) + fatBlockCount + 1 + dataBlockCount

	sb := ondisk.NewSuperblock(totalBlocks, fatBlockCount, dataBlockCount)
	sbBytes, err := sb.Bytes()
	if err != nil {
		return err
	}
	if err := dev.WriteBlock(0, sbBytes); err != nil {
		return err
	}

	fatEntries := make([]uint16, dataBlockCount)
	fatBytes, err := ondisk.EncodeFAT(fatEntries, int(fatBlockCount))
	if err != nil {
		return err
	}
	for i := uint16(0); i < fatBlockCount; i++ {
		block := fatBytes[int(i)*ondisk.BlockSize : int(i+1)*ondisk.BlockSize]
		if err := dev.WriteBlock(uint32(1+i), block); err != nil {
			return err
		}
	}

	var entries [ondisk.MaxFiles]ondisk.DirEntry
	rootBytes, err := ondisk.EncodeRootDir(entries)
	if err != nil {
		return err
	}
	if err := dev.WriteBlock(uint32(sb.RootDirBlock), rootBytes); err != nil {
		return err
	}

	return nil
}

// NewMemImage allocates a MemDevice of the right size and formats it,
// returning the ready-to-mount device.
func NewMemImage(dataBlockCount uint16) (*blockdev.MemDevice, error) {
	fatEntryBytes := int(dataBlockCount) * ondisk.FATEntrySize
	fatBlockCount := uint16((fatEntryBytes + ondisk.BlockSize - 1) / ondisk.BlockSize)
	if fatBlockCount == 0 {
		fatBlockCount = 1
	}
	totalBlocks := uint16(1) + fatBlockCount + 1 + dataBlockCount

	dev := blockdev.NewMemDevice(uint32(totalBlocks))
	if err := Format(dev, dataBlockCount); err != nil {
		return nil, err
	}
	return dev, nil
}
