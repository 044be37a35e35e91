// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package ondisk defines the byte-exact, little-endian, densely packed
// on-disk layout of an ECS150FS image: the superblock, the FAT entry width,
// and the root-directory entry.
package ondisk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the fixed size of every block the underlying device
	// exposes, and the unit the FAT and root directory are laid out in.
	BlockSize = 4096

	// Signature is the 8-byte ASCII tag identifying a valid image.
	Signature = "ECS150FS"

	// MaxFilenameLen is the filename length limit, including the NUL
	// terminator.
	MaxFilenameLen = 16

	// MaxFiles is the number of entries the root directory holds.
	MaxFiles = BlockSize / DirEntrySize

	// DirEntrySize is the width of a single root-directory entry.
	DirEntrySize = 32

	// FATEntrySize is the width of a single FAT entry.
	FATEntrySize = 2

	// EOC is the end-of-chain sentinel a FAT entry holds for the last block
	// of a chain. A directory entry for a zero-length file also stores EOC
	// in its first-data-block field, meaning "no chain" — FAT index 0 is an
	// ordinary, fully allocatable entry like any other, so it can't double
	// as that sentinel.
	EOC = 0xFFFF

	// FATEntryFree marks a FAT entry as unused.
	FATEntryFree = 0x0000
)

// Superblock is the 4096-byte block-0 header of an ECS150FS image.
type Superblock struct {
	Signature      [8]byte
	TotalBlocks    uint16
	RootDirBlock   uint16
	DataStartBlock uint16
	DataBlockCount uint16
	FATBlockCount  uint8
	_              [4079]byte // padding, always zero-filled on disk
}

// ReadSuperblock parses a 4096-byte block into a Superblock. It does not
// validate the signature or geometry; callers validate against the block
// device separately since that requires information the block alone can't
// supply (the device's own reported block count).
func ReadSuperblock(block []byte) (*Superblock, error) {
	if len(block) != BlockSize {
		return nil, fmt.Errorf("ondisk: superblock must be %d bytes, got %d", BlockSize, len(block))
	}

	var sb Superblock
	if err := binary.Read(bytes.NewReader(block), binary.LittleEndian, &sb); err != nil {
		return nil, fmt.Errorf("ondisk: decode superblock: %w", err)
	}
	return &sb, nil
}

// HasValidSignature reports whether the superblock's signature field matches
// the ECS150FS magic.
func (sb *Superblock) HasValidSignature() bool {
	return string(sb.Signature[:]) == Signature
}

// HasValidGeometry checks the invariants of spec §3 relating the superblock's
// own fields to each other.
func (sb *Superblock) HasValidGeometry() bool {
	expectedRootDir := uint16(1) + uint16(sb.FATBlockCount)
	expectedDataStart := expectedRootDir + 1
	expectedTotal := uint32(1) + uint32(sb.FATBlockCount) + 1 + uint32(sb.DataBlockCount)

	return sb.RootDirBlock == expectedRootDir &&
		sb.DataStartBlock == expectedDataStart &&
		uint32(sb.TotalBlocks) == expectedTotal
}

// Bytes serializes the superblock back into a 4096-byte block.
func (sb *Superblock) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, sb); err != nil {
		return nil, fmt.Errorf("ondisk: encode superblock: %w", err)
	}
	return buf.Bytes(), nil
}

// NewSuperblock builds a freshly formatted superblock for the given geometry.
func NewSuperblock(totalBlocks, fatBlockCount, dataBlockCount uint16) *Superblock {
	var sb Superblock
	copy(sb.Signature[:], Signature)
	sb.TotalBlocks = totalBlocks
	sb.FATBlockCount = uint8(fatBlockCount)
	sb.RootDirBlock = 1 + uint16(sb.FATBlockCount)
	sb.DataStartBlock = sb.RootDirBlock + 1
	sb.DataBlockCount = dataBlockCount
	return &sb
}

// DirEntry is a single 32-byte root-directory entry.
type DirEntry struct {
	Name       [16]byte
	Size       uint32
	FirstBlock uint16
	_          [10]byte // padding, always zero-filled on disk
}

// Empty reports whether the entry is unused (first name byte is NUL).
func (e *DirEntry) Empty() bool {
	return e.Name[0] == 0x00
}

// NameString returns the NUL-terminated filename as a Go string.
func (e *DirEntry) NameString() string {
	n := bytes.IndexByte(e.Name[:], 0)
	if n < 0 {
		n = len(e.Name)
	}
	return string(e.Name[:n])
}

// SetName writes name (which must include room for its own NUL terminator)
// into the entry, zeroing the rest of the field.
func (e *DirEntry) SetName(name string) error {
	if len(name)+1 > MaxFilenameLen {
		return fmt.Errorf("ondisk: filename %q exceeds %d bytes including terminator", name, MaxFilenameLen)
	}
	var buf [16]byte
	copy(buf[:], name)
	e.Name = buf
	return nil
}

// Clear zeroes the entry, marking it empty.
func (e *DirEntry) Clear() {
	*e = DirEntry{}
}

// DecodeRootDir splits a 4096-byte root-directory block into MaxFiles
// entries.
func DecodeRootDir(block []byte) ([MaxFiles]DirEntry, error) {
	var entries [MaxFiles]DirEntry
	if len(block) != BlockSize {
		return entries, fmt.Errorf("ondisk: root directory block must be %d bytes, got %d", BlockSize, len(block))
	}

	r := bytes.NewReader(block)
	for i := range entries {
		if err := binary.Read(r, binary.LittleEndian, &entries[i]); err != nil {
			return entries, fmt.Errorf("ondisk: decode directory entry %d: %w", i, err)
		}
	}
	return entries, nil
}

// EncodeRootDir packs MaxFiles entries back into a single 4096-byte block.
func EncodeRootDir(entries [MaxFiles]DirEntry) ([]byte, error) {
	buf := &bytes.Buffer{}
	for i := range entries {
		if err := binary.Write(buf, binary.LittleEndian, &entries[i]); err != nil {
			return nil, fmt.Errorf("ondisk: encode directory entry %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeFAT unpacks a contiguous run of FAT blocks into one uint16 entry per
// data block. Trailing space in the last FAT block, beyond entryCount
// entries, is discarded.
func DecodeFAT(blocks []byte, entryCount int) ([]uint16, error) {
	if len(blocks)/FATEntrySize < entryCount {
		return nil, fmt.Errorf("ondisk: FAT region too small for %d entries", entryCount)
	}

	entries := make([]uint16, entryCount)
	r := bytes.NewReader(blocks)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("ondisk: decode FAT: %w", err)
	}
	return entries, nil
}

// EncodeFAT packs entries back into blockCount whole blocks, zero-padding
// any unused space in the final block.
func EncodeFAT(entries []uint16, blockCount int) ([]byte, error) {
	out := make([]byte, blockCount*BlockSize)
	buf := bytes.NewBuffer(out[:0])
	if err := binary.Write(buf, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("ondisk: encode FAT: %w", err)
	}
	return out[:blockCount*BlockSize], nil
}
