// Package ioengine implements the byte-granular read/write loop that sits
// between the fixed-size block device and the caller's arbitrary-length
// buffers: chain walking, bounce-buffered partial-block I/O, and on-demand
// block allocation during writes.
package ioengine

import (
	"fmt"
	"sync"

	"github.com/ostafen/ecs150fs/fs/fat"
	"github.com/ostafen/ecs150fs/fs/ondisk"
	"github.com/ostafen/ecs150fs/internal/blockdev"
)

// bouncePool hands out BlockSize-sized scratch buffers for the duration of
// a single read or write call; at most one buffer is in flight per call,
// which a sync.Pool satisfies without over-allocating across concurrent
// mounts in the same process (the FUSE projection reads through the same
// engine from its own goroutine).
var bouncePool = sync.Pool{
	New: func() any {
		b := make([]byte, ondisk.BlockSize)
		return &b
	},
}

func acquireBounce() []byte {
	p := bouncePool.Get().(*[]byte)
	return *p
}

func releaseBounce(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	bouncePool.Put(&buf)
}

// Engine binds a block device and FAT table together to perform
// chain-relative I/O. It holds no per-file state; callers pass the file's
// first block, size, and offset in on every call.
type Engine struct {
	dev       blockdev.Device
	table     *fat.Table
	dataStart uint32
}

// New builds an engine over dev, whose data region begins at physical block
// dataStart, using table for chain walking and allocation.
func New(dev blockdev.Device, table *fat.Table, dataStart uint32) *Engine {
	return &Engine{dev: dev, table: table, dataStart: dataStart}
}

// chainBlock walks from head k steps through the FAT chain and returns the
// chain-relative block index reached, or ok=false if the chain ends first.
func (e *Engine) chainBlock(head int, k int) (idx int, ok bool, err error) {
	idx = head
	for i := 0; i < k; i++ {
		if idx == ondisk.EOC {
			return 0, false, nil
		}
		next, nerr := e.table.Next(idx)
		if nerr != nil {
			return 0, false, nerr
		}
		idx = next
	}
	if idx == ondisk.EOC {
		return 0, false, nil
	}
	return idx, true, nil
}

func (e *Engine) physicalBlock(chainIdx int) uint32 {
	return e.dataStart + uint32(chainIdx)
}

// Read implements spec §4.5's read algorithm: off and size describe the
// file's current descriptor offset and recorded size; firstBlock is the
// file's first chain entry. It returns the number of bytes copied into buf
// and the offset the descriptor should be updated to.
func (e *Engine) Read(firstBlock int, size int64, off int64, buf []byte) (n int, newOff int64, err error) {
	remaining := int64(len(buf))
	if off+remaining > size {
		remaining = size - off
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining == 0 {
		return 0, off, nil
	}

	k := int(off / ondisk.BlockSize)
	chainIdx, ok, err := e.chainBlock(firstBlock, k)
	if err != nil {
		return 0, off, err
	}

	bounce := acquireBounce()
	defer releaseBounce(bounce)

	copied := int64(0)
	for remaining > 0 {
		if !ok {
			break
		}

		raw, err := e.dev.ReadBlock(e.physicalBlock(chainIdx))
		if err != nil {
			return int(copied), off, fmt.Errorf("ioengine: read: %w", err)
		}
		copy(bounce, raw)

		withinOff := off % ondisk.BlockSize
		span := ondisk.BlockSize - withinOff
		if span > remaining {
			span = remaining
		}

		copy(buf[copied:copied+span], bounce[withinOff:withinOff+span])

		off += span
		copied += span
		remaining -= span

		if off%ondisk.BlockSize == 0 && remaining > 0 {
			next, nerr := e.table.Next(chainIdx)
			if nerr != nil {
				return int(copied), off, nerr
			}
			if next == ondisk.EOC {
				ok = false
			} else {
				chainIdx = next
			}
		}
	}

	return int(copied), off, nil
}

// WriteResult carries the outcome of a Write call: the file's possibly
// updated first-block pointer (set when a previously empty file gained its
// first block), the number of bytes actually written, and the descriptor
// offset the caller should store afterward.
type WriteResult struct {
	FirstBlock int
	N          int
	NewOffset  int64
}

// Write implements spec §4.5's write algorithm. firstBlock is
// ondisk.EOC for an empty file.
func (e *Engine) Write(firstBlock int, off int64, buf []byte) (WriteResult, error) {
	res := WriteResult{FirstBlock: firstBlock, NewOffset: off}

	if firstBlock == ondisk.EOC {
		blk, err := e.table.Alloc()
		if err != nil {
			return res, nil // disk full: 0 bytes written, not an error
		}
		firstBlock = blk
		res.FirstBlock = blk
	}

	k := int(off / ondisk.BlockSize)
	chainIdx, ok, err := e.chainBlock(firstBlock, k)
	if err != nil {
		return res, err
	}
	if !ok {
		// off sits exactly at the chain's current end (block-aligned EOF);
		// allocate the next block to land the walk there.
		tail, terr := e.lastChainBlock(firstBlock)
		if terr != nil {
			return res, terr
		}
		blk, aerr := e.table.Alloc()
		if aerr != nil {
			return res, nil
		}
		if err := e.table.Link(tail, blk); err != nil {
			return res, err
		}
		chainIdx = blk
		ok = true
	}

	remaining := int64(len(buf))
	written := int64(0)

	bounce := acquireBounce()
	defer releaseBounce(bounce)

	for remaining > 0 {
		withinOff := off % ondisk.BlockSize
		span := ondisk.BlockSize - withinOff
		if span > remaining {
			span = remaining
		}

		if span == ondisk.BlockSize {
			for i := range bounce {
				bounce[i] = 0
			}
		} else {
			raw, rerr := e.dev.ReadBlock(e.physicalBlock(chainIdx))
			if rerr != nil {
				return res, fmt.Errorf("ioengine: write: read for partial update: %w", rerr)
			}
			copy(bounce, raw)
		}

		copy(bounce[withinOff:withinOff+span], buf[written:written+span])

		if err := e.dev.WriteBlock(e.physicalBlock(chainIdx), bounce); err != nil {
			return res, fmt.Errorf("ioengine: write: %w", err)
		}

		off += span
		written += span
		remaining -= span

		if remaining > 0 {
			next, nerr := e.table.Next(chainIdx)
			if nerr != nil {
				return res, nerr
			}
			if next == ondisk.EOC {
				blk, aerr := e.table.Alloc()
				if aerr != nil {
					break // disk full mid-write: stop with partial progress
				}
				if err := e.table.Link(chainIdx, blk); err != nil {
					return res, err
				}
				chainIdx = blk
			} else {
				chainIdx = next
			}
		}
	}

	res.N = int(written)
	res.NewOffset = off
	return res, nil
}

func (e *Engine) lastChainBlock(head int) (int, error) {
	idx := head
	for {
		next, err := e.table.Next(idx)
		if err != nil {
			return 0, err
		}
		if next == ondisk.EOC {
			return idx, nil
		}
		idx = next
	}
}
