package blockdev

import (
	"fmt"
	"io"

	"github.com/orcaman/writerseeker"

	"github.com/ostafen/ecs150fs/fs/ondisk"
)

// MemDevice is an in-memory Device backed by a writerseeker.WriterSeeker,
// so fs/ioengine and fs tests exercise the same ReadAt/WriteAt-shaped path
// a real file would without touching the filesystem.
type MemDevice struct {
	ws         *writerseeker.WriterSeeker
	blockCount uint32
}

// NewMemDevice allocates a zero-filled in-memory device of blockCount
// blocks.
func NewMemDevice(blockCount uint32) *MemDevice {
	ws := &writerseeker.WriterSeeker{}
	zero := make([]byte, ondisk.BlockSize)
	for i := uint32(0); i < blockCount; i++ {
		_, _ = ws.Write(zero)
	}
	return &MemDevice{ws: ws, blockCount: blockCount}
}

// BlockCount implements Device.
func (m *MemDevice) BlockCount() uint32 {
	return m.blockCount
}

func (m *MemDevice) check(idx uint32) error {
	if idx >= m.blockCount {
		return fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, idx, m.blockCount)
	}
	return nil
}

// ReadBlock implements Device.
func (m *MemDevice) ReadBlock(idx uint32) ([]byte, error) {
	if err := m.check(idx); err != nil {
		return nil, err
	}
	r := m.ws.Reader()
	if _, err := r.Seek(int64(idx)*ondisk.BlockSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("blockdev: seek block %d: %w", idx, err)
	}
	buf := make([]byte, ondisk.BlockSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("blockdev: read block %d: %w", idx, err)
	}
	return buf, nil
}

// WriteBlock implements Device.
func (m *MemDevice) WriteBlock(idx uint32, buf []byte) error {
	if err := m.check(idx); err != nil {
		return err
	}
	if len(buf) != ondisk.BlockSize {
		return fmt.Errorf("blockdev: write block %d: buffer must be %d bytes, got %d", idx, ondisk.BlockSize, len(buf))
	}

	// writerseeker's Writer has no in-place overwrite primitive, so rebuild
	// the full backing buffer with the target block replaced.
	full := make([]byte, m.blockCount*ondisk.BlockSize)
	if _, err := io.ReadFull(m.ws.Reader(), full); err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("blockdev: snapshot for write: %w", err)
	}
	copy(full[int64(idx)*ondisk.BlockSize:], buf)

	ws := &writerseeker.WriterSeeker{}
	if _, err := ws.Write(full); err != nil {
		return fmt.Errorf("blockdev: write block %d: %w", idx, err)
	}
	m.ws = ws
	return nil
}

// Close implements Device. MemDevice holds no external resources.
func (m *MemDevice) Close() error {
	return nil
}
