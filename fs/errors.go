package fs

import "errors"

// Sentinel errors matching the taxonomy of spec.md §7. FileSystem methods
// return these either directly or wrapped with fmt.Errorf("%w: ...") for
// extra context; callers test with errors.Is. Block I/O failures during
// Read/Write have no sentinel here: they come back as the block device's
// own wrapped error.
var (
	ErrAlreadyMounted   = errors.New("fs: filesystem already mounted")
	ErrNotMounted       = errors.New("fs: no filesystem mounted")
	ErrOpenFailed       = errors.New("fs: failed to open block device")
	ErrBadSignature     = errors.New("fs: superblock signature mismatch")
	ErrBadGeometry      = errors.New("fs: superblock geometry mismatch")
	ErrDescriptorsOpen  = errors.New("fs: descriptors still open")
	ErrCloseFailed      = errors.New("fs: failed to close block device")
	ErrBadName          = errors.New("fs: invalid filename")
	ErrExists           = errors.New("fs: file already exists")
	ErrDirFull          = errors.New("fs: root directory is full")
	ErrNotFound         = errors.New("fs: file not found")
	ErrBusy             = errors.New("fs: file is open elsewhere")
	ErrTooManyOpen      = errors.New("fs: too many open descriptors")
	ErrBadDescriptor    = errors.New("fs: invalid file descriptor")
	ErrOffsetOutOfRange = errors.New("fs: seek offset beyond file size")
	ErrNullBuffer       = errors.New("fs: nil buffer")
)
