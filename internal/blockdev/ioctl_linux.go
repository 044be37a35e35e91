//go:build linux

package blockdev

import (
	"os"

	"golang.org/x/sys/unix"
)

// probeSize determines the backing store's size in bytes. For a real block
// device it trusts the BLKGETSIZE64 ioctl over the file's reported stat
// size, since block devices report a zero or meaningless regular size from
// os.File.Stat. For a regular file it falls back to a stat-based size.
func probeSize(f *os.File) (size int64, isDevice bool, err error) {
	fi, statErr := f.Stat()
	if statErr != nil {
		return 0, false, statErr
	}

	if fi.Mode()&os.ModeDevice == 0 {
		return fi.Size(), false, nil
	}

	sz, ioctlErr := unix.IoctlGetUint64(int(f.Fd()), unix.BLKGETSIZE64)
	if ioctlErr != nil {
		// Device exists but ioctl failed (e.g. running in a sandbox without
		// the CAP_SYS_ADMIN-gated ioctl) — fall back to seek-based size.
		end, seekErr := f.Seek(0, os.SEEK_END)
		if seekErr != nil {
			return 0, true, seekErr
		}
		if _, seekErr := f.Seek(0, os.SEEK_SET); seekErr != nil {
			return 0, true, seekErr
		}
		return end, true, nil
	}
	return int64(sz), true, nil
}
