//go:build !linux

package blockdev

import "os"

// probeSize falls back to a stat/seek-based size everywhere the BLKGETSIZE64
// ioctl isn't available; only Linux gets true block-device geometry.
func probeSize(f *os.File) (size int64, isDevice bool, err error) {
	fi, statErr := f.Stat()
	if statErr != nil {
		return 0, false, statErr
	}
	isDevice = fi.Mode()&os.ModeDevice != 0
	return fi.Size(), isDevice, nil
}
