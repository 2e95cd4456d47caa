//go:build unix

package term

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// SizeOf queries TIOCGWINSZ on fd.
func SizeOf(fd int) (SizeInfo, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return SizeInfo{}, fmt.Errorf("query window size: %w", err)
	}
	return newSizeInfo(int(ws.Col), int(ws.Row), int(ws.Xpixel), int(ws.Ypixel))
}

// Size returns the size of the first of stdout, stderr and stdin that is a
// terminal.
func Size() (SizeInfo, error) {
	var lastErr error
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		info, err := SizeOf(int(f.Fd())) //nolint:gosec // fd fits in int
		if err == nil || errors.Is(err, ErrNoPixelSize) {
			return info, err
		}
		lastErr = err
	}
	return SizeInfo{}, lastErr
}
