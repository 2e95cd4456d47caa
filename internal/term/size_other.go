//go:build !unix

package term

import "errors"

var errUnsupported = errors.New("terminal size queries are not supported on this platform")

// SizeOf is not supported on this platform.
func SizeOf(int) (SizeInfo, error) {
	return SizeInfo{}, errUnsupported
}

// Size is not supported on this platform.
func Size() (SizeInfo, error) {
	return SizeInfo{}, errUnsupported
}
