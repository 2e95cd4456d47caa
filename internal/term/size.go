package term

import "errors"

// ErrNoPixelSize is returned when the terminal does not report its pixel size.
var ErrNoPixelSize = errors.New("terminal does not report pixel size")

// SizeInfo describes the terminal grid and its pixel geometry.
type SizeInfo struct {
	Cols, Rows                int
	ScreenWidth, ScreenHeight int
	CellWidth, CellHeight     float64
}

func newSizeInfo(cols, rows, xpixel, ypixel int) (SizeInfo, error) {
	if cols == 0 || rows == 0 {
		return SizeInfo{}, errors.New("terminal reports an empty grid")
	}
	info := SizeInfo{
		Cols:         cols,
		Rows:         rows,
		ScreenWidth:  xpixel,
		ScreenHeight: ypixel,
	}
	if xpixel == 0 || ypixel == 0 {
		return info, ErrNoPixelSize
	}
	info.CellWidth = float64(xpixel) / float64(cols)
	info.CellHeight = float64(ypixel) / float64(rows)
	return info, nil
}

// CellsToPixels converts a cell area to pixels, assuming 8x16 cells when the
// pixel size is unknown.
func (s SizeInfo) CellsToPixels(cols, rows int) (width, height int) {
	cw, ch := s.CellWidth, s.CellHeight
	if cw == 0 || ch == 0 {
		cw, ch = 8, 16
	}
	return int(float64(cols) * cw), int(float64(rows) * ch)
}
