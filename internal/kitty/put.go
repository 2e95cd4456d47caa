package kitty

// Put displays previously transmitted image data.
//
// Fields at their zero value are not serialized, except MoveCursor whose
// zero value (false) is sent as C=1.
type Put struct {
	// X, Y, W and H select the source rectangle in pixels.
	X, Y, W, H uint32
	// XOffset and YOffset are pixel offsets within the first cell.
	XOffset, YOffset uint32
	// Columns and Rows scale the image to a cell area.
	Columns, Rows uint32
	// MoveCursor lets the terminal advance the cursor past the image.
	MoveCursor bool
	// UnicodePlaceholder creates a virtual placement.
	UnicodePlaceholder bool
	ZIndex             int32
	Placement          Placement
	// ParentImage and ParentPlacement anchor a relative placement.
	ParentImage     ID
	ParentPlacement Placement
	// CellOffsetH and CellOffsetV offset a relative placement in cells.
	CellOffsetH, CellOffsetV int32
}

func (p Put) appendParams(b []byte) []byte {
	if p.X != 0 {
		b = appendKey(b, "x", uint64(p.X))
	}
	if p.Y != 0 {
		b = appendKey(b, "y", uint64(p.Y))
	}
	if p.W != 0 {
		b = appendKey(b, "w", uint64(p.W))
	}
	if p.H != 0 {
		b = appendKey(b, "h", uint64(p.H))
	}
	if p.XOffset != 0 {
		b = appendKey(b, "X", uint64(p.XOffset))
	}
	if p.YOffset != 0 {
		b = appendKey(b, "Y", uint64(p.YOffset))
	}
	if p.ZIndex != 0 {
		b = appendKeyInt(b, "z", int64(p.ZIndex))
	}
	if p.Columns != 0 {
		b = appendKey(b, "c", uint64(p.Columns))
	}
	if p.Rows != 0 {
		b = appendKey(b, "r", uint64(p.Rows))
	}
	if !p.MoveCursor {
		b = append(b, "C=1,"...)
	}
	if p.UnicodePlaceholder {
		b = append(b, "U=1,"...)
	}
	if p.ParentImage != 0 {
		b = appendKey(b, "P", uint64(p.ParentImage))
	}
	if p.ParentPlacement != 0 {
		b = appendKey(b, "Q", uint64(p.ParentPlacement))
	}
	if p.CellOffsetH != 0 {
		b = appendKeyInt(b, "H", int64(p.CellOffsetH))
	}
	if p.CellOffsetV != 0 {
		b = appendKeyInt(b, "V", int64(p.CellOffsetV))
	}
	if p.Placement != 0 {
		b = appendKey(b, "p", uint64(p.Placement))
	}
	return b
}
