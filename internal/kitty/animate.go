package kitty

// FrameLoad adds or edits an animation frame. The frame data is sent as the
// command payload.
type FrameLoad struct {
	// X and Y place the data within the frame, in pixels.
	X, Y uint32
	// BaseFrame is the frame whose pixels seed a new frame.
	BaseFrame Frame
	// EditFrame is the frame being edited. Unset creates a new frame.
	EditFrame Frame
	// Gap to the next frame in milliseconds. Negative makes the frame gapless.
	Gap         int32
	Composition CompositionMode
	// Background is the RGBA color for pixels not covered by the data.
	Background uint32
}

func (f FrameLoad) appendParams(b []byte) []byte {
	if f.X != 0 {
		b = appendKey(b, "x", uint64(f.X))
	}
	if f.Y != 0 {
		b = appendKey(b, "y", uint64(f.Y))
	}
	if f.BaseFrame != 0 {
		b = appendKey(b, "c", uint64(f.BaseFrame))
	}
	if f.EditFrame != 0 {
		b = appendKey(b, "r", uint64(f.EditFrame))
	}
	if f.Gap != 0 {
		b = appendKeyInt(b, "z", int64(f.Gap))
	}
	if f.Composition != CompositionAlphaBlend {
		b = appendKeyString(b, "X", f.Composition.String())
	}
	if f.Background != 0 {
		b = appendKey(b, "Y", uint64(f.Background))
	}
	return b
}

// FrameCompose copies a rectangle from one frame onto another.
type FrameCompose struct {
	// SourceFrame provides the pixels, DestFrame receives them.
	SourceFrame Frame
	DestFrame   Frame
	// X and Y are the destination origin, W and H the rectangle size.
	X, Y, W, H uint32
	// SourceX and SourceY are the source origin.
	SourceX, SourceY uint32
	Composition      CompositionMode
}

func (f FrameCompose) appendParams(b []byte) []byte {
	if f.SourceFrame != 0 {
		b = appendKey(b, "r", uint64(f.SourceFrame))
	}
	if f.DestFrame != 0 {
		b = appendKey(b, "c", uint64(f.DestFrame))
	}
	if f.X != 0 {
		b = appendKey(b, "x", uint64(f.X))
	}
	if f.Y != 0 {
		b = appendKey(b, "y", uint64(f.Y))
	}
	if f.W != 0 {
		b = appendKey(b, "w", uint64(f.W))
	}
	if f.H != 0 {
		b = appendKey(b, "h", uint64(f.H))
	}
	if f.SourceX != 0 {
		b = appendKey(b, "X", uint64(f.SourceX))
	}
	if f.SourceY != 0 {
		b = appendKey(b, "Y", uint64(f.SourceY))
	}
	if f.Composition != CompositionAlphaBlend {
		b = appendKeyString(b, "C", f.Composition.String())
	}
	return b
}

// FrameControl drives animation playback.
type FrameControl struct {
	Mode AnimationMode
	// Frame is the frame whose gap is changed.
	Frame Frame
	Gap   int32
	// Current makes a frame the one being displayed.
	Current Frame
	Loop    LoopMode
}

func (f FrameControl) appendParams(b []byte) []byte {
	if f.Mode != AnimationUnset {
		b = appendKeyString(b, "s", f.Mode.String())
	}
	if f.Frame != 0 {
		b = appendKey(b, "r", uint64(f.Frame))
	}
	if f.Gap != 0 {
		b = appendKeyInt(b, "z", int64(f.Gap))
	}
	if f.Current != 0 {
		b = appendKey(b, "c", uint64(f.Current))
	}
	if f.Loop.IsSet() {
		b = appendKeyString(b, "v", f.Loop.String())
	}
	return b
}
