package kitty

import "strconv"

// ID identifies image data stored by the terminal. Zero is never a valid ID.
type ID uint32

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Placement scopes one displayed instance of an image. Zero means unset.
type Placement uint32

// Frame is a 1-based animation frame number. Zero means unset.
type Frame uint32

// Medium is how image bytes reach the terminal.
type Medium int

const (
	// MediumDirect sends the data inline in the escape code.
	MediumDirect Medium = iota
	// MediumFile reads a regular file whose path is the payload.
	MediumFile
	// MediumTemporaryFile reads and then deletes a temporary file.
	MediumTemporaryFile
	// MediumSharedMemory reads a POSIX shared memory object.
	MediumSharedMemory
)

func (m Medium) String() string {
	switch m {
	case MediumFile:
		return "f"
	case MediumTemporaryFile:
		return "t"
	case MediumSharedMemory:
		return "s"
	default:
		return "d"
	}
}

// Format is the pixel encoding of transmitted data.
type Format int

const (
	// FormatRGBA32 is 32 bit RGBA, the protocol default.
	FormatRGBA32 Format = iota
	// FormatRGB24 is 24 bit RGB.
	FormatRGB24
	// FormatPNG is a PNG file.
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatRGB24:
		return "24"
	case FormatPNG:
		return "100"
	default:
		return "32"
	}
}

// CompositionMode controls pixel blending when frames are composed.
type CompositionMode int

const (
	CompositionAlphaBlend CompositionMode = iota
	CompositionOverwrite
)

func (c CompositionMode) String() string {
	if c == CompositionOverwrite {
		return "1"
	}
	return "0"
}

// AnimationMode is the state an animation control command switches to.
type AnimationMode int

const (
	// AnimationUnset leaves the animation state untouched.
	AnimationUnset AnimationMode = iota
	// AnimationStop stops the animation.
	AnimationStop
	// AnimationLoading runs the animation but waits for new frames at the end.
	AnimationLoading
	// AnimationRun runs the animation.
	AnimationRun
)

func (a AnimationMode) String() string {
	return strconv.Itoa(int(a))
}

// LoopMode says how many times an animation plays.
// The zero value leaves the terminal's setting untouched.
type LoopMode struct {
	set      bool
	infinite bool
	count    uint32
}

// LoopInfinite plays the animation forever.
func LoopInfinite() LoopMode {
	return LoopMode{set: true, infinite: true}
}

// LoopTimes plays the animation n times. n of zero is the same as unset.
func LoopTimes(n uint32) LoopMode {
	if n == 0 {
		return LoopMode{}
	}
	return LoopMode{set: true, count: n}
}

// IsSet reports whether the loop mode should be sent.
func (l LoopMode) IsSet() bool { return l.set }

// String renders the protocol value: 1 is infinite, n+1 is n loops.
func (l LoopMode) String() string {
	if l.infinite {
		return "1"
	}
	return strconv.FormatUint(uint64(l.count)+1, 10)
}

// Quietness controls which replies the terminal sends back.
type Quietness int

const (
	// QuietnessNone asks for every reply.
	QuietnessNone Quietness = iota
	// QuietnessSuppressOK suppresses OK replies.
	QuietnessSuppressOK
	// QuietnessSuppressAll suppresses OK and error replies.
	QuietnessSuppressAll
)

func (q Quietness) appendTo(b []byte) []byte {
	switch q {
	case QuietnessSuppressOK:
		return append(b, "q=1,"...)
	case QuietnessSuppressAll:
		return append(b, "q=2,"...)
	default:
		return b
	}
}

// String returns the serialized key, including the trailing comma.
func (q Quietness) String() string {
	return string(q.appendTo(nil))
}

// appendKey writes "key=value," to b.
func appendKey(b []byte, key string, value uint64) []byte {
	b = append(b, key...)
	b = append(b, '=')
	b = strconv.AppendUint(b, value, 10)
	return append(b, ',')
}

func appendKeyInt(b []byte, key string, value int64) []byte {
	b = append(b, key...)
	b = append(b, '=')
	b = strconv.AppendInt(b, value, 10)
	return append(b, ',')
}

func appendKeyString(b []byte, key, value string) []byte {
	b = append(b, key...)
	b = append(b, '=')
	b = append(b, value...)
	return append(b, ',')
}
