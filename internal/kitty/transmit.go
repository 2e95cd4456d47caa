package kitty

// Transmit sends image data to the terminal without displaying it.
// Zero-valued optional fields are not serialized.
type Transmit struct {
	Format Format
	Medium Medium
	// Width and Height are the pixel dimensions, required for raw RGB(A) data.
	Width  uint32
	Height uint32
	// Size and Offset select a byte range when reading from a file.
	Size   uint32
	Offset uint32
	// Number is the client-side image number (I key).
	Number    uint32
	Placement Placement
	// Compressed marks the payload as zlib deflated.
	Compressed bool
}

func (t Transmit) appendParams(b []byte) []byte {
	b = appendKeyString(b, "f", t.Format.String())
	b = appendKeyString(b, "t", t.Medium.String())
	if t.Width != 0 {
		b = appendKey(b, "s", uint64(t.Width))
	}
	if t.Height != 0 {
		b = appendKey(b, "v", uint64(t.Height))
	}
	if t.Size != 0 {
		b = appendKey(b, "S", uint64(t.Size))
	}
	if t.Offset != 0 {
		b = appendKey(b, "O", uint64(t.Offset))
	}
	if t.Number != 0 {
		b = appendKey(b, "I", uint64(t.Number))
	}
	if t.Placement != 0 {
		b = appendKey(b, "p", uint64(t.Placement))
	}
	if t.Compressed {
		b = appendKeyString(b, "o", "z")
	}
	return b
}

// PNGDirect is the transmission this package uses for everything it sends:
// PNG data carried inline, uncompressed.
func PNGDirect() Transmit {
	return Transmit{Format: FormatPNG, Medium: MediumDirect}
}
