// Package kitty encodes Kitty terminal graphics protocol commands.
//
// Commands are serialized as comma separated key=value pairs and sent inside
// an APC envelope (ESC _G ... ESC \). Payloads are base64 encoded and split
// into chunks no larger than ChunkSize.
package kitty

import (
	"encoding/base64"
	"fmt"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"
)

// ChunkSize is the maximum number of base64 bytes per escape sequence.
const ChunkSize = 4096

// Writer is the transport commands are written to.
//
// When escape is true the writer applies multiplexer passthrough framing if
// it needs any. Flush hands buffered bytes to the OS.
type Writer interface {
	WriteAll(p []byte, escape bool) error
	Flush() error
}

// Command is one protocol command: an action, a quietness level and an
// optional image id. It is the unit of wire serialization.
type Command struct {
	Action    Action
	Quietness Quietness
	// ID is omitted from the wire when zero.
	ID ID
}

// AppendTo appends the serialized control data of c to b.
func (c Command) AppendTo(b []byte) []byte {
	b = c.Quietness.appendTo(b)
	if c.Action != nil {
		b = AppendAction(b, c.Action)
	}
	if c.ID != 0 {
		b = appendKey(b, "i", uint64(c.ID))
	}
	return b
}

// String returns the control data, e.g. "q=2,a=p,C=1,i=3,".
func (c Command) String() string {
	return string(c.AppendTo(nil))
}

// Send writes c to w. Without a payload a single escape sequence is written.
// With a payload, the base64 encoded data is split into chunks of at most
// ChunkSize bytes, each written as its own escape sequence and flushed.
func (c Command) Send(w Writer, payload []byte) error {
	return c.SendChunked(w, payload, ChunkSize)
}

// SendChunked is Send with an explicit chunk size. chunkSize must be a
// positive multiple of 4.
func (c Command) SendChunked(w Writer, payload []byte, chunkSize int) error {
	if len(payload) == 0 {
		buf := make([]byte, 0, 64)
		buf = append(buf, escStart...)
		buf = c.AppendTo(buf)
		buf = append(buf, escEnd...)
		return w.WriteAll(buf, true)
	}
	if chunkSize <= 0 || chunkSize%4 != 0 {
		return fmt.Errorf("invalid chunk size %d", chunkSize)
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(payload)))
	base64.StdEncoding.Encode(encoded, payload)

	// Only the first chunk carries the full control data. The terminal reads
	// just m and q from continuation chunks; q is repeated so every chunk
	// stays silent.
	control := c.AppendTo(nil)
	cont := c.Quietness.appendTo(nil)
	buf := make([]byte, 0, len(control)+min(chunkSize, len(encoded))+16)

	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		more := byte('0')
		if end < len(encoded) {
			more = '1'
		}

		buf = buf[:0]
		buf = append(buf, escStart...)
		if i == 0 {
			buf = append(buf, control...)
		} else {
			buf = append(buf, cont...)
		}
		buf = append(buf, 'm', '=', more, ';')
		buf = append(buf, encoded[i:end]...)
		buf = append(buf, escEnd...)

		if err := w.WriteAll(buf, true); err != nil {
			return fmt.Errorf("write chunk %d: %w", i/chunkSize, err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush chunk %d: %w", i/chunkSize, err)
		}
	}
	return nil
}

// TransmitImage sends PNG data for id with every reply suppressed, in
// chunks of chunkSize base64 bytes.
func TransmitImage(w Writer, pngData []byte, id ID, chunkSize int) error {
	cmd := Command{
		Action:    PNGDirect(),
		Quietness: QuietnessSuppressAll,
		ID:        id,
	}
	return cmd.SendChunked(w, pngData, chunkSize)
}

// DeleteImage removes every placement of id and frees its stored data.
func DeleteImage(w Writer, id ID) error {
	return deleteByID(w, id, true)
}

// DeletePlacements removes every placement of id but keeps its data stored.
func DeletePlacements(w Writer, id ID) error {
	return deleteByID(w, id, false)
}

func deleteByID(w Writer, id ID, hard bool) error {
	cmd := Command{
		Action:    Delete{Hard: hard, Kind: DeleteByID},
		Quietness: QuietnessSuppressAll,
		ID:        id,
	}
	return cmd.Send(w, nil)
}
