// Package image manages images and paginated image sets displayed through
// the Kitty graphics protocol.
//
// An Image transmits its bytes to the terminal at most once per transmitted
// period. An ImageSet shows one page of a document at a time and cycles
// through its pages. The Manager allocates ids and keeps the registry.
//
// None of these types serialize access to the kitty.Writer they are given:
// callers sharing one writer must hold their own lock around each call.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
)

// DefaultSettleDelay is the pause between the end of a transmission and the
// first placement of the image. Some terminals race a placement ahead of a
// multi-chunk transmission that has only just completed.
const DefaultSettleDelay = 10 * time.Millisecond

var (
	// ErrEmptyImageSet is returned when building an ImageSet without pages.
	ErrEmptyImageSet = errors.New("image set needs at least one page")
	// ErrNotRendered is returned when cycling an ImageSet that was never rendered.
	ErrNotRendered = errors.New("image set must be rendered before cycling pages")
)

// Image is one PNG payload identified at the terminal by its id.
type Image struct {
	id     kitty.ID
	data   []byte
	settle time.Duration
	chunk  int
	log    zerolog.Logger

	// mu guards transmitted and is held for the whole transmission, so
	// concurrent callers issue exactly one Transmit command.
	mu          sync.Mutex
	transmitted bool
}

func newImage(id kitty.ID, data []byte, m *Manager) *Image {
	return &Image{
		id:     id,
		data:   data,
		settle: m.settle,
		chunk:  m.chunk,
		log:    m.log.With().Uint32("image", uint32(id)).Logger(),
	}
}

// ID returns the terminal-side id of the image.
func (img *Image) ID() kitty.ID { return img.id }

// Size returns the payload length in bytes.
func (img *Image) Size() int { return len(img.data) }

// Transmitted reports whether the terminal currently holds the payload.
func (img *Image) Transmitted() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.transmitted
}

// Invalidate forgets that the payload was transmitted, without terminal I/O.
// The next Transmit or RenderAt sends the bytes again. Use it when the
// terminal's image storage was lost, e.g. after reopening the writer.
func (img *Image) Invalidate() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.transmitted = false
}

// Transmit sends the payload unless it was already sent. The transmitted
// flag is set only after the data was written and flushed successfully.
func (img *Image) Transmit(w kitty.Writer) error {
	_, err := img.ensureTransmitted(w)
	return err
}

func (img *Image) ensureTransmitted(w kitty.Writer) (sent bool, err error) {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.transmitted {
		return false, nil
	}
	if err := kitty.TransmitImage(w, img.data, img.id, img.chunk); err != nil {
		return false, fmt.Errorf("transmit image %d: %w", img.id, err)
	}
	if err := w.Flush(); err != nil {
		return false, fmt.Errorf("transmit image %d: %w", img.id, err)
	}
	img.transmitted = true
	img.log.Debug().
		Int("bytes", len(img.data)).
		Int("chunks", chunks(len(img.data), img.chunk)).
		Msg("image transmitted")
	return true, nil
}

// chunks returns the number of escape sequences a payload of n raw bytes
// is split into.
func chunks(n, size int) int {
	encoded := base64.StdEncoding.EncodedLen(n)
	if encoded == 0 || size <= 0 {
		return 1
	}
	return (encoded + size - 1) / size
}

// RenderAt displays the image at the cursor cell, offset by x and y pixels,
// at z-index z. The payload is transmitted first if needed. The cursor is
// not moved and replies are suppressed.
func (img *Image) RenderAt(ctx context.Context, w kitty.Writer, x, y uint32, z int32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sent, err := img.ensureTransmitted(w)
	if err != nil {
		return err
	}
	if sent && img.settle > 0 {
		t := time.NewTimer(img.settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	cmd := kitty.Command{
		Action: kitty.Put{
			XOffset:   x,
			YOffset:   y,
			ZIndex:    z,
			Placement: kitty.Placement(img.id),
		},
		Quietness: kitty.QuietnessSuppressAll,
		ID:        img.id,
	}
	if err := cmd.Send(w, nil); err != nil {
		return fmt.Errorf("place image %d: %w", img.id, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("place image %d: %w", img.id, err)
	}
	img.log.Debug().Uint32("x", x).Uint32("y", y).Int32("z", z).Msg("image placed")
	return nil
}

// Delete removes every placement of the image and frees the terminal's copy
// of the payload. The transmitted flag is reset even if the write fails.
func (img *Image) Delete(w kitty.Writer) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.transmitted = false
	if err := kitty.DeleteImage(w, img.id); err != nil {
		return fmt.Errorf("delete image %d: %w", img.id, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("delete image %d: %w", img.id, err)
	}
	img.log.Debug().Bool("hard", true).Msg("image deleted")
	return nil
}

// DeletePlacements removes every placement of the image. The terminal keeps
// the payload, so the image can be placed again without retransmitting.
func (img *Image) DeletePlacements(w kitty.Writer) error {
	if err := kitty.DeletePlacements(w, img.id); err != nil {
		return fmt.Errorf("delete placements of image %d: %w", img.id, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("delete placements of image %d: %w", img.id, err)
	}
	img.log.Debug().Bool("hard", false).Msg("image deleted")
	return nil
}
