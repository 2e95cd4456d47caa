package image

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
)

// ImageSet is an ordered, non-empty list of pages of which exactly one is
// shown at a time.
type ImageSet struct {
	id    kitty.ID
	pages []*Image
	log   zerolog.Logger

	// mu guards the cursor state only; it is never held during terminal I/O.
	mu       sync.Mutex
	index    int
	zIndex   uint32
	rendered bool
	x, y     uint32
}

func newImageSet(id kitty.ID, pages []*Image, log zerolog.Logger) (*ImageSet, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyImageSet
	}
	return &ImageSet{
		id:     id,
		pages:  pages,
		log:    log.With().Uint32("image_set", uint32(id)).Logger(),
		zIndex: 1,
	}, nil
}

// ID returns the registry id of the set. It is not a terminal-side id.
func (s *ImageSet) ID() kitty.ID { return s.id }

// Len returns the number of pages.
func (s *ImageSet) Len() int { return len(s.pages) }

// Pages returns the page images in order.
func (s *ImageSet) Pages() []*Image {
	return append([]*Image(nil), s.pages...)
}

// Index returns the index of the current page.
func (s *ImageSet) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// ZIndex returns the z-index the current page was (or will be) placed at.
func (s *ImageSet) ZIndex() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zIndex
}

// Position returns the last position passed to RenderAt.
func (s *ImageSet) Position() (x, y uint32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y, s.rendered
}

// RenderAt records (x, y) as the set's position and displays the current
// page there at the current z-index.
func (s *ImageSet) RenderAt(ctx context.Context, w kitty.Writer, x, y uint32) error {
	s.mu.Lock()
	s.x, s.y = x, y
	s.rendered = true
	page := s.pages[s.index]
	z := s.zIndex
	s.mu.Unlock()

	return page.RenderAt(ctx, w, x, y, int32(z)) //nolint:gosec // z-index stays far below MaxInt32
}

// Next shows the following page, wrapping around after the last one.
func (s *ImageSet) Next(ctx context.Context, w kitty.Writer) error {
	return s.step(ctx, w, 1)
}

// Previous shows the preceding page, wrapping around before the first one.
func (s *ImageSet) Previous(ctx context.Context, w kitty.Writer) error {
	return s.step(ctx, w, -1)
}

// step moves the cursor by delta. The new page is placed above the old one
// before the old placement is removed, so nothing flashes in between.
// If the new page cannot be shown the cursor returns to the old page, which
// is still on screen. The z-index is not rolled back.
func (s *ImageSet) step(ctx context.Context, w kitty.Writer, delta int) error {
	s.mu.Lock()
	if !s.rendered {
		s.mu.Unlock()
		return ErrNotRendered
	}
	n := len(s.pages)
	from := s.index
	to := ((from+delta)%n + n) % n
	if to == from {
		s.mu.Unlock()
		return nil
	}
	s.index = to
	s.zIndex++
	z := s.zIndex
	x, y := s.x, s.y
	shown, hidden := s.pages[to], s.pages[from]
	s.mu.Unlock()

	s.log.Debug().Int("from", from).Int("to", to).Uint32("z", z).Msg("page changed")

	if err := shown.RenderAt(ctx, w, x, y, int32(z)); err != nil { //nolint:gosec // z-index stays far below MaxInt32
		s.mu.Lock()
		if s.index == to {
			s.index = from
		}
		s.mu.Unlock()
		return err
	}
	return hidden.DeletePlacements(w)
}

// Delete removes every page from the screen. A hard delete also frees the
// terminal's copies of the page payloads. Every page is attempted; the
// errors of failed pages are joined.
func (s *ImageSet) Delete(w kitty.Writer, hard bool) error {
	var errs []error
	for _, page := range s.pages {
		var err error
		if hard {
			err = page.Delete(w)
		} else {
			err = page.DeletePlacements(w)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
