// Package session ties one terminal writer to one image registry.
//
// Every terminal operation goes through a single lock, so sequences from
// concurrent callers never interleave on the wire. Ids are handed out
// immediately; image bytes may be produced and transmitted later.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/TwIStOy/external-widget.nvim/internal/image"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
)

var (
	// ErrUnknownImage is returned for an image id that is not registered.
	ErrUnknownImage = errors.New("unknown image")
	// ErrUnknownImageSet is returned for an image set id that is not registered.
	ErrUnknownImageSet = errors.New("unknown image set")
)

// syncer is implemented by writers that support synchronized output.
type syncer interface {
	BeginSync() error
	EndSync() error
}

// Session serializes all graphics output to one terminal.
type Session struct {
	images *image.Manager
	log    zerolog.Logger

	mu     sync.Mutex // guards w and anchor
	w      kitty.Writer
	anchor cell

	wg      sync.WaitGroup
	errMu   sync.Mutex
	pending []error
}

// New creates a session writing to w. The manager must not be shared with
// another session.
func New(w kitty.Writer, images *image.Manager, log zerolog.Logger) *Session {
	return &Session{
		images: images,
		log:    log,
		w:      w,
	}
}

// cell is a 1-based terminal position; the zero value means none.
type cell struct{ row, col int }

// SetAnchor makes every render happen with the cursor at row and col
// (1-based). The cursor is saved before and restored after each render.
// A row or col below 1 clears the anchor.
func (s *Session) SetAnchor(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 1 || col < 1 {
		s.anchor = cell{}
		return
	}
	s.anchor = cell{row: row, col: col}
}

// anchored runs fn with the cursor moved to the anchor. The lock is held.
func (s *Session) anchored(fn func() error) error {
	if s.anchor == (cell{}) {
		return fn()
	}
	move := ansi.SaveCursor + ansi.CursorPosition(s.anchor.col, s.anchor.row)
	if err := s.w.WriteAll([]byte(move), false); err != nil {
		return err
	}
	err := fn()
	if rerr := s.w.WriteAll([]byte(ansi.RestoreCursor), false); err == nil {
		err = rerr
	}
	if ferr := s.w.Flush(); err == nil {
		err = ferr
	}
	return err
}

// Images returns the session's registry.
func (s *Session) Images() *image.Manager { return s.images }

// AddImage registers PNG data without touching the terminal.
func (s *Session) AddImage(data []byte) kitty.ID {
	return s.images.NewImage(data).ID()
}

// AddImageSet registers a set of PNG pages without touching the terminal.
func (s *Session) AddImageSet(pages [][]byte) (kitty.ID, error) {
	set, err := s.images.NewImageSet(pages)
	if err != nil {
		return 0, err
	}
	return set.ID(), nil
}

// StartImage allocates an image id and returns it at once. build runs in the
// background; its result is registered under the id and transmitted.
// Failures are logged and reported by Wait.
func (s *Session) StartImage(ctx context.Context, build func(context.Context) ([]byte, error)) kitty.ID {
	id := s.images.AllocID()
	s.StartImageWithID(ctx, id, build)
	return id
}

// StartImageWithID is StartImage with a caller chosen id. The caller keeps
// the id unique on the terminal, e.g. across separate processes.
func (s *Session) StartImageWithID(ctx context.Context, id kitty.ID, build func(context.Context) ([]byte, error)) {
	s.wg.Go(func() {
		if err := s.populate(ctx, id, build); err != nil {
			s.log.Error().Err(err).Uint32("image", uint32(id)).Msg("background image failed")
			s.errMu.Lock()
			s.pending = append(s.pending, err)
			s.errMu.Unlock()
		}
	})
}

func (s *Session) populate(ctx context.Context, id kitty.ID, build func(context.Context) ([]byte, error)) error {
	data, err := build(ctx)
	if err != nil {
		return fmt.Errorf("build image %d: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	img := s.images.NewImageWithID(id, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	return img.Transmit(s.w)
}

// Wait blocks until every StartImage goroutine has finished and returns
// their joined errors. The collected errors are cleared.
func (s *Session) Wait() error {
	s.wg.Wait()

	s.errMu.Lock()
	defer s.errMu.Unlock()
	err := errors.Join(s.pending...)
	s.pending = nil
	return err
}

func (s *Session) image(id kitty.ID) (*image.Image, error) {
	img, ok := s.images.FindImage(id)
	if !ok {
		return nil, fmt.Errorf("image %d: %w", id, ErrUnknownImage)
	}
	return img, nil
}

func (s *Session) imageSet(id kitty.ID) (*image.ImageSet, error) {
	set, ok := s.images.FindImageSet(id)
	if !ok {
		return nil, fmt.Errorf("image set %d: %w", id, ErrUnknownImageSet)
	}
	return set, nil
}

// RenderImage places image id at the cursor cell offset by (x, y) pixels.
func (s *Session) RenderImage(ctx context.Context, id kitty.ID, x, y uint32, z int32) error {
	img, err := s.image(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchored(func() error {
		return img.RenderAt(ctx, s.w, x, y, z)
	})
}

// RenderImageSet shows the current page of set id at (x, y).
func (s *Session) RenderImageSet(ctx context.Context, id kitty.ID, x, y uint32) error {
	set, err := s.imageSet(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchored(func() error {
		return set.RenderAt(ctx, s.w, x, y)
	})
}

// Next shows the following page of set id.
func (s *Session) Next(ctx context.Context, id kitty.ID) error {
	return s.cycle(ctx, id, (*image.ImageSet).Next)
}

// Previous shows the preceding page of set id.
func (s *Session) Previous(ctx context.Context, id kitty.ID) error {
	return s.cycle(ctx, id, (*image.ImageSet).Previous)
}

func (s *Session) cycle(
	ctx context.Context,
	id kitty.ID,
	step func(*image.ImageSet, context.Context, kitty.Writer) error,
) error {
	set, err := s.imageSet(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	run := func() error {
		return s.anchored(func() error {
			return step(set, ctx, s.w)
		})
	}

	sw, ok := s.w.(syncer)
	if !ok {
		return run()
	}
	if err := sw.BeginSync(); err != nil {
		return err
	}
	err = run()
	if endErr := sw.EndSync(); err == nil {
		err = endErr
	}
	return err
}

// DeleteImage removes image id from the screen. A hard delete also frees
// the terminal's copy and forgets the image.
func (s *Session) DeleteImage(id kitty.ID, hard bool) error {
	img, err := s.image(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if hard {
		err = img.Delete(s.w)
	} else {
		err = img.DeletePlacements(s.w)
	}
	s.mu.Unlock()

	if hard {
		s.images.RemoveImage(id)
	}
	return err
}

// DeleteTerminalImage deletes image id on the terminal whether or not this
// session registered it, e.g. an image shown by an earlier process. A
// registered image is handled like DeleteImage.
func (s *Session) DeleteTerminalImage(id kitty.ID, hard bool) error {
	if _, ok := s.images.FindImage(id); ok {
		return s.DeleteImage(id, hard)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if hard {
		err = kitty.DeleteImage(s.w, id)
	} else {
		err = kitty.DeletePlacements(s.w, id)
	}
	if err == nil {
		err = s.w.Flush()
	}
	if err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}
	s.log.Debug().Uint32("image", uint32(id)).Bool("hard", hard).Msg("terminal image deleted")
	return nil
}

// DeleteImageSet removes every page of set id from the screen. A hard
// delete also frees the pages and forgets the set.
func (s *Session) DeleteImageSet(id kitty.ID, hard bool) error {
	set, err := s.imageSet(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = set.Delete(s.w, hard)
	s.mu.Unlock()

	if hard {
		s.images.RemoveImageSet(id)
	}
	return err
}

// ClearAll deletes every image on the terminal, including images this
// session did not create. Registered images stay known and are transmitted
// again on their next render.
func (s *Session) ClearAll() error {
	cmd := kitty.Command{
		Action:    kitty.Delete{Hard: true, Kind: kitty.DeleteAll},
		Quietness: kitty.QuietnessSuppressAll,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images.InvalidateAll()
	if err := cmd.Send(s.w, nil); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	s.log.Debug().Msg("all images cleared")
	return nil
}
