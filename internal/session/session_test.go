package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TwIStOy/external-widget.nvim/internal/image"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty/kittytest"
)

func newTestSession(w kitty.Writer) *Session {
	return New(w, image.NewManager(image.WithSettleDelay(0)), zerolog.Nop())
}

// syncRecorder records synchronized-output markers around graphics output.
type syncRecorder struct {
	*kittytest.Recorder
}

func (r syncRecorder) BeginSync() error { return r.WriteAll([]byte("<sync>"), false) }
func (r syncRecorder) EndSync() error   { return r.WriteAll([]byte("</sync>"), false) }

func TestSession_RenderImage(t *testing.T) {
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)
	id := s.AddImage([]byte("png"))

	require.NoError(t, s.RenderImage(context.Background(), id, 10, 20, 1))

	seqs := rec.Sequences()
	require.Len(t, seqs, 2)
	assert.Equal(t, byte('t'), seqs[0].Action())
	assert.Contains(t, seqs[1].Control, "X=10,Y=20,z=1,")
}

func TestSession_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(kittytest.NewRecorder())

	require.ErrorIs(t, s.RenderImage(ctx, 42, 0, 0, 1), ErrUnknownImage)
	require.ErrorIs(t, s.DeleteImage(42, true), ErrUnknownImage)
	require.ErrorIs(t, s.RenderImageSet(ctx, 42, 0, 0), ErrUnknownImageSet)
	require.ErrorIs(t, s.Next(ctx, 42), ErrUnknownImageSet)
	require.ErrorIs(t, s.Previous(ctx, 42), ErrUnknownImageSet)
	require.ErrorIs(t, s.DeleteImageSet(42, false), ErrUnknownImageSet)
}

func TestSession_ImageSetLifecycle(t *testing.T) {
	ctx := context.Background()
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)

	id, err := s.AddImageSet([][]byte{{1}, {2}, {3}})
	require.NoError(t, err)

	require.ErrorIs(t, s.Next(ctx, id), image.ErrNotRendered)
	require.NoError(t, s.RenderImageSet(ctx, id, 0, 0))
	require.NoError(t, s.Next(ctx, id))
	require.NoError(t, s.Previous(ctx, id))

	set, ok := s.Images().FindImageSet(id)
	require.True(t, ok)
	assert.Equal(t, 0, set.Index())
	assert.Equal(t, uint32(3), set.ZIndex())

	require.NoError(t, s.DeleteImageSet(id, true))
	_, ok = s.Images().FindImageSet(id)
	assert.False(t, ok, "hard delete forgets the set")
	assert.Equal(t, 0, s.Images().Images())
}

func TestSession_AddEmptyImageSet(t *testing.T) {
	s := newTestSession(kittytest.NewRecorder())

	_, err := s.AddImageSet(nil)

	require.ErrorIs(t, err, image.ErrEmptyImageSet)
}

func TestSession_CycleUsesSynchronizedOutput(t *testing.T) {
	ctx := context.Background()
	rec := syncRecorder{kittytest.NewRecorder()}
	s := newTestSession(rec)

	id, err := s.AddImageSet([][]byte{{1}, {2}})
	require.NoError(t, err)
	require.NoError(t, s.RenderImageSet(ctx, id, 0, 0))
	rec.Reset()

	require.NoError(t, s.Next(ctx, id))

	out := rec.String()
	assert.True(t, strings.HasPrefix(out, "<sync>"))
	assert.True(t, strings.HasSuffix(out, "</sync>"))
	assert.Equal(t, 1, rec.Count('p'))
	assert.Equal(t, 1, rec.Count('d'))
}

func TestSession_DeleteImage(t *testing.T) {
	tests := []struct {
		name       string
		hard       bool
		code       string
		registered bool
	}{
		{name: "soft keeps the image", hard: false, code: "i", registered: true},
		{name: "hard forgets the image", hard: true, code: "I", registered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := kittytest.NewRecorder()
			s := newTestSession(rec)
			id := s.AddImage([]byte("png"))
			require.NoError(t, s.RenderImage(context.Background(), id, 0, 0, 1))
			rec.Reset()

			require.NoError(t, s.DeleteImage(id, tt.hard))

			seqs := rec.Sequences()
			require.Len(t, seqs, 1)
			assert.True(t, seqs[0].Has("d", tt.code))
			_, ok := s.Images().FindImage(id)
			assert.Equal(t, tt.registered, ok)
		})
	}
}

func TestSession_ClearAll(t *testing.T) {
	ctx := context.Background()
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)
	id := s.AddImage([]byte("png"))
	require.NoError(t, s.RenderImage(ctx, id, 0, 0, 1))
	rec.Reset()

	require.NoError(t, s.ClearAll())

	seqs := rec.Sequences()
	require.Len(t, seqs, 1)
	assert.Equal(t, "q=2,a=d,d=A,", seqs[0].Control)

	rec.Reset()
	require.NoError(t, s.RenderImage(ctx, id, 0, 0, 1))
	assert.Equal(t, 1, rec.Count('t'), "cleared images are transmitted again")
}

func TestSession_StartImage(t *testing.T) {
	ctx := context.Background()
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)

	release := make(chan struct{})
	id := s.StartImage(ctx, func(context.Context) ([]byte, error) {
		<-release
		return []byte("png"), nil
	})

	assert.NotZero(t, id, "id is available before the image is built")
	_, ok := s.Images().FindImage(id)
	assert.False(t, ok)

	close(release)
	require.NoError(t, s.Wait())

	img, ok := s.Images().FindImage(id)
	require.True(t, ok)
	assert.True(t, img.Transmitted())
	assert.Equal(t, 1, rec.Count('t'))
}

func TestSession_StartImageErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(kittytest.NewRecorder())
	errBuild := errors.New("render failed")

	id := s.StartImage(ctx, func(context.Context) ([]byte, error) {
		return nil, errBuild
	})

	require.ErrorIs(t, s.Wait(), errBuild)
	_, ok := s.Images().FindImage(id)
	assert.False(t, ok)
	require.NoError(t, s.Wait(), "errors are reported once")
}

func TestSession_ConcurrentOutputDoesNotInterleave(t *testing.T) {
	ctx := context.Background()
	rec := kittytest.NewRecorder()
	s := New(rec, image.NewManager(image.WithSettleDelay(0), image.WithChunkSize(8)), zerolog.Nop())

	const n = 16
	ids := make([]kitty.ID, n)
	for i := range ids {
		ids[i] = s.AddImage(make([]byte, 30))
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			assert.NoError(t, s.RenderImage(ctx, ids[i], 0, 0, 1))
		})
	}
	wg.Wait()

	// Every transmission is a run of continuation chunks closed by m=0,
	// and nothing else may appear inside a run.
	inTransmit := false
	for _, seq := range rec.Sequences() {
		if inTransmit {
			assert.Equal(t, byte(0), seq.Action(), "foreign command inside a chunked transmission")
		}
		if seq.Value("m") != "" {
			inTransmit = seq.Value("m") == "1"
		}
	}
	assert.Equal(t, n, rec.Count('t'))
	assert.Equal(t, n, rec.Count('p'))
}

func TestSession_Anchor(t *testing.T) {
	ctx := context.Background()
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)
	id := s.AddImage([]byte("png"))

	s.SetAnchor(3, 5)
	require.NoError(t, s.RenderImage(ctx, id, 0, 0, 1))

	out := rec.String()
	assert.True(t, strings.HasPrefix(out, ansi.SaveCursor+ansi.CursorPosition(5, 3)))
	assert.True(t, strings.HasSuffix(out, ansi.RestoreCursor))
	assert.Equal(t, 1, rec.Count('p'))

	rec.Reset()
	s.SetAnchor(0, 0)
	require.NoError(t, s.RenderImage(ctx, id, 0, 0, 1))
	assert.True(t, strings.HasPrefix(rec.String(), "\x1b_G"), "cleared anchor leaves the cursor alone")
}

func TestSession_StartImageWithID(t *testing.T) {
	rec := kittytest.NewRecorder()
	s := newTestSession(rec)

	s.StartImageWithID(context.Background(), 77, func(context.Context) ([]byte, error) {
		return []byte("png"), nil
	})
	require.NoError(t, s.Wait())

	_, ok := s.Images().FindImage(77)
	assert.True(t, ok)
	seqs := rec.Sequences()
	require.Len(t, seqs, 1)
	assert.True(t, seqs[0].Has("i", "77"))
}

func TestSession_DeleteTerminalImage(t *testing.T) {
	tests := []struct {
		name       string
		register   bool
		hard       bool
		code       string
		registered bool
	}{
		{name: "unknown soft", hard: false, code: "i"},
		{name: "unknown hard", hard: true, code: "I"},
		{name: "registered hard", register: true, hard: true, code: "I"},
		{name: "registered soft", register: true, hard: false, code: "i", registered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := kittytest.NewRecorder()
			s := newTestSession(rec)
			id := kitty.ID(9)
			if tt.register {
				id = s.AddImage([]byte("png"))
			}

			require.NoError(t, s.DeleteTerminalImage(id, tt.hard))

			seqs := rec.Sequences()
			require.Len(t, seqs, 1)
			assert.True(t, seqs[0].Has("d", tt.code))
			assert.True(t, seqs[0].Has("i", id.String()))
			_, ok := s.Images().FindImage(id)
			assert.Equal(t, tt.registered, ok)
		})
	}
}

func TestSession_DeleteTerminalImageWriteError(t *testing.T) {
	rec := kittytest.NewRecorder()
	rec.FailAfter(0)
	s := newTestSession(rec)

	require.ErrorIs(t, s.DeleteTerminalImage(3, true), kittytest.ErrInjected)
}
