package image

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
)

// Manager allocates ids and holds the images and image sets of one session.
// Its lock covers map access only, never terminal I/O, so an id can be
// allocated and handed out before the image bytes exist.
type Manager struct {
	settle time.Duration
	chunk  int
	log    zerolog.Logger

	imageIDs atomic.Uint32
	setIDs   atomic.Uint32

	mu     sync.Mutex
	images map[kitty.ID]*Image
	sets   map[kitty.ID]*ImageSet
}

// Option configures a Manager.
type Option func(*Manager)

// WithSettleDelay sets the pause between a transmission and the first
// placement. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.settle = d
	}
}

// WithChunkSize sets the number of base64 bytes per transmission chunk.
// Values that are not a positive multiple of 4 are ignored.
func WithChunkSize(n int) Option {
	return func(m *Manager) {
		if n > 0 && n%4 == 0 {
			m.chunk = n
		}
	}
}

// WithLogger sets the logger used by the manager and everything it creates.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates an empty registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		settle: DefaultSettleDelay,
		chunk:  kitty.ChunkSize,
		log:    zerolog.Nop(),
		images: make(map[kitty.ID]*Image),
		sets:   make(map[kitty.ID]*ImageSet),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AllocID returns a new image id. Ids start at 1 and are never reused.
func (m *Manager) AllocID() kitty.ID {
	return kitty.ID(m.imageIDs.Add(1))
}

// AllocSetID returns a new image set id. Set ids are counted independently
// of image ids.
func (m *Manager) AllocSetID() kitty.ID {
	return kitty.ID(m.setIDs.Add(1))
}

// NewImage registers data under a freshly allocated id.
func (m *Manager) NewImage(data []byte) *Image {
	return m.NewImageWithID(m.AllocID(), data)
}

// NewImageWithID registers data under an id previously returned by AllocID.
// An existing entry with the same id is replaced.
func (m *Manager) NewImageWithID(id kitty.ID, data []byte) *Image {
	img := newImage(id, data, m)

	m.mu.Lock()
	m.images[id] = img
	m.mu.Unlock()

	m.log.Debug().Uint32("image", uint32(id)).Int("bytes", len(data)).Msg("image registered")
	return img
}

// NewImageSet registers a set of pages under a freshly allocated set id.
func (m *Manager) NewImageSet(pages [][]byte) (*ImageSet, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyImageSet
	}
	return m.NewImageSetWithID(m.AllocSetID(), pages)
}

// NewImageSetWithID registers a set of pages under an id previously returned
// by AllocSetID. Every page becomes an Image with its own image id.
func (m *Manager) NewImageSetWithID(id kitty.ID, pages [][]byte) (*ImageSet, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyImageSet
	}

	images := make([]*Image, len(pages))
	for i, data := range pages {
		images[i] = newImage(m.AllocID(), data, m)
	}
	set, err := newImageSet(id, images, m.log)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	for _, img := range images {
		m.images[img.id] = img
	}
	m.sets[id] = set
	m.mu.Unlock()

	m.log.Debug().Uint32("image_set", uint32(id)).Int("pages", len(pages)).Msg("image set registered")
	return set, nil
}

// FindImage looks up an image by id.
func (m *Manager) FindImage(id kitty.ID) (*Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	return img, ok
}

// FindImageSet looks up an image set by id.
func (m *Manager) FindImageSet(id kitty.ID) (*ImageSet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[id]
	return set, ok
}

// RemoveImage drops an image from the registry. It does not touch the terminal.
func (m *Manager) RemoveImage(id kitty.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, id)
}

// RemoveImageSet drops an image set and its pages from the registry. It does
// not touch the terminal.
func (m *Manager) RemoveImageSet(id kitty.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[id]
	if !ok {
		return
	}
	for _, page := range set.pages {
		delete(m.images, page.id)
	}
	delete(m.sets, id)
}

// Images returns the number of registered images, pages included.
func (m *Manager) Images() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// InvalidateAll marks every registered image as not transmitted. Call it
// after the terminal dropped its image storage, e.g. after a delete-all.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	images := make([]*Image, 0, len(m.images))
	for _, img := range m.images {
		images = append(images, img)
	}
	m.mu.Unlock()

	for _, img := range images {
		img.Invalidate()
	}
}
