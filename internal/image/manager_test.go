package image

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty/kittytest"
)

func TestManager_AllocIDConcurrent(t *testing.T) {
	m := newTestManager()
	const n = 200

	ids := make([]kitty.ID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = m.AllocID()
		}()
	}
	wg.Wait()

	slices.Sort(ids)
	for i := range ids {
		assert.Equal(t, kitty.ID(i+1), ids[i], "ids are distinct, nonzero and dense")
	}
}

func TestManager_IndependentCounters(t *testing.T) {
	m := newTestManager()

	assert.Equal(t, kitty.ID(1), m.AllocID())
	assert.Equal(t, kitty.ID(1), m.AllocSetID())
	assert.Equal(t, kitty.ID(2), m.AllocID())
	assert.Equal(t, kitty.ID(2), m.AllocSetID())
}

func TestManager_FindImage(t *testing.T) {
	m := newTestManager()
	id := m.AllocID()

	_, ok := m.FindImage(id)
	assert.False(t, ok, "allocated ids have no image until populated")

	img := m.NewImageWithID(id, []byte("data"))
	found, ok := m.FindImage(id)
	require.True(t, ok)
	assert.Same(t, img, found)
	assert.Equal(t, 4, found.Size())

	m.RemoveImage(id)
	_, ok = m.FindImage(id)
	assert.False(t, ok)
}

func TestManager_FindImageSet(t *testing.T) {
	m := newTestManager()
	id := m.AllocSetID()

	set, err := m.NewImageSetWithID(id, [][]byte{{1}, {2}})
	require.NoError(t, err)

	found, ok := m.FindImageSet(id)
	require.True(t, ok)
	assert.Same(t, set, found)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 2, m.Images(), "pages are registered as images")

	for _, p := range set.Pages() {
		_, ok := m.FindImage(p.ID())
		assert.True(t, ok)
	}

	m.RemoveImageSet(id)
	_, ok = m.FindImageSet(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Images())
}

func TestManager_SeparateRegistries(t *testing.T) {
	a := newTestManager()
	b := newTestManager()

	a.NewImage([]byte("x"))

	assert.Equal(t, 1, a.Images())
	assert.Equal(t, 0, b.Images())
	assert.Equal(t, kitty.ID(1), b.AllocID(), "sessions do not share counters")
}

func TestManager_InvalidateAll(t *testing.T) {
	rec := kittytest.NewRecorder()
	m := newTestManager()
	img := m.NewImage([]byte("a"))
	set, err := m.NewImageSet([][]byte{{1}, {2}})
	require.NoError(t, err)

	require.NoError(t, img.Transmit(rec))
	for _, p := range set.Pages() {
		require.NoError(t, p.Transmit(rec))
	}

	m.InvalidateAll()

	assert.False(t, img.Transmitted())
	for _, p := range set.Pages() {
		assert.False(t, p.Transmitted())
	}
}
