// Package pages turns one tall raster image into viewport-sized PNG pages.
package pages

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ErrBadViewport is returned for a page size without area.
var ErrBadViewport = errors.New("page size must be positive")

// Decode reads an image in any supported format, applying EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Split scales img down to at most width pixels wide, keeping its aspect
// ratio, and cuts the result into slices of at most height pixels. Only
// the last slice can be shorter. Images narrower than width are not scaled.
func Split(img image.Image, width, height int) ([]image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadViewport
	}

	if img.Bounds().Dx() > width {
		img = resize.Resize(uint(width), 0, img, resize.Lanczos3) //nolint:gosec // width checked positive
	}

	b := img.Bounds()
	pages := make([]image.Image, 0, (b.Dy()+height-1)/height)
	for top := b.Min.Y; top < b.Max.Y; top += height {
		bottom := min(top+height, b.Max.Y)
		pages = append(pages, imaging.Crop(img, image.Rect(b.Min.X, top, b.Max.X, bottom)))
	}
	return pages, nil
}

// Fit scales img down to fit inside width x height, keeping its aspect
// ratio. Smaller images are returned unchanged.
func Fit(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadViewport
	}
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img, nil
	}
	return resize.Thumbnail(uint(width), uint(height), img, resize.Lanczos3), nil //nolint:gosec // checked positive
}

// PNG encodes img as PNG.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Encode encodes every page as PNG.
func Encode(pages []image.Image) ([][]byte, error) {
	out := make([][]byte, len(pages))
	for i, page := range pages {
		data, err := PNG(page)
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// Splitter produces PNG pages from image files, consulting a Cache first.
type Splitter struct {
	cache *Cache
}

// NewSplitter creates a Splitter. cache may be nil to disable caching.
func NewSplitter(cache *Cache) *Splitter {
	return &Splitter{cache: cache}
}

// File returns the PNG pages of the image at path for a width x height
// pixel viewport.
func (s *Splitter) File(path string, width, height int) ([][]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey(path, info.ModTime(), info.Size(), width, height)
	if pages := s.cache.Get(key); pages != nil {
		return pages, nil
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages, err := s.Reader(f, width, height)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(key, pages); err != nil {
		return pages, fmt.Errorf("cache pages: %w", err)
	}
	return pages, nil
}

// Reader returns the PNG pages of the image read from r. Results are not
// cached.
func (s *Splitter) Reader(r io.Reader, width, height int) ([][]byte, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	split, err := Split(img, width, height)
	if err != nil {
		return nil, err
	}
	return Encode(split)
}
