package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TwIStOy/external-widget.nvim/internal/config"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
	"github.com/TwIStOy/external-widget.nvim/internal/pages"
)

func TestGlobalFlagsApply(t *testing.T) {
	cfg := &config.Config{}
	cfg.Terminal.TTY = "/dev/pts/1"

	globalFlags{multiplexer: "none", logLevel: "debug"}.apply(cfg)

	assert.Equal(t, "/dev/pts/1", cfg.Terminal.TTY, "empty flags keep config values")
	assert.Equal(t, "none", cfg.Multiplexer())
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"show", "pages", "delete", "clear", "info"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	data, err := pages.PNG(img)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadPNG(t *testing.T) {
	path := writeTestImage(t, 40, 20)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	data, err := loadPNG(path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, raw, data, "PNG passes through unchanged")

	data, err = loadPNG(path, 10, 10)
	require.NoError(t, err)
	img, err := pages.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 5), img.Bounds().Size())

	_, err = loadPNG(filepath.Join(t.TempDir(), "missing.png"), 0, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirUsage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "0000.png"), make([]byte, 100), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "0000.png"), make([]byte, 50), 0o600))

	size, entries, err := dirUsage(dir)

	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
	assert.Equal(t, 2, entries)
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []kitty.ID
		wantErr bool
	}{
		{name: "single", args: []string{"7"}, want: []kitty.ID{7}},
		{name: "several", args: []string{"1", "42"}, want: []kitty.ID{1, 42}},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-3"}, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "too large", args: []string{"4294967296"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
