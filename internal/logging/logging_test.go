package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{input: "", want: zerolog.InfoLevel},
		{input: "debug", want: zerolog.DebugLevel},
		{input: "warn", want: zerolog.WarnLevel},
		{input: "error", want: zerolog.ErrorLevel},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Uint32("image", 3).Msg("image placed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "image placed")
	assert.Contains(t, out, "image=3")
}

func TestNew_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "log.txt")

	log, closer, err := New("debug", path)
	require.NoError(t, err)
	log.Debug().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", filepath.Join(t.TempDir(), "log.txt"))
	assert.Error(t, err)
}
