package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEqual(t *testing.T) {
	base := Stream{Name: "Movie1", PlaylistURL: "https://x/master.m3u8", IsProtected: true}

	tests := []struct {
		name     string
		other    Stream
		expected bool
	}{
		{"identical", base, true},
		{"different name", Stream{Name: "Movie2", PlaylistURL: base.PlaylistURL, IsProtected: true}, false},
		{"different url", Stream{Name: base.Name, PlaylistURL: "https://y/master.m3u8", IsProtected: true}, false},
		{"different protection", Stream{Name: base.Name, PlaylistURL: base.PlaylistURL}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Equal(tt.other))
			assert.Equal(t, tt.expected, tt.other.Equal(base))
		})
	}
}

func TestStreamJSON(t *testing.T) {
	data, err := json.Marshal(Stream{Name: "Movie1", PlaylistURL: "https://x/master.m3u8", IsProtected: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Movie1","playlist_url":"https://x/master.m3u8","is_protected":true}`, string(data))
}

func TestParseStreams(t *testing.T) {
	streams, err := ParseStreams([]byte(`
streams:
  - name: Movie1
    playlist_url: https://x/master.m3u8
    is_protected: true
  - name: Clip
    playlist_url: https://y/clip.m3u8
`))

	require.NoError(t, err)
	require.Len(t, streams, 2)
	assert.Equal(t, Stream{Name: "Movie1", PlaylistURL: "https://x/master.m3u8", IsProtected: true}, streams[0])
	assert.False(t, streams[1].IsProtected)
}

func TestParseStreamsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{
			name:    "missing name",
			content: "streams:\n  - playlist_url: https://x/a.m3u8\n",
			err:     ErrInvalidStream,
		},
		{
			name:    "relative url",
			content: "streams:\n  - name: a\n    playlist_url: /a.m3u8\n",
			err:     ErrInvalidStream,
		},
		{
			name:    "duplicate name",
			content: "streams:\n  - name: a\n    playlist_url: https://x/a.m3u8\n  - name: a\n    playlist_url: https://x/b.m3u8\n",
			err:     ErrDuplicateStream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStreams([]byte(tt.content))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("streams:\n  - name: a\n    playlist_url: https://x/a.m3u8\n"), 0644))

	streams, err := LoadStreams(path)
	require.NoError(t, err)
	assert.Len(t, streams, 1)

	_, err = LoadStreams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
