package domain

// Stream describes a playable HLS stream from the stream catalog.
type Stream struct {
	Name        string `json:"name" yaml:"name"`
	PlaylistURL string `json:"playlist_url" yaml:"playlist_url"`
	IsProtected bool   `json:"is_protected" yaml:"is_protected"`
}

// Equal reports whether every field of s and other matches.
func (s Stream) Equal(other Stream) bool {
	return s == other
}

// StreamList is the on-disk layout of a stream catalog.
type StreamList struct {
	Streams []Stream `json:"streams" yaml:"streams"`
}
