package asset

import "fmt"

// DownloadState is where an asset is in its download lifecycle. The zero
// value is NotDownloaded.
type DownloadState string

const (
	// NotDownloaded means the asset is not downloaded at all
	NotDownloaded DownloadState = "notDownloaded"

	// Downloading means a download is in progress
	Downloading DownloadState = "downloading"

	// Downloaded means the asset is downloaded and saved on disk
	Downloaded DownloadState = "downloaded"
)

// States returns every download state in lifecycle order.
func States() []DownloadState {
	return []DownloadState{NotDownloaded, Downloading, Downloaded}
}

// String returns the raw value; the zero value reads as notDownloaded.
func (s DownloadState) String() string {
	if s == "" {
		return string(NotDownloaded)
	}
	return string(s)
}

// Label is the value sent across the host bridge for this state.
func (s DownloadState) Label() string {
	switch s.normalize() {
	case Downloading:
		return "DOWNLOADING"
	case Downloaded:
		return "DOWNLOADED"
	default:
		return "NOT_DOWNLOADED"
	}
}

// IsValid reports whether s is one of the known states or the zero value.
func (s DownloadState) IsValid() bool {
	switch s {
	case "", NotDownloaded, Downloading, Downloaded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next follows the forward
// lifecycle, or is a reset to NotDownloaded. Stores do not enforce this.
func (s DownloadState) CanTransition(next DownloadState) bool {
	from, to := s.normalize(), next.normalize()
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	switch to {
	case NotDownloaded:
		return true
	case Downloading:
		return from == NotDownloaded || from == Downloading
	case Downloaded:
		return from == Downloading || from == Downloaded
	}
	return false
}

func (s DownloadState) normalize() DownloadState {
	if s == "" {
		return NotDownloaded
	}
	return s
}

// ParseDownloadState accepts either a raw value or a bridge label.
func ParseDownloadState(value string) (DownloadState, error) {
	for _, s := range States() {
		if value == string(s) || value == s.Label() {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, value)
}
