package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadStreams reads a stream catalog from a YAML file.
func LoadStreams(path string) ([]Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream catalog: %w", err)
	}
	return ParseStreams(data)
}

// ParseStreams decodes and validates a YAML stream catalog.
func ParseStreams(data []byte) ([]Stream, error) {
	var list StreamList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse stream catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(list.Streams))
	for i, s := range list.Streams {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("stream %d: %w", i, err)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStream, s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	return list.Streams, nil
}

// Validate checks that the stream has a name and an absolute playlist URL.
func (s Stream) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStream)
	}
	u, err := url.Parse(s.PlaylistURL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidStream, s.Name, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %s: playlist url must be absolute", ErrInvalidStream, s.Name)
	}
	return nil
}
