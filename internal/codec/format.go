package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a container.
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// ParseFormat parses "wav" or "mp3" (case-insensitive, optional dot).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatWAV, FormatMP3:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported audio format %q", s)
	}
}

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Sniff detects the format from the first bytes of a file.
func Sniff(header []byte) (Format, bool) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return FormatWAV, true
	case len(header) >= 3 && bytes.Equal(header[0:3], []byte("ID3")):
		return FormatMP3, true
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return FormatMP3, true
	default:
		return "", false
	}
}
