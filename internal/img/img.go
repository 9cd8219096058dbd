// Package img implements just enough PNG/JPEG/GIF container parsing to locate
// payload insertion points and splice attacker-controlled bytes into an image
// without breaking the container's length-prefix bookkeeping.
package img

import (
	"bytes"
	"errors"
	"fmt"
)

type Format int

const (
	FormatUnknown Format = iota
	PNG
	JPEG
	GIF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	}
	return "unknown"
}

// Ext returns the canonical file extension for the format.
func (f Format) Ext() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	}
	return ""
}

var (
	ErrTooShort    = errors.New("buffer too short for an image signature")
	ErrUnsupported = errors.New("unsupported image signature")
	ErrTruncated   = errors.New("declared segment length exceeds buffer")
)

// Segment is one structural unit of a container: a PNG chunk, a JPEG marker
// segment or a GIF block. Start is the byte offset of the unit within the
// buffer, Length the declared payload length (0 for units without one).
type Segment struct {
	Type   string
	Start  int
	Length int
}

// Image is the parse result for one input file. Data and Segments describe the
// input buffer and are never mutated; splicing produces new buffers.
type Image struct {
	Format   Format
	Data     []byte
	Segments []Segment
}

var (
	pngSig  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegSig = []byte{0xff, 0xd8}
	gif87   = []byte("GIF87a")
	gif89   = []byte("GIF89a")
)

// Detect classifies a buffer by its magic signature.
func Detect(data []byte) (Format, error) {
	if len(data) < 2 {
		return FormatUnknown, ErrTooShort
	}
	switch {
	case len(data) >= len(pngSig) && bytes.Equal(data[:len(pngSig)], pngSig):
		return PNG, nil
	case bytes.Equal(data[:2], jpegSig):
		return JPEG, nil
	case len(data) >= 6 && (bytes.Equal(data[:6], gif87) || bytes.Equal(data[:6], gif89)):
		return GIF, nil
	}
	return FormatUnknown, ErrUnsupported
}

// Parse detects the format and walks the container's segment stream.
// Pixel data is never decoded.
func Parse(data []byte) (*Image, error) {
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}
	var segs []Segment
	switch f {
	case PNG:
		segs, err = parsePNG(data)
	case JPEG:
		segs, err = parseJPEG(data)
	case GIF:
		segs, err = parseGIF(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", f, err)
	}
	return &Image{Format: f, Data: data, Segments: segs}, nil
}
