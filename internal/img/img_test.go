package img_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"loadimg/internal/img"
	"loadimg/internal/minimg"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want img.Format
		err  error
	}{
		{"png", minimg.PNG(), img.PNG, nil},
		{"jpeg", minimg.JPEG(), img.JPEG, nil},
		{"gif89", minimg.GIF(), img.GIF, nil},
		{"gif87", []byte("GIF87a\x01\x00\x01\x00\x00\x00\x00\x3b"), img.GIF, nil},
		{"empty", nil, img.FormatUnknown, img.ErrTooShort},
		{"one byte", []byte{0x89}, img.FormatUnknown, img.ErrTooShort},
		{"text", []byte("hello world"), img.FormatUnknown, img.ErrUnsupported},
		{"png sig cut short", []byte{0x89, 'P', 'N', 'G'}, img.FormatUnknown, img.ErrUnsupported},
	}
	for _, tt := range tests {
		f, err := img.Detect(tt.data)
		if f != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("%v: Detect = (%v, %v), want (%v, %v)", tt.name, f, err, tt.want, tt.err)
		}
	}
}

func TestDetectIdempotent(t *testing.T) {
	for _, data := range [][]byte{minimg.PNG(), minimg.JPEG(), minimg.GIF(), []byte("junk data")} {
		f1, err1 := img.Detect(data)
		f2, err2 := img.Detect(data)
		if f1 != f2 || !errors.Is(err2, err1) {
			t.Fatalf("Detect not idempotent: (%v, %v) then (%v, %v)", f1, err1, f2, err2)
		}
	}
}

func TestParsePNG(t *testing.T) {
	im, err := img.Parse(minimg.PNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"IHDR", "IDAT", "IEND"}
	if len(im.Segments) != len(want) {
		t.Fatalf("got %v segments, want %v", len(im.Segments), len(want))
	}
	for i, typ := range want {
		if im.Segments[i].Type != typ {
			t.Errorf("segment %v type = %v, want %v", i, im.Segments[i].Type, typ)
		}
	}
	if s := im.Segments[0]; s.Start != 8 || s.Length != 13 {
		t.Errorf("IHDR at %v len %v, want 8/13", s.Start, s.Length)
	}
	checkSpan(t, im)
}

func TestParsePNGTruncated(t *testing.T) {
	full := minimg.PNG()
	tests := []struct {
		name string
		data []byte
	}{
		{"cut mid chunk header", full[:10]},
		{"cut mid chunk data", full[:20]},
		{"declared length past buffer", overdeclare(full)},
	}
	for _, tt := range tests {
		if _, err := img.Parse(tt.data); !errors.Is(err, img.ErrTruncated) {
			t.Errorf("%v: err = %v, want ErrTruncated", tt.name, err)
		}
	}
}

// overdeclare bumps the first chunk's declared length far past the buffer.
func overdeclare(src []byte) []byte {
	data := append([]byte(nil), src...)
	binary.BigEndian.PutUint32(data[8:], 1<<30)
	return data
}

func TestParsePNGStopsAtIEND(t *testing.T) {
	data := append(minimg.PNG(), "trailing junk that is not a chunk"...)
	im, err := img.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	last := im.Segments[len(im.Segments)-1]
	if last.Type != "IEND" {
		t.Fatalf("last segment = %v, want IEND", last.Type)
	}
}

func TestParseJPEG(t *testing.T) {
	im, err := img.Parse(minimg.JPEG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"SOI", "APP0", "SOS"}
	if len(im.Segments) != len(want) {
		t.Fatalf("got segments %+v, want types %v", im.Segments, want)
	}
	for i, typ := range want {
		if im.Segments[i].Type != typ {
			t.Errorf("segment %v type = %v, want %v", i, im.Segments[i].Type, typ)
		}
	}
	if s := im.Segments[1]; s.Start != 2 || s.Length != 16 {
		t.Errorf("APP0 at %v len %v, want 2/16", s.Start, s.Length)
	}
	checkSpan(t, im)
}

func TestParseJPEGTruncated(t *testing.T) {
	// APP0 declaring 100 bytes in a 6-byte file.
	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x64}
	if _, err := img.Parse(data); !errors.Is(err, img.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	// Stray non-marker byte where a marker must be.
	data = []byte{0xff, 0xd8, 0x00, 0x00}
	if _, err := img.Parse(data); !errors.Is(err, img.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestParseGIF(t *testing.T) {
	im, err := img.Parse(minimg.GIF())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	last := im.Segments[len(im.Segments)-1]
	if last.Type != "TRL" || last.Start != len(im.Data)-1 {
		t.Fatalf("last segment = %+v, want TRL at %v", last, len(im.Data)-1)
	}
	checkSpan(t, im)
}

func TestParseGIFGlobalColorTable(t *testing.T) {
	// flags 0x80|0x00: global color table present, 2 entries (6 bytes).
	data := []byte("GIF89a")
	data = append(data, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00)
	data = append(data, 1, 2, 3, 4, 5, 6)
	data = append(data, 0x3b)
	im, err := img.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var gct *img.Segment
	for i := range im.Segments {
		if im.Segments[i].Type == "GCT" {
			gct = &im.Segments[i]
		}
	}
	if gct == nil || gct.Start != 13 || gct.Length != 6 {
		t.Fatalf("GCT segment = %+v, want start 13 len 6", gct)
	}
	checkSpan(t, im)
}

func TestParseGIFTruncated(t *testing.T) {
	if _, err := img.Parse([]byte("GIF89a\x01\x00")); !errors.Is(err, img.ErrTruncated) {
		t.Fatalf("short LSD: err = %v, want ErrTruncated", err)
	}
	// Color table declared but missing.
	data := append([]byte("GIF89a"), 0x01, 0x00, 0x01, 0x00, 0x87, 0x00, 0x00)
	if _, err := img.Parse(data); !errors.Is(err, img.ErrTruncated) {
		t.Fatalf("missing GCT: err = %v, want ErrTruncated", err)
	}
}

// checkSpan verifies that no parsed segment extends past the buffer.
func checkSpan(t *testing.T, im *img.Image) {
	t.Helper()
	for _, s := range im.Segments {
		span := s.Start + s.Length
		switch im.Format {
		case img.PNG:
			span = s.Start + 12 + s.Length
		case img.JPEG:
			span = s.Start + 2 + s.Length
		}
		if span > len(im.Data) {
			t.Fatalf("segment %+v spans past buffer (%v > %v)", s, span, len(im.Data))
		}
	}
}
