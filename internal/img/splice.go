package img

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// CRCMode controls whether the CRC of a patched PNG chunk is recomputed or
// left stale. Strict readers reject stale CRCs; lenient ones ignore them, and
// both behaviors are useful when probing a target.
type CRCMode int

const (
	CRCRecompute CRCMode = iota
	CRCStale
)

// ParseCRCMode maps the tuning-file spelling to a CRCMode.
func ParseCRCMode(s string) (CRCMode, error) {
	switch s {
	case "", "recompute":
		return CRCRecompute, nil
	case "stale":
		return CRCStale, nil
	}
	return CRCRecompute, fmt.Errorf("unknown crc mode %q", s)
}

// Splice returns a new buffer equal to the image bytes with payload inserted
// at the resolved offset. When the insertion lands inside a length-prefixed
// PNG chunk, the chunk's declared length is grown by len(payload) and its CRC
// recomputed per mode, so the stream stays parseable through that chunk. The
// input image is never modified and the result is always exactly
// len(im.Data)+len(payload) bytes.
func Splice(im *Image, ins Insertion, payload []byte, mode CRCMode) []byte {
	out := make([]byte, 0, len(im.Data)+len(payload))
	out = append(out, im.Data[:ins.Off]...)
	out = append(out, payload...)
	out = append(out, im.Data[ins.Off:]...)
	if ins.Patch >= 0 && im.Format == PNG {
		patchChunk(out, im.Segments[ins.Patch], len(payload), mode)
	}
	return out
}

// patchChunk rewrites the declared length of a chunk whose data region just
// absorbed extra bytes. Segment offsets are pre-insertion, which is fine: the
// insertion point is inside the chunk's data, so everything up to and
// including the chunk header is unmoved.
func patchChunk(out []byte, s Segment, extra int, mode CRCMode) {
	n := s.Length + extra
	binary.BigEndian.PutUint32(out[s.Start:], uint32(n))
	if mode != CRCRecompute {
		return
	}
	crc := crc32.ChecksumIEEE(out[s.Start+4 : s.Start+8+n])
	binary.BigEndian.PutUint32(out[s.Start+8+n:], crc)
}
