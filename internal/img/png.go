package img

import (
	"encoding/binary"
	"hash/crc32"
)

const pngSigLen = 8

// parsePNG walks the chunk stream after the 8-byte signature. Each chunk is
// [4-byte length][4-byte type][data][4-byte CRC]. The walk stops at (and
// includes) IEND; anything after it is ignored.
func parsePNG(data []byte) ([]Segment, error) {
	var segs []Segment
	off := pngSigLen
	for off < len(data) {
		if off+8 > len(data) {
			return nil, ErrTruncated
		}
		n := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if off+12+n > len(data) {
			return nil, ErrTruncated
		}
		segs = append(segs, Segment{Type: typ, Start: off, Length: n})
		off += 12 + n
		if typ == "IEND" {
			break
		}
	}
	return segs, nil
}

// AppendChunk appends a well-formed PNG chunk (length, type, data, CRC) to dst.
func AppendChunk(dst []byte, typ string, data []byte) []byte {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)
	dst = append(dst, hdr[:]...)
	dst = append(dst, data...)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	return append(dst, sum[:]...)
}

// PNGSig returns a copy of the fixed 8-byte PNG signature.
func PNGSig() []byte {
	sig := make([]byte, len(pngSig))
	copy(sig, pngSig)
	return sig
}
