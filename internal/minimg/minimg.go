// Package minimg builds minimal well-formed template images. The DoS
// generators fall back to these when the input image's format does not match
// the generator's native format, and tests use them as fixtures.
package minimg

import (
	"encoding/binary"

	"loadimg/internal/img"
)

// pngIDAT is a zlib stream for a single zero scanline (filter 0, one zero
// pixel) of a 1x1 grayscale image.
var pngIDAT = []byte{0x78, 0x9c, 0x63, 0x60, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01}

// PNG returns a 67-byte 1x1 grayscale PNG: signature, IHDR, a 10-byte IDAT
// and IEND, with computed CRCs.
func PNG() []byte {
	out := img.PNGSig()
	out = img.AppendChunk(out, "IHDR", IHDRData(1, 1, 8, 0))
	out = img.AppendChunk(out, "IDAT", pngIDAT)
	out = img.AppendChunk(out, "IEND", nil)
	return out
}

// IHDRData assembles the 13-byte IHDR payload: width, height, bit depth,
// color type, and zeroed compression/filter/interlace.
func IHDRData(w, h uint32, depth, color byte) []byte {
	d := make([]byte, 13)
	binary.BigEndian.PutUint32(d[0:], w)
	binary.BigEndian.PutUint32(d[4:], h)
	d[8] = depth
	d[9] = color
	return d
}

// JPEG returns a minimal marker-walkable JPEG: SOI, a JFIF APP0, an SOS
// segment with a few entropy bytes, and EOI. It is not decodable; it only has
// to carry the container structure the injector needs.
func JPEG() []byte {
	out := []byte{0xff, 0xd8}
	app0 := []byte{
		0xff, 0xe0, 0x00, 0x10,
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version
		0x00,       // aspect ratio units
		0x00, 0x01, // x density
		0x00, 0x01, // y density
		0x00, 0x00, // no thumbnail
	}
	out = append(out, app0...)
	sos := []byte{0xff, 0xda, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3f, 0x00}
	out = append(out, sos...)
	out = append(out, 0x00, 0x00, 0x00, 0x00) // entropy-coded filler
	return append(out, 0xff, 0xd9)
}

// GIF returns a minimal GIF89a: header, a 1x1 logical screen descriptor with
// no global color table, and the trailer byte.
func GIF() []byte {
	out := []byte("GIF89a")
	out = append(out,
		0x01, 0x00, // width
		0x01, 0x00, // height
		0x00, // no global color table
		0x00, // background color
		0x00, // aspect ratio
	)
	return append(out, 0x3b)
}
