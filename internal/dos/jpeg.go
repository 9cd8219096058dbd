package dos

import (
	"bytes"
	"encoding/binary"

	"loadimg/internal/img"
)

// comMax is the largest COM payload a 16-bit length field can declare
// (65535 minus the length field itself).
const comMax = 65533

// longComment inserts a COM (FFFE) marker segment stuffed with filler right
// after SOI. The segment is structurally valid; its size is the attack.
func longComment(t *img.Image, o Options) ([]byte, error) {
	o = o.withDefaults()
	j, err := jpegTemplate(t)
	if err != nil {
		return nil, err
	}
	n := o.CommentLen
	if n > comMax {
		n = comMax
	}
	seg := make([]byte, 4, 4+n)
	seg[0] = 0xff
	seg[1] = 0xfe
	binary.BigEndian.PutUint16(seg[2:], uint16(n+2))
	seg = append(seg, bytes.Repeat([]byte{'A'}, n)...)

	out := make([]byte, 0, len(j.Data)+len(seg))
	out = append(out, j.Data[:2]...)
	out = append(out, seg...)
	out = append(out, j.Data[2:]...)
	return out, nil
}
