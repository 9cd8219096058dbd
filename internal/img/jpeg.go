package img

import (
	"encoding/binary"
	"fmt"
)

// parseJPEG walks marker segments after SOI. Sized segments are
// [FF][marker][2-byte length incl. the length field][payload]; SOI, EOI, TEM
// and RSTn carry no length. The walk stops at SOS (entropy-coded data follows,
// which has no segment structure) or at EOI.
func parseJPEG(data []byte) ([]Segment, error) {
	segs := []Segment{{Type: "SOI", Start: 0}}
	off := 2
	for off+1 < len(data) {
		if data[off] != 0xff {
			return nil, ErrTruncated
		}
		m := data[off+1]
		if m == 0xff {
			// Fill byte before a marker.
			off++
			continue
		}
		switch {
		case m == 0xd9:
			segs = append(segs, Segment{Type: "EOI", Start: off})
			return segs, nil
		case m == 0x01 || (m >= 0xd0 && m <= 0xd7):
			segs = append(segs, Segment{Type: markerName(m), Start: off})
			off += 2
		default:
			if off+4 > len(data) {
				return nil, ErrTruncated
			}
			n := int(binary.BigEndian.Uint16(data[off+2:]))
			if n < 2 || off+2+n > len(data) {
				return nil, ErrTruncated
			}
			segs = append(segs, Segment{Type: markerName(m), Start: off, Length: n})
			if m == 0xda {
				return segs, nil
			}
			off += 2 + n
		}
	}
	return segs, nil
}

func markerName(m byte) string {
	switch {
	case m == 0xc4:
		return "DHT"
	case m == 0xcc:
		return "DAC"
	case m >= 0xc0 && m <= 0xcf:
		return fmt.Sprintf("SOF%d", m-0xc0)
	case m >= 0xd0 && m <= 0xd7:
		return fmt.Sprintf("RST%d", m-0xd0)
	case m == 0x01:
		return "TEM"
	case m == 0xda:
		return "SOS"
	case m == 0xdb:
		return "DQT"
	case m == 0xdd:
		return "DRI"
	case m >= 0xe0 && m <= 0xef:
		return fmt.Sprintf("APP%d", m-0xe0)
	case m == 0xfe:
		return "COM"
	}
	return fmt.Sprintf("FF%02X", m)
}

// jpegSegEnd returns the first offset past a scanned JPEG segment.
func jpegSegEnd(s Segment) int {
	return s.Start + 2 + s.Length
}
