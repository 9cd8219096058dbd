package img

// gifLSDEnd is the first offset past the logical screen descriptor.
const gifLSDEnd = 13

// parseGIF walks the coarse block structure: header, logical screen
// descriptor, optional global color table, the raw data region and the 0x3B
// trailer. Injection only targets the header and trailer regions for GIF, so
// sub-block parsing of image data is not needed.
func parseGIF(data []byte) ([]Segment, error) {
	if len(data) < gifLSDEnd {
		return nil, ErrTruncated
	}
	segs := []Segment{
		{Type: "HDR", Start: 0, Length: 6},
		{Type: "LSD", Start: 6, Length: 7},
	}
	off := gifLSDEnd
	if flags := data[10]; flags&0x80 != 0 {
		n := 3 * (2 << (flags & 0x07))
		if off+n > len(data) {
			return nil, ErrTruncated
		}
		segs = append(segs, Segment{Type: "GCT", Start: off, Length: n})
		off += n
	}
	if off >= len(data) {
		return segs, nil
	}
	if data[len(data)-1] == 0x3b {
		if trl := len(data) - 1; trl > off {
			segs = append(segs, Segment{Type: "DATA", Start: off, Length: trl - off})
			segs = append(segs, Segment{Type: "TRL", Start: trl})
		} else {
			segs = append(segs, Segment{Type: "TRL", Start: trl})
		}
		return segs, nil
	}
	// No trailer byte. Degenerate but not fatal; the resolver falls back.
	segs = append(segs, Segment{Type: "DATA", Start: off, Length: len(data) - off})
	return segs, nil
}
