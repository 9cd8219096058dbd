package img

// Point is one of the three canonical injection points.
type Point int

const (
	Header Point = iota
	Body
	Trailer
)

var pointNames = [...]string{"header", "body", "trailer"}

func (p Point) String() string {
	if p < 0 || int(p) >= len(pointNames) {
		return "unknown"
	}
	return pointNames[p]
}

// Points lists all injection points in their fixed order.
func Points() []Point { return []Point{Header, Body, Trailer} }

// Insertion is a resolved injection point: the byte offset at which a payload
// is spliced in, plus the index of the segment whose declared length must grow
// by the payload size to stay self-consistent (-1 when no patch applies).
type Insertion struct {
	Off   int
	Patch int
}

// Resolve computes the insertion for one point. Resolution is deterministic;
// a missing anchor segment (IDAT, SOS, GIF trailer) degrades body to the
// trailer offset rather than failing.
func Resolve(im *Image, p Point) Insertion {
	if p == Trailer {
		// Strictly after the terminal marker; never patched.
		return Insertion{Off: len(im.Data), Patch: -1}
	}
	switch im.Format {
	case PNG:
		return resolvePNG(im, p)
	case JPEG:
		return resolveJPEG(im, p)
	case GIF:
		return resolveGIF(im, p)
	}
	return Insertion{Off: len(im.Data), Patch: -1}
}

func resolvePNG(im *Image, p Point) Insertion {
	if p == Header {
		// Inside the first chunk's data, right after the signature-adjacent
		// chunk header. Splicing there keeps the stream parseable as long as
		// the chunk's declared length is patched.
		if len(im.Segments) > 0 {
			return Insertion{Off: im.Segments[0].Start + 8, Patch: 0}
		}
		return Insertion{Off: pngSigLen, Patch: -1}
	}
	for i, s := range im.Segments {
		if s.Type == "IDAT" {
			return Insertion{Off: s.Start + 8, Patch: i}
		}
	}
	return Insertion{Off: len(im.Data), Patch: -1}
}

func resolveJPEG(im *Image, p Point) Insertion {
	if p == Header {
		// Between SOI and the first marker.
		return Insertion{Off: 2, Patch: -1}
	}
	for _, s := range im.Segments {
		if s.Type == "SOS" {
			return Insertion{Off: s.Start, Patch: -1}
		}
	}
	end := 2
	for _, s := range im.Segments {
		if e := jpegSegEnd(s); e > end {
			end = e
		}
	}
	return Insertion{Off: end, Patch: -1}
}

func resolveGIF(im *Image, p Point) Insertion {
	if p == Header {
		return Insertion{Off: gifLSDEnd, Patch: -1}
	}
	for _, s := range im.Segments {
		if s.Type == "TRL" {
			return Insertion{Off: s.Start, Patch: -1}
		}
	}
	return Insertion{Off: len(im.Data), Patch: -1}
}
