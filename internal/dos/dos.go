// Package dos synthesizes deliberately pathological images: containers whose
// decode-time or allocation behavior is far out of proportion to their file
// size. Each generator is a pure function from a template image to artifact
// bytes; generators share no state and may run concurrently.
package dos

import (
	"loadimg/internal/img"
	"loadimg/internal/minimg"
)

// Options tunes the generators. Zero values are replaced by Defaults.
type Options struct {
	FloodWidth  uint32 `yaml:"flood_width"`
	FloodHeight uint32 `yaml:"flood_height"`
	BombWidth   uint32 `yaml:"bomb_width"`
	BombHeight  uint32 `yaml:"bomb_height"`
	BombRaw     int    `yaml:"bomb_raw"` // zero bytes fed to the compressor
	TextFill    int    `yaml:"text_fill"`
	CommentLen  int    `yaml:"comment_len"`
	ProfileSize int    `yaml:"profile_size"`
}

// Defaults mirror the reference corpus sizes: large enough to hurt a naive
// decoder, small enough to generate quickly.
func Defaults() Options {
	return Options{
		FloodWidth:  10000,
		FloodHeight: 10000,
		BombWidth:   10000,
		BombHeight:  10000,
		BombRaw:     1 << 20,
		TextFill:    64 << 10,
		CommentLen:  10000,
		ProfileSize: 100 << 10,
	}
}

func (o Options) withDefaults() Options {
	d := Defaults()
	if o.FloodWidth == 0 {
		o.FloodWidth = d.FloodWidth
	}
	if o.FloodHeight == 0 {
		o.FloodHeight = d.FloodHeight
	}
	if o.BombWidth == 0 {
		o.BombWidth = d.BombWidth
	}
	if o.BombHeight == 0 {
		o.BombHeight = d.BombHeight
	}
	if o.BombRaw == 0 {
		o.BombRaw = d.BombRaw
	}
	if o.TextFill == 0 {
		o.TextFill = d.TextFill
	}
	if o.CommentLen == 0 {
		o.CommentLen = d.CommentLen
	}
	if o.ProfileSize == 0 {
		o.ProfileSize = d.ProfileSize
	}
	return o
}

// GenFunc produces one artifact from a template. The template supplies
// format-appropriate scaffolding; a generator whose native format differs
// falls back to a built-in minimal template, so every generator runs for
// every input image.
type GenFunc func(t *img.Image, o Options) ([]byte, error)

// Generator is one DoS variant.
type Generator struct {
	Tag string // output name tag
	Ext string // output extension
	Gen GenFunc
}

// Generators returns the fixed, ordered set of DoS variants.
func Generators() []Generator {
	return []Generator{
		{Tag: "pixel_flood", Ext: ".png", Gen: pixelFlood},
		{Tag: "long_body", Ext: ".png", Gen: longBodyPNG},
		{Tag: "long_comment", Ext: ".jpg", Gen: longComment},
		{Tag: "bomb", Ext: ".png", Gen: bomb},
		{Tag: "iccp", Ext: ".png", Gen: colorProfile},
	}
}

func pngTemplate(t *img.Image) (*img.Image, error) {
	if t != nil && t.Format == img.PNG {
		return t, nil
	}
	return img.Parse(minimg.PNG())
}

func jpegTemplate(t *img.Image) (*img.Image, error) {
	if t != nil && t.Format == img.JPEG {
		return t, nil
	}
	return img.Parse(minimg.JPEG())
}
