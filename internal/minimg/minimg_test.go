package minimg_test

import (
	"testing"

	"loadimg/internal/img"
	"loadimg/internal/minimg"
)

func TestTemplatesParse(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want img.Format
	}{
		{"png", minimg.PNG(), img.PNG},
		{"jpeg", minimg.JPEG(), img.JPEG},
		{"gif", minimg.GIF(), img.GIF},
	}
	for _, tt := range tests {
		im, err := img.Parse(tt.data)
		if err != nil {
			t.Fatalf("%v: Parse: %v", tt.name, err)
		}
		if im.Format != tt.want {
			t.Fatalf("%v: format = %v, want %v", tt.name, im.Format, tt.want)
		}
	}
}

func TestPNGSize(t *testing.T) {
	if n := len(minimg.PNG()); n != 67 {
		t.Fatalf("minimal png is %v bytes, want 67", n)
	}
}
