package desktop

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/core/service"
)

var _ service.Encoder = JPEGEncoder{}

func TestNewJPEGEncoder(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultJPEGQuality},
		{-5, 1},
		{55, 55},
		{150, 100},
	}
	for _, tt := range tests {
		if got := NewJPEGEncoder(tt.in).Quality; got != tt.want {
			t.Errorf("NewJPEGEncoder(%d).Quality = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestJPEGEncoder_Encode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	data, err := NewJPEGEncoder(70).Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Fatal("output is not a JPEG stream")
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestJPEGEncoder_NilImage(t *testing.T) {
	if _, err := NewJPEGEncoder(70).Encode(nil); !errors.Is(err, domain.ErrEncodeFailed) {
		t.Errorf("Encode(nil) error = %v, want ErrEncodeFailed", err)
	}
}
