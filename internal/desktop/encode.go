package desktop

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// DefaultJPEGQuality is the frame quality used when none is configured.
const DefaultJPEGQuality = 70

// JPEGEncoder encodes frames as baseline JPEG.
type JPEGEncoder struct {
	Quality int
}

// NewJPEGEncoder clamps quality to 1..100; zero selects DefaultJPEGQuality.
func NewJPEGEncoder(quality int) JPEGEncoder {
	switch {
	case quality == 0:
		quality = DefaultJPEGQuality
	case quality < 1:
		quality = 1
	case quality > 100:
		quality = 100
	}
	return JPEGEncoder{Quality: quality}
}

// Encode compresses img.
func (e JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, domain.ErrEncodeFailed.WithDetails("nil image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.Quality}); err != nil {
		return nil, domain.ErrEncodeFailed.WithCause(err)
	}
	return buf.Bytes(), nil
}
