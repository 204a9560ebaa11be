// Package jpegencoder provides a ports.ImageEncoder writing baseline JPEG.
package jpegencoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/user/camintel/pkg/ports"
)

// Encoder encodes frames as JPEG.
type Encoder struct {
	quality int
}

// New creates an encoder using the codec's default quality.
func New() *Encoder {
	return &Encoder{quality: jpeg.DefaultQuality}
}

// Encode encodes img as JPEG.
func (e *Encoder) Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode JPEG: nil image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns "jpg".
func (e *Encoder) Extension() string {
	return "jpg"
}

// Ensure Encoder implements ports.ImageEncoder
var _ ports.ImageEncoder = (*Encoder)(nil)
