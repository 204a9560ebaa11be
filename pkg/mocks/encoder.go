package mocks

import (
	"image"

	"github.com/user/camintel/pkg/ports"
)

// ImageEncoder is a mock implementation of ports.ImageEncoder.
type ImageEncoder struct {
	EncodeFunc func(img image.Image) ([]byte, error)

	// Recorded calls for verification
	EncodeCalls int
}

func (m *ImageEncoder) Encode(img image.Image) ([]byte, error) {
	m.EncodeCalls++
	if m.EncodeFunc != nil {
		return m.EncodeFunc(img)
	}
	// Minimal JPEG SOI/EOI markers
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

func (m *ImageEncoder) Extension() string {
	return "jpg"
}

var _ ports.ImageEncoder = (*ImageEncoder)(nil)
