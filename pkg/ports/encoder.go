package ports

import (
	"image"
)

// ImageEncoder abstracts still image encoding.
type ImageEncoder interface {
	// Encode encodes img and returns the encoded bytes.
	Encode(img image.Image) ([]byte, error)

	// Extension returns the file extension for encoded images, without the dot.
	Extension() string
}
