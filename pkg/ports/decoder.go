package ports

import (
	"context"
	"image"
)

// StreamInfo describes the video stream of a source as reported by a prober.
type StreamInfo struct {
	Codec           string
	Width           int
	Height          int
	FrameRate       float64 // Frames per second; 0 when unknown
	FrameCount      int     // Reported total; may differ from what the decoder delivers
	DurationSeconds float64
}

// FrameSource is an opened video stream yielding decoded frames in order.
type FrameSource interface {
	// Info returns the stream properties reported when the source was opened.
	Info() StreamInfo

	// Next decodes the next frame. It returns io.EOF once the stream is exhausted.
	Next() (image.Image, error)

	// Close releases the source. It is safe to call more than once.
	Close() error
}

// VideoDecoder opens video files for frame-by-frame decoding.
type VideoDecoder interface {
	// Open opens the video at path. No FrameSource is returned on error.
	Open(ctx context.Context, path string) (FrameSource, error)
}

// StreamProber reads stream metadata without decoding frames.
type StreamProber interface {
	Probe(ctx context.Context, path string) (StreamInfo, error)
}
