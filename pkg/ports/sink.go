package ports

import "github.com/user/camintel/pkg/pipeline"

// FrameSink persists sampled frames.
type FrameSink interface {
	// Enabled returns true if the sink writes anything.
	Enabled() bool

	// SaveFrame stores the encoded image and its metadata record for a frame of
	// the named video. The image is written before the record.
	SaveFrame(videoName string, record pipeline.FrameRecord, image []byte, ext string) error
}
