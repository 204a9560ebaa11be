// Package nullsink provides a frame sink that discards everything, used for dry runs.
package nullsink

import (
	"github.com/user/camintel/pkg/pipeline"
	"github.com/user/camintel/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false so callers can skip image encoding.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(videoName string, record pipeline.FrameRecord, image []byte, ext string) error {
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
