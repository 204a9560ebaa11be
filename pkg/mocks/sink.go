package mocks

import (
	"sync"

	"github.com/user/camintel/pkg/pipeline"
	"github.com/user/camintel/pkg/ports"
)

// SavedFrame records a call to FrameSink.SaveFrame.
type SavedFrame struct {
	VideoName string
	Record    pipeline.FrameRecord
	Image     []byte
	Ext       string
}

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu sync.Mutex

	Disabled      bool
	SaveFrameFunc func(videoName string, record pipeline.FrameRecord, image []byte, ext string) error

	Frames []SavedFrame
}

// NewFrameSink creates a new enabled mock FrameSink.
func NewFrameSink() *FrameSink {
	return &FrameSink{}
}

func (m *FrameSink) Enabled() bool {
	return !m.Disabled
}

func (m *FrameSink) SaveFrame(videoName string, record pipeline.FrameRecord, image []byte, ext string) error {
	if m.SaveFrameFunc != nil {
		if err := m.SaveFrameFunc(videoName, record, image, ext); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, SavedFrame{VideoName: videoName, Record: record, Image: image, Ext: ext})
	return nil
}

// FramesFor returns the frames saved for videoName, in save order.
func (m *FrameSink) FramesFor(videoName string) []SavedFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SavedFrame
	for _, f := range m.Frames {
		if f.VideoName == videoName {
			out = append(out, f)
		}
	}
	return out
}

var _ ports.FrameSink = (*FrameSink)(nil)
