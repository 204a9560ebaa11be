package mocks

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/user/camintel/pkg/ports"
)

// FrameSource is a synthetic ports.FrameSource producing solid frames.
type FrameSource struct {
	StreamInfo ports.StreamInfo

	// Frames is the number of frames delivered before io.EOF,
	// independent of StreamInfo.FrameCount.
	Frames int

	// FailAt makes Next return ReadErr at that index when ReadErr is set.
	FailAt  int
	ReadErr error

	next   int
	closed int
}

// NewFrameSource creates a source that reports and delivers exactly frames frames at rate.
func NewFrameSource(rate float64, frames int) *FrameSource {
	return &FrameSource{
		StreamInfo: ports.StreamInfo{
			Codec:      "synthetic",
			Width:      16,
			Height:     9,
			FrameRate:  rate,
			FrameCount: frames,
		},
		Frames: frames,
	}
}

func (s *FrameSource) Info() ports.StreamInfo {
	return s.StreamInfo
}

func (s *FrameSource) Next() (image.Image, error) {
	if s.ReadErr != nil && s.next == s.FailAt {
		return nil, s.ReadErr
	}
	if s.next >= s.Frames {
		return nil, io.EOF
	}
	s.next++
	return image.NewRGBA(image.Rect(0, 0, s.StreamInfo.Width, s.StreamInfo.Height)), nil
}

func (s *FrameSource) Close() error {
	s.closed++
	return nil
}

// Closed reports how many times Close was called.
func (s *FrameSource) Closed() int {
	return s.closed
}

// Delivered reports how many frames have been returned.
func (s *FrameSource) Delivered() int {
	return s.next
}

// VideoDecoder is a mock implementation of ports.VideoDecoder keyed by path.
type VideoDecoder struct {
	mu      sync.Mutex
	sources map[string]*FrameSource

	OpenFunc func(ctx context.Context, path string) (ports.FrameSource, error)

	Opened []string
}

// NewVideoDecoder creates a new mock VideoDecoder.
func NewVideoDecoder() *VideoDecoder {
	return &VideoDecoder{sources: make(map[string]*FrameSource)}
}

// Add registers a source for path.
func (m *VideoDecoder) Add(path string, source *FrameSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[path] = source
}

// Source returns the source registered for path.
func (m *VideoDecoder) Source(path string) *FrameSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources[path]
}

func (m *VideoDecoder) Open(ctx context.Context, path string) (ports.FrameSource, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, path)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.sources[path]
	if !ok {
		return nil, fmt.Errorf("cannot decode %s", path)
	}
	return source, nil
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)
var _ ports.FrameSource = (*FrameSource)(nil)

// StreamProber is a mock implementation of ports.StreamProber.
type StreamProber struct {
	ProbeFunc func(ctx context.Context, path string) (ports.StreamInfo, error)

	Probed []string
}

func (m *StreamProber) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	m.Probed = append(m.Probed, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return ports.StreamInfo{FrameRate: 30, FrameCount: 300, Width: 16, Height: 9}, nil
}

var _ ports.StreamProber = (*StreamProber)(nil)
