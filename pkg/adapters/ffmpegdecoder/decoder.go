// Package ffmpegdecoder decodes video files frame by frame through an ffmpeg subprocess.
//
// ffmpeg writes every decoded frame to stdout as a 24-bit BMP image. BMP carries its own
// dimensions and has no compression, so frames can be split off the pipe one after another
// without a side channel.
package ffmpegdecoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/image/bmp"

	"github.com/user/camintel/pkg/adapters/toolpath"
	"github.com/user/camintel/pkg/ports"
)

var (
	// ErrDecodeFailed is returned when a frame cannot be read from the ffmpeg pipe.
	ErrDecodeFailed = errors.New("ffmpegdecoder: decode failed")
	// ErrProcessFailed is returned when ffmpeg exits with a non-zero status.
	ErrProcessFailed = errors.New("ffmpegdecoder: ffmpeg failed")
)

// pipeBufferSize holds a full 1080p bgr24 frame.
const pipeBufferSize = 8 << 20

// Decoder implements ports.VideoDecoder using ffmpeg.
type Decoder struct {
	prober     ports.StreamProber
	customPath string
}

// New creates a decoder. The prober supplies stream metadata on Open;
// an empty ffmpegPath searches the usual locations.
func New(prober ports.StreamProber, ffmpegPath string) *Decoder {
	return &Decoder{prober: prober, customPath: ffmpegPath}
}

// Args returns the ffmpeg arguments used to stream the first video track of path.
func Args(path string) []string {
	return []string{
		"-nostdin",
		"-loglevel", "error",
		"-i", path,
		"-map", "0:v:0",
		"-vsync", "0",
		"-an", "-sn",
		"-f", "image2pipe",
		"-c:v", "bmp",
		"-pix_fmt", "bgr24",
		"-",
	}
}

// Open probes path and starts ffmpeg. The returned source must be closed.
func (d *Decoder) Open(ctx context.Context, path string) (ports.FrameSource, error) {
	info, err := d.prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	bin, err := toolpath.Find(toolpath.FFmpeg, d.customPath)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, Args(path)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	wait := func() error {
		if err := cmd.Wait(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return fmt.Errorf("%w: %w", ErrProcessFailed, err)
			}
			return fmt.Errorf("%w: %w: %s", ErrProcessFailed, err, msg)
		}
		return nil
	}
	kill := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}

	return newStream(info, stdout, wait, kill), nil
}

// stream reads consecutive BMP images from r.
type stream struct {
	info ports.StreamInfo
	r    *bufio.Reader

	wait func() error
	kill func()

	mu      sync.Mutex
	index   int
	done    bool
	doneErr error
	closed  bool
}

func newStream(info ports.StreamInfo, r io.Reader, wait func() error, kill func()) *stream {
	return &stream{
		info: info,
		r:    bufio.NewReaderSize(r, pipeBufferSize),
		wait: wait,
		kill: kill,
	}
}

func (s *stream) Info() ports.StreamInfo {
	return s.info
}

// Next returns the next frame, io.EOF after the last one, or the process error
// if ffmpeg exited abnormally.
func (s *stream) Next() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		if s.doneErr != nil {
			return nil, s.doneErr
		}
		return nil, io.EOF
	}

	if _, err := s.r.Peek(1); err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, s.finish(fmt.Errorf("%w: frame %d: %w", ErrDecodeFailed, s.index, err))
		}
		if err := s.finish(nil); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	img, err := bmp.Decode(s.r)
	if err != nil {
		return nil, s.finish(fmt.Errorf("%w: frame %d: %w", ErrDecodeFailed, s.index, err))
	}
	s.index++
	return img, nil
}

// finish reaps the process. cause, when set, wins over the exit status.
func (s *stream) finish(cause error) error {
	s.done = true
	if cause != nil && s.kill != nil {
		s.kill()
	}
	if s.wait != nil {
		if err := s.wait(); err != nil && cause == nil {
			cause = err
		}
	}
	s.doneErr = cause
	return cause
}

// Close stops ffmpeg if it is still running.
func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.done {
		return nil
	}
	if s.kill != nil {
		s.kill()
	}
	s.done = true
	if s.wait != nil {
		_ = s.wait()
	}
	return nil
}

var _ ports.VideoDecoder = (*Decoder)(nil)
var _ ports.FrameSource = (*stream)(nil)
