// Package ffprobe reads video stream metadata with the ffprobe CLI.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/camintel/pkg/adapters/toolpath"
	"github.com/user/camintel/pkg/ports"
)

var (
	// ErrNoVideoStream is returned when the file has no video stream.
	ErrNoVideoStream = errors.New("ffprobe: no video stream found")
	// ErrProbeFailed is returned when ffprobe exits with an error.
	ErrProbeFailed = errors.New("ffprobe: probe failed")
)

// Prober implements ports.StreamProber using ffprobe.
type Prober struct {
	customPath string
}

// New creates a prober. An empty path searches the usual locations.
func New(ffprobePath string) *Prober {
	return &Prober{customPath: ffprobePath}
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// Probe runs ffprobe on the first video stream of path.
func (p *Prober) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	bin, err := toolpath.Find(toolpath.FFprobe, p.customPath)
	if err != nil {
		return ports.StreamInfo{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,avg_frame_rate,r_frame_rate,nb_frames,duration",
		"-of", "json",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("%w: %v: %s", ErrProbeFailed, err, strings.TrimSpace(stderr.String()))
	}

	return ParseOutput(stdout.Bytes())
}

// ParseOutput converts ffprobe JSON output into StreamInfo.
func ParseOutput(data []byte) (ports.StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ports.StreamInfo{}, ErrNoVideoStream
	}

	s := out.Streams[0]
	info := ports.StreamInfo{
		Codec:  s.CodecName,
		Width:  s.Width,
		Height: s.Height,
	}

	// avg_frame_rate matches what players report; r_frame_rate is the container's base rate
	rate, err := ParseRate(s.AvgFrameRate)
	if err != nil || rate == 0 {
		rate, _ = ParseRate(s.RFrameRate)
	}
	info.FrameRate = rate

	if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 {
		info.DurationSeconds = d
	}

	if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
		info.FrameCount = n
	} else if info.DurationSeconds > 0 && info.FrameRate > 0 {
		info.FrameCount = int(math.Round(info.DurationSeconds * info.FrameRate))
	}

	return info, nil
}

// ParseRate parses an ffprobe rate such as "30", "30000/1001" or "0/0".
// A zero denominator yields 0 without error, meaning unknown.
func ParseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}

	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	if !found {
		return n, nil
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

var _ ports.StreamProber = (*Prober)(nil)
