// Package sampler implements the frame sampling stage: it walks every decoded
// frame of one video and persists those that fall on the sampling interval.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/camintel/pkg/pipeline"
	"github.com/user/camintel/pkg/ports"
)

// DefaultIntervalSeconds is the spacing between kept frames when none is configured.
const DefaultIntervalSeconds = 1.0

var (
	// ErrOpenSource is returned when the decoder cannot open a video.
	ErrOpenSource = errors.New("sampler: could not open video")
	// ErrInvalidFrameRate is returned when a source reports a zero, negative or non-finite rate.
	ErrInvalidFrameRate = errors.New("sampler: invalid frame rate")
	// ErrInvalidInterval is returned for a zero, negative or non-finite sampling interval.
	ErrInvalidInterval = errors.New("sampler: invalid sampling interval")
)

// Input describes one video to sample. Output placement belongs to the sink.
type Input struct {
	VideoPath       string
	IntervalSeconds float64
}

// Result reports what was extracted from one video.
type Result struct {
	VideoPath      string
	VideoName      string
	Info           ports.StreamInfo
	IntervalFrames int
	FramesRead     int
	FramesWritten  int
	Records        []pipeline.FrameRecord
}

// Stage samples frames from a single video.
type Stage struct {
	decoder ports.VideoDecoder
	encoder ports.ImageEncoder
	sink    ports.FrameSink
	logger  ports.Logger
	now     func() time.Time
}

// NewStage creates a new sampler stage.
func NewStage(decoder ports.VideoDecoder, encoder ports.ImageEncoder, sink ports.FrameSink, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		encoder: encoder,
		sink:    sink,
		logger:  logger.WithComponent("sampler"),
		now:     time.Now,
	}
}

// WithClock replaces the wall clock used for processing timestamps.
func (s *Stage) WithClock(now func() time.Time) *Stage {
	s.now = now
	return s
}

// Execute decodes input.VideoPath and writes every sampled frame to the sink.
// The returned Result is populated up to the point of failure.
func (s *Stage) Execute(ctx context.Context, input Input) (Result, error) {
	result := Result{
		VideoPath: input.VideoPath,
		VideoName: VideoName(input.VideoPath),
	}

	if input.IntervalSeconds <= 0 || math.IsNaN(input.IntervalSeconds) || math.IsInf(input.IntervalSeconds, 0) {
		return result, fmt.Errorf("%w: %v", ErrInvalidInterval, input.IntervalSeconds)
	}

	s.logger.Info("Processing video: %s", input.VideoPath)

	source, err := s.decoder.Open(ctx, input.VideoPath)
	if err != nil {
		return result, fmt.Errorf("%w %s: %w", ErrOpenSource, input.VideoPath, err)
	}
	defer source.Close()

	info := source.Info()
	result.Info = info
	s.logger.Info("Video FPS: %.2f, Total frames: %d, Duration: %.2fs", info.FrameRate, info.FrameCount, duration(info))

	interval, err := IntervalFrames(info.FrameRate, input.IntervalSeconds)
	if err != nil {
		return result, err
	}
	if interval == 1 && info.FrameRate*input.IntervalSeconds < 1 {
		s.logger.Warn("Sampling interval of %.3fs is shorter than one frame at %.2f fps, keeping every frame", input.IntervalSeconds, info.FrameRate)
	}
	result.IntervalFrames = interval

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		img, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("decode frame %d: %w", index, err)
		}
		result.FramesRead++

		if !ShouldSample(index, interval) {
			continue
		}

		record := pipeline.NewFrameRecord(
			FrameID(result.FramesWritten+1),
			FormatTimestamp(index, info.FrameRate),
			index,
			s.now(),
		)

		if s.sink.Enabled() {
			data, err := s.encoder.Encode(img)
			if err != nil {
				return result, fmt.Errorf("encode %s: %w", record.FrameID, err)
			}
			if err := s.sink.SaveFrame(result.VideoName, record, data, s.encoder.Extension()); err != nil {
				return result, fmt.Errorf("save %s: %w", record.FrameID, err)
			}
		}

		s.logger.Debug("Saved frame %s at timestamp %s", record.FrameID, record.Timestamp)
		result.Records = append(result.Records, record)
		result.FramesWritten++
	}

	s.logger.Info("Extracted %d frames from %s", result.FramesWritten, input.VideoPath)
	return result, nil
}

// IntervalFrames converts a sampling interval in seconds into a frame step.
// A step that floors to zero is clamped to 1 so every frame is kept.
func IntervalFrames(rate, seconds float64) (int, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrameRate, rate)
	}
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInterval, seconds)
	}

	step := math.Floor(rate * seconds)
	if step < 1 {
		return 1, nil
	}
	if step > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	return int(step), nil
}

// ShouldSample reports whether the frame at index falls on the interval.
func ShouldSample(index, interval int) bool {
	if interval <= 1 {
		return true
	}
	return index%interval == 0
}

// FormatTimestamp formats the presentation time of index at rate as MM:SS,
// truncating any sub-second remainder. Minutes are not capped at 59.
func FormatTimestamp(index int, rate float64) string {
	if rate <= 0 {
		return "00:00"
	}
	whole := int64(float64(index) / rate)
	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}

// FrameID returns the identifier of the n-th sampled frame (1-based).
func FrameID(n int) string {
	return fmt.Sprintf("frame%d", n)
}

// VideoName returns the base name of a video path without its extension.
func VideoName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func duration(info ports.StreamInfo) float64 {
	if info.DurationSeconds > 0 {
		return info.DurationSeconds
	}
	if info.FrameRate > 0 {
		return float64(info.FrameCount) / info.FrameRate
	}
	return 0
}

var _ pipeline.Stage[Input, Result] = (*Stage)(nil)
