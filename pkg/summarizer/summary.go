// Package summarizer turns a batch report into a human or machine readable summary.
package summarizer

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/user/camintel/pkg/batch"
	"github.com/user/camintel/pkg/sampler"
)

// Summary contains everything reported about one batch run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	Settings Settings       `json:"settings"`
	Totals   Totals         `json:"totals"`
	Videos   []VideoSummary `json:"videos"`
}

// Settings contains the sampling configuration of the run.
type Settings struct {
	IntervalSeconds float64  `json:"interval_seconds"`
	Extensions      []string `json:"extensions"`
	DryRun          bool     `json:"dry_run"`
}

// Totals aggregates the per-video outcomes.
type Totals struct {
	Videos        int   `json:"videos"`
	Succeeded     int   `json:"succeeded"`
	Failed        int   `json:"failed"`
	FramesWritten int   `json:"frames_written"`
	DurationMs    int64 `json:"duration_ms"`
}

// VideoSummary is the outcome for a single video.
type VideoSummary struct {
	Name           string  `json:"name"`
	Path           string  `json:"path"`
	Codec          string  `json:"codec,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	FrameRate      float64 `json:"frame_rate,omitempty"`
	IntervalFrames int     `json:"interval_frames,omitempty"`
	FramesRead     int     `json:"frames_read"`
	FramesWritten  int     `json:"frames_written"`
	DurationMs     int64   `json:"duration_ms"`
	Error          string  `json:"error,omitempty"`
}

// Succeeded reports whether the video was processed without error.
func (v VideoSummary) Succeeded() bool {
	return v.Error == ""
}

// NewSummary creates a new Summary with a fresh run ID and the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID overrides the generated run ID.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithGeneratedAt overrides the generation time.
func (b *Builder) WithGeneratedAt(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// WithSettings sets the sampling configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithReport copies directories, totals and per-video outcomes from a batch report.
func (b *Builder) WithReport(report batch.Report) *Builder {
	b.summary.InputDir = report.InputDir
	b.summary.OutputDir = report.OutputDir
	b.summary.Totals = Totals{
		Videos:        len(report.Files),
		Succeeded:     report.Succeeded,
		Failed:        report.Failed,
		FramesWritten: report.FramesWritten,
		DurationMs:    report.Duration.Milliseconds(),
	}

	b.summary.Videos = make([]VideoSummary, 0, len(report.Files))
	for _, f := range report.Files {
		b.summary.Videos = append(b.summary.Videos, videoSummary(f))
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

func videoSummary(f batch.FileResult) VideoSummary {
	name := f.Result.VideoName
	if name == "" {
		name = sampler.VideoName(f.Path)
	}
	v := VideoSummary{
		Name:           name,
		Path:           filepath.ToSlash(f.Path),
		Codec:          f.Result.Info.Codec,
		Width:          f.Result.Info.Width,
		Height:         f.Result.Info.Height,
		FrameRate:      f.Result.Info.FrameRate,
		IntervalFrames: f.Result.IntervalFrames,
		FramesRead:     f.Result.FramesRead,
		FramesWritten:  f.Result.FramesWritten,
		DurationMs:     f.Duration.Milliseconds(),
	}
	if f.Err != nil {
		v.Error = f.Err.Error()
	}
	return v
}
