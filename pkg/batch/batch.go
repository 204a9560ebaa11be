// Package batch runs the frame sampler over every video in an input directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/camintel/pkg/pipeline"
	"github.com/user/camintel/pkg/ports"
	"github.com/user/camintel/pkg/sampler"
)

// DefaultExtensions are the video container extensions picked up from the input directory.
var DefaultExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

var (
	// ErrInputDir is returned when the input directory cannot be created or listed.
	ErrInputDir = errors.New("batch: input directory unavailable")
	// ErrOutputDir is returned when the output root cannot be created.
	ErrOutputDir = errors.New("batch: output directory unavailable")
)

// Config contains the batch settings.
type Config struct {
	InputDir        string
	OutputDir       string
	IntervalSeconds float64
	Extensions      []string
}

// FileResult is the outcome for a single video.
type FileResult struct {
	Path     string
	Result   sampler.Result
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the video was processed without error.
func (r FileResult) Succeeded() bool {
	return r.Err == nil
}

// Report aggregates the outcome of a batch run.
type Report struct {
	InputDir      string
	OutputDir     string
	Files         []FileResult
	Succeeded     int
	Failed        int
	FramesWritten int
	StartedAt     time.Time
	Duration      time.Duration
}

// Driver processes every video in the input directory in name order.
type Driver struct {
	sampler pipeline.Stage[sampler.Input, sampler.Result]
	fs      ports.FileSystem
	logger  ports.Logger
	now     func() time.Time
}

// New creates a new Driver.
func New(stage pipeline.Stage[sampler.Input, sampler.Result], fs ports.FileSystem, logger ports.Logger) *Driver {
	return &Driver{
		sampler: stage,
		fs:      fs,
		logger:  logger.WithComponent("batch"),
		now:     time.Now,
	}
}

// Run prepares the directories, discovers videos and samples each one.
// Per-file failures are recorded in the report; only directory setup errors
// and context cancellation are returned.
func (d *Driver) Run(ctx context.Context, cfg Config) (Report, error) {
	started := d.now()
	report := Report{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		StartedAt: started,
	}

	if err := d.fs.MkdirAll(cfg.InputDir); err != nil {
		return report, fmt.Errorf("%w: %w", ErrInputDir, err)
	}
	if err := d.fs.MkdirAll(cfg.OutputDir); err != nil {
		return report, fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	files, err := Discover(d.fs, cfg.InputDir, cfg.Extensions)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrInputDir, err)
	}

	if len(files) == 0 {
		d.logger.Warn("No video files found in %s", cfg.InputDir)
		report.Duration = d.now().Sub(started)
		return report, nil
	}
	d.logger.Info("Found %d video file(s) to process", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			report.Duration = d.now().Sub(started)
			return report, err
		}

		fileStart := d.now()
		result, err := d.sampler.Execute(ctx, sampler.Input{
			VideoPath:       path,
			IntervalSeconds: cfg.IntervalSeconds,
		})
		fr := FileResult{
			Path:     path,
			Result:   result,
			Err:      err,
			Duration: d.now().Sub(fileStart),
		}
		report.Files = append(report.Files, fr)
		report.FramesWritten += result.FramesWritten

		if err != nil {
			report.Failed++
			if ctxErr := ctx.Err(); ctxErr != nil {
				report.Duration = d.now().Sub(started)
				return report, ctxErr
			}
			d.logger.Error("Error processing video %s: %v", path, err)
			continue
		}
		report.Succeeded++
	}

	report.Duration = d.now().Sub(started)
	d.logger.Info("Batch completed: %d succeeded, %d failed, %d frames written",
		report.Succeeded, report.Failed, report.FramesWritten)
	return report, nil
}

// Discover lists the files directly inside dir whose extension matches one of
// extensions, compared case-insensitively. The result is sorted by name.
func Discover(fs ports.FileSystem, dir string, extensions []string) ([]string, error) {
	names, err := fs.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = true
	}

	var files []string
	for _, name := range names {
		if wanted[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}
