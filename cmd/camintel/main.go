// Package main provides the CLI entry point for camintel.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/camintel/pkg/adapters/ffmpegdecoder"
	"github.com/user/camintel/pkg/adapters/ffprobe"
	"github.com/user/camintel/pkg/adapters/filesink"
	"github.com/user/camintel/pkg/adapters/jpegencoder"
	"github.com/user/camintel/pkg/adapters/logger"
	"github.com/user/camintel/pkg/adapters/mp4probe"
	"github.com/user/camintel/pkg/adapters/nullsink"
	"github.com/user/camintel/pkg/adapters/osfilesystem"
	"github.com/user/camintel/pkg/adapters/smartprobe"
	"github.com/user/camintel/pkg/adapters/toolpath"
	"github.com/user/camintel/pkg/batch"
	"github.com/user/camintel/pkg/config"
	"github.com/user/camintel/pkg/ports"
	"github.com/user/camintel/pkg/sampler"
	"github.com/user/camintel/pkg/summarizer"
)

// CLI defines the command-line interface. Pointer fields override the
// configuration file and environment only when given.
type CLI struct {
	// Input/Output
	Input  *string `short:"i" help:"Directory containing input videos (default: input)."`
	Output *string `short:"o" help:"Directory for extracted frames (default: output)."`

	// Sampling
	Interval *float64 `short:"n" help:"Seconds between extracted frames (default: 1)."`

	// Configuration sources
	Config  string `short:"c" help:"YAML configuration file."`
	EnvFile string `default:".env" help:"Dotenv file with CAMINTEL_* settings (ignored when missing)."`

	// External tools
	FFmpegPath  *string `name:"ffmpeg-path" help:"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)."`
	FFprobePath *string `name:"ffprobe-path" help:"Path to ffprobe executable (falls back to FFPROBE_PATH env, then PATH)."`

	// Run mode
	DryRun  bool    `help:"Decode and count frames without writing output."`
	Summary *string `help:"Write a batch summary to file (.md for Markdown, JSON otherwise)."`

	// Logging options
	Debug    bool    `short:"d" help:"Enable verbose logging (same as --log-level debug)."`
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`

	Version kong.VersionFlag `help:"Show version information."`
}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("camintel"),
		kong.Description(l10n.T("Extract frames from videos at fixed intervals for downstream annotation.")),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("camintel version %s", version)},
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes a batch extraction.
func (cli *CLI) Run() error {
	cfg, err := cli.buildConfig()
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if cli.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(cfg.Level())
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if path, err := toolpath.Find(toolpath.FFmpeg, cfg.FFmpegPath); err != nil {
		log.Warn("ffmpeg not found, videos cannot be decoded: %v", err)
	} else {
		log.Debug("Using ffmpeg at %s", path)
	}

	// Create adapters
	fs := osfilesystem.New()
	prober := smartprobe.New(mp4probe.New(), ffprobe.New(cfg.FFprobePath), log)
	decoder := ffmpegdecoder.New(prober, cfg.FFmpegPath)
	encoder := jpegencoder.New()

	var sink ports.FrameSink
	if cfg.DryRun {
		log.Info("Dry run: frames are decoded and counted but not written")
		sink = nullsink.New()
	} else {
		sink = filesink.New(cfg.OutputDir, fs)
	}

	stage := sampler.NewStage(decoder, encoder, sink, log)
	driver := batch.New(stage, fs, log)

	log.Info("Extracting frames from %s to %s every %gs", cfg.InputDir, cfg.OutputDir, cfg.IntervalSeconds)
	report, err := driver.Run(ctx, cfg.ToBatchConfig())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted after %d video(s)", len(report.Files))
		}
		return err
	}

	if cfg.SummaryPath != "" {
		writeSummary(cfg, report, fs, log)
	}
	return nil
}

// buildConfig layers Defaults, the YAML file, the environment and CLI overrides.
func (cli *CLI) buildConfig() (config.Config, error) {
	cfg, err := config.Load(cli.Config, cli.EnvFile)
	if err != nil {
		return cfg, err
	}

	if cli.Input != nil {
		cfg.InputDir = *cli.Input
	}
	if cli.Output != nil {
		cfg.OutputDir = *cli.Output
	}
	if cli.Interval != nil {
		cfg.IntervalSeconds = *cli.Interval
	}
	if cli.FFmpegPath != nil {
		cfg.FFmpegPath = *cli.FFmpegPath
	}
	if cli.FFprobePath != nil {
		cfg.FFprobePath = *cli.FFprobePath
	}
	if cli.LogLevel != nil {
		cfg.LogLevel = *cli.LogLevel
	}
	if cli.Debug {
		cfg.LogLevel = "debug"
	}
	if cli.DryRun {
		cfg.DryRun = true
	}
	if cli.Summary != nil {
		cfg.SummaryPath = *cli.Summary
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func writeSummary(cfg config.Config, report batch.Report, fs ports.FileSystem, log ports.Logger) {
	summary := summarizer.NewBuilder().
		WithSettings(summarizer.Settings{
			IntervalSeconds: cfg.IntervalSeconds,
			Extensions:      cfg.Extensions,
			DryRun:          cfg.DryRun,
		}).
		WithReport(report).
		Build()

	writer := summarizer.NewWriter(summarizer.ForPath(cfg.SummaryPath), fs)
	if err := writer.Write(cfg.SummaryPath, summary); err != nil {
		log.Error("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary saved to %s", cfg.SummaryPath)
}
