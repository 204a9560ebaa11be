package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/user/camintel/pkg/config"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cli
}

func TestBuildConfig_Defaults(t *testing.T) {
	cli := parse(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := cli.buildConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InputDir != "input" || cfg.OutputDir != "output" || cfg.IntervalSeconds != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.DryRun || cfg.SummaryPath != "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestBuildConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camintel.yaml")
	if err := os.WriteFile(path, []byte("input: from-file\noutput: out-file\ninterval: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := parse(t,
		"--config", path,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--output", "frames",
		"--interval", "0.5",
		"--debug",
		"--dry-run",
		"--summary", "report.md",
	)

	cfg, err := cli.buildConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InputDir != "from-file" {
		t.Errorf("expected file value for input, got %q", cfg.InputDir)
	}
	if cfg.OutputDir != "frames" || cfg.IntervalSeconds != 0.5 {
		t.Errorf("expected flag overrides, got %+v", cfg)
	}
	if cfg.LogLevel != "debug" || !cfg.DryRun || cfg.SummaryPath != "report.md" {
		t.Errorf("expected flag overrides, got %+v", cfg)
	}
}

func TestBuildConfig_RejectsBadInterval(t *testing.T) {
	cli := parse(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--interval", "0")

	if _, err := cli.buildConfig(); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestBuildConfig_RejectsBadLogLevel(t *testing.T) {
	cli := parse(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--log-level", "loud")

	if _, err := cli.buildConfig(); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestBuildConfig_ToolPaths(t *testing.T) {
	cli := parse(t,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--ffmpeg-path", "/opt/ffmpeg/bin/ffmpeg",
		"--ffprobe-path", "/opt/ffmpeg/bin/ffprobe",
	)

	cfg, err := cli.buildConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" || cfg.FFprobePath != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("unexpected tool paths %q %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
}
