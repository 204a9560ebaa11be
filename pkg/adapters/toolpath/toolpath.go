// Package toolpath locates external media tools such as ffmpeg and ffprobe.
package toolpath

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrNotFound is returned when a tool cannot be located.
var ErrNotFound = errors.New("toolpath: executable not found")

// Tool identifies an executable and the environment variable overriding its location.
type Tool struct {
	Name   string // e.g. "ffmpeg"
	EnvVar string // e.g. "FFMPEG_PATH"
}

var (
	// FFmpeg is the ffmpeg binary.
	FFmpeg = Tool{Name: "ffmpeg", EnvVar: "FFMPEG_PATH"}
	// FFprobe is the ffprobe binary.
	FFprobe = Tool{Name: "ffprobe", EnvVar: "FFPROBE_PATH"}
)

// Find searches for the tool.
// Priority: 1) custom path, 2) the tool's environment variable, 3) PATH, 4) common locations
func Find(tool Tool, custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s for %s", ErrNotFound, custom, tool.Name)
	}

	if tool.EnvVar != "" {
		if envPath := os.Getenv(tool.EnvVar); envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				return envPath, nil
			}
			return "", fmt.Errorf("%w: %s=%s", ErrNotFound, tool.EnvVar, envPath)
		}
	}

	execName := tool.Name
	if runtime.GOOS == "windows" {
		execName += ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths(execName) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, tool.Name)
}

// Available reports whether the tool can be located without a custom path.
func Available(tool Tool) bool {
	_, err := Find(tool, "")
	return err == nil
}

func commonPaths(execName string) []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\` + execName,
			`C:\Program Files\ffmpeg\bin\` + execName,
			`C:\Program Files (x86)\ffmpeg\bin\` + execName,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/" + execName,
			"/usr/local/bin/" + execName,
			"/usr/bin/" + execName,
		}
	default:
		return []string{
			"/usr/bin/" + execName,
			"/usr/local/bin/" + execName,
			"/snap/bin/" + execName,
		}
	}
}
