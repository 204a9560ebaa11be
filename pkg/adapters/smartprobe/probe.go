// Package smartprobe picks the cheapest metadata source for a video file:
// in-process MP4 box parsing when the container allows it, ffprobe otherwise.
// The container is sniffed from the file header; the extension decides only
// when the header cannot be read.
package smartprobe

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/user/camintel/pkg/adapters/codecdetect"
	"github.com/user/camintel/pkg/ports"
)

// Backend names the prober that produced a result.
type Backend string

const (
	// BackendMP4 is the mp4ff box parser.
	BackendMP4 Backend = "mp4"
	// BackendFFprobe is the ffprobe CLI.
	BackendFFprobe Backend = "ffprobe"
)

// isoExtensions are the extensions handled by the box parser when sniffing fails.
var isoExtensions = map[string]bool{
	".mp4": true,
	".m4v": true,
	".mov": true,
}

// Prober implements ports.StreamProber by delegating to a box parser and ffprobe.
type Prober struct {
	box     ports.StreamProber
	ffprobe ports.StreamProber
	logger  ports.Logger
	detect  func(path string) (codecdetect.Container, error)
}

// New creates a prober. box handles ISO BMFF files; fallback handles everything else
// and any file the box parser rejects.
func New(box, fallback ports.StreamProber, logger ports.Logger) *Prober {
	return &Prober{
		box:     box,
		ffprobe: fallback,
		logger:  logger.WithComponent("probe"),
		detect:  codecdetect.DetectFile,
	}
}

// Probe returns stream metadata for path.
func (p *Prober) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	info, _, err := p.ProbeWithBackend(ctx, path)
	return info, err
}

// ProbeWithBackend is Probe that also reports which backend answered.
func (p *Prober) ProbeWithBackend(ctx context.Context, path string) (ports.StreamInfo, Backend, error) {
	if p.useBoxParser(path) {
		info, err := p.box.Probe(ctx, path)
		if err == nil && info.FrameRate > 0 {
			p.logger.Debug("Probed %s from mp4 boxes: %s %dx%d", path, info.Codec, info.Width, info.Height)
			return info, BackendMP4, nil
		}
		if err != nil {
			p.logger.Debug("MP4 box probe failed for %s, falling back to ffprobe: %v", path, err)
		}
	}

	info, err := p.ffprobe.Probe(ctx, path)
	if err != nil {
		return ports.StreamInfo{}, BackendFFprobe, err
	}
	p.logger.Debug("Probed %s with ffprobe: %s %dx%d", path, info.Codec, info.Width, info.Height)
	return info, BackendFFprobe, nil
}

func (p *Prober) useBoxParser(path string) bool {
	if p.box == nil {
		return false
	}
	container, err := p.detect(path)
	if err != nil {
		return isoExtensions[strings.ToLower(filepath.Ext(path))]
	}
	return container == codecdetect.ContainerISOBMFF
}

var _ ports.StreamProber = (*Prober)(nil)
