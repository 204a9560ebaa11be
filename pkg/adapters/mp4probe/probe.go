// Package mp4probe reads video stream metadata from ISO BMFF (MP4/MOV) boxes
// without spawning external tools.
package mp4probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/camintel/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the file has no video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")
	// ErrFragmented is returned for fragmented files, whose sample tables live in moof boxes.
	ErrFragmented = errors.New("mp4probe: fragmented mp4 not supported")
	// ErrNoTiming is returned when the track carries no usable timing.
	ErrNoTiming = errors.New("mp4probe: missing sample timing")
)

// Prober implements ports.StreamProber using mp4ff.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe reads the first video track of the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads the first video track from an io.ReadSeeker.
// Media data is not loaded into memory.
func ProbeReader(reader io.ReadSeeker) (ports.StreamInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	if mp4File.IsFragmented() {
		return ports.StreamInfo{}, ErrFragmented
	}
	if mp4File.Moov == nil {
		return ports.StreamInfo{}, errors.New("mp4probe: no moov box found")
	}

	for _, trak := range mp4File.Moov.Traks {
		if isVideoTrack(trak) {
			return InfoFromTrack(trak)
		}
	}
	return ports.StreamInfo{}, ErrNoVideoTrack
}

// InfoFromTrack extracts stream properties from a progressive video track.
func InfoFromTrack(trak *mp4.TrakBox) (ports.StreamInfo, error) {
	if !isVideoTrack(trak) {
		return ports.StreamInfo{}, ErrNoVideoTrack
	}

	info := ports.StreamInfo{Codec: "unknown"}
	stbl := trak.Mdia.Minf.Stbl

	if stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			info.Codec = codecName(child.Type())
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				info.Width = int(vse.Width)
				info.Height = int(vse.Height)
			}
			break
		}
	}
	if info.Width == 0 && trak.Tkhd != nil {
		info.Width = int(trak.Tkhd.Width >> 16)
		info.Height = int(trak.Tkhd.Height >> 16)
	}

	var timescale uint32
	var mediaDuration uint64
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
		mediaDuration = trak.Mdia.Mdhd.Duration
	}

	var samples, ticks uint64
	if stbl.Stts != nil {
		for i, count := range stbl.Stts.SampleCount {
			samples += uint64(count)
			if i < len(stbl.Stts.SampleTimeDelta) {
				ticks += uint64(count) * uint64(stbl.Stts.SampleTimeDelta[i])
			}
		}
	}
	if samples == 0 && stbl.Stsz != nil {
		samples = uint64(stbl.Stsz.SampleNumber)
	}
	if ticks == 0 {
		ticks = mediaDuration
	}

	if timescale == 0 || ticks == 0 || samples == 0 {
		return info, ErrNoTiming
	}

	info.FrameCount = int(samples)
	info.DurationSeconds = float64(ticks) / float64(timescale)
	info.FrameRate = float64(samples) * float64(timescale) / float64(ticks)
	return info, nil
}

func isVideoTrack(trak *mp4.TrakBox) bool {
	if trak == nil || trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return false
	}
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return false
	}
	return trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil
}

func codecName(sampleEntry string) string {
	switch sampleEntry {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp09":
		return "vp9"
	case "mp4v":
		return "mpeg4"
	default:
		return sampleEntry
	}
}

var _ ports.StreamProber = (*Prober)(nil)
