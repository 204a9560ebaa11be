package smartprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/camintel/pkg/adapters/logger"
	"github.com/user/camintel/pkg/mocks"
	"github.com/user/camintel/pkg/ports"
)

func TestProber_UsesBoxParserForISO(t *testing.T) {
	box := &mocks.StreamProber{}
	fallback := &mocks.StreamProber{}
	p := New(box, fallback, logger.NewNoop())

	for _, path := range []string{"a.mp4", "b.MOV", "c.m4v"} {
		_, backend, err := p.ProbeWithBackend(context.Background(), path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if backend != BackendMP4 {
			t.Errorf("%s: expected mp4 backend, got %s", path, backend)
		}
	}
	if len(fallback.Probed) != 0 {
		t.Errorf("expected no ffprobe calls, got %v", fallback.Probed)
	}
}

func TestProber_UsesFFprobeForOtherContainers(t *testing.T) {
	box := &mocks.StreamProber{}
	fallback := &mocks.StreamProber{}
	p := New(box, fallback, logger.NewNoop())

	for _, path := range []string{"a.avi", "b.mkv"} {
		_, backend, err := p.ProbeWithBackend(context.Background(), path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if backend != BackendFFprobe {
			t.Errorf("%s: expected ffprobe backend, got %s", path, backend)
		}
	}
	if len(box.Probed) != 0 {
		t.Errorf("expected no box parser calls, got %v", box.Probed)
	}
}

func TestProber_FallsBackOnBoxFailure(t *testing.T) {
	box := &mocks.StreamProber{
		ProbeFunc: func(ctx context.Context, path string) (ports.StreamInfo, error) {
			return ports.StreamInfo{}, errors.New("fragmented")
		},
	}
	fallback := &mocks.StreamProber{
		ProbeFunc: func(ctx context.Context, path string) (ports.StreamInfo, error) {
			return ports.StreamInfo{FrameRate: 25, FrameCount: 50}, nil
		},
	}
	p := New(box, fallback, logger.NewNoop())

	info, backend, err := p.ProbeWithBackend(context.Background(), "frag.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend != BackendFFprobe || info.FrameRate != 25 {
		t.Errorf("expected ffprobe result, got %s %+v", backend, info)
	}
}

func TestProber_FallsBackOnZeroRate(t *testing.T) {
	box := &mocks.StreamProber{
		ProbeFunc: func(ctx context.Context, path string) (ports.StreamInfo, error) {
			return ports.StreamInfo{FrameRate: 0}, nil
		},
	}
	fallback := &mocks.StreamProber{}
	p := New(box, fallback, logger.NewNoop())

	if _, err := p.Probe(context.Background(), "still.mp4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fallback.Probed) != 1 {
		t.Error("expected ffprobe to be consulted when the box parser reports no rate")
	}
}

func TestProber_PropagatesFallbackError(t *testing.T) {
	probeErr := errors.New("invalid data found when processing input")
	fallback := &mocks.StreamProber{
		ProbeFunc: func(ctx context.Context, path string) (ports.StreamInfo, error) {
			return ports.StreamInfo{}, probeErr
		},
	}
	p := New(nil, fallback, logger.NewNoop())

	if _, err := p.Probe(context.Background(), "corrupt.avi"); !errors.Is(err, probeErr) {
		t.Errorf("expected probe error, got %v", err)
	}
}

func TestProber_SniffsContainer(t *testing.T) {
	dir := t.TempDir()
	misnamedMP4 := filepath.Join(dir, "export.avi")
	if err := os.WriteFile(misnamedMP4, []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	misnamedMKV := filepath.Join(dir, "export.mp4")
	if err := os.WriteFile(misnamedMKV, []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(&mocks.StreamProber{}, &mocks.StreamProber{}, logger.NewNoop())

	if _, backend, err := p.ProbeWithBackend(context.Background(), misnamedMP4); err != nil || backend != BackendMP4 {
		t.Errorf("expected mp4 backend for an ISO header, got %s, %v", backend, err)
	}
	if _, backend, err := p.ProbeWithBackend(context.Background(), misnamedMKV); err != nil || backend != BackendFFprobe {
		t.Errorf("expected ffprobe backend for a Matroska header, got %s, %v", backend, err)
	}
}
