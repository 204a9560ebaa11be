package batch

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/camintel/pkg/mocks"
	"github.com/user/camintel/pkg/ports"
	"github.com/user/camintel/pkg/sampler"
)

// mockSamplerStage records inputs and returns canned results per path.
type mockSamplerStage struct {
	results map[string]sampler.Result
	errs    map[string]error
	inputs  []sampler.Input
	onCall  func(input sampler.Input)
}

func (m *mockSamplerStage) Execute(ctx context.Context, input sampler.Input) (sampler.Result, error) {
	m.inputs = append(m.inputs, input)
	if m.onCall != nil {
		m.onCall(input)
	}
	if err := m.errs[input.VideoPath]; err != nil {
		return m.results[input.VideoPath], err
	}
	return m.results[input.VideoPath], nil
}

func seed(fs *mocks.FileSystem, dir string, names ...string) {
	for _, name := range names {
		fs.AddFile(filepath.Join(dir, name), []byte("video"))
	}
}

func TestDiscover(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "b.MP4", "a.mkv", "notes.txt", "c.avi", "d.mov", "e.webm", "noext")
	fs.AddFile("in/nested/f.mp4", []byte("video"))

	got, err := Discover(fs, "in", DefaultExtensions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join("in", "a.mkv"),
		filepath.Join("in", "b.MP4"),
		filepath.Join("in", "c.avi"),
		filepath.Join("in", "d.mov"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDiscover_NormalizesExtensions(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "a.webm", "b.mp4")

	got, err := Discover(fs, "in", []string{"WEBM", " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join("in", "a.webm") {
		t.Errorf("expected only a.webm, got %v", got)
	}
}

func TestDriver_NoFiles(t *testing.T) {
	fs := mocks.NewFileSystem()
	log := mocks.NewLogger()
	stage := &mockSamplerStage{}
	d := New(stage, fs, log)

	report, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Files) != 0 || report.Succeeded != 0 || report.Failed != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if len(stage.inputs) != 0 {
		t.Error("sampler should not run without input files")
	}
	if !log.Contains(ports.LevelWarn, "No video files found in in") {
		t.Error("expected a warning about the empty input directory")
	}
	if !fs.HasDir("in") || !fs.HasDir("out") {
		t.Error("expected input and output directories to be created")
	}
}

func TestDriver_ProcessesInOrder(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "cam2.mp4", "cam1.mp4", "cam3.avi")
	stage := &mockSamplerStage{
		results: map[string]sampler.Result{
			"in/cam1.mp4": {FramesWritten: 10},
			"in/cam2.mp4": {FramesWritten: 5},
			"in/cam3.avi": {FramesWritten: 2},
		},
	}
	log := mocks.NewLogger()
	d := New(stage, fs, log)

	report, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 2, Extensions: DefaultExtensions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var paths []string
	for _, in := range stage.inputs {
		paths = append(paths, in.VideoPath)
		if in.IntervalSeconds != 2 {
			t.Errorf("unexpected input %+v", in)
		}
	}
	if want := []string{"in/cam1.mp4", "in/cam2.mp4", "in/cam3.avi"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("expected order %v, got %v", want, paths)
	}
	if report.Succeeded != 3 || report.Failed != 0 || report.FramesWritten != 17 {
		t.Errorf("unexpected report %+v", report)
	}
	if !log.Contains(ports.LevelInfo, "Found 3 video file(s) to process") {
		t.Error("expected discovery count to be logged")
	}
	if !log.Contains(ports.LevelInfo, "3 succeeded, 0 failed") {
		t.Error("expected completion message")
	}
}

func TestDriver_FailureDoesNotStopBatch(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "a.mp4", "b.mp4", "c.mp4")
	stage := &mockSamplerStage{
		results: map[string]sampler.Result{
			"in/a.mp4": {FramesWritten: 3},
			"in/c.mp4": {FramesWritten: 4},
		},
		errs: map[string]error{
			"in/b.mp4": sampler.ErrOpenSource,
		},
	}
	log := mocks.NewLogger()
	d := New(stage, fs, log)

	report, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stage.inputs) != 3 {
		t.Fatalf("expected all 3 files attempted, got %d", len(stage.inputs))
	}
	if report.Succeeded != 2 || report.Failed != 1 || report.FramesWritten != 7 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Files[1].Succeeded() || !errors.Is(report.Files[1].Err, sampler.ErrOpenSource) {
		t.Errorf("expected b.mp4 to fail with ErrOpenSource, got %v", report.Files[1].Err)
	}
	if !log.Contains(ports.LevelError, "in/b.mp4") {
		t.Error("expected the failure to be logged at error level")
	}
}

func TestDriver_OutputDirFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(p string) error {
		if p == "out" {
			return errors.New("read-only file system")
		}
		return nil
	}
	d := New(&mockSamplerStage{}, fs, mocks.NewLogger())

	_, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if !errors.Is(err, ErrOutputDir) {
		t.Errorf("expected ErrOutputDir, got %v", err)
	}
}

func TestDriver_ListFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.ListFilesFunc = func(dir string) ([]string, error) {
		return nil, errors.New("permission denied")
	}
	d := New(&mockSamplerStage{}, fs, mocks.NewLogger())

	_, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if !errors.Is(err, ErrInputDir) {
		t.Errorf("expected ErrInputDir, got %v", err)
	}
}

func TestDriver_CancelStopsBatch(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "a.mp4", "b.mp4", "c.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stage := &mockSamplerStage{}
	stage.onCall = func(input sampler.Input) {
		if input.VideoPath == "in/a.mp4" {
			cancel()
		}
	}
	d := New(stage, fs, mocks.NewLogger())

	report, err := d.Run(ctx, Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(stage.inputs) != 1 || len(report.Files) != 1 {
		t.Errorf("expected batch to stop after the first file, got %d calls", len(stage.inputs))
	}
}

func TestDriver_WithSampler(t *testing.T) {
	fs := mocks.NewFileSystem()
	seed(fs, "in", "good.mp4", "corrupt.avi", "other.mkv")

	decoder := mocks.NewVideoDecoder()
	decoder.Add("in/good.mp4", mocks.NewFrameSource(30, 300))
	decoder.Add("in/other.mkv", mocks.NewFrameSource(25, 50))

	sink := &mocks.FrameSink{}
	log := mocks.NewLogger()
	stage := sampler.NewStage(decoder, &mocks.ImageEncoder{}, sink, log)
	d := New(stage, fs, log)

	report, err := d.Run(context.Background(), Config{InputDir: "in", OutputDir: "out", IntervalSeconds: 1, Extensions: DefaultExtensions})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("expected 2 succeeded and 1 failed, got %+v", report)
	}
	if got := len(sink.FramesFor("good")); got != 10 {
		t.Errorf("expected 10 frames for good, got %d", got)
	}
	if got := len(sink.FramesFor("other")); got != 2 {
		t.Errorf("expected 2 frames for other, got %d", got)
	}
	if got := len(sink.FramesFor("corrupt")); got != 0 {
		t.Errorf("expected no frames for corrupt, got %d", got)
	}
	if report.FramesWritten != 12 {
		t.Errorf("expected 12 frames written, got %d", report.FramesWritten)
	}
}
