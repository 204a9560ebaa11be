// Package filesink writes sampled frames into the output tree:
//
//	<baseDir>/<video>/<frame_id>/<frame_id>.<ext>
//	<baseDir>/<video>/<frame_id>/<frame_id>.json
package filesink

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/user/camintel/pkg/pipeline"
	"github.com/user/camintel/pkg/ports"
)

// Sink saves frames and their metadata records to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// FrameDir returns the directory holding the artifacts of one frame.
func (s *Sink) FrameDir(videoName, frameID string) string {
	return filepath.Join(s.baseDir, videoName, frameID)
}

// SaveFrame writes the image, then the JSON record. The record is not written
// when the image write fails, so a JSON file always has its image next to it.
func (s *Sink) SaveFrame(videoName string, record pipeline.FrameRecord, image []byte, ext string) error {
	dir := s.FrameDir(videoName, record.FrameID)
	if err := s.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("create frame directory: %w", err)
	}

	imagePath := filepath.Join(dir, record.FrameID+"."+ext)
	if err := s.fs.WriteFile(imagePath, image); err != nil {
		return fmt.Errorf("write frame image: %w", err)
	}

	data, err := MarshalRecord(record)
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(dir, record.FrameID+".json")
	if err := s.fs.WriteFile(jsonPath, data); err != nil {
		return fmt.Errorf("write frame metadata: %w", err)
	}

	return nil
}

// MarshalRecord encodes a record the way it is stored on disk.
func MarshalRecord(record pipeline.FrameRecord) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal frame metadata: %w", err)
	}
	return data, nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
