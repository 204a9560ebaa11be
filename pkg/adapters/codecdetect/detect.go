// Package codecdetect identifies video containers from their leading bytes.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Container represents a video container format.
type Container string

const (
	ContainerISOBMFF  Container = "isobmff" // MP4, M4V, QuickTime
	ContainerMatroska Container = "matroska"
	ContainerAVI      Container = "avi"
	ContainerUnknown  Container = "unknown"
)

// HeaderSize is the number of leading bytes Detect inspects.
const HeaderSize = 12

var matroskaMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// Top-level box types that can open an ISO BMFF or QuickTime file.
var isoBoxes = map[string]bool{
	"ftyp": true,
	"moov": true,
	"mdat": true,
	"free": true,
	"skip": true,
	"wide": true,
}

// DetectFile reads the header of path and detects its container.
func DetectFile(path string) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return ContainerUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return DetectFromReader(f)
}

// DetectFromReader detects the container from the first bytes of r.
func DetectFromReader(r io.Reader) (Container, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ContainerUnknown, fmt.Errorf("read header: %w", err)
	}
	return Detect(header[:n]), nil
}

// Detect identifies a container from its header bytes.
func Detect(header []byte) Container {
	switch {
	case bytes.HasPrefix(header, matroskaMagic):
		return ContainerMatroska
	case len(header) >= 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "AVI ":
		return ContainerAVI
	case len(header) >= 8 && isoBoxes[string(header[4:8])]:
		return ContainerISOBMFF
	default:
		return ContainerUnknown
	}
}
