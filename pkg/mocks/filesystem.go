package mocks

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/user/camintel/pkg/ports"
)

// FileSystem is an in-memory mock implementation of ports.FileSystem.
// Paths are treated as slash-separated keys.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	ReadFileFunc  func(path string) ([]byte, error)
	WriteFileFunc func(path string, data []byte) error
	MkdirAllFunc  func(path string) error
	ExistsFunc    func(path string) (bool, error)
	RemoveFunc    func(path string) error
	ListFilesFunc func(dir string) ([]string, error)

	// Recorded write order for verification
	Writes []string
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile seeds a file (for test setup).
func (m *FileSystem) AddFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(p)] = data
}

func (m *FileSystem) ReadFile(p string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(p)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[clean(p)]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", p)
}

func (m *FileSystem) WriteFile(p string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(p, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(p)] = data
	m.Writes = append(m.Writes, clean(p))
	return nil
}

func (m *FileSystem) MkdirAll(p string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[clean(p)] = true
	return nil
}

func (m *FileSystem) Exists(p string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(p)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[clean(p)]; ok {
		return true, nil
	}
	if _, ok := m.dirs[clean(p)]; ok {
		return true, nil
	}
	return false, nil
}

func (m *FileSystem) Remove(p string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, clean(p))
	delete(m.dirs, clean(p))
	return nil
}

// ListFiles returns the sorted names of seeded files directly inside dir.
func (m *FileSystem) ListFiles(dir string) ([]string, error) {
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(dir)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := clean(dir) + "/"
	var names []string
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		names = append(names, rest)
	}
	sort.Strings(names)
	return names, nil
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(p)]
	return data, ok
}

// GetAllFiles returns all files (for test verification).
func (m *FileSystem) GetAllFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte)
	for k, v := range m.files {
		result[k] = v
	}
	return result
}

// HasDir reports whether MkdirAll was called for p.
func (m *FileSystem) HasDir(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[clean(p)]
}

func clean(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

var _ ports.FileSystem = (*FileSystem)(nil)
