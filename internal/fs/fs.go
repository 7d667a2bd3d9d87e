package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileInfo represents file metadata
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
	IsDir   bool
}

// IsRegular reports whether the entry is a regular file (not a directory,
// socket, device or other special file).
func (fi *FileInfo) IsRegular() bool {
	return !fi.IsDir && fi.Mode.IsRegular()
}

// FileSystem is a read-only abstraction over filesystem operations
type FileSystem interface {
	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Stat returns file information
	Stat(ctx context.Context, path string) (*FileInfo, error)
	// Exists checks if a path exists
	Exists(ctx context.Context, path string) (bool, error)
}

// OSFS reads from the local filesystem, resolving relative paths
// against a base directory.
type OSFS struct {
	baseDir string
}

// NewOSFS creates a filesystem rooted at baseDir
func NewOSFS(baseDir string) *OSFS {
	return &OSFS{baseDir: baseDir}
}

func (ofs *OSFS) absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ofs.baseDir, path)
}

func (ofs *OSFS) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(ofs.absPath(path))
}

func (ofs *OSFS) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(ofs.absPath(path))
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
		IsDir:   info.IsDir(),
	}, nil
}

func (ofs *OSFS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(ofs.absPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// MockFS is an in-memory filesystem for testing
type MockFS struct {
	files  map[string][]byte
	dirs   map[string]bool
	denied map[string]bool
	mu     sync.RWMutex
}

func NewMockFS() *MockFS {
	return &MockFS{
		files:  make(map[string][]byte),
		dirs:   make(map[string]bool),
		denied: make(map[string]bool),
	}
}

// WriteFile seeds a file, creating parent directories implicitly
func (mfs *MockFS) WriteFile(path string, data []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files[path] = data

	dir := filepath.Dir(path)
	for dir != "." && dir != "/" && dir != "" {
		mfs.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
	mfs.dirs["."] = true
}

// AddDir registers a directory entry
func (mfs *MockFS) AddDir(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.dirs[path] = true
}

// Deny makes subsequent operations on path fail with os.ErrPermission
func (mfs *MockFS) Deny(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.denied[path] = true
}

func (mfs *MockFS) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if mfs.denied[path] {
		return nil, os.ErrPermission
	}
	data, ok := mfs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (mfs *MockFS) Stat(ctx context.Context, path string) (*FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if mfs.denied[path] {
		return nil, os.ErrPermission
	}

	if mfs.dirs[path] {
		return &FileInfo{
			Path:    path,
			ModTime: time.Now(),
			Mode:    os.ModeDir | 0755,
			IsDir:   true,
		}, nil
	}

	data, ok := mfs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}

	return &FileInfo{
		Path:    path,
		Size:    int64(len(data)),
		ModTime: time.Now(),
		Mode:    0644,
	}, nil
}

func (mfs *MockFS) Exists(ctx context.Context, path string) (bool, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if _, ok := mfs.files[path]; ok {
		return true, nil
	}
	return mfs.dirs[path], nil
}
