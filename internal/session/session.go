package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session tracks per-conversation state shared across tool invocations.
// The file-read tool records which files the agent has inspected so the
// host framework can reason about stale context and diff operations.
type Session struct {
	ID         string
	WorkingDir string
	FilesRead  map[string]string // path -> rendered content at read time

	mu        sync.RWMutex
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a new session
func NewSession(id, workingDir string) *Session {
	return &Session{
		ID:         id,
		WorkingDir: workingDir,
		FilesRead:  make(map[string]string),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// GenerateID creates a random session ID
func GenerateID() string {
	return uuid.NewString()
}

// TrackFileRead tracks that a file was read
func (s *Session) TrackFileRead(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FilesRead[path] = content
	s.UpdatedAt = time.Now()
}

// WasFileRead checks if a file was read in this session
func (s *Session) WasFileRead(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.FilesRead[path]
	return ok
}

// ReadFiles returns the sorted list of files read in this session
func (s *Session) ReadFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.FilesRead))
	for path := range s.FilesRead {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
