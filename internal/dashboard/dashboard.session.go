package dashboard

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"sync"

	nuts "github.com/vaudience/go-nuts"
)

// Session is the persisted login state of the dashboard user
type Session interface {
	// Token returns the auth token, or "" when there is no session
	Token() string
	UserID() string
	// Clear destroys the session
	Clear() error
}

type sessionData struct {
	AuthToken string `json:"authToken"`
	UserID    string `json:"userId"`
}

// FileSession reads the session from a JSON file written by the login flow.
// The file is re-read on every call so a new login is picked up.
type FileSession struct {
	path string
}

func NewFileSession(path string) *FileSession {
	return &FileSession{path: path}
}

func (s *FileSession) read() sessionData {
	var data sessionData
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			nuts.L.Warnf("[Session] Failed to read %s: %v", s.path, err)
		}
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		nuts.L.Warnf("[Session] Ignoring malformed session file %s: %v", s.path, err)
		return sessionData{}
	}
	return data
}

func (s *FileSession) Token() string {
	return s.read().AuthToken
}

func (s *FileSession) UserID() string {
	return s.read().UserID
}

// Clear removes the session file. A missing file is not an error.
func (s *FileSession) Clear() error {
	if err := os.Remove(s.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemorySession holds the session in process memory
type MemorySession struct {
	mu     sync.RWMutex
	token  string
	userID string
}

func NewMemorySession(token, userID string) *MemorySession {
	return &MemorySession{token: token, userID: userID}
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySession) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *MemorySession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.userID = "", ""
	return nil
}
