package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"mynote-cli/internal/model"
)

const sessionFileName = "session.json"

// Session is the persisted login state, the terminal analog of keeping the
// logged-in user in browser storage. A zero UserID means "not logged in".
type Session struct {
	UserID   int64      `json:"userId"`
	UserName string     `json:"userName"`
	Token    string     `json:"token"`
	Role     model.Role `json:"role,omitempty"`
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.UserID != 0 && strings.TrimSpace(s.Token) != ""
}

func (s *Session) User() model.LoginUser {
	if s == nil {
		return model.LoginUser{}
	}
	return model.LoginUser{UserID: s.UserID, UserName: s.UserName, Token: s.Token}
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.mynote).
	if v := strings.TrimSpace(os.Getenv("MYNOTE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mynote"), nil
}

func sessionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// LoadSession returns the stored session, or an empty session if none exists.
func LoadSession() (*Session, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func SaveSession(s *Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// The token lives here; keep the file private and the write atomic so a
	// crash never leaves a half-written session behind.
	return atomicWriteFile(dir, sessionFileName+".*.tmp", path, b, 0o600)
}

// ClearSession removes the session file. Missing file is not an error.
func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
