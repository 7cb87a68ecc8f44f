package config

import (
	"os"
	"path/filepath"
	"testing"

	"mynote-cli/internal/model"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("MYNOTE_CONFIG_DIR", t.TempDir())

	in := &Session{UserID: 7, UserName: "alice", Token: "tok-123", Role: model.RoleAdmin}
	if err := SaveSession(in); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	out, err := LoadSession()
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip: got %+v, want %+v", out, in)
	}
	if !out.LoggedIn() {
		t.Fatal("LoggedIn() = false")
	}
}

func TestSessionFilePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MYNOTE_CONFIG_DIR", dir)

	if err := SaveSession(&Session{UserID: 7, Token: "tok"}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// The token lives in this file.
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	t.Setenv("MYNOTE_CONFIG_DIR", t.TempDir())

	s, err := LoadSession()
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if s.LoggedIn() {
		t.Fatalf("empty session reports logged in: %+v", s)
	}
}

func TestClearSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MYNOTE_CONFIG_DIR", dir)

	if err := SaveSession(&Session{UserID: 7, Token: "tok"}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Fatalf("session file still present: %v", err)
	}
	// Clearing twice is fine.
	if err := ClearSession(); err != nil {
		t.Fatalf("second ClearSession: %v", err)
	}
}

func TestLoggedIn(t *testing.T) {
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"empty", &Session{}, false},
		{"no token", &Session{UserID: 7}, false},
		{"blank token", &Session{UserID: 7, Token: "   "}, false},
		{"no user id", &Session{Token: "tok"}, false},
		{"complete", &Session{UserID: 7, Token: "tok"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.LoggedIn(); got != tt.want {
				t.Fatalf("LoggedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}
