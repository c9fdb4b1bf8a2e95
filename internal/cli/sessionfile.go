package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// errNotLoggedIn is returned when no saved session exists
var errNotLoggedIn = errors.New("not logged in: run `finctl login` first")

type savedSession struct {
	Username string        `json:"username"`
	SavedAt  time.Time     `json:"saved_at"`
	Cookies  []savedCookie `json:"cookies"`
}

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
}

// defaultSessionFile is $XDG_CONFIG_HOME/finboard/session.json or the OS equivalent
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".finboard-session.json"
	}
	return filepath.Join(dir, "finboard", "session.json")
}

func saveSession(path, username string, cookies []*http.Cookie, now time.Time) error {
	s := savedSession{Username: username, SavedAt: now}
	for _, c := range cookies {
		s.Cookies = append(s.Cookies, savedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// loadSession returns the unexpired cookies of the saved session
func loadSession(path string, now time.Time) (*savedSession, []*http.Cookie, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, errNotLoggedIn
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s savedSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}

	var cookies []*http.Cookie
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
	if len(cookies) == 0 {
		return nil, nil, errNotLoggedIn
	}
	return &s, cookies, nil
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
