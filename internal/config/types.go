package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the top-level psytest configuration.
type Config struct {
	Backend BackendConfig `json:"backend"`
	Session SessionConfig `json:"session"`
	Chat    ChatConfig    `json:"chat"`
}

// BackendConfig points the client at the test-creation service.
type BackendConfig struct {
	URL        string `json:"url"`
	CreatePath string `json:"create_path"`
	HealthPath string `json:"health_path"`
	Token      string `json:"token,omitempty"`
	Language   string `json:"language"`
	Timeout    string `json:"timeout"`
}

// ParseTimeout returns the request timeout, falling back to 60s.
func (b BackendConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(b.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// SessionConfig controls where the pinned session is kept between runs.
type SessionConfig struct {
	StateDir       string `json:"state_dir"`
	LockTimeout    string `json:"lock_timeout"`
	ClearOnCreated *bool  `json:"clear_on_created"`
}

// ParseLockTimeout returns the state file lock timeout, falling back to 5s.
func (s SessionConfig) ParseLockTimeout() time.Duration {
	d, err := time.ParseDuration(s.LockTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// IsClearOnCreated reports whether a created test ends the session.
// Defaults to true when not explicitly set.
func (s SessionConfig) IsClearOnCreated() bool {
	if s.ClearOnCreated == nil {
		return true
	}
	return *s.ClearOnCreated
}

// ResolveStateDir expands a leading ~ in StateDir.
func (s SessionConfig) ResolveStateDir() string {
	return expandHome(s.StateDir)
}

// ChatConfig tunes the interactive conversation.
type ChatConfig struct {
	Prevalidate *bool `json:"prevalidate"`
	MaxTurns    int   `json:"max_turns"`
}

// IsPrevalidate reports whether descriptions are checked locally before
// sending. Defaults to true.
func (c ChatConfig) IsPrevalidate() bool {
	if c.Prevalidate == nil {
		return true
	}
	return *c.Prevalidate
}

func boolPtr(b bool) *bool {
	return &b
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:        "http://localhost:8000",
			CreatePath: "/api/test/chat_create",
			HealthPath: "/api/health",
			Language:   "en",
			Timeout:    "60s",
		},
		Session: SessionConfig{
			StateDir:       "~/.local/state/psytest",
			LockTimeout:    "5s",
			ClearOnCreated: boolPtr(true),
		},
		Chat: ChatConfig{
			Prevalidate: boolPtr(true),
			MaxTurns:    12,
		},
	}
}
