package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, "/api/test/chat_create", cfg.Backend.CreatePath)
	assert.Equal(t, 60*time.Second, cfg.Backend.ParseTimeout())
	assert.Equal(t, 5*time.Second, cfg.Session.ParseLockTimeout())
	assert.True(t, cfg.Session.IsClearOnCreated())
	assert.True(t, cfg.Chat.IsPrevalidate())
	assert.Equal(t, 12, cfg.Chat.MaxTurns)
}

func TestLoadJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psytest.jsonc")
	content := []byte(`{
  // staging backend
  "backend": {
    "url": "https://staging.example.com",
    "timeout": "15s", // trailing comma below
  },
}`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := loadJSONC(path)
	require.NoError(t, err)

	backend, ok := m["backend"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://staging.example.com", backend["url"])
	assert.Equal(t, "15s", backend["timeout"])
}

func TestLoadJSONC_FileNotFound(t *testing.T) {
	_, err := loadJSONC("/nonexistent/psytest.jsonc")
	assert.True(t, os.IsNotExist(err))
}

func TestMergeIntoConfig_KeepsUnsetFields(t *testing.T) {
	cfg := DefaultConfig()
	src := map[string]any{
		"backend": map[string]any{"url": "https://api.example.com"},
		"chat":    map[string]any{"prevalidate": false},
	}

	require.NoError(t, mergeIntoConfig(&cfg, src))

	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, "/api/test/chat_create", cfg.Backend.CreatePath)
	assert.False(t, cfg.Chat.IsPrevalidate())
	assert.Equal(t, 12, cfg.Chat.MaxTurns)
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"session": {"state_dir": "/tmp/psy", "clear_on_created": false}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/psy", cfg.Session.ResolveStateDir())
	assert.False(t, cfg.Session.IsClearOnCreated())
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.jsonc"))
	assert.Error(t, err)
}

func TestLoad_UserThenProject(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	t.Setenv("HOME", userDir)
	userPath := UserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte(`{"backend": {"url": "https://user.example.com", "language": "de"}}`), 0o644))

	projectDir := t.TempDir()
	t.Chdir(projectDir)
	require.NoError(t, os.MkdirAll(projectDirName, 0o755))
	require.NoError(t, os.WriteFile(ProjectConfigPath(), []byte(`{"backend": {"url": "https://project.example.com"}}`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://project.example.com", cfg.Backend.URL)
	assert.Equal(t, "de", cfg.Backend.Language)
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("PSYTEST_API_URL", "https://env.example.com")
	t.Setenv("PSYTEST_TOKEN", "tok-123")
	t.Setenv("PSYTEST_LANGUAGE", "ja")
	t.Setenv("PSYTEST_STATE_DIR", "/var/lib/psytest")

	applyEnvOverrides(&cfg)

	assert.Equal(t, "https://env.example.com", cfg.Backend.URL)
	assert.Equal(t, "tok-123", cfg.Backend.Token)
	assert.Equal(t, "ja", cfg.Backend.Language)
	assert.Equal(t, "/var/lib/psytest", cfg.Session.StateDir)
}

func TestParseTimeouts_Invalid(t *testing.T) {
	assert.Equal(t, 60*time.Second, BackendConfig{Timeout: "soon"}.ParseTimeout())
	assert.Equal(t, 60*time.Second, BackendConfig{Timeout: "-1s"}.ParseTimeout())
	assert.Equal(t, 5*time.Second, SessionConfig{LockTimeout: ""}.ParseLockTimeout())
}

func TestResolveStateDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".local/state/psytest"), DefaultConfig().Session.ResolveStateDir())
}

func TestNilBoolsDefaultTrue(t *testing.T) {
	assert.True(t, SessionConfig{}.IsClearOnCreated())
	assert.True(t, ChatConfig{}.IsPrevalidate())
}
