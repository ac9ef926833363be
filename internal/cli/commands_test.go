package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config, state and the working directory at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PSYTEST_API_URL", "")
	t.Setenv("PSYTEST_TOKEN", "")
	t.Setenv("PSYTEST_LANGUAGE", "")
	stateDir := t.TempDir()
	t.Setenv("PSYTEST_STATE_DIR", stateDir)
	t.Chdir(t.TempDir())
	return stateDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "validate", "how do I react under pressure")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")

	out, err = execute(t, "validate", "nsfw stuff please")
	assert.ErrorIs(t, err, errInputRejected)
	assert.Contains(t, out, "rejected:")
	assert.Contains(t, out, string(creation.RuleForbidden))
}

func TestAlternativesCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "alternatives", `"how I handle conflict"`, `'my ideal job'`, "plain")
	require.NoError(t, err)
	assert.Equal(t, "how I handle conflict\nmy ideal job\nplain\n", out)
}

func TestConfigSetAndShow(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "set", "chat.max_turns", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Set chat.max_turns = 4")

	_, err = execute(t, "config", "set", "backend.token", "s3cret")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(".psytest", "psytest.jsonc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat":{"max_turns":4},"backend":{"token":"s3cret"}}`, string(data))

	out, err = execute(t, "config", "show", "--json")
	require.NoError(t, err)
	var shown struct {
		Backend struct {
			Token string `json:"token"`
		} `json:"backend"`
		Chat struct {
			MaxTurns int `json:"max_turns"`
		} `json:"chat"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "***", shown.Backend.Token)
	assert.Equal(t, 4, shown.Chat.MaxTurns)
}

func TestCreateAndSessionCommands(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(creation.Response{Code: 200, Data: &creation.ResponseData{
			Stage:     string(creation.StageNeedClarification),
			Message:   "One more thing",
			SessionID: "sess-42",
		}})
	}))
	defer srv.Close()
	t.Setenv("PSYTEST_API_URL", srv.URL)

	out, err := execute(t, "create", "how do I handle stress at work")
	require.NoError(t, err)
	assert.Contains(t, out, "One more thing")

	out, err = execute(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "sess-42")
	assert.Contains(t, out, "need_clarification")

	out, err = execute(t, "session", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")

	out, err = execute(t, "session", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "sess-42")
	assert.Contains(t, out, "cleared")
}

func TestHealthCommand(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	t.Setenv("PSYTEST_API_URL", srv.URL)

	out, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestChatRequiresTerminal(t *testing.T) {
	isolate(t)

	_, err := execute(t, "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
