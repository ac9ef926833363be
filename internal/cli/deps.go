package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alanmeadows/psytest/internal/backend"
	"github.com/alanmeadows/psytest/internal/config"
	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/alanmeadows/psytest/internal/store"
)

func newBackend(cfg *config.Config) *backend.Client {
	return backend.New(backend.Options{
		BaseURL:    cfg.Backend.URL,
		CreatePath: cfg.Backend.CreatePath,
		HealthPath: cfg.Backend.HealthPath,
		Token:      cfg.Backend.Token,
		Language:   cfg.Backend.Language,
		Timeout:    cfg.Backend.ParseTimeout(),
	})
}

func newStateFile(cfg *config.Config) *store.StateFile {
	return store.NewStateFile(cfg.Session.ResolveStateDir(), cfg.Session.ParseLockTimeout())
}

// openSession restores the pinned session id from the state file.
func openSession(state *store.StateFile, b creation.Backend) (*creation.Session, error) {
	st, err := state.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session state: %w", err)
	}
	return creation.NewSession(b, creation.WithSessionID(st.SessionID)), nil
}

// persistTurn writes the pinned session id and a log line for one turn. A
// created test ends the session when session.clear_on_created is set.
func persistTurn(cfg *config.Config, state *store.StateFile, sess *creation.Session, resp *creation.Response, out creation.Outcome, note string) error {
	if out.Status() == creation.StatusCreated && cfg.Session.IsClearOnCreated() {
		sess.ClearSession()
	}

	stage := ""
	if resp != nil && resp.Data != nil {
		stage = resp.Data.Stage
	}

	err := state.Update(func(st *store.SessionState) error {
		st.SessionID = sess.SessionID()
		st.Record(time.Now(), stage, note)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}
	return nil
}

// explainTurnError adds a retry hint to transport failures that may clear up
// on their own.
func explainTurnError(err error) error {
	var te *backend.TransportError
	if errors.As(err, &te) && te.Temporary() {
		return fmt.Errorf("%w (the service may be busy; sending the same turn again can succeed)", err)
	}
	return err
}
