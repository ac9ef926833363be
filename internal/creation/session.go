// Package creation implements the client side of the chat-driven test
// creation conversation: one pinned backend session, turn submission, and
// classification of backend replies into typed outcomes.
package creation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrTurnInProgress is returned by CreateTest when another turn on the same
// session has not finished yet.
var ErrTurnInProgress = errors.New("creation: a turn is already in progress for this session")

// Session owns one conversation with the creation backend. The zero value is
// not usable; create sessions with NewSession.
type Session struct {
	backend Backend
	turns   *semaphore.Weighted

	mu        sync.Mutex
	sessionID string
}

// Option configures a Session.
type Option func(*Session)

// WithSessionID seeds the pinned session id, e.g. from a persisted state file.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.sessionID = id
	}
}

// NewSession creates a Session that talks to backend.
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		turns:   semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionID returns the pinned session id, or "" if none.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// CreateTest sends one turn. The pinned session id, when set, replaces
// req.SessionID. The reply is returned unmodified and must be passed to
// HandleChatResponse; transport errors are returned to the caller untouched
// apart from wrapping.
func (s *Session) CreateTest(ctx context.Context, req Request) (*Response, error) {
	if !s.turns.TryAcquire(1) {
		return nil, ErrTurnInProgress
	}
	defer s.turns.Release(1)

	return s.send(ctx, req)
}

// send performs the backend call. The caller holds the turn guard.
func (s *Session) send(ctx context.Context, req Request) (*Response, error) {
	if id := s.SessionID(); id != "" {
		req.SessionID = id
	}
	req.ClarifyResponses = maps.Clone(req.ClarifyResponses)

	slog.Debug("sending creation turn",
		"session", req.SessionID,
		"confirmed_type", req.ConfirmedTypeID != nil,
		"clarify_responses", len(req.ClarifyResponses))

	resp, err := s.backend.CreateTest(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("creating test: %w", err)
	}
	return resp, nil
}

// HandleChatResponse classifies resp and pins any non-empty session id it
// carries. It never fails: unrecognised or missing stages yield *Unknown.
func (s *Session) HandleChatResponse(resp *Response) Outcome {
	if resp != nil && resp.Data != nil && resp.Data.SessionID != "" {
		s.mu.Lock()
		if s.sessionID != resp.Data.SessionID {
			slog.Debug("pinning session id", "previous", s.sessionID, "session", resp.Data.SessionID)
			s.sessionID = resp.Data.SessionID
		}
		s.mu.Unlock()
	}

	out := Classify(resp)
	slog.Debug("classified creation reply", "status", out.Status())
	return out
}

// Turn is CreateTest followed by HandleChatResponse. The turn guard is held
// until the reply is classified, so the next turn sees any newly pinned id.
func (s *Session) Turn(ctx context.Context, req Request) (Outcome, *Response, error) {
	if !s.turns.TryAcquire(1) {
		return nil, nil, ErrTurnInProgress
	}
	defer s.turns.Release(1)

	resp, err := s.send(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return s.HandleChatResponse(resp), resp, nil
}

// ClearSession forgets the pinned session id. Safe to call repeatedly.
func (s *Session) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
}
