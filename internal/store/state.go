// Package store persists the pinned creation session between CLI runs as a
// markdown file with YAML frontmatter, guarded by a file lock.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	stateFileName = "session.md"
	stateHeading  = "# Test creation session"

	// maxTurnLog is how many turn records are kept in the body.
	maxTurnLog = 50

	// StageCleared marks a log entry written by Clear.
	StageCleared = "cleared"
)

var turnLineRe = regexp.MustCompile(`^-\s+(\S+)\s+(\S+)(?::\s?(.*))?$`)

// TurnRecord is one line of the session log.
type TurnRecord struct {
	At    time.Time
	Stage string
	Note  string
}

// SessionState is what survives between invocations: the pinned backend
// session id and a short log of the turns that led to it.
type SessionState struct {
	SessionID string
	LastStage string
	Turns     int
	Updated   time.Time
	Log       []TurnRecord
}

// Record appends a turn to the log and updates the counters. Whitespace
// inside stage becomes underscores so the log line stays parseable.
func (s *SessionState) Record(at time.Time, stage, note string) {
	stage = strings.Join(strings.Fields(stage), "_")
	if stage == "" {
		stage = "unknown"
	}
	s.Turns++
	s.LastStage = stage
	s.Updated = at.UTC()
	s.Log = append(s.Log, TurnRecord{At: at.UTC(), Stage: stage, Note: oneLine(note)})
	if len(s.Log) > maxTurnLog {
		s.Log = s.Log[len(s.Log)-maxTurnLog:]
	}
}

// StateFile is the on-disk location of a SessionState.
type StateFile struct {
	path        string
	lockTimeout time.Duration
}

// NewStateFile returns the state file inside dir.
func NewStateFile(dir string, lockTimeout time.Duration) *StateFile {
	return &StateFile{
		path:        filepath.Join(dir, stateFileName),
		lockTimeout: lockTimeout,
	}
}

// Path returns the file path.
func (f *StateFile) Path() string {
	return f.path
}

// Load returns the persisted state, or an empty state if nothing was saved.
func (f *StateFile) Load() (*SessionState, error) {
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return &SessionState{}, nil
	}

	var st *SessionState
	err := withReadLock(f.path, f.lockTimeout, func() error {
		var err error
		st, err = f.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Update loads the state, applies fn, and saves the result under an
// exclusive lock. Nothing is written if fn returns an error.
func (f *StateFile) Update(fn func(*SessionState) error) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	return withLock(f.path, f.lockTimeout, func() error {
		st, err := f.read()
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		return writeDocument(f.path, encodeState(st))
	})
}

// Clear forgets the pinned session id and notes it in the log.
func (f *StateFile) Clear() error {
	return f.Update(func(st *SessionState) error {
		if st.SessionID == "" {
			return nil
		}
		st.SessionID = ""
		st.LastStage = StageCleared
		st.Updated = time.Now().UTC()
		st.Log = append(st.Log, TurnRecord{At: st.Updated, Stage: StageCleared})
		return nil
	})
}

func (f *StateFile) read() (*SessionState, error) {
	doc, err := readDocument(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &SessionState{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState(doc), nil
}

func decodeState(doc *document) *SessionState {
	st := &SessionState{
		SessionID: fieldString(doc.meta, "session_id"),
		LastStage: fieldString(doc.meta, "last_stage"),
		Turns:     fieldInt(doc.meta, "turns"),
		Updated:   fieldTime(doc.meta, "updated"),
	}
	for _, line := range strings.Split(doc.body, "\n") {
		m := turnLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		at, err := time.Parse(time.RFC3339, m[1])
		if err != nil {
			continue
		}
		st.Log = append(st.Log, TurnRecord{At: at, Stage: m[2], Note: m[3]})
	}
	return st
}

func encodeState(st *SessionState) *document {
	meta := map[string]any{
		"turns": st.Turns,
	}
	if st.SessionID != "" {
		meta["session_id"] = st.SessionID
	}
	if st.LastStage != "" {
		meta["last_stage"] = st.LastStage
	}
	if !st.Updated.IsZero() {
		meta["updated"] = st.Updated.UTC().Format(time.RFC3339)
	}

	var body strings.Builder
	body.WriteString(stateHeading + "\n\n")
	for _, rec := range st.Log {
		fmt.Fprintf(&body, "- %s %s", rec.At.UTC().Format(time.RFC3339), rec.Stage)
		if rec.Note != "" {
			fmt.Fprintf(&body, ": %s", rec.Note)
		}
		body.WriteString("\n")
	}
	return &document{meta: meta, body: body.String()}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
