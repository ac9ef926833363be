package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alanmeadows/psytest/internal/config"
	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/spf13/cobra"
)

type createOptions struct {
	description string
	typeID      int
	hasTypeID   bool
	answers     []string
	sessionID   string
	jsonOut     bool
}

var createFlags createOptions

var createCmd = &cobra.Command{
	Use:   "create [description]",
	Short: "Send one test-creation turn",
	Long: `Send one turn of the creation conversation and print how the service
answered. The backend session id is remembered between runs, so follow-up
turns only need the new information:

  - confirm a detected test type with --type-id
  - answer clarification questions with --answer <id>=<value>

Use 'psytest session clear' to start over.`,
	Example: `  psytest create "how do I cope with stress at work"
  psytest create "how do I cope with stress at work" --type-id 3
  psytest create "how do I cope with stress at work" --answer age=30 --answer role=manager`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := createFlags
		if len(args) > 0 {
			opts.description = args[0]
		}
		opts.hasTypeID = cmd.Flags().Changed("type-id")
		return runCreate(cmd.Context(), cmd.OutOrStdout(), appConfig, newBackend(appConfig), opts)
	},
}

func init() {
	createCmd.Flags().IntVar(&createFlags.typeID, "type-id", 0, "Confirm the test type with this id")
	createCmd.Flags().StringArrayVar(&createFlags.answers, "answer", nil, "Answer a clarification question as id=value (repeatable)")
	createCmd.Flags().StringVar(&createFlags.sessionID, "session", "", "Session id to use when none is pinned")
	createCmd.Flags().BoolVar(&createFlags.jsonOut, "json", false, "Print the raw service reply as JSON")
}

func (o createOptions) request() (creation.Request, error) {
	req := creation.Request{
		Description: o.description,
		SessionID:   o.sessionID,
	}
	if o.hasTypeID {
		id := o.typeID
		req.ConfirmedTypeID = &id
	}
	answers, err := parseAnswers(o.answers)
	if err != nil {
		return creation.Request{}, err
	}
	req.ClarifyResponses = answers
	return req, nil
}

// parseAnswers turns id=value pairs into clarification responses. Values may
// contain '='; the split happens at the first one.
func parseAnswers(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	answers := make(map[string]string, len(pairs))
	for _, p := range pairs {
		id, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid answer %q: expected id=value", p)
		}
		answers[strings.TrimSpace(id)] = value
	}
	return answers, nil
}

func runCreate(ctx context.Context, w io.Writer, cfg *config.Config, b creation.Backend, opts createOptions) error {
	req, err := opts.request()
	if err != nil {
		return err
	}
	if req.Description == "" && req.ConfirmedTypeID == nil && len(req.ClarifyResponses) == 0 {
		return errors.New("nothing to send: give a description, --type-id or --answer")
	}
	if req.Description != "" && cfg.Chat.IsPrevalidate() {
		if v := creation.Validate(req.Description); !v.OK {
			return fmt.Errorf("%w: %s", errInputRejected, describeRule(v))
		}
	}

	state := newStateFile(cfg)
	sess, err := openSession(state, b)
	if err != nil {
		return err
	}

	out, resp, err := sess.Turn(ctx, req)
	if err != nil {
		return explainTurnError(err)
	}
	if err := persistTurn(cfg, state, sess, resp, out, turnNote(req)); err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	renderOutcome(w, out)
	return nil
}

// turnNote summarises what a request carried for the session log.
func turnNote(req creation.Request) string {
	var parts []string
	if req.Description != "" {
		parts = append(parts, req.Description)
	}
	if req.ConfirmedTypeID != nil {
		parts = append(parts, fmt.Sprintf("type %d", *req.ConfirmedTypeID))
	}
	if n := len(req.ClarifyResponses); n > 0 {
		parts = append(parts, fmt.Sprintf("%d answers", n))
	}
	return strings.Join(parts, "; ")
}
