package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/alanmeadows/psytest/internal/creation"
)

// maxLocalRejects bounds how often a description may fail local
// validation before the conversation gives up.
const maxLocalRejects = 5

var (
	errTooManyTurns   = errors.New("conversation did not finish within the turn limit")
	errTooManyRejects = errors.New("too many rejected descriptions")
)

// prompter collects the user's side of a conversation.
type prompter interface {
	// Describe asks for a free-text description of the wanted test.
	Describe() (string, error)
	// PickAlternative offers suggested rewrites. An empty result means the
	// user wants to type a new description.
	PickAlternative(suggestion string, alternatives []string) (string, error)
	// ConfirmType asks which test type to create.
	ConfirmType(o *creation.NeedsConfirmation) (int, error)
	// Clarify asks the backend's follow-up questions and returns answers
	// keyed by question id.
	Clarify(o *creation.NeedsClarification) (map[string]string, error)
}

// conversation drives turns until the backend creates a test or replies
// with something it cannot continue from.
type conversation struct {
	session     *creation.Session
	prompt      prompter
	out         io.Writer
	maxTurns    int
	prevalidate bool

	// onTurn runs after every classified reply.
	onTurn func(req creation.Request, resp *creation.Response, out creation.Outcome) error
}

func (c *conversation) run(ctx context.Context) (creation.Outcome, error) {
	desc, err := c.describe()
	if err != nil {
		return nil, err
	}
	req := creation.Request{Description: desc}

	for turn := 1; c.maxTurns <= 0 || turn <= c.maxTurns; turn++ {
		out, resp, err := c.session.Turn(ctx, req)
		if err != nil {
			return nil, err
		}
		slog.Debug("conversation turn", "turn", turn, "status", out.Status())
		if c.onTurn != nil {
			if err := c.onTurn(req, resp, out); err != nil {
				return nil, err
			}
		}
		renderOutcome(c.out, out)
		if out.Status().Terminal() {
			return out, nil
		}

		switch o := out.(type) {
		case *creation.InputRejected:
			if desc, err = c.retry(o.Suggestion, o.Alternatives); err != nil {
				return nil, err
			}
			req = creation.Request{Description: desc}

		case *creation.GenerationFailed:
			if desc, err = c.retry(o.Suggestion, o.Alternatives); err != nil {
				return nil, err
			}
			req = creation.Request{Description: desc}

		case *creation.NeedsConfirmation:
			typeID, err := c.prompt.ConfirmType(o)
			if err != nil {
				return nil, err
			}
			req = creation.Request{
				Description:      firstNonEmpty(o.OriginalQuestion, req.Description),
				ConfirmedTypeID:  &typeID,
				ClarifyResponses: req.ClarifyResponses,
			}

		case *creation.NeedsClarification:
			answers, err := c.prompt.Clarify(o)
			if err != nil {
				return nil, err
			}
			merged := maps.Clone(req.ClarifyResponses)
			if merged == nil {
				merged = make(map[string]string, len(answers))
			}
			maps.Copy(merged, answers)
			req = creation.Request{
				Description:      firstNonEmpty(o.OriginalQuestion, req.Description),
				ConfirmedTypeID:  req.ConfirmedTypeID,
				ClarifyResponses: merged,
			}
		}
	}
	return nil, fmt.Errorf("%w (%d)", errTooManyTurns, c.maxTurns)
}

// describe asks for a description until one passes local validation.
func (c *conversation) describe() (string, error) {
	for range maxLocalRejects {
		desc, err := c.prompt.Describe()
		if err != nil {
			return "", err
		}
		if c.accept(desc) {
			return desc, nil
		}
	}
	return "", errTooManyRejects
}

// accept applies the local checks when prevalidation is on and reports why a
// description is not sent.
func (c *conversation) accept(desc string) bool {
	if !c.prevalidate {
		return true
	}
	v := creation.Validate(desc)
	if !v.OK {
		fmt.Fprintf(c.out, "%s %s\n", warnStyle.Render("Not sent:"), describeRule(v))
	}
	return v.OK
}

// retry offers the backend's alternatives and falls back to a fresh
// description. A picked alternative goes through the same local checks as a
// typed one.
func (c *conversation) retry(suggestion string, alternatives []string) (string, error) {
	if alts := creation.FormatAlternatives(alternatives); len(alts) > 0 {
		choice, err := c.prompt.PickAlternative(suggestion, alts)
		if err != nil {
			return "", err
		}
		if choice != "" && c.accept(choice) {
			return choice, nil
		}
	}
	return c.describe()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
