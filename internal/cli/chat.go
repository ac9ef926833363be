package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/alanmeadows/psytest/internal/logging"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	chatNewFlag        bool
	chatAccessibleFlag bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Create a test interactively",
	Long: `Describe the test you want and answer the service's follow-up
questions until a test is created.

Descriptions are checked locally before they are sent (see
'psytest validate'). When the service rejects a description, its
suggested alternatives are offered as replacements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !chatAccessibleFlag && !logging.IsTerminal(os.Stdin) {
			return errors.New("chat needs an interactive terminal; use --accessible or 'psytest create'")
		}

		state := newStateFile(appConfig)
		if chatNewFlag {
			if err := state.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
		}
		sess, err := openSession(state, newBackend(appConfig))
		if err != nil {
			return err
		}

		conv := &conversation{
			session:     sess,
			prompt:      huhPrompter{accessible: chatAccessibleFlag},
			out:         cmd.OutOrStdout(),
			maxTurns:    appConfig.Chat.MaxTurns,
			prevalidate: appConfig.Chat.IsPrevalidate(),
			onTurn: func(req creation.Request, resp *creation.Response, out creation.Outcome) error {
				return persistTurn(appConfig, state, sess, resp, out, turnNote(req))
			},
		}
		_, err = conv.run(cmd.Context())
		return explainTurnError(err)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatNewFlag, "new", false, "Forget any pinned session before starting")
	chatCmd.Flags().BoolVar(&chatAccessibleFlag, "accessible", false, "Use plain line-based prompts")
}

// huhPrompter asks questions with huh forms.
type huhPrompter struct {
	accessible bool
}

func (p huhPrompter) run(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithAccessible(p.accessible).Run()
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func (p huhPrompter) Describe() (string, error) {
	var desc string
	err := p.run(
		huh.NewInput().
			Title("What would you like to find out about yourself?").
			Placeholder("e.g. how I handle stress at work").
			Value(&desc).
			Validate(required),
	)
	return desc, err
}

func (p huhPrompter) PickAlternative(suggestion string, alternatives []string) (string, error) {
	options := make([]huh.Option[string], 0, len(alternatives)+1)
	for _, a := range alternatives {
		options = append(options, huh.NewOption(a, a))
	}
	options = append(options, huh.NewOption("Write a new description", ""))

	var choice string
	err := p.run(
		huh.NewSelect[string]().
			Title("Try one of these instead?").
			Description(suggestion).
			Options(options...).
			Value(&choice),
	)
	return choice, err
}

func (p huhPrompter) ConfirmType(o *creation.NeedsConfirmation) (int, error) {
	options := typeChoices(o)
	if len(options) == 0 {
		return 0, errors.New("service asked for confirmation but offered no test type")
	}

	selected := o.DetectedTypeID
	err := p.run(
		huh.NewSelect[int]().
			Title("Which kind of test should be created?").
			Options(options...).
			Value(&selected),
	)
	return selected, err
}

// typeChoices lists the selectable test types: the type options, else the
// action buttons that carry a type, else the detected type alone.
func typeChoices(o *creation.NeedsConfirmation) []huh.Option[int] {
	var options []huh.Option[int]
	for _, opt := range o.TypeOptions {
		label := opt.Name
		if opt.Recommended {
			label += " (recommended)"
		}
		if opt.Desc != "" {
			label += " - " + opt.Desc
		}
		options = append(options, huh.NewOption(label, opt.ID))
	}
	if len(options) > 0 {
		return options
	}
	for _, b := range o.ActionButtons {
		if b.TypeID != nil {
			options = append(options, huh.NewOption(b.Text, *b.TypeID))
		}
	}
	if len(options) == 0 && o.DetectedTypeID > 0 {
		options = append(options, huh.NewOption(o.DetectedTypeName, o.DetectedTypeID))
	}
	return options
}

func (p huhPrompter) Clarify(o *creation.NeedsClarification) (map[string]string, error) {
	values := make([]string, len(o.ClarifyQuestions))
	fields := make([]huh.Field, 0, len(o.ClarifyQuestions))
	for i, q := range o.ClarifyQuestions {
		if len(q.Options) > 0 {
			options := huh.NewOptions(q.Options...)
			if q.Optional {
				options = append(options, huh.NewOption("(skip)", ""))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(q.Question).
				Options(options...).
				Value(&values[i]))
			continue
		}
		in := huh.NewInput().
			Title(q.Question).
			Placeholder(q.Placeholder).
			Value(&values[i])
		if !q.Optional {
			in = in.Validate(required)
		}
		fields = append(fields, in)
	}
	if err := p.run(fields...); err != nil {
		return nil, err
	}
	return collectAnswers(o.ClarifyQuestions, values), nil
}

// collectAnswers pairs answers with question ids. Blank answers to optional
// questions are left out.
func collectAnswers(questions []creation.ClarifyQuestion, values []string) map[string]string {
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		if values[i] == "" && q.Optional {
			continue
		}
		answers[q.ID] = values[i]
	}
	return answers
}
