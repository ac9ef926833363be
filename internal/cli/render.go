package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderOutcome prints a human-readable view of one classified reply.
func renderOutcome(w io.Writer, out creation.Outcome) {
	switch o := out.(type) {
	case *creation.InputRejected:
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("Input rejected:"), o.Message)
		renderSuggestions(w, o.Suggestion, o.Alternatives)

	case *creation.GenerationFailed:
		fmt.Fprintf(w, "%s %s\n", errStyle.Render("Generation failed:"), o.Message)
		renderSuggestions(w, o.Suggestion, o.Alternatives)

	case *creation.NeedsConfirmation:
		fmt.Fprintln(w, o.Message)
		if o.DetectedTypeName != "" {
			fmt.Fprintf(w, "%s %s (%d)\n", labelStyle.Render("Detected type:"), o.DetectedTypeName, o.DetectedTypeID)
		}
		if len(o.TypeOptions) > 0 {
			t := newTable("ID", "NAME", "RECOMMENDED", "DESCRIPTION")
			for _, opt := range o.TypeOptions {
				rec := ""
				if opt.Recommended {
					rec = "✓"
				}
				t.Row(strconv.Itoa(opt.ID), opt.Name, rec, opt.Desc)
			}
			fmt.Fprintln(w, t)
		}
		fmt.Fprintln(w, mutedStyle.Render("Confirm with: psytest create --type-id <id>"))

	case *creation.NeedsClarification:
		fmt.Fprintln(w, o.Message)
		for _, q := range o.ClarifyQuestions {
			line := fmt.Sprintf("  %s %s", labelStyle.Render(q.ID+":"), q.Question)
			if q.Optional {
				line += mutedStyle.Render(" (optional)")
			}
			fmt.Fprintln(w, line)
			if len(q.Options) > 0 {
				fmt.Fprintf(w, "      %s\n", mutedStyle.Render("options: "+strings.Join(q.Options, ", ")))
			}
		}
		fmt.Fprintln(w, mutedStyle.Render("Answer with: psytest create --answer <id>=<value>"))

	case *creation.Created:
		verb := "Test created"
		if o.IsExisting {
			verb = "Existing test reused"
		}
		fmt.Fprintf(w, "%s %s\n", okStyle.Render(verb+":"), strconv.Itoa(o.TestID))
		if o.TestInfo != nil {
			renderTestInfo(w, o.TestInfo)
		}

	case *creation.Unknown:
		fmt.Fprintf(w, "%s %s\n", errStyle.Render("Unexpected reply:"), o.Reason)
		if o.Stage != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Stage:"), o.Stage)
		}
		if o.RawMessage != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Message:"), o.RawMessage)
		}
	}
}

func renderSuggestions(w io.Writer, suggestion string, alternatives []string) {
	if suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Suggestion:"), suggestion)
	}
	alts := creation.FormatAlternatives(alternatives)
	if len(alts) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render("Try instead:"))
	for _, a := range alts {
		fmt.Fprintf(w, "  • %s\n", a)
	}
}

func renderTestInfo(w io.Writer, info *creation.TestInfo) {
	t := newTable("FIELD", "VALUE").
		Row("Name", info.Name).
		Row("Type", fmt.Sprintf("%s (%d)", info.TypeName, info.TypeID)).
		Row("Questions", strconv.Itoa(info.QuestionCount)).
		Row("Answer time", fmt.Sprintf("%d min", info.AnswerTime)).
		Row("Price", formatPrice(info.Price, info.DiscountPrice))
	if info.Desc != "" {
		t.Row("Description", info.Desc)
	}
	fmt.Fprintln(w, t)
}

func formatPrice(price, discount float64) string {
	if discount > 0 && discount < price {
		return fmt.Sprintf("%.2f (was %.2f)", discount, price)
	}
	if price == 0 {
		return "free"
	}
	return fmt.Sprintf("%.2f", price)
}

// describeRule explains a local validation failure.
func describeRule(v creation.Verdict) string {
	switch v.Rule {
	case creation.RuleTooShort:
		return fmt.Sprintf("description must be at least %d characters", creation.MinInputLength)
	case creation.RuleForbidden:
		return fmt.Sprintf("contains disallowed term %q", v.Match)
	case creation.RuleVague:
		return fmt.Sprintf("too vague (%q)", v.Match)
	case creation.RuleRepeatedChar:
		return fmt.Sprintf("character %q is repeated too many times", v.Match)
	case creation.RuleQuestionRun:
		return "contains a run of question marks"
	case creation.RulePunctuationOnly:
		return "contains only punctuation and whitespace"
	default:
		return string(v.Rule)
	}
}
