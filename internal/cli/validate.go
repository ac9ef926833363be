package cli

import (
	"errors"
	"fmt"

	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/spf13/cobra"
)

var errInputRejected = errors.New("input rejected")

var validateCmd = &cobra.Command{
	Use:   "validate <text>",
	Short: "Check a description against the local input rules",
	Long: `Run the same local checks 'psytest chat' applies before sending a
description: minimum length, disallowed and vague terms, repeated
characters, question mark runs and punctuation-only input.

Exits non-zero when the text is rejected.`,
	Example: `  psytest validate "how do I react under pressure"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := creation.Validate(args[0])
		if v.OK {
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("accepted"))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", warnStyle.Render("rejected:"), describeRule(v), v.Rule)
		return errInputRejected
	},
}

var alternativesCmd = &cobra.Command{
	Use:   "alternatives <text>...",
	Short: "Clean up suggested alternatives",
	Long:  `Strip surrounding quotes from each alternative and print one per line.`,
	Example: `  psytest alternatives '"how I handle conflict"' "'my ideal job'"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range creation.FormatAlternatives(args) {
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the test-creation service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newBackend(appConfig)
		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend %s: %w", appConfig.Backend.URL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("ok"), appConfig.Backend.URL)
		return nil
	},
}
