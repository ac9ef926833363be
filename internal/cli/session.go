package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the pinned backend session",
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the pinned session id and recent turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := newStateFile(appConfig)
		st, err := state.Load()
		if err != nil {
			return fmt.Errorf("loading session state: %w", err)
		}

		w := cmd.OutOrStdout()
		id := st.SessionID
		if id == "" {
			id = mutedStyle.Render("(none)")
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Session:"), id)
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("State file:"), state.Path())
		if st.Turns == 0 {
			fmt.Fprintln(w, "No turns recorded. Start one with: psytest create <description>")
			return nil
		}
		fmt.Fprintf(w, "%s %d (last stage: %s)\n", labelStyle.Render("Turns:"), st.Turns, st.LastStage)

		t := newTable("TIME", "STAGE", "NOTE")
		for _, rec := range st.Log {
			t.Row(rec.At.Local().Format(time.DateTime), rec.Stage, rec.Note)
		}
		fmt.Fprintln(w, t)
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the pinned session id",
	Long: `Forget the pinned session id so the next turn starts a new
conversation with the backend. The turn log is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newStateFile(appConfig).Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
		return nil
	},
}
