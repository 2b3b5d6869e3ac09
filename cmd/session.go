package cmd

import (
	"fmt"

	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage work sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionEndCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "start <goal>",
		Short: "Start a new work session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.service.StartSession(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s: %s\n", session.ID, session.Goal)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Session ID (default: next sequential)")

	return cmd
}

func newSessionEndCmd(app *app) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "end",
		Short: "Close the current work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var final domain.SessionState
			if state != "" {
				final = domain.SessionStateFrom(state)
			}

			session, err := app.service.EndSession(cmd.Context(), final)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ended %s (%s)\n", session.ID, session.State)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Final state: completed, blocked or cancelled (default: completed)")

	return cmd
}
