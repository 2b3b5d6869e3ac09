package cmd

import (
	"fmt"

	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record work in the current session",
	}

	cmd.AddCommand(
		newAddDecisionCmd(app),
		newAddFileCmd(app),
		newAddPatternCmd(app),
		newAddBlockerCmd(app),
		newAddNextCmd(app),
		newAddKVCmd(app),
	)

	return cmd
}

func newAddDecisionCmd(app *app) *cobra.Command {
	var alternatives []string
	var impact []string

	cmd := &cobra.Command{
		Use:   "decision <what> <why>",
		Short: "Record a decision with its rationale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision, err := app.service.AddDecision(cmd.Context(), args[0], args[1], alternatives, impact)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s: %s\n", decision.ID, decision.What)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&alternatives, "alt", nil, "Alternatives that were considered")
	cmd.Flags().StringSliceVar(&impact, "impact", nil, "Files or areas the decision touches")

	return cmd
}

func newAddFileCmd(app *app) *cobra.Command {
	var action, role, status string
	var deps []string

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Record a file change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.service.UpdateFile(cmd.Context(), args[0], domain.FileChange{
				Action: domain.FileActionFrom(action),
				Role:   role,
				Deps:   deps,
				Status: domain.FileStatusFrom(status),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "modified", "What happened: created, modified, deleted or renamed")
	cmd.Flags().StringVar(&role, "role", "", "What the file is for")
	cmd.Flags().StringSliceVar(&deps, "deps", nil, "Dependencies the file pulls in")
	cmd.Flags().StringVar(&status, "status", "complete", "Progress: complete, partial, blocked or pending")

	return cmd
}

func newAddPatternCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pattern <name> <description>",
		Short: "Record an established pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.AddPattern(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded pattern %s\n", args[0])
			return nil
		},
	}
}

func newAddBlockerCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocker <description>",
		Short: "Record an open blocker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocker, err := app.service.AddBlocker(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s: %s\n", blocker.ID, blocker.Desc)
			return nil
		},
	}
}

func newAddNextCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next <step>...",
		Short: "Replace the next-steps list for the current session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.SetNextSteps(cmd.Context(), args); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %d next steps\n", len(args))
			return nil
		},
	}
}

func newAddKVCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kv <key> <value>",
		Short: "Record a key-value fact about the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.SetKV(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s=%s\n", args[0], args[1])
			return nil
		},
	}
}
