package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPackCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack the context into the layered archive format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.convert.Pack(cmd.Context(), force)
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)

			output, err := app.comparisonRenderer(result.Comparison)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing archive")

	return cmd
}

func newUnpackCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Restore a readable context from the layered archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.convert.Unpack(cmd.Context(), output)
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored to %s\n", result.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Destination path (default: sibling .session-ctx.v1-from-v2.json)")

	return cmd
}

func newMinifyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "minify",
		Short: "Write the compact single-letter-key rendition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.convert.Minify(cmd.Context()); err != nil {
				return err
			}

			comparison, err := app.convert.Compare(cmd.Context())
			if err != nil {
				return err
			}

			output, err := app.comparisonRenderer(comparison)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
}

func newExpandCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expand",
		Short: "Restore the readable context from the compact rendition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := app.convert.Expand(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored %d sessions\n", len(doc.Sessions))
			return nil
		},
	}
}

func newCompareCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare on-disk sizes of the context renditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comparison, err := app.convert.Compare(cmd.Context())
			if err != nil {
				return err
			}

			output, err := app.comparisonRenderer(comparison)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
}
