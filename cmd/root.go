package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sctx",
		Short:         "Session context CLI (sctx): track work sessions and pack them for LLM consumption",
		Long:          "sctx keeps a per-project session log (decisions, file changes, patterns, blockers) in a readable JSON file, and converts it to compact archive formats that cost a fraction of the tokens when pasted into an LLM context.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSessionCmd(app),
		newAddCmd(app),
		newStatusCmd(app),
		newPackCmd(app),
		newUnpackCmd(app),
		newMinifyCmd(app),
		newExpandCmd(app),
		newCompareCmd(app),
		newBenchCmd(app),
		newConfigCmd(),
	)

	return rootCmd
}
