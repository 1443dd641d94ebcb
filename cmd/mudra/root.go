package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "mudra",
		Short:         "Sign-language gesture dataset preprocessor",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newPreprocessCommand(&configFlag))
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newRunsCommand(&configFlag))

	return rootCmd
}
