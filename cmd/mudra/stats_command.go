package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/stats"
)

func newStatsCommand() *cobra.Command {
	var reportFlag bool
	var plotsFlag bool

	cmd := &cobra.Command{
		Use:   "stats <X.npy>",
		Short: "Re-analyze feature distributions of a saved dataset tensor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			sequences, err := export.ReadTensorFile(path)
			if err != nil {
				return err
			}

			blockStats := stats.Analyze(sequences)
			fmt.Print(stats.Format(blockStats))

			dir := filepath.Dir(path)
			if reportFlag {
				if err := stats.WriteReport(filepath.Join(dir, "feature_stats.txt"), blockStats); err != nil {
					return err
				}
			}
			if plotsFlag {
				if err := stats.PlotHistograms(filepath.Join(dir, "plots"), sequences); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&reportFlag, "report", false, "Write feature_stats.txt next to the tensor")
	cmd.Flags().BoolVar(&plotsFlag, "plots", false, "Write histogram plots next to the tensor")

	return cmd
}
