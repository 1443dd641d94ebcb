package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

func newRunsCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show past preprocessing runs from the catalog",
		Long: `Without arguments, list all recorded runs. With a run ID, list that
run's per-video outcomes, including skipped videos and decode errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			catalog, err := store.New(cfg.Paths.CatalogDB)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer catalog.Close()

			if len(args) == 1 {
				return showRunVideos(catalog, args[0])
			}
			return listRuns(catalog)
		},
	}

	return cmd
}

func listRuns(catalog *store.Store) error {
	runs, err := catalog.Runs().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.DatasetDir,
			fmt.Sprintf("%d", run.Classes),
			fmt.Sprintf("%d", run.Videos),
			fmt.Sprintf("%d", run.Samples),
			fmt.Sprintf("%d", run.Skipped),
		})
	}

	fmt.Println(renderTable(
		[]string{"Run", "Started", "Dataset", "Classes", "Videos", "Samples", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}

func showRunVideos(catalog *store.Store, runID string) error {
	videos, err := catalog.Runs().Videos(runID)
	if err != nil {
		return err
	}

	if len(videos) == 0 {
		fmt.Println("No videos recorded for this run")
		return nil
	}

	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []string{
			v.Class,
			v.Path,
			fmt.Sprintf("%d", v.Sequences),
			v.Status,
			v.Error,
		})
	}

	fmt.Println(renderTable(
		[]string{"Class", "Video", "Sequences", "Status", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
