package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/dataset"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/stats"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/video"
)

func newPreprocessCommand(configFlag *string) *cobra.Command {
	var datasetDir string
	var outputDir string
	var workers int
	var debugDump bool
	var noPlots bool

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Convert a directory of sign videos into training tensors",
		Long: `Process a dataset directory (one subdirectory per sign class, videos
inside) into X.npy, y.npy and label_map.json. Each 30-frame window with
continuous hand presence becomes one sample, plus a mirrored copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			if datasetDir != "" {
				cfg.Paths.DatasetDir = datasetDir
			}
			if outputDir != "" {
				cfg.Paths.OutputDir = outputDir
			}
			if workers > 0 {
				cfg.Processing.Workers = workers
			}
			if debugDump {
				cfg.Processing.DebugDump = true
			}
			if noPlots {
				cfg.Processing.Plots = false
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runPreprocess(cfg)
		},
	}

	cmd.Flags().StringVarP(&datasetDir, "dataset", "d", "", "Path to dataset class directories")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Path to write output artifacts")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Videos to process concurrently")
	cmd.Flags().BoolVar(&debugDump, "debug", false, "Dump the first sequence for parity checks")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "Skip histogram plots")

	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func runPreprocess(cfg config.Config) error {
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	catalog, err := openCatalog(cfg.Paths.CatalogDB)
	if err != nil {
		return err
	}
	defer catalog.Close()

	run := &store.Run{
		ID:         uuid.New().String(),
		DatasetDir: cfg.Paths.DatasetDir,
		OutputDir:  cfg.Paths.OutputDir,
		StartedAt:  time.Now(),
	}
	if err := catalog.Runs().Create(run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	// Save the label map first, as soon as the class listing is known
	classes, err := dataset.ListClasses(cfg.Paths.DatasetDir)
	if err != nil {
		return err
	}
	labelMap := make(map[string]int, len(classes))
	for i, class := range classes {
		labelMap[class] = i
	}
	if err := export.SaveLabelMap(filepath.Join(cfg.Paths.OutputDir, "label_map.json"), labelMap); err != nil {
		return err
	}
	log.Printf("Found %d classes", len(classes))

	detectorConfig := detector.Config{
		MinDetectionConf: cfg.Detector.MinDetectionConf,
		MinTrackingConf:  cfg.Detector.MinTrackingConf,
		ModelComplexity:  cfg.Detector.ModelComplexity,
		ScriptPath:       cfg.Detector.ScriptPath,
		PythonPath:       cfg.Detector.PythonPath,
	}

	assembler := dataset.New(
		dataset.Config{
			DatasetDir: cfg.Paths.DatasetDir,
			Workers:    cfg.Processing.Workers,
		},
		video.OpenFile,
		func() (detector.Detector, error) {
			return detector.NewHolisticDetector(detectorConfig)
		},
	)

	bar := progressbar.Default(-1, "processing videos")
	assembler.OnVideo = func(vr dataset.VideoReport) {
		bar.Add(1)
	}

	ds, report, err := assembler.Run()
	if err != nil {
		return err
	}
	bar.Finish()

	log.Printf("Complete: %d sequences, %d samples, %d videos skipped",
		report.Sequences, len(ds.Samples), report.Skipped)

	if err := saveArtifacts(cfg, ds, report); err != nil {
		return err
	}

	recordOutcome(catalog, run, ds, report)

	fmt.Println(summaryTable(ds, report))
	return nil
}

func openCatalog(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	catalog, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return catalog, nil
}

func saveArtifacts(cfg config.Config, ds *dataset.Dataset, report *dataset.Report) error {
	sequences := make([]feature.Sequence, len(ds.Samples))
	labels := make([]int, len(ds.Samples))
	for i, s := range ds.Samples {
		sequences[i] = s.Sequence
		labels[i] = s.Label
	}

	outDir := cfg.Paths.OutputDir
	if err := export.SaveTensorFile(filepath.Join(outDir, "X.npy"), sequences); err != nil {
		return err
	}
	if err := export.SaveLabelsFile(filepath.Join(outDir, "y.npy"), labels); err != nil {
		return err
	}
	log.Printf("Saved X.npy [%d, %d, %d] and y.npy [%d]",
		len(sequences), feature.SequenceLength, feature.VectorSize, len(labels))

	if cfg.Processing.DebugDump && report.FirstSequence != nil {
		path := filepath.Join(outDir, "debug_sequence.npy")
		if err := export.SaveSequenceFile(path, report.FirstSequence); err != nil {
			return err
		}
		logDebugSequence(report.FirstSequence)
	}

	// Diagnostics only: a stats or plot failure never fails the run
	blockStats := stats.Analyze(sequences)
	fmt.Print(stats.Format(blockStats))
	if err := stats.WriteReport(filepath.Join(outDir, "feature_stats.txt"), blockStats); err != nil {
		log.Printf("Stats report failed: %v", err)
	}
	if cfg.Processing.Plots {
		if err := stats.PlotHistograms(filepath.Join(outDir, "plots"), sequences); err != nil {
			log.Printf("Histogram plots failed: %v", err)
		}
	}

	return nil
}

// logDebugSequence prints the head of the dumped parity sequence and its
// zero-frame indices, the quickest things to compare against the device.
func logDebugSequence(seq feature.Sequence) {
	head := seq[0]
	if len(head) > 20 {
		head = head[:20]
	}
	log.Printf("Debug sequence frame 0 (first 20 vals): %v", head)

	var zeroFrames []int
	for i, v := range seq {
		allZero := true
		for _, x := range v {
			if x != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			zeroFrames = append(zeroFrames, i)
		}
	}
	log.Printf("Zero frame indices: %v", zeroFrames)
}

func recordOutcome(catalog *store.Store, run *store.Run, ds *dataset.Dataset, report *dataset.Report) {
	videos := make([]store.RunVideo, len(report.Videos))
	for i, vr := range report.Videos {
		v := store.RunVideo{
			Class:     vr.Class,
			Path:      vr.Path,
			Sequences: vr.Sequences,
			Status:    vr.Status,
		}
		if vr.Err != nil {
			v.Error = vr.Err.Error()
		}
		videos[i] = v
	}
	if err := catalog.Runs().AddVideos(run.ID, videos); err != nil {
		log.Printf("Catalog video records failed: %v", err)
	}

	run.Classes = len(ds.Classes)
	run.Videos = len(report.Videos)
	run.Sequences = report.Sequences
	run.Samples = len(ds.Samples)
	run.Skipped = report.Skipped
	run.FinishedAt = time.Now()
	if err := catalog.Runs().Finish(run); err != nil {
		log.Printf("Catalog run record failed: %v", err)
	}
}

func summaryTable(ds *dataset.Dataset, report *dataset.Report) string {
	type classTotals struct {
		videos    int
		sequences int
		skipped   int
	}
	totals := make(map[string]*classTotals, len(ds.Classes))
	for _, class := range ds.Classes {
		totals[class] = &classTotals{}
	}
	for _, vr := range report.Videos {
		t := totals[vr.Class]
		t.videos++
		t.sequences += vr.Sequences
		if vr.Status != dataset.StatusOK {
			t.skipped++
		}
	}

	rows := make([][]string, 0, len(ds.Classes))
	for label, class := range ds.Classes {
		t := totals[class]
		rows = append(rows, []string{
			class,
			fmt.Sprintf("%d", label),
			fmt.Sprintf("%d", t.videos),
			fmt.Sprintf("%d", t.sequences),
			fmt.Sprintf("%d", 2*t.sequences),
			fmt.Sprintf("%d", t.skipped),
		})
	}

	return renderTable(
		[]string{"Class", "Label", "Videos", "Sequences", "Samples", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
