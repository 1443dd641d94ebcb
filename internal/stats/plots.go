package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ayusman/mudra/internal/feature"
)

const histogramBins = 50

// PlotHistograms writes one coordinate-distribution histogram PNG per
// block/axis pair into outputDir (left_hand_x.png, pose_z.png, ...).
// Pairs with no values are skipped.
func PlotHistograms(outputDir string, sequences []feature.Sequence) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	values := collect(sequences)

	for _, b := range blocks {
		for ai, axis := range axes {
			vals := values[b.name][ai]
			if len(vals) == 0 {
				continue
			}

			name := fmt.Sprintf("%s_%s.png", fileStem(b.name), strings.ToLower(axis))
			path := filepath.Join(outputDir, name)
			if err := plotHistogram(path, fmt.Sprintf("%s - %s", b.name, axis), vals); err != nil {
				return err
			}
		}
	}

	return nil
}

func plotHistogram(path, title string, vals []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "coordinate"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(vals), histogramBins)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", title, err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func fileStem(blockName string) string {
	return strings.ReplaceAll(strings.ToLower(blockName), " ", "_")
}
