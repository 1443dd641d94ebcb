// Package stats computes diagnostic distribution statistics over an
// assembled feature tensor. It is reporting only: nothing here feeds back
// into the pipeline, and failures must never fail a run.
package stats

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/feature"
)

// block describes one slice of the feature layout.
type block struct {
	name   string
	offset int
	size   int
}

var blocks = []block{
	{"Left Hand", feature.LeftHandOffset, feature.HandBlockSize},
	{"Right Hand", feature.RightHandOffset, feature.HandBlockSize},
	{"Pose", feature.PoseOffset, feature.PoseBlockSize},
}

var axes = []string{"X", "Y", "Z"}

// BlockStats holds the distribution summary for one block/axis pair.
type BlockStats struct {
	Block string
	Axis  string
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
	Count int
}

// Analyze computes per-block per-axis statistics across all frames of all
// sequences. Frames that are entirely zero (no detections at all) are
// excluded, matching how the distribution report has always been read.
func Analyze(sequences []feature.Sequence) []BlockStats {
	values := collect(sequences)

	var out []BlockStats
	for _, b := range blocks {
		for ai, axis := range axes {
			vals := values[b.name][ai]
			bs := BlockStats{Block: b.name, Axis: axis, Count: len(vals)}
			if len(vals) > 0 {
				bs.Min = floats.Min(vals)
				bs.Max = floats.Max(vals)
				bs.Mean, bs.Std = stat.MeanStdDev(vals, nil)
			}
			out = append(out, bs)
		}
	}
	return out
}

// collect gathers raw values per block per axis, skipping all-zero frames.
func collect(sequences []feature.Sequence) map[string][3][]float64 {
	acc := make(map[string]*[3][]float64, len(blocks))
	for _, b := range blocks {
		acc[b.name] = &[3][]float64{}
	}

	for _, seq := range sequences {
		for _, v := range seq {
			if isZeroFrame(v) {
				continue
			}
			for _, b := range blocks {
				dst := acc[b.name]
				for i := b.offset; i < b.offset+b.size; i += 3 {
					dst[0] = append(dst[0], v[i])
					dst[1] = append(dst[1], v[i+1])
					dst[2] = append(dst[2], v[i+2])
				}
			}
		}
	}

	out := make(map[string][3][]float64, len(acc))
	for name, vals := range acc {
		out[name] = *vals
	}
	return out
}

func isZeroFrame(v feature.Vector) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Format renders the statistics the way the report file records them.
func Format(stats []BlockStats) string {
	var sb strings.Builder
	for _, s := range stats {
		fmt.Fprintf(&sb, "%s %s: Min=%.3f, Max=%.3f, Mean=%.3f, Std=%.3f\n",
			s.Block, s.Axis, s.Min, s.Max, s.Mean, s.Std)
	}
	return sb.String()
}

// WriteReport writes the formatted statistics to path.
func WriteReport(path string, stats []BlockStats) error {
	if err := os.WriteFile(path, []byte(Format(stats)), 0644); err != nil {
		return fmt.Errorf("write stats report: %w", err)
	}
	return nil
}
