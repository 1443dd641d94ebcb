package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/feature"
)

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func uniformSequence(p detector.Point3D, frames int) feature.Sequence {
	seq := make(feature.Sequence, frames)
	for i := range seq {
		seq[i] = feature.Build(detector.LeftHandFrame(p))
	}
	return seq
}

func findStats(t *testing.T, all []BlockStats, block, axis string) BlockStats {
	t.Helper()
	for _, s := range all {
		if s.Block == block && s.Axis == axis {
			return s
		}
	}
	t.Fatalf("no stats for %s %s", block, axis)
	return BlockStats{}
}

func TestAnalyze_UniformValues(t *testing.T) {
	seq := uniformSequence(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1}, 10)
	all := Analyze([]feature.Sequence{seq})

	if len(all) != 9 {
		t.Fatalf("expected 9 block/axis pairs, got %d", len(all))
	}

	lx := findStats(t, all, "Left Hand", "X")
	if !floatEqual(lx.Min, 0.2) || !floatEqual(lx.Max, 0.2) || !floatEqual(lx.Mean, 0.2) {
		t.Errorf("wrong left X stats: %+v", lx)
	}
	if !floatEqual(lx.Std, 0) {
		t.Errorf("expected zero std for uniform values, got %f", lx.Std)
	}
	// 10 frames x 21 points
	if lx.Count != 210 {
		t.Errorf("expected 210 values, got %d", lx.Count)
	}

	ly := findStats(t, all, "Left Hand", "Y")
	if !floatEqual(ly.Mean, 0.5) {
		t.Errorf("wrong left Y mean: %f", ly.Mean)
	}
}

func TestAnalyze_SkipsZeroFrames(t *testing.T) {
	seq := make(feature.Sequence, 4)
	seq[0] = feature.Build(detector.LeftHandFrame(detector.Point3D{X: 0.4, Y: 0.4, Z: 0.4}))
	for i := 1; i < 4; i++ {
		seq[i] = make(feature.Vector, feature.VectorSize)
	}

	all := Analyze([]feature.Sequence{seq})

	lx := findStats(t, all, "Left Hand", "X")
	if lx.Count != feature.HandPointCount {
		t.Errorf("zero frames must be excluded: got %d values", lx.Count)
	}
	if !floatEqual(lx.Mean, 0.4) {
		t.Errorf("wrong mean with zero frames excluded: %f", lx.Mean)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	all := Analyze(nil)

	for _, s := range all {
		if s.Count != 0 {
			t.Errorf("%s %s: expected zero count, got %d", s.Block, s.Axis, s.Count)
		}
	}
}

func TestFormat(t *testing.T) {
	seq := uniformSequence(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1}, 2)
	out := Format(Analyze([]feature.Sequence{seq}))

	if !strings.Contains(out, "Left Hand X: Min=0.200, Max=0.200, Mean=0.200, Std=0.000") {
		t.Errorf("unexpected report line:\n%s", out)
	}
	if !strings.Contains(out, "Pose Z:") {
		t.Errorf("report missing pose rows:\n%s", out)
	}

	lines := strings.Count(out, "\n")
	if lines != 9 {
		t.Errorf("expected 9 report lines, got %d", lines)
	}
}
