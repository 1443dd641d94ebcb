package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/video"
)

// writeVideo creates a fake video file whose byte length encodes its frame
// count for mockOpener.
func writeVideo(t *testing.T, dir, name string, frames int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, frames), 0644); err != nil {
		t.Fatal(err)
	}
}

func makeClassDir(t *testing.T, root, class string) string {
	t.Helper()
	dir := filepath.Join(root, class)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// mockOpener yields one frame per byte of file content.
func mockOpener(path string) (video.FrameSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return video.NewMockSource(len(data)), nil
}

// presenceDetectorFactory returns detectors that report a left hand at a
// fixed position on every frame.
func presenceDetectorFactory() (detector.Detector, error) {
	mock := detector.NewMockDetector()
	mock.SetDefaultFrame(detector.LeftHandFrame(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1}))
	return mock, nil
}

func TestListClasses_SortedLabels(t *testing.T) {
	root := t.TempDir()
	// Created out of order on purpose
	makeClassDir(t, root, "yes")
	makeClassDir(t, root, "hello")
	makeClassDir(t, root, "thanks")

	classes, err := ListClasses(root)
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}

	want := []string{"hello", "thanks", "yes"}
	if len(classes) != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), len(classes))
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Errorf("class %d: got %s, want %s", i, classes[i], want[i])
		}
	}
}

func TestAssembler_AugmentationDoubling(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	// 31 presence frames yield 2 overlapping sequences
	writeVideo(t, dir, "a.mp4", 31)

	a := New(Config{DatasetDir: root}, mockOpener, presenceDetectorFactory)
	ds, report, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Sequences != 2 {
		t.Errorf("expected 2 sequences, got %d", report.Sequences)
	}
	if len(ds.Samples) != 4 {
		t.Fatalf("expected 4 samples (2 original + 2 mirrored), got %d", len(ds.Samples))
	}
	for i, s := range ds.Samples {
		if s.Label != 0 {
			t.Errorf("sample %d: expected label 0, got %d", i, s.Label)
		}
		if len(s.Sequence) != feature.SequenceLength {
			t.Errorf("sample %d: expected %d frames, got %d", i, feature.SequenceLength, len(s.Sequence))
		}
	}
}

func TestAssembler_MirrorInterleaved(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	writeVideo(t, dir, "a.mp4", 30)

	a := New(Config{DatasetDir: root}, mockOpener, presenceDetectorFactory)
	ds, _, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(ds.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(ds.Samples))
	}

	// Original: left hand populated, right zero. Mirrored: swapped.
	original := ds.Samples[0].Sequence[0]
	mirrored := ds.Samples[1].Sequence[0]

	if original[feature.LeftHandOffset] != 0.2 {
		t.Errorf("expected original left x 0.2, got %f", original[feature.LeftHandOffset])
	}
	if original[feature.RightHandOffset] != 0 {
		t.Errorf("expected original right block zero, got %f", original[feature.RightHandOffset])
	}
	if mirrored[feature.LeftHandOffset] != 0 {
		t.Errorf("expected mirrored left block zero, got %f", mirrored[feature.LeftHandOffset])
	}
	if mirrored[feature.RightHandOffset] != 0.8 {
		t.Errorf("expected mirrored right x 0.8, got %f", mirrored[feature.RightHandOffset])
	}
}

func TestAssembler_ShortVideoYieldsNothing(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	writeVideo(t, dir, "short.mp4", 10)

	a := New(Config{DatasetDir: root}, mockOpener, presenceDetectorFactory)
	ds, report, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(ds.Samples) != 0 {
		t.Errorf("expected no samples, got %d", len(ds.Samples))
	}
	if report.Skipped != 1 {
		t.Errorf("expected 1 skipped video, got %d", report.Skipped)
	}
	if report.Videos[0].Status != StatusNoSequences {
		t.Errorf("expected status %s, got %s", StatusNoSequences, report.Videos[0].Status)
	}
}

func TestAssembler_DecodeFailureIsIsolated(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	writeVideo(t, dir, "bad.mp4", 40)
	writeVideo(t, dir, "good.mp4", 30)

	opener := func(path string) (video.FrameSource, error) {
		if filepath.Base(path) == "bad.mp4" {
			return nil, errors.New("corrupt container")
		}
		return mockOpener(path)
	}

	a := New(Config{DatasetDir: root}, opener, presenceDetectorFactory)
	ds, report, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The good video still contributes its samples
	if len(ds.Samples) != 2 {
		t.Errorf("expected 2 samples from the good video, got %d", len(ds.Samples))
	}
	if report.Videos[0].Status != StatusDecodeError {
		t.Errorf("expected status %s, got %s", StatusDecodeError, report.Videos[0].Status)
	}
	if report.Videos[1].Status != StatusOK {
		t.Errorf("expected status %s, got %s", StatusOK, report.Videos[1].Status)
	}
}

func TestAssembler_CanonicalOrderWithWorkers(t *testing.T) {
	root := t.TempDir()
	// Varying frame counts so completion order differs from canonical order
	writeVideo(t, makeClassDir(t, root, "hello"), "a.mp4", 90)
	writeVideo(t, filepath.Join(root, "hello"), "b.mp4", 30)
	writeVideo(t, makeClassDir(t, root, "thanks"), "a.mp4", 60)
	writeVideo(t, makeClassDir(t, root, "yes"), "a.mp4", 45)

	a := New(Config{DatasetDir: root, Workers: 4}, mockOpener, presenceDetectorFactory)
	ds, _, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// hello: (90-29)+(30-29) = 62 seqs, thanks: 31, yes: 16; doubled by mirroring
	wantPerLabel := map[int]int{0: 124, 1: 62, 2: 32}
	gotPerLabel := make(map[int]int)
	lastLabel := 0
	for i, s := range ds.Samples {
		if s.Label < lastLabel {
			t.Fatalf("labels out of canonical order at sample %d", i)
		}
		lastLabel = s.Label
		gotPerLabel[s.Label]++
	}

	for label, want := range wantPerLabel {
		if gotPerLabel[label] != want {
			t.Errorf("label %d: expected %d samples, got %d", label, want, gotPerLabel[label])
		}
	}
}

func TestAssembler_DetectorPerVideo(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	writeVideo(t, dir, "a.mp4", 30)
	writeVideo(t, dir, "b.mp4", 30)
	writeVideo(t, dir, "c.mp4", 5)

	var created atomic.Int32
	factory := func() (detector.Detector, error) {
		created.Add(1)
		return presenceDetectorFactory()
	}

	a := New(Config{DatasetDir: root}, mockOpener, factory)
	if _, _, err := a.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if created.Load() != 3 {
		t.Errorf("expected one detector per video (3), got %d", created.Load())
	}
}

func TestAssembler_FirstSequenceCaptured(t *testing.T) {
	root := t.TempDir()
	writeVideo(t, makeClassDir(t, root, "hello"), "a.mp4", 30)

	a := New(Config{DatasetDir: root}, mockOpener, presenceDetectorFactory)
	_, report, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.FirstSequence == nil {
		t.Fatal("expected first sequence to be captured")
	}
	if len(report.FirstSequence) != feature.SequenceLength {
		t.Errorf("expected %d frames, got %d", feature.SequenceLength, len(report.FirstSequence))
	}
}

func TestAssembler_OnVideoHook(t *testing.T) {
	root := t.TempDir()
	dir := makeClassDir(t, root, "hello")
	writeVideo(t, dir, "a.mp4", 30)
	writeVideo(t, dir, "b.mp4", 5)

	a := New(Config{DatasetDir: root, Workers: 2}, mockOpener, presenceDetectorFactory)

	var calls atomic.Int32
	a.OnVideo = func(vr VideoReport) {
		calls.Add(1)
	}

	if _, _, err := a.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 hook calls, got %d", calls.Load())
	}
}

func TestAssembler_EmptyDataset(t *testing.T) {
	root := t.TempDir()

	a := New(Config{DatasetDir: root}, mockOpener, presenceDetectorFactory)
	ds, report, err := a.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(ds.Samples) != 0 || len(ds.Classes) != 0 {
		t.Error("expected empty dataset")
	}
	if len(report.Videos) != 0 {
		t.Error("expected no video reports")
	}
}
