// Package dataset assembles labeled training sequences from a directory tree
// of sign-language videos, one class per directory.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/video"
)

// Per-video outcome statuses recorded in the run report.
const (
	StatusOK          = "ok"
	StatusNoSequences = "no_sequences"
	StatusDecodeError = "decode_error"
)

// Config holds assembler options.
type Config struct {
	// DatasetDir is the root directory: one subdirectory per class, videos inside.
	DatasetDir string

	// Workers is the number of videos processed concurrently. Values below 1
	// mean sequential processing. Output order is canonical regardless.
	Workers int
}

// Sample is one labeled training sequence.
type Sample struct {
	Sequence feature.Sequence
	Label    int
}

// Dataset is the assembled sample set with its label mapping.
type Dataset struct {
	Samples  []Sample
	Classes  []string
	LabelMap map[string]int
}

// VideoReport records the outcome of processing one video.
type VideoReport struct {
	Class     string
	Path      string
	Sequences int
	Status    string
	Err       error
}

// Report summarizes a full assembly run.
type Report struct {
	Videos    []VideoReport
	Sequences int
	Skipped   int

	// FirstSequence is the first sequence emitted in canonical order,
	// kept for debug dumping. Nil if the run produced nothing.
	FirstSequence feature.Sequence
}

// DetectorFactory creates a fresh detector for one video. Each video gets
// its own instance so the detector's tracking state never leaks across
// videos and videos can be processed concurrently.
type DetectorFactory func() (detector.Detector, error)

// Assembler walks the dataset tree and accumulates labeled sequences.
type Assembler struct {
	cfg         Config
	openSource  video.Opener
	newDetector DetectorFactory

	// OnVideo, if set, is called once per finished video. Calls are
	// serialized but arrive in completion order, not canonical order.
	OnVideo func(VideoReport)

	hookMu sync.Mutex
}

// New creates an Assembler.
func New(cfg Config, openSource video.Opener, newDetector DetectorFactory) *Assembler {
	return &Assembler{
		cfg:         cfg,
		openSource:  openSource,
		newDetector: newDetector,
	}
}

// ListClasses returns the class directory names under datasetDir, sorted
// lexicographically. The sort rank of a class is its label.
func ListClasses(datasetDir string) ([]string, error) {
	entries, err := os.ReadDir(datasetDir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var classes []string
	for _, entry := range entries {
		if entry.IsDir() {
			classes = append(classes, entry.Name())
		}
	}
	sort.Strings(classes)

	return classes, nil
}

// job is one video in canonical traversal order.
type job struct {
	class string
	label int
	path  string
}

type result struct {
	sequences []feature.Sequence
	err       error
}

// Run processes every video and returns the assembled dataset and report.
//
// Sample order is deterministic: class (sorted) → video (listing order) →
// sequence (emission order), with each mirrored sequence immediately after
// its original. Videos may be processed concurrently but results are merged
// back in canonical order before anything is appended.
func (a *Assembler) Run() (*Dataset, *Report, error) {
	classes, err := ListClasses(a.cfg.DatasetDir)
	if err != nil {
		return nil, nil, err
	}

	labelMap := make(map[string]int, len(classes))
	for i, class := range classes {
		labelMap[class] = i
	}

	jobs, err := a.listJobs(classes)
	if err != nil {
		return nil, nil, err
	}

	results := a.processAll(jobs)

	ds := &Dataset{
		Classes:  classes,
		LabelMap: labelMap,
	}
	report := &Report{}

	for i, j := range jobs {
		res := results[i]
		vr := VideoReport{
			Class:     j.class,
			Path:      j.path,
			Sequences: len(res.sequences),
		}

		switch {
		case res.err != nil:
			vr.Status = StatusDecodeError
			vr.Err = res.err
			report.Skipped++
			log.Printf("Skipping %s: %v", j.path, res.err)
		case len(res.sequences) == 0:
			vr.Status = StatusNoSequences
			report.Skipped++
		default:
			vr.Status = StatusOK
		}
		report.Videos = append(report.Videos, vr)

		for _, seq := range res.sequences {
			if report.FirstSequence == nil {
				report.FirstSequence = seq
			}
			ds.Samples = append(ds.Samples,
				Sample{Sequence: seq, Label: j.label},
				Sample{Sequence: feature.Mirror(seq), Label: j.label},
			)
			report.Sequences++
		}
	}

	return ds, report, nil
}

// listJobs enumerates every video in canonical class→video order.
func (a *Assembler) listJobs(classes []string) ([]job, error) {
	var jobs []job
	for label, class := range classes {
		classDir := filepath.Join(a.cfg.DatasetDir, class)
		entries, err := os.ReadDir(classDir)
		if err != nil {
			return nil, fmt.Errorf("read class dir %s: %w", class, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			jobs = append(jobs, job{
				class: class,
				label: label,
				path:  filepath.Join(classDir, entry.Name()),
			})
		}
	}
	return jobs, nil
}

// processAll runs every job, using a worker pool when configured. Each
// result lands in its job's slot, so merge order never depends on
// completion order.
func (a *Assembler) processAll(jobs []job) []result {
	results := make([]result, len(jobs))

	workers := a.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	if workers <= 1 {
		for i, j := range jobs {
			results[i] = a.runJob(j)
		}
		return results
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = a.runJob(jobs[i])
			}
		}()
	}
	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

func (a *Assembler) runJob(j job) result {
	sequences, err := a.processVideo(j.path)
	res := result{sequences: sequences, err: err}

	if a.OnVideo != nil {
		vr := VideoReport{Class: j.class, Path: j.path, Sequences: len(sequences)}
		switch {
		case err != nil:
			vr.Status = StatusDecodeError
			vr.Err = err
		case len(sequences) == 0:
			vr.Status = StatusNoSequences
		default:
			vr.Status = StatusOK
		}
		a.hookMu.Lock()
		a.OnVideo(vr)
		a.hookMu.Unlock()
	}

	return res
}

// processVideo runs one video through decode → detect → build → window.
// The frame source and detector are scoped to this video and released on
// every exit path.
func (a *Assembler) processVideo(path string) ([]feature.Sequence, error) {
	src, err := a.openSource(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	det, err := a.newDetector()
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}
	defer det.Close()

	windower := feature.NewWindower()
	var sequences []feature.Sequence

	for {
		frame, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}

		result, derr := det.Detect(frame)
		frame.Close()
		if derr != nil {
			return nil, fmt.Errorf("detect: %w", derr)
		}

		if seq, ok := windower.Push(feature.Build(result)); ok {
			sequences = append(sequences, seq)
		}
	}

	// Residual buffered frames are discarded with the windower

	return sequences, nil
}
