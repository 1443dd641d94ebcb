package detector

import "gocv.io/x/gocv"

// Detector defines the interface for holistic landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the holistic landmark result.
	// A frame with no detections returns a Frame with all groups absent,
	// never an error.
	Detect(frame *gocv.Mat) (*Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MinDetectionConf is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the holistic model variant (0, 1, or 2).
	ModelComplexity int

	// ScriptPath overrides the location of the Python holistic service.
	// Empty means search the usual locations.
	ScriptPath string

	// PythonPath overrides the Python interpreter. Empty means search for a
	// virtual environment, falling back to python3.
	PythonPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinDetectionConf: 0.5,
		MinTrackingConf:  0.5,
		ModelComplexity:  1,
	}
}
