// Package video provides frame-by-frame reading of video files using GoCV (OpenCV).
package video

import (
	"errors"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// ErrSourceClosed is returned when reading from a source that has been closed.
var ErrSourceClosed = errors.New("frame source is closed")

// FrameSource yields the frames of one video in capture order.
// ReadFrame returns io.EOF when the video is exhausted. The caller is
// responsible for closing each returned Mat.
type FrameSource interface {
	ReadFrame() (*gocv.Mat, error)
	Close() error
}

// Opener opens a frame source for a video file path.
type Opener func(path string) (FrameSource, error)

// fileSource reads frames from a video file via GoCV.
type fileSource struct {
	capture *gocv.VideoCapture
	mu      sync.Mutex
	open    bool
}

// OpenFile opens a video file for sequential frame reading.
func OpenFile(path string) (FrameSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, err
	}

	return &fileSource{
		capture: capture,
		open:    true,
	}, nil
}

// ReadFrame reads the next frame from the video.
// A failed read or an empty frame means the video is exhausted.
func (s *fileSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, io.EOF
	}

	if mat.Empty() {
		mat.Close()
		return nil, io.EOF
	}

	return &mat, nil
}

// Close releases the underlying capture.
func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.open = false

	return err
}
