package video

import (
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource yields a fixed number of blank frames for testing. The frame
// content does not matter to consumers that pair it with a scripted
// detector; only the frame count drives the pipeline.
type MockSource struct {
	remaining int
	mu        sync.Mutex
	closed    bool
}

// NewMockSource creates a source that yields n frames before io.EOF.
func NewMockSource(n int) *MockSource {
	return &MockSource{remaining: n}
}

// ReadFrame yields the next blank frame or io.EOF when exhausted.
func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.remaining <= 0 {
		return nil, io.EOF
	}

	s.remaining--
	mat := gocv.NewMat()
	return &mat, nil
}

// Close marks the source closed.
func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *MockSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
