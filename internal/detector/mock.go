package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It plays back a scripted list of frame results in order.
type MockDetector struct {
	frames []*Frame
	def    *Frame
	index  int
	err    error
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrames sets the sequence of results that Detect will return, one per
// call. Once exhausted, Detect returns empty frames.
func (m *MockDetector) SetFrames(frames []*Frame) {
	m.frames = frames
	m.index = 0
}

// SetDefaultFrame sets the result returned once the scripted frames are
// exhausted, instead of an empty frame.
func (m *MockDetector) SetDefaultFrame(f *Frame) {
	m.def = f
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next scripted result or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.index >= len(m.frames) {
		if m.def != nil {
			return m.def, nil
		}
		return &Frame{}, nil
	}
	f := m.frames[m.index]
	m.index++
	return f, nil
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// UniformHand returns a hand landmark array with all 21 points at p.
func UniformHand(p Point3D) *[NumHandLandmarks]Point3D {
	var hand [NumHandLandmarks]Point3D
	for i := range hand {
		hand[i] = p
	}
	return &hand
}

// UniformPose returns a pose landmark list of n points, all at p.
func UniformPose(p Point3D, n int) []Point3D {
	pose := make([]Point3D, n)
	for i := range pose {
		pose[i] = p
	}
	return pose
}

// LeftHandFrame returns a frame containing only a left hand with all
// landmarks at p.
func LeftHandFrame(p Point3D) *Frame {
	return &Frame{LeftHand: UniformHand(p)}
}

// RightHandFrame returns a frame containing only a right hand with all
// landmarks at p.
func RightHandFrame(p Point3D) *Frame {
	return &Frame{RightHand: UniformHand(p)}
}

// EmptyFrame returns a frame with no detections.
func EmptyFrame() *Frame {
	return &Frame{}
}
