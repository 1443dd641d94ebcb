// Package detector provides holistic landmark detection interfaces and types
// for sign-language video processing.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist            = 0
	ThumbCMC         = 1
	ThumbMCP         = 2
	ThumbIP          = 3
	ThumbTip         = 4
	IndexMCP         = 5
	IndexPIP         = 6
	IndexDIP         = 7
	IndexTip         = 8
	MiddleMCP        = 9
	MiddlePIP        = 10
	MiddleDIP        = 11
	MiddleTip        = 12
	RingMCP          = 13
	RingPIP          = 14
	RingDIP          = 15
	RingTip          = 16
	PinkyMCP         = 17
	PinkyPIP         = 18
	PinkyDIP         = 19
	PinkyTip         = 20
	NumHandLandmarks = 21
)

// Upper-body pose landmark indices following MediaPipe convention.
// The feature pipeline consumes only indices 0..14; the holistic model
// itself reports 33.
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14

	// MinPoseLandmarks is the smallest pose landmark list the pipeline accepts.
	MinPoseLandmarks = 15
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// Coordinates are detector-native normalized values; no range is enforced.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frame holds the holistic detection result for a single video frame.
// Each landmark group is optional: a nil group means the detector did not
// find that group in the frame. Coordinates are passed through raw.
type Frame struct {
	LeftHand  *[NumHandLandmarks]Point3D
	RightHand *[NumHandLandmarks]Point3D
	Pose      []Point3D
}

// HasLeftHand reports whether the frame contains left hand landmarks.
func (f *Frame) HasLeftHand() bool {
	return f != nil && f.LeftHand != nil
}

// HasRightHand reports whether the frame contains right hand landmarks.
func (f *Frame) HasRightHand() bool {
	return f != nil && f.RightHand != nil
}

// HasPose reports whether the frame contains pose landmarks.
func (f *Frame) HasPose() bool {
	return f != nil && len(f.Pose) > 0
}
