// Package feature implements the fixed 171-value feature layout shared with
// the on-device inference client: raw landmark coordinates, left hand then
// right hand then upper-body pose, no normalization of any kind. The layout
// and the transforms in this package are a wire contract; changing ordering,
// index ranges, or adding scaling breaks parity with the client.
package feature

import "github.com/ayusman/mudra/internal/detector"

// Feature layout constants. These must match the on-device client.
const (
	HandPointCount = 21
	PosePointCount = 15

	HandBlockSize = HandPointCount * 3 // 63
	PoseBlockSize = PosePointCount * 3 // 45

	LeftHandOffset  = 0
	RightHandOffset = HandBlockSize     // 63
	PoseOffset      = 2 * HandBlockSize // 126

	// VectorSize is the full per-frame feature width.
	VectorSize = 2*HandBlockSize + PoseBlockSize // 171

	// SequenceLength is the number of frames per training sample.
	SequenceLength = 30
)

// Vector is a single frame's feature values, always VectorSize long.
type Vector []float64

// Sequence is a time-ordered window of exactly SequenceLength vectors.
type Sequence []Vector

// Build converts a holistic detection result into a feature vector.
// It is total: any input, including nil, produces exactly VectorSize values.
// An absent landmark group leaves its block zero-filled.
func Build(frame *detector.Frame) Vector {
	v := make(Vector, VectorSize)

	if frame == nil {
		return v
	}

	if frame.LeftHand != nil {
		writeHand(v[LeftHandOffset:], frame.LeftHand)
	}
	if frame.RightHand != nil {
		writeHand(v[RightHandOffset:], frame.RightHand)
	}
	if len(frame.Pose) > 0 {
		writePose(v[PoseOffset:], frame.Pose)
	}

	return v
}

func writeHand(dst []float64, hand *[detector.NumHandLandmarks]detector.Point3D) {
	for i, p := range hand {
		dst[i*3] = p.X
		dst[i*3+1] = p.Y
		dst[i*3+2] = p.Z
	}
}

// writePose copies pose indices 0..14 only. The index range is fixed by the
// wire contract, not configurable.
func writePose(dst []float64, pose []detector.Point3D) {
	for i := 0; i < PosePointCount && i < len(pose); i++ {
		dst[i*3] = pose[i].X
		dst[i*3+1] = pose[i].Y
		dst[i*3+2] = pose[i].Z
	}
}

// blockSum sums one block of the vector.
func blockSum(v Vector, offset, size int) float64 {
	var sum float64
	for _, x := range v[offset : offset+size] {
		sum += x
	}
	return sum
}

// HasHands reports whether the vector counts as a presence frame: either
// hand block sums to a non-zero value. The comparison is exact, matching
// the client; coordinates genuinely summing to zero read as absence.
func HasHands(v Vector) bool {
	return blockSum(v, LeftHandOffset, HandBlockSize) != 0 ||
		blockSum(v, RightHandOffset, HandBlockSize) != 0
}
