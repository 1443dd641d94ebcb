package feature

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuild_NilFrame(t *testing.T) {
	v := Build(nil)

	if len(v) != VectorSize {
		t.Fatalf("expected %d values, got %d", VectorSize, len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Fatalf("expected zero vector, got %f at index %d", x, i)
		}
	}
}

func TestBuild_EmptyFrame(t *testing.T) {
	v := Build(&detector.Frame{})

	if len(v) != VectorSize {
		t.Fatalf("expected %d values, got %d", VectorSize, len(v))
	}
	if HasHands(v) {
		t.Error("empty frame should not count as presence")
	}
}

func TestBuild_LeftHandOnly(t *testing.T) {
	frame := detector.LeftHandFrame(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1})
	v := Build(frame)

	if len(v) != VectorSize {
		t.Fatalf("expected %d values, got %d", VectorSize, len(v))
	}

	// Left block: (0.2, 0.5, 0.1) repeated 21 times
	for p := 0; p < HandPointCount; p++ {
		i := LeftHandOffset + p*3
		if !floatEqual(v[i], 0.2) || !floatEqual(v[i+1], 0.5) || !floatEqual(v[i+2], 0.1) {
			t.Fatalf("wrong left hand point %d: (%f, %f, %f)", p, v[i], v[i+1], v[i+2])
		}
	}

	// Right and pose blocks stay zero
	for i := RightHandOffset; i < VectorSize; i++ {
		if v[i] != 0 {
			t.Fatalf("expected zero at index %d, got %f", i, v[i])
		}
	}
}

func TestBuild_RawCoordinatesUnmodified(t *testing.T) {
	// Values outside [0,1] must pass through untouched
	frame := detector.RightHandFrame(detector.Point3D{X: 1.4, Y: -0.3, Z: 2.0})
	v := Build(frame)

	i := RightHandOffset + detector.IndexTip*3
	if !floatEqual(v[i], 1.4) || !floatEqual(v[i+1], -0.3) || !floatEqual(v[i+2], 2.0) {
		t.Errorf("coordinates were modified: (%f, %f, %f)", v[i], v[i+1], v[i+2])
	}
}

func TestBuild_PoseTruncatedToFifteen(t *testing.T) {
	// Full holistic pose is 33 landmarks; only 0..14 are consumed
	frame := &detector.Frame{
		Pose: detector.UniformPose(detector.Point3D{X: 0.3, Y: 0.4, Z: 0.5}, 33),
	}
	v := Build(frame)

	for p := 0; p < PosePointCount; p++ {
		i := PoseOffset + p*3
		if !floatEqual(v[i], 0.3) || !floatEqual(v[i+1], 0.4) || !floatEqual(v[i+2], 0.5) {
			t.Fatalf("wrong pose point %d: (%f, %f, %f)", p, v[i], v[i+1], v[i+2])
		}
	}

	if HasHands(v) {
		t.Error("pose-only frame should not count as presence")
	}
}

func TestBuild_ShortPoseList(t *testing.T) {
	frame := &detector.Frame{
		Pose: detector.UniformPose(detector.Point3D{X: 0.1, Y: 0.1, Z: 0.1}, 10),
	}
	v := Build(frame)

	// First 10 points filled, remaining 5 zero
	if !floatEqual(v[PoseOffset+9*3], 0.1) {
		t.Error("expected tenth pose point to be filled")
	}
	if v[PoseOffset+10*3] != 0 {
		t.Error("expected eleventh pose point to be zero")
	}
}

func TestHasHands(t *testing.T) {
	left := Build(detector.LeftHandFrame(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1}))
	if !HasHands(left) {
		t.Error("left hand frame should count as presence")
	}

	right := Build(detector.RightHandFrame(detector.Point3D{X: 0.2, Y: 0.5, Z: 0.1}))
	if !HasHands(right) {
		t.Error("right hand frame should count as presence")
	}

	if HasHands(make(Vector, VectorSize)) {
		t.Error("zero vector should not count as presence")
	}
}

func TestHasHands_ExactZeroSum(t *testing.T) {
	// Coordinates that cancel to an exact zero sum read as absence.
	// This matches the on-device client and is deliberate.
	v := make(Vector, VectorSize)
	v[LeftHandOffset] = 0.5
	v[LeftHandOffset+1] = -0.5

	if HasHands(v) {
		t.Error("exactly cancelling block must read as absence")
	}
}
