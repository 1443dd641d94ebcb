package feature

// Mirror returns the horizontally mirrored copy of a sequence: per frame,
// every x coordinate becomes 1-x and the hand blocks swap slots, modeling
// the same gesture seen through a flipped camera. The pose block flips in
// place. Frame order is preserved and fresh storage is always returned; the
// input sequence is never mutated, since it stays referenced as the
// non-augmented sample.
//
// On [0,1] coordinates Mirror is its own inverse: Mirror(Mirror(s)) == s.
func Mirror(seq Sequence) Sequence {
	out := make(Sequence, len(seq))
	for i, v := range seq {
		out[i] = mirrorVector(v)
	}
	return out
}

func mirrorVector(v Vector) Vector {
	m := make(Vector, VectorSize)

	// Old right hand, flipped, lands in the left slot and vice versa
	mirrorBlock(m[LeftHandOffset:], v, RightHandOffset, HandBlockSize)
	mirrorBlock(m[RightHandOffset:], v, LeftHandOffset, HandBlockSize)
	mirrorBlock(m[PoseOffset:], v, PoseOffset, PoseBlockSize)

	return m
}

// mirrorBlock writes the flipped source block into dst. A zero block means
// the group was absent; it stays zero rather than turning its x slots into
// ones, so absence survives the flip.
func mirrorBlock(dst []float64, v Vector, srcOffset, size int) {
	if blockSum(v, srcOffset, size) == 0 {
		return
	}

	src := v[srcOffset : srcOffset+size]
	for i := 0; i < size; i += 3 {
		dst[i] = 1 - src[i]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+2]
	}
}
