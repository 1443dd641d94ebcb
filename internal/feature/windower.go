package feature

// Windower accumulates presence frames into overlapping SequenceLength
// windows. It holds the buffering state for exactly one video: construct a
// fresh Windower per video and discard it when the video ends. Residual
// frames at end of video are dropped; partial sequences are never emitted.
type Windower struct {
	buf []Vector
}

// NewWindower creates an empty windower.
func NewWindower() *Windower {
	return &Windower{
		buf: make([]Vector, 0, SequenceLength),
	}
}

// Push feeds one feature vector through the window state machine and
// returns a completed sequence when one is ready.
//
// A presence frame (HasHands true) extends the buffer; a non-presence frame
// clears it without emitting. When the buffer reaches SequenceLength, the
// window is copied out, the oldest frame is dropped, and accumulation
// continues, yielding stride-1 overlapping windows while presence holds.
func (w *Windower) Push(v Vector) (Sequence, bool) {
	if !HasHands(v) {
		if len(w.buf) > 0 {
			w.buf = w.buf[:0]
		}
		return nil, false
	}

	w.buf = append(w.buf, v)
	if len(w.buf) < SequenceLength {
		return nil, false
	}

	seq := make(Sequence, SequenceLength)
	copy(seq, w.buf)

	// Drop the oldest frame, shifting in place
	copy(w.buf, w.buf[1:])
	w.buf = w.buf[:SequenceLength-1]

	return seq, true
}

// Len returns the number of buffered frames.
func (w *Windower) Len() int {
	return len(w.buf)
}

// Reset clears the buffer.
func (w *Windower) Reset() {
	w.buf = w.buf[:0]
}
