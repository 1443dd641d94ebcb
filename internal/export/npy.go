// Package export serializes assembled datasets into the artifacts consumed
// by the training side: NPY tensors and a JSON label map.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/mudra/internal/feature"
)

// NPY format v1.0: magic, version, little-endian header length, then an
// ASCII dict padded with spaces so the data section starts on a 64-byte
// boundary. See numpy/lib/format.py.
var npyMagic = []byte("\x93NUMPY\x01\x00")

const npyAlign = 64

func writeHeader(w io.Writer, descr string, shape []int) error {
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }",
		descr, shapeString(shape))

	// Pad with spaces so magic+version+len+header is a multiple of 64,
	// reserving one byte for the trailing newline.
	total := len(npyMagic) + 2 + len(header) + 1
	pad := (npyAlign - total%npyAlign) % npyAlign
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	_, err := io.WriteString(w, header)
	return err
}

// shapeString renders a shape as a Python tuple literal.
func shapeString(shape []int) string {
	if len(shape) == 1 {
		return fmt.Sprintf("(%d,)", shape[0])
	}
	s := "("
	for i, dim := range shape {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d", dim)
	}
	return s + ")"
}

// WriteFloat64 writes data as a little-endian float64 NPY array of the
// given shape. The shape's element count must match len(data).
func WriteFloat64(w io.Writer, shape []int, data []float64) error {
	if n := elemCount(shape); n != len(data) {
		return fmt.Errorf("shape %v holds %d elements, have %d", shape, n, len(data))
	}
	if err := writeHeader(w, "<f8", shape); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}

// WriteInt64 writes data as a little-endian int64 NPY array of the given shape.
func WriteInt64(w io.Writer, shape []int, data []int64) error {
	if n := elemCount(shape); n != len(data) {
		return fmt.Errorf("shape %v holds %d elements, have %d", shape, n, len(data))
	}
	if err := writeHeader(w, "<i8", shape); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}

func elemCount(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}

// WriteTensor writes sequences as an [N, 30, 171] float64 NPY tensor.
func WriteTensor(w io.Writer, sequences []feature.Sequence) error {
	flat := make([]float64, 0, len(sequences)*feature.SequenceLength*feature.VectorSize)
	for _, seq := range sequences {
		for _, v := range seq {
			flat = append(flat, v...)
		}
	}
	shape := []int{len(sequences), feature.SequenceLength, feature.VectorSize}
	return WriteFloat64(w, shape, flat)
}

// WriteLabels writes labels as an [N] int64 NPY vector.
func WriteLabels(w io.Writer, labels []int) error {
	data := make([]int64, len(labels))
	for i, l := range labels {
		data[i] = int64(l)
	}
	return WriteInt64(w, []int{len(labels)}, data)
}

// SaveTensorFile writes sequences to path as X.npy-style tensor.
func SaveTensorFile(path string, sequences []feature.Sequence) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteTensor(w, sequences)
	})
}

// SaveLabelsFile writes labels to path as y.npy-style vector.
func SaveLabelsFile(path string, labels []int) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteLabels(w, labels)
	})
}

// SaveSequenceFile writes a single [30, 171] sequence, used for the debug
// parity probe consumed by the device-side check.
func SaveSequenceFile(path string, seq feature.Sequence) error {
	flat := make([]float64, 0, len(seq)*feature.VectorSize)
	for _, v := range seq {
		flat = append(flat, v...)
	}
	return saveFile(path, func(w io.Writer) error {
		return WriteFloat64(w, []int{len(seq), feature.VectorSize}, flat)
	})
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
