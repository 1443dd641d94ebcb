package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/feature"
)

// ReadTensorFile reads an [N, 30, 171] float64 NPY tensor back into
// sequences. Used by the stats command to re-analyze a saved dataset.
func ReadTensorFile(path string) ([]feature.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(npyMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read npy magic: %w", err)
	}
	if !bytes.Equal(magic, npyMagic) {
		return nil, fmt.Errorf("%s is not an npy v1.0 file", path)
	}

	var headerLen uint16
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("read npy header length: %w", err)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}

	shape, err := parseHeader(string(header))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(shape) != 3 || shape[1] != feature.SequenceLength || shape[2] != feature.VectorSize {
		return nil, fmt.Errorf("%s: shape %v, want (N, %d, %d)",
			path, shape, feature.SequenceLength, feature.VectorSize)
	}

	flat := make([]float64, shape[0]*shape[1]*shape[2])
	if err := binary.Read(r, binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}

	sequences := make([]feature.Sequence, shape[0])
	for n := range sequences {
		seq := make(feature.Sequence, feature.SequenceLength)
		for t := range seq {
			offset := (n*feature.SequenceLength + t) * feature.VectorSize
			seq[t] = feature.Vector(flat[offset : offset+feature.VectorSize])
		}
		sequences[n] = seq
	}

	return sequences, nil
}

// parseHeader extracts the shape from an npy header dict, verifying the
// dtype is little-endian float64 in C order.
func parseHeader(header string) ([]int, error) {
	if !strings.Contains(header, "'descr': '<f8'") {
		return nil, fmt.Errorf("unsupported npy dtype in header %q", strings.TrimSpace(header))
	}
	if !strings.Contains(header, "'fortran_order': False") {
		return nil, fmt.Errorf("fortran-order npy files are not supported")
	}

	start := strings.Index(header, "(")
	end := strings.Index(header, ")")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no shape tuple in header %q", strings.TrimSpace(header))
	}

	var shape []int
	for _, part := range strings.Split(header[start+1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad shape dimension %q", part)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}
