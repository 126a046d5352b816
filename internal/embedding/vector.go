package embedding

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two vectors differ in length.
var ErrDimensionMismatch = errors.New("vector dimensions differ")

// ErrZeroVector is returned when a vector has no magnitude.
var ErrZeroVector = errors.New("zero vector")

// EncodeVector serializes v as a little-endian length prefix followed by
// the float32 values.
func EncodeVector(v []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(4 + 4*len(v))

	if err := binary.Write(buf, binary.LittleEndian, int32(len(v))); err != nil {
		return nil, fmt.Errorf("failed to write vector length: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil, fmt.Errorf("failed to write vector values: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeVector reverses EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	r := bytes.NewReader(data)

	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read vector length: %w", err)
	}
	if length < 0 || int(length)*4 != r.Len() {
		return nil, fmt.Errorf("corrupt vector: length %d with %d payload bytes", length, r.Len())
	}

	v := make([]float32, length)
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return nil, fmt.Errorf("failed to read vector values: %w", err)
	}
	return v, nil
}

// CosineSimilarity returns a value in [-1, 1].
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
