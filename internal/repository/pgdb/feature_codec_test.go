package pgdb

import (
	"math"
	"testing"

	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCodec_RoundTrip(t *testing.T) {
	vector := []float32{0, 1, -1, 0.5, math.MaxFloat32, math.SmallestNonzeroFloat32}

	decoded, err := DecodeVector(EncodeVector(vector))
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestEncodeVector_Layout(t *testing.T) {
	// float32(1.0) = 0x3F800000, little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, EncodeVector([]float32{1}))
}

func TestDecodeVector_CorruptedLength(t *testing.T) {
	_, err := DecodeVector([]byte{1, 2, 3})
	assert.ErrorIs(t, err, e.ErrVectorDimMismatch)
}

func TestDecodeVector_Empty(t *testing.T) {
	_, err := DecodeVector(nil)
	assert.ErrorIs(t, err, e.ErrVectorDimMismatch)
}
