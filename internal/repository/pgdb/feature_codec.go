package pgdb

import (
	"encoding/binary"
	"math"

	"github.com/DRSN-tech/visual-search/pkg/e"
)

// EncodeVector сериализует вектор в сырые байты float32 little-endian —
// формат колонки product_features.features.
func EncodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector восстанавливает вектор из сырых байтов.
// Длина, не кратная 4, означает повреждение данных.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, e.ErrVectorDimMismatch
	}

	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
