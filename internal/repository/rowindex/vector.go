package rowindex

import (
	"encoding/binary"
	"math"
)

// vectorToString serializes a vector as little-endian FLOAT32 bytes, the layout
// the HNSW field expects in a hash.
func vectorToString(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// stringToVector is the inverse of vectorToString. Returns nil on a malformed payload.
func stringToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
