package poselite

import "github.com/x448/float16"

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Float16ToFloat32 converts a buffer of raw float16 bits, as produced by
// model runtimes emitting half precision heatmap tensors, to float32
func Float16ToFloat32(src []uint16) []float32 {

	dst := make([]float32, len(src))

	for i, bits := range src {
		dst[i] = f16LookupTable[bits]
	}

	return dst
}
