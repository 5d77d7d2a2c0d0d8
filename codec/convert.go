package codec

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	poselite "github.com/poselite/go-poselite"
)

// HeatmapFromFloat32 wraps a flat float32 buffer as a [K, H, W] heatmap
// tensor ready for Decode.  The buffer is used as the tensor backing, not
// copied
func HeatmapFromFloat32(buf []float32, k, h, w int) (*tensor.Dense, error) {

	if len(buf) != k*h*w {
		return nil, errors.Errorf(
			"buffer has %d values, want %d for a [%d, %d, %d] heatmap",
			len(buf), k*h*w, k, h, w)
	}

	return tensor.New(
		tensor.WithShape(k, h, w),
		tensor.WithBacking(buf),
	), nil
}

// HeatmapFromFloat16 converts a buffer of raw float16 bits, as emitted by
// half precision model outputs, into a [K, H, W] heatmap tensor ready for
// Decode
func HeatmapFromFloat16(bits []uint16, k, h, w int) (*tensor.Dense, error) {

	if len(bits) != k*h*w {
		return nil, errors.Errorf(
			"buffer has %d values, want %d for a [%d, %d, %d] heatmap",
			len(bits), k*h*w, k, h, w)
	}

	return tensor.New(
		tensor.WithShape(k, h, w),
		tensor.WithBacking(poselite.Float16ToFloat32(bits)),
	), nil
}
