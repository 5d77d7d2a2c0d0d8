package transform

import (
	"image"

	"gocv.io/x/gocv"
)

// WarpImage warps the source image through the transform into its output
// space, producing the model input crop.  The destination Mat is resized to
// the transform's output size
func (t *Affine) WarpImage(src gocv.Mat, dst *gocv.Mat) {

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()

	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, t.m[r*3+c])
		}
	}

	gocv.WarpAffine(src, dst, m, image.Pt(t.outW, t.outH))
}
