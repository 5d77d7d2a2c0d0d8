package codec

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"
)

// peakFloor is the near zero floor below which a heatmap channel is treated
// as empty and decodes to the sentinel location
const peakFloor = 1e-8

// visibleThreshold is the visibility weight below which a joint is treated
// as unlabeled and skipped at encode
const visibleThreshold = 0.5

// heatmapChannels validates a [K, H, W] float32 heatmap tensor and returns
// its dimensions and backing slice
func heatmapChannels(data *tensor.Dense) (k, h, w int, buf []float32, err error) {

	if data == nil {
		return 0, 0, 0, nil, errors.New("heatmap tensor is nil")
	}

	if data.Dtype() != tensor.Float32 {
		return 0, 0, 0, nil, errors.Errorf(
			"heatmap tensor has dtype %v, want float32", data.Dtype())
	}

	shape := data.Shape()

	if len(shape) != 3 {
		return 0, 0, 0, nil, errors.Errorf(
			"heatmap tensor has %d dimensions, want 3 [K, H, W]", len(shape))
	}

	buf, ok := data.Data().([]float32)

	if !ok {
		return 0, 0, 0, nil, errors.New("heatmap tensor backing is not []float32")
	}

	return shape[0], shape[1], shape[2], buf, nil
}

// channelMax locates the global maximum of a single W wide, H high channel.
// An empty channel with no peak above the floor returns (-1, -1) with value
// zero
func channelMax(channel []float32, w, h int) (px, py int, val float32) {

	px, py = -1, -1
	val = 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := channel[y*w+x]

			if v > val {
				val = v
				px = x
				py = y
			}
		}
	}

	if val <= peakFloor {
		return -1, -1, 0
	}

	return px, py, val
}

// quarterOffset returns the sub pixel shift toward the higher valued
// neighbor of the peak, 0.25 heatmap pixels per axis.  Peaks on or next to
// the border are not refined
func quarterOffset(channel []float32, w, h, px, py int) (dx, dy float32) {

	if px <= 1 || px >= w-1 || py <= 1 || py >= h-1 {
		return 0, 0
	}

	diffX := channel[py*w+px+1] - channel[py*w+px-1]
	diffY := channel[(py+1)*w+px] - channel[(py-1)*w+px]

	return 0.25 * sign(diffX), 0.25 * sign(diffY)
}

func sign(v float32) float32 {

	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}

	return 0
}

// gaussianBlurGrid runs a Gaussian blur with the given odd kernel size over
// a W wide, H high float32 grid and returns the blurred grid
func gaussianBlurGrid(channel []float32, w, h, kernel int) []float32 {

	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer m.Close()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetFloatAt(y, x, channel[y*w+x])
		}
	}

	gocv.GaussianBlur(m, &m, image.Pt(kernel, kernel), 0, 0, gocv.BorderDefault)

	out := make([]float32, len(channel))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = m.GetFloatAt(y, x)
		}
	}

	return out
}

// gaussianModulate blurs a channel with border padding and rescales it so
// the peak keeps its original value.  The kernel should match the training
// sigma: kernel 11 for sigma 2, kernel 17 for sigma 3
func gaussianModulate(channel []float32, w, h, kernel int) []float32 {

	border := (kernel - 1) / 2
	pw := w + 2*border
	ph := h + 2*border

	var origMax float32

	for _, v := range channel {
		if v > origMax {
			origMax = v
		}
	}

	padded := make([]float32, pw*ph)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			padded[(y+border)*pw+x+border] = channel[y*w+x]
		}
	}

	blurred := gaussianBlurGrid(padded, pw, ph, kernel)

	out := make([]float32, len(channel))

	var newMax float32

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := blurred[(y+border)*pw+x+border]
			out[y*w+x] = v

			if v > newMax {
				newMax = v
			}
		}
	}

	if newMax > 0 {
		scale := origMax / newMax

		for i := range out {
			out[i] *= scale
		}
	}

	return out
}

// taylorRefine applies one Newton step on the log heatmap around the peak,
// using the 2x2 Hessian of finite differences.  Peaks within two pixels of
// the border are returned unchanged
func taylorRefine(logmap []float32, w, h int, x, y float32) (float32, float32) {

	px := int(x)
	py := int(y)

	if px <= 1 || px >= w-2 || py <= 1 || py >= h-2 {
		return x, y
	}

	at := func(yy, xx int) float32 {
		return logmap[yy*w+xx]
	}

	dx := 0.5 * (at(py, px+1) - at(py, px-1))
	dy := 0.5 * (at(py+1, px) - at(py-1, px))

	dxx := 0.25 * (at(py, px+2) - 2*at(py, px) + at(py, px-2))
	dyy := 0.25 * (at(py+2, px) - 2*at(py, px) + at(py-2, px))
	dxy := 0.25 * (at(py+1, px+1) - at(py-1, px+1) - at(py+1, px-1) + at(py-1, px-1))

	det := dxx*dyy - dxy*dxy

	if det == 0 {
		return x, y
	}

	// offset = -H^-1 * gradient
	offX := -(dyy*dx - dxy*dy) / det
	offY := -(dxx*dy - dxy*dx) / det

	return x + offX, y + offY
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
