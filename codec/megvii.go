package codec

import (
	"gorgonia.org/tensor"

	poselite "github.com/poselite/go-poselite"
)

// MegviiHeatmap represents keypoints as heatmaps in the Megvii style used
// by the CPN and MSPN model families: encode places a unit peak at the
// quantized joint pixel and spreads it with a Gaussian blur of the
// configured kernel, decode blurs with the same kernel before locating the
// maximum.  Single instance (top-down) encoding only
type MegviiHeatmap struct {
	// Params are the codec configuration parameters.  BlurKernel is the
	// Gaussian kernel applied at both encode and decode, Sigmas is used
	// only to fix the expected joint count when supplied
	Params Params
}

// NewMegviiHeatmap returns an instance of the MegviiHeatmap codec
func NewMegviiHeatmap(p Params) (*MegviiHeatmap, error) {

	if p.InputSize[0] <= 0 || p.InputSize[1] <= 0 {
		return nil, poselite.NewInvalidTransformError(
			"input size (%d, %d) must be positive",
			p.InputSize[0], p.InputSize[1])
	}

	if p.HeatmapSize[0] <= 0 || p.HeatmapSize[1] <= 0 {
		return nil, poselite.NewInvalidTransformError(
			"heatmap size (%d, %d) must be positive",
			p.HeatmapSize[0], p.HeatmapSize[1])
	}

	if p.BlurKernel == 0 {
		p.BlurKernel = DefaultBlurKernel
	}

	if p.BlurKernel < 0 || p.BlurKernel%2 == 0 {
		return nil, poselite.NewInvalidTransformError(
			"blur kernel %d must be odd and positive", p.BlurKernel)
	}

	return &MegviiHeatmap{Params: p}, nil
}

// Encode converts input space keypoints into blurred peak heatmaps of shape
// [K, H, W].  The peak value is normalized to 1.0 at the quantized joint
// pixel.  Joints that are unlabeled or quantize outside the heatmap get
// weight zero
func (c *MegviiHeatmap) Encode(keypoints []poselite.Point,
	visible []float32) (*Target, error) {

	if len(visible) != len(keypoints) {
		return nil, poselite.NewSchemaMismatchError("keypoints_visible",
			len(keypoints), len(visible))
	}

	if len(c.Params.Sigmas) > 0 && len(keypoints) != len(c.Params.Sigmas) {
		return nil, poselite.NewSchemaMismatchError("keypoints",
			len(c.Params.Sigmas), len(keypoints))
	}

	k := len(keypoints)
	w := c.Params.HeatmapSize[0]
	h := c.Params.HeatmapSize[1]

	strideX := float32(c.Params.InputSize[0]) / float32(w)
	strideY := float32(c.Params.InputSize[1]) / float32(h)

	buf := make([]float32, k*h*w)
	weights := make([]float32, k)

	for j := 0; j < k; j++ {

		weights[j] = visible[j]

		if visible[j] < visibleThreshold {
			weights[j] = 0
			continue
		}

		// floor quantization, the decode shift compensates the half pixel
		kx := int(keypoints[j].X / strideX)
		ky := int(keypoints[j].Y / strideY)

		if kx < 0 || kx >= w || ky < 0 || ky >= h {
			weights[j] = 0
			continue
		}

		channel := buf[j*h*w : (j+1)*h*w]
		channel[ky*w+kx] = 1

		blurred := gaussianBlurGrid(channel, w, h, c.Params.BlurKernel)

		// normalize the peak back to 1.0
		peak := blurred[ky*w+kx]

		for i, v := range blurred {
			channel[i] = v / peak
		}
	}

	heatmaps := tensor.New(
		tensor.WithShape(k, h, w),
		tensor.WithBacking(buf),
	)

	return &Target{Data: heatmaps, Weights: weights}, nil
}

// Decode converts predicted heatmaps of shape [K, H, W] back into heatmap
// pixel space coordinates.  Channels are blurred with the encode kernel
// before peak finding, and interior peaks are shifted by half a pixel plus
// a quarter pixel toward the higher valued neighbor, compensating the floor
// quantization at encode.  An all zero channel decodes to the sentinel
// (-1, -1) with score zero
func (c *MegviiHeatmap) Decode(data *tensor.Dense) (*Result, error) {

	k, h, w, buf, err := heatmapChannels(data)

	if err != nil {
		return nil, err
	}

	if len(c.Params.Sigmas) > 0 && k != len(c.Params.Sigmas) {
		return nil, poselite.NewSchemaMismatchError("heatmap channels",
			len(c.Params.Sigmas), k)
	}

	keypoints := make([]poselite.Point, k)
	scores := make([]float32, k)

	for j := 0; j < k; j++ {

		channel := buf[j*h*w : (j+1)*h*w]

		blurred := gaussianBlurGrid(channel, w, h, c.Params.BlurKernel)

		px, py, _ := channelMax(blurred, w, h)

		if px < 0 {
			keypoints[j] = poselite.Point{X: -1, Y: -1}
			continue
		}

		x := float32(px)
		y := float32(py)

		if px > 1 && px < w-1 && py > 1 && py < h-1 {
			dx, dy := quarterOffset(blurred, w, h, px, py)
			x += dx + 0.5
			y += dy + 0.5
		}

		keypoints[j] = poselite.Point{X: x, Y: y}

		// score from the unblurred prediction
		_, _, scores[j] = channelMax(channel, w, h)
	}

	return &Result{Keypoints: keypoints, Scores: scores}, nil
}
