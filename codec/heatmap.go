package codec

import (
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"

	poselite "github.com/poselite/go-poselite"
)

// GaussianHeatmap represents keypoints as per joint Gaussian heatmaps.
// Encode renders an unnormalized 2D Gaussian around each visible joint,
// decode locates the per channel maximum and refines it to sub pixel
// precision.  Both directions are pure functions
type GaussianHeatmap struct {
	// Params are the codec configuration parameters.  Sigmas supplies one
	// Gaussian sigma per joint, InputSize and HeatmapSize define the
	// coordinate scaling between input and output space, UnbiasedDecode
	// and BlurKernel control the decode refinement
	Params Params
}

// NewGaussianHeatmap returns an instance of the GaussianHeatmap codec
func NewGaussianHeatmap(p Params) (*GaussianHeatmap, error) {

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

	if len(p.Sigmas) == 0 {
		return nil, poselite.NewSchemaMismatchError("sigmas", 1, 0)
	}

	if p.BlurKernel == 0 {
		p.BlurKernel = DefaultBlurKernel
	}

	if p.BlurKernel < 0 || p.BlurKernel%2 == 0 {
		return nil, poselite.NewInvalidTransformError(
			"blur kernel %d must be odd and positive", p.BlurKernel)
	}

	return &GaussianHeatmap{Params: p}, nil
}

// Encode converts input space keypoints into Gaussian heatmaps of shape
// [K, H, W] with per keypoint loss weights.  Each visible joint is rendered
// as a Gaussian truncated at a 3 sigma radius, with the peak normalized to
// 1.0.  Joints that are unlabeled, or whose center quantizes outside the
// heatmap bounds, get weight zero.  A keypoint count disagreeing with
// the configured sigmas returns a SchemaMismatchError
func (c *GaussianHeatmap) Encode(keypoints []poselite.Point,
	visible []float32) (*Target, error) {

	k := len(c.Params.Sigmas)

	if len(keypoints) != k {
		return nil, poselite.NewSchemaMismatchError("keypoints", k, len(keypoints))
	}

	if len(visible) != len(keypoints) {
		return nil, poselite.NewSchemaMismatchError("keypoints_visible",
			len(keypoints), len(visible))
	}

	w := c.Params.HeatmapSize[0]
	h := c.Params.HeatmapSize[1]

	strideX := float32(c.Params.InputSize[0]) / float32(w)
	strideY := float32(c.Params.InputSize[1]) / float32(h)

	buf := make([]float32, k*h*w)
	weights := make([]float32, k)

	for j := 0; j < k; j++ {

		weights[j] = visible[j]

		// skip unlabeled keypoints
		if visible[j] < visibleThreshold {
			weights[j] = 0
			continue
		}

		sigma := c.Params.Sigmas[j]

		if sigma <= 0 {
			sigma = DefaultSigma
		}

		// quantized Gaussian center in heatmap coordinates
		muX := int(keypoints[j].X/strideX + 0.5)
		muY := int(keypoints[j].Y/strideY + 0.5)

		// zero the weight when the center quantizes outside the heatmap
		if muX < 0 || muX >= w || muY < 0 || muY >= h {
			weights[j] = 0
			continue
		}

		// truncation window at 3 sigma, clipped to the heatmap bounds
		radius := sigma * 3

		x0 := maxInt(0, int(float32(muX)-radius))
		x1 := minInt(w, int(float32(muX)+radius+1))
		y0 := maxInt(0, int(float32(muY)-radius))
		y1 := minInt(h, int(float32(muY)+radius+1))

		div := 2 * sigma * sigma

		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				dx := float32(x - muX)
				dy := float32(y - muY)

				buf[j*h*w+y*w+x] = math32.Exp(-(dx*dx + dy*dy) / div)
			}
		}
	}

	heatmaps := tensor.New(
		tensor.WithShape(k, h, w),
		tensor.WithBacking(buf),
	)

	return &Target{Data: heatmaps, Weights: weights}, nil
}

// Decode converts predicted heatmaps of shape [K, H, W] back into heatmap
// pixel space coordinates with confidence scores.  The per channel maximum
// is shifted a quarter pixel toward the higher valued neighbor, or refined
// with distribution aware modulation when UnbiasedDecode is set.  An all
// zero channel decodes to the sentinel (-1, -1) with score zero.  A channel
// count disagreeing with the configured sigmas returns a
// SchemaMismatchError
func (c *GaussianHeatmap) Decode(data *tensor.Dense) (*Result, error) {

	k, h, w, buf, err := heatmapChannels(data)

	if err != nil {
		return nil, err
	}

	if k != len(c.Params.Sigmas) {
		return nil, poselite.NewSchemaMismatchError("heatmap channels",
			len(c.Params.Sigmas), k)
	}

	keypoints := make([]poselite.Point, k)
	scores := make([]float32, k)

	for j := 0; j < k; j++ {

		channel := buf[j*h*w : (j+1)*h*w]

		px, py, val := channelMax(channel, w, h)

		if px < 0 {
			keypoints[j] = poselite.Point{X: -1, Y: -1}
			continue
		}

		x := float32(px)
		y := float32(py)

		if c.Params.UnbiasedDecode {
			// distribution aware refinement: Gaussian modulation, log
			// and one Newton step
			mod := gaussianModulate(channel, w, h, c.Params.BlurKernel)

			for i, v := range mod {
				if v < 1e-10 {
					v = 1e-10
				}
				mod[i] = math32.Log(v)
			}

			x, y = taylorRefine(mod, w, h, x, y)
		} else {
			dx, dy := quarterOffset(channel, w, h, px, py)
			x += dx
			y += dy
		}

		keypoints[j] = poselite.Point{X: x, Y: y}
		scores[j] = val
	}

	return &Result{Keypoints: keypoints, Scores: scores}, nil
}
