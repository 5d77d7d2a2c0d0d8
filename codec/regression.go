package codec

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	poselite "github.com/poselite/go-poselite"
)

// RegressionLabel represents keypoints as direct coordinate regression
// targets normalized to [0, 1] by the input size.  Decode maps the
// normalized predictions straight back to input space, no heatmap pixel
// space is involved
type RegressionLabel struct {
	// Params are the codec configuration parameters.  Only InputSize and
	// optionally Sigmas (to fix the expected joint count) are used
	Params Params
}

// NewRegressionLabel returns an instance of the RegressionLabel codec
func NewRegressionLabel(p Params) (*RegressionLabel, error) {

	if p.InputSize[0] <= 0 || p.InputSize[1] <= 0 {
		return nil, poselite.NewInvalidTransformError(
			"input size (%d, %d) must be positive",
			p.InputSize[0], p.InputSize[1])
	}

	return &RegressionLabel{Params: p}, nil
}

// Encode converts input space keypoints into a [K, 2] tensor of normalized
// coordinates.  Joints that are unlabeled or lie outside the input bounds
// get weight zero
func (c *RegressionLabel) Encode(keypoints []poselite.Point,
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

	inputW := float32(c.Params.InputSize[0])
	inputH := float32(c.Params.InputSize[1])

	buf := make([]float32, k*2)
	weights := make([]float32, k)

	for j := 0; j < k; j++ {

		weights[j] = visible[j]

		if visible[j] < visibleThreshold {
			weights[j] = 0
			continue
		}

		nx := keypoints[j].X / inputW
		ny := keypoints[j].Y / inputH

		if nx < 0 || nx > 1 || ny < 0 || ny > 1 {
			weights[j] = 0
			continue
		}

		buf[j*2] = nx
		buf[j*2+1] = ny
	}

	labels := tensor.New(
		tensor.WithShape(k, 2),
		tensor.WithBacking(buf),
	)

	return &Target{Data: labels, Weights: weights}, nil
}

// Decode converts a [K, 2] tensor of normalized coordinate predictions back
// into input space keypoints.  Regression outputs carry no confidence of
// their own, so all scores are 1
func (c *RegressionLabel) Decode(data *tensor.Dense) (*Result, error) {

	if data == nil {
		return nil, errors.New("label tensor is nil")
	}

	shape := data.Shape()

	if len(shape) != 2 || shape[1] != 2 {
		return nil, poselite.NewSchemaMismatchError("label dimensions",
			2, len(shape))
	}

	buf, ok := data.Data().([]float32)

	if !ok {
		return nil, errors.New("label tensor backing is not []float32")
	}

	k := shape[0]

	inputW := float32(c.Params.InputSize[0])
	inputH := float32(c.Params.InputSize[1])

	keypoints := make([]poselite.Point, k)
	scores := make([]float32, k)

	for j := 0; j < k; j++ {
		keypoints[j] = poselite.Point{
			X: buf[j*2] * inputW,
			Y: buf[j*2+1] * inputH,
		}
		scores[j] = 1
	}

	return &Result{Keypoints: keypoints, Scores: scores}, nil
}
