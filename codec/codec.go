// Package codec provides the bidirectional mapping between input space
// keypoint coordinates and fixed shape training targets: encode renders
// keypoints into target tensors for loss computation, decode recovers
// coordinates and confidence scores from predicted tensors at inference.
// Codecs are pure and stateless, one instance may be shared across workers.
package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	poselite "github.com/poselite/go-poselite"
)

// Target is the encoded training target for one instance
type Target struct {
	// Data holds the target tensor.  Heatmap codecs produce shape
	// [K, H, W] with values in [0, 1], regression codecs produce
	// normalized coordinates of shape [K, 2]
	Data *tensor.Dense
	// Weights holds the per keypoint loss weight.  It equals the input
	// visibility except joints whose target falls outside the output
	// bounds, which are zeroed
	Weights []float32
}

// Result is the decoded output of a predicted target
type Result struct {
	// Keypoints holds the decoded coordinates.  Heatmap codecs return
	// heatmap pixel space, see ToInputSpace
	Keypoints []poselite.Point
	// Scores holds the per keypoint confidence
	Scores []float32
}

// ToInputSpace rescales heatmap pixel space keypoints to model input space.
// Sentinel keypoints with zero score are passed through unscaled
func (r *Result) ToInputSpace(inputSize, heatmapSize [2]int) *Result {

	scaleX := float32(inputSize[0]) / float32(heatmapSize[0])
	scaleY := float32(inputSize[1]) / float32(heatmapSize[1])

	out := &Result{
		Keypoints: make([]poselite.Point, len(r.Keypoints)),
		Scores:    make([]float32, len(r.Scores)),
	}

	copy(out.Scores, r.Scores)

	for i, p := range r.Keypoints {
		if r.Scores[i] <= 0 {
			out.Keypoints[i] = p
			continue
		}

		out.Keypoints[i] = poselite.Point{X: p.X * scaleX, Y: p.Y * scaleY}
	}

	return out
}

// Params defines the codec configuration parameters.  Each codec documents
// the fields it uses
type Params struct {
	// InputSize is the model input size in (width, height)
	InputSize [2]int
	// HeatmapSize is the output target size in (width, height)
	HeatmapSize [2]int
	// Sigmas holds the per joint Gaussian sigma in heatmap pixels, one
	// entry per joint.  Entries of zero fall back to DefaultSigma
	Sigmas []float32
	// UnbiasedDecode selects distribution aware decode refinement instead
	// of the quarter offset shift
	UnbiasedDecode bool
	// BlurKernel is the Gaussian kernel size used for decode modulation
	// and by the Megvii codec at encode.  It must be odd, zero selects
	// DefaultBlurKernel
	BlurKernel int
}

// DefaultSigma is the Gaussian sigma used for joints without a configured
// sigma
const DefaultSigma = 2.0

// DefaultBlurKernel matches DefaultSigma, see the sigma/kernel pairing in
// gaussianModulate
const DefaultBlurKernel = 11

// COCOParams returns an instance of Params configured with default values
// for a COCO trained top-down model featuring:
// - Input Size: 192x256
// - Heatmap Size: 48x64
// - Sigma: 2.0 for all 17 keypoints
func COCOParams() Params {

	sigmas := make([]float32, 17)

	for i := range sigmas {
		sigmas[i] = DefaultSigma
	}

	return Params{
		InputSize:   [2]int{192, 256},
		HeatmapSize: [2]int{48, 64},
		Sigmas:      sigmas,
		BlurKernel:  DefaultBlurKernel,
	}
}

// Codec is the paired encode/decode logic converting between keypoint
// coordinates and a training target representation
type Codec interface {
	// Encode converts input space keypoints into a target.  Keypoints and
	// visible run parallel, one entry per joint
	Encode(keypoints []poselite.Point, visible []float32) (*Target, error)
	// Decode converts a predicted target tensor back into coordinates
	// with confidence scores
	Decode(data *tensor.Dense) (*Result, error)
}

// Factory builds a codec from parameters
type Factory func(p Params) (Codec, error)

// Registry maps codec names to factories.  Registration is explicit,
// performed by the application bootstrap, there is no import time self
// registration
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty codec registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a codec factory under the given name.  Registering a
// duplicate name is an error
func (r *Registry) Register(name string, f Factory) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("codec %q already registered", name)
	}

	r.factories[name] = f
	return nil
}

// New builds the named codec with the given parameters
func (r *Registry) New(name string, p Params) (Codec, error) {

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Errorf("unknown codec %q", name)
	}

	c, err := f(p)

	if err != nil {
		return nil, errors.Wrapf(err, "building codec %q", name)
	}

	return c, nil
}

// Names returns the registered codec names in sorted order
func (r *Registry) Names() []string {

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))

	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// RegisterBuiltinCodecs registers the codecs shipped with the library on
// the given registry.  Call it once from the application bootstrap
func RegisterBuiltinCodecs(r *Registry) error {

	builtins := []struct {
		name    string
		factory Factory
	}{
		{"gaussian-heatmap", func(p Params) (Codec, error) { return NewGaussianHeatmap(p) }},
		{"megvii-heatmap", func(p Params) (Codec, error) { return NewMegviiHeatmap(p) }},
		{"regression-label", func(p Params) (Codec, error) { return NewRegressionLabel(p) }},
	}

	for _, b := range builtins {
		if err := r.Register(b.name, b.factory); err != nil {
			return err
		}
	}

	return nil
}
