// Package transform maps keypoint and bounding box annotations between the
// coordinate spaces of a pose estimation pipeline: original image space,
// model input space and heatmap output space.  Transforms are built fresh
// per sample from a bounding box center and scale, augmentation randomizes
// rotation and scale per iteration so nothing is cached.
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	poselite "github.com/poselite/go-poselite"
)

// DefaultPixelStd is the pixel standard the bounding box scale is expressed
// in multiples of.  The 200.0 constant is the historical convention shared
// by the common body keypoint datasets
const DefaultPixelStd = 200.0

// AffineParams defines the inputs an affine transform is derived from
type AffineParams struct {
	// Center is the bounding box center in the source space
	Center poselite.Point
	// Scale is the bounding box size in multiples of PixelStd.  The
	// transform is a similarity map, so the horizontal extent determines
	// the scale factor and Scale[1] is expected to already match the
	// output aspect ratio, see FixAspectRatio
	Scale [2]float32
	// Rotation is the rotation angle in degrees
	Rotation float32
	// OutputSize is the destination space size in (width, height)
	OutputSize [2]int
	// PixelStd overrides DefaultPixelStd when non zero.  Datasets using
	// absolute pixel scales set it to 1
	PixelStd float32
}

// Affine is an invertible 2D similarity transform between two coordinate
// spaces, held as a row major 2x3 matrix
type Affine struct {
	m    [6]float64
	outW int
	outH int
}

// NewAffine builds the affine transform mapping a Scale sized box centered
// at Center, rotated by Rotation degrees, onto a canonical rectangle of
// OutputSize.  Degenerate inputs such as a zero scale component return an
// InvalidTransformError
func NewAffine(p AffineParams) (*Affine, error) {

	if p.Scale[0] <= 0 || p.Scale[1] <= 0 {
		return nil, poselite.NewInvalidTransformError(
			"scale (%f, %f) must have positive components",
			p.Scale[0], p.Scale[1])
	}

	if p.OutputSize[0] <= 0 || p.OutputSize[1] <= 0 {
		return nil, poselite.NewInvalidTransformError(
			"output size (%d, %d) must be positive",
			p.OutputSize[0], p.OutputSize[1])
	}

	pixelStd := float64(p.PixelStd)

	if pixelStd == 0 {
		pixelStd = DefaultPixelStd
	} else if pixelStd < 0 {
		return nil, poselite.NewInvalidTransformError(
			"pixel standard %f must be positive", pixelStd)
	}

	srcW := float64(p.Scale[0]) * pixelStd
	dstW := float64(p.OutputSize[0])
	dstH := float64(p.OutputSize[1])

	rotRad := float64(p.Rotation) * math.Pi / 180.0

	// the three source points: box center, a point half a box width along
	// the rotated vertical axis, and the orthogonal third point
	srcDir := rotatePoint(0, -0.5*srcW, rotRad)

	src := [3][2]float64{
		{float64(p.Center.X), float64(p.Center.Y)},
		{float64(p.Center.X) + srcDir[0], float64(p.Center.Y) + srcDir[1]},
	}
	src[2] = thirdPoint(src[0], src[1])

	dst := [3][2]float64{
		{dstW * 0.5, dstH * 0.5},
		{dstW * 0.5, dstH * 0.5 - 0.5*dstW},
	}
	dst[2] = thirdPoint(dst[0], dst[1])

	// solve the 2x3 matrix from the three point correspondence
	a := mat.NewDense(3, 3, []float64{
		src[0][0], src[0][1], 1,
		src[1][0], src[1][1], 1,
		src[2][0], src[2][1], 1,
	})

	b := mat.NewDense(3, 2, []float64{
		dst[0][0], dst[0][1],
		dst[1][0], dst[1][1],
		dst[2][0], dst[2][1],
	})

	var x mat.Dense

	if err := x.Solve(a, b); err != nil {
		return nil, poselite.NewInvalidTransformError(
			"affine solve failed: %v", err)
	}

	return &Affine{
		m: [6]float64{
			x.At(0, 0), x.At(1, 0), x.At(2, 0),
			x.At(0, 1), x.At(1, 1), x.At(2, 1),
		},
		outW: p.OutputSize[0],
		outH: p.OutputSize[1],
	}, nil
}

// rotatePoint rotates the point (x, y) counterclockwise by the given angle
// in radians
func rotatePoint(x, y, rad float64) [2]float64 {

	sn, cs := math.Sincos(rad)

	return [2]float64{x*cs - y*sn, x*sn + y*cs}
}

// thirdPoint returns the point completing a right angle with the segment
// from a to b, obtained by rotating the direction a-b by 90 degrees about b
func thirdPoint(a, b [2]float64) [2]float64 {

	dx := a[0] - b[0]
	dy := a[1] - b[1]

	return [2]float64{b[0] - dy, b[1] + dx}
}

// ApplyPoint maps a single point through the transform
func (t *Affine) ApplyPoint(p poselite.Point) poselite.Point {

	x := float64(p.X)
	y := float64(p.Y)

	return poselite.Point{
		X: float32(t.m[0]*x + t.m[1]*y + t.m[2]),
		Y: float32(t.m[3]*x + t.m[4]*y + t.m[5]),
	}
}

// Apply maps an ordered sequence of points through the transform.  Out of
// bounds results are not clamped, visibility masking is the caller's
// responsibility
func (t *Affine) Apply(points []poselite.Point) []poselite.Point {

	out := make([]poselite.Point, len(points))

	for i, p := range points {
		out[i] = t.ApplyPoint(p)
	}

	return out
}

// Invert returns the inverse transform, used to project decoded predictions
// back to the source space.  A singular matrix returns an
// InvalidTransformError
func (t *Affine) Invert() (*Affine, error) {

	m3 := mat.NewDense(3, 3, []float64{
		t.m[0], t.m[1], t.m[2],
		t.m[3], t.m[4], t.m[5],
		0, 0, 1,
	})

	var inv mat.Dense

	if err := inv.Inverse(m3); err != nil {
		return nil, poselite.NewInvalidTransformError(
			"affine matrix is singular: %v", err)
	}

	return &Affine{
		m: [6]float64{
			inv.At(0, 0), inv.At(0, 1), inv.At(0, 2),
			inv.At(1, 0), inv.At(1, 1), inv.At(1, 2),
		},
		outW: t.outW,
		outH: t.outH,
	}, nil
}

// Matrix returns the row major 2x3 matrix entries
func (t *Affine) Matrix() [6]float64 {
	return t.m
}

// OutputSize returns the destination space size in (width, height)
func (t *Affine) OutputSize() (int, int) {
	return t.outW, t.outH
}
