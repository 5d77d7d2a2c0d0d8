package transform

import (
	poselite "github.com/poselite/go-poselite"
)

// DefaultBboxPadding is the conventional padding factor applied when
// deriving the bounding box scale, leaving context around the instance
const DefaultBboxPadding = 1.25

// BboxXYXYToCenterScale converts an xyxy bounding box to the center plus
// scale parameterization.  The scale is padded by the given factor and
// expressed in multiples of pixelStd.  Zero arguments select
// DefaultBboxPadding and DefaultPixelStd
func BboxXYXYToCenterScale(b poselite.Box, padding, pixelStd float32) (poselite.Point, [2]float32) {

	if padding == 0 {
		padding = DefaultBboxPadding
	}

	if pixelStd == 0 {
		pixelStd = DefaultPixelStd
	}

	center := poselite.Point{
		X: (b.X1 + b.X2) * 0.5,
		Y: (b.Y1 + b.Y2) * 0.5,
	}

	scale := [2]float32{
		b.Width() * padding / pixelStd,
		b.Height() * padding / pixelStd,
	}

	return center, scale
}

// CenterScaleToBboxXYXY converts the center plus scale parameterization
// back to an xyxy bounding box.  It inverts BboxXYXYToCenterScale when
// called with padding 1
func CenterScaleToBboxXYXY(center poselite.Point, scale [2]float32, pixelStd float32) poselite.Box {

	if pixelStd == 0 {
		pixelStd = DefaultPixelStd
	}

	halfW := scale[0] * pixelStd * 0.5
	halfH := scale[1] * pixelStd * 0.5

	return poselite.Box{
		X1: center.X - halfW,
		Y1: center.Y - halfH,
		X2: center.X + halfW,
		Y2: center.Y + halfH,
	}
}

// FixAspectRatio expands the smaller scale component so the box matches the
// given width/height aspect ratio.  Model input sizes are fixed, so the box
// must be grown rather than squashed to avoid distorting the instance
func FixAspectRatio(scale [2]float32, aspect float32) [2]float32 {

	if aspect <= 0 {
		return scale
	}

	if scale[0] > aspect*scale[1] {
		scale[1] = scale[0] / aspect
	} else {
		scale[0] = scale[1] * aspect
	}

	return scale
}
