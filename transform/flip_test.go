package transform

import (
	"errors"
	"testing"

	poselite "github.com/poselite/go-poselite"
)

func TestFlipKeypointsHorizontal(t *testing.T) {

	schema := poselite.COCOSchema()

	points := make([]poselite.Point, schema.NumKeypoints())
	visible := make([]float32, schema.NumKeypoints())

	for i := range points {
		points[i] = poselite.Point{X: float32(i * 10), Y: float32(i)}
		visible[i] = float32(i%2) * 1.0
	}

	width := float32(192)

	flipped, flippedVis, err := FlipKeypointsHorizontal(
		points, visible, schema.FlipPairs, width)

	if err != nil {
		t.Fatalf("FlipKeypointsHorizontal returned error: %v", err)
	}

	// nose has no flip pair, it is only mirrored
	if flipped[0].X != width-1-points[0].X || flipped[0].Y != points[0].Y {
		t.Errorf("nose: expected (%f, %f), got (%f, %f)",
			width-1-points[0].X, points[0].Y, flipped[0].X, flipped[0].Y)
	}

	// left eye (1) and right eye (2) swap and mirror
	if flipped[1].X != width-1-points[2].X || flipped[1].Y != points[2].Y {
		t.Errorf("left eye: expected mirrored right eye (%f, %f), got (%f, %f)",
			width-1-points[2].X, points[2].Y, flipped[1].X, flipped[1].Y)
	}

	if flippedVis[1] != visible[2] || flippedVis[2] != visible[1] {
		t.Errorf("visibility did not swap: got %f, %f", flippedVis[1], flippedVis[2])
	}

	// inputs are untouched
	if points[1].X != 10 || visible[1] != 1 {
		t.Error("input slices were modified")
	}
}

func TestFlipKeypointsBadInputs(t *testing.T) {

	points := make([]poselite.Point, 4)

	var mismatch *poselite.SchemaMismatchError

	// short visibility sequence
	_, _, err := FlipKeypointsHorizontal(points, make([]float32, 3), nil, 100)

	if !errors.As(err, &mismatch) {
		t.Errorf("expected SchemaMismatchError for short visibility, got %v", err)
	}

	// flip pair out of range
	_, _, err = FlipKeypointsHorizontal(points, make([]float32, 4),
		[][2]int{{0, 9}}, 100)

	if !errors.As(err, &mismatch) {
		t.Errorf("expected SchemaMismatchError for bad flip pair, got %v", err)
	}
}
