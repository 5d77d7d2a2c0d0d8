package transform

import (
	poselite "github.com/poselite/go-poselite"
)

// FlipKeypointsHorizontal mirrors keypoints about the vertical center line
// of a width wide space and swaps the left/right joints named by the
// schema's flip pairs.  The inputs are not modified.  Flip pairs referring
// to joints outside the sequence return a SchemaMismatchError
func FlipKeypointsHorizontal(points []poselite.Point, visible []float32,
	flipPairs [][2]int, width float32) ([]poselite.Point, []float32, error) {

	if len(visible) != len(points) {
		return nil, nil, poselite.NewSchemaMismatchError(
			"keypoints_visible", len(points), len(visible))
	}

	flipped := make([]poselite.Point, len(points))
	flippedVis := make([]float32, len(visible))

	// mirror all coordinates, the -1 keeps pixel centers aligned
	for i, p := range points {
		flipped[i] = poselite.Point{X: width - 1 - p.X, Y: p.Y}
		flippedVis[i] = visible[i]
	}

	// swap left/right joints
	for _, pair := range flipPairs {
		l, r := pair[0], pair[1]

		if l < 0 || l >= len(points) || r < 0 || r >= len(points) {
			return nil, nil, poselite.NewSchemaMismatchError(
				"flip_pairs", len(points), maxInt(l, r))
		}

		flipped[l], flipped[r] = flipped[r], flipped[l]
		flippedVis[l], flippedVis[r] = flippedVis[r], flippedVis[l]
	}

	return flipped, flippedVis, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
