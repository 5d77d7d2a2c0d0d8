package transform

import (
	"testing"

	"gocv.io/x/gocv"

	poselite "github.com/poselite/go-poselite"
)

func TestWarpImage(t *testing.T) {

	src := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC1)
	defer src.Close()

	// mark the box center
	src.SetUCharAt(100, 100, 255)

	// identity crop: a 200px box centered at (100, 100) onto 200x200
	trans, err := NewAffine(AffineParams{
		Center:     poselite.Point{X: 100, Y: 100},
		Scale:      [2]float32{1, 1},
		OutputSize: [2]int{200, 200},
	})

	if err != nil {
		t.Fatalf("NewAffine returned error: %v", err)
	}

	dst := gocv.NewMat()
	defer dst.Close()

	trans.WarpImage(src, &dst)

	if dst.Cols() != 200 || dst.Rows() != 200 {
		t.Fatalf("expected 200x200 output, got %dx%d", dst.Cols(), dst.Rows())
	}

	if dst.GetUCharAt(100, 100) == 0 {
		t.Error("expected center marker to survive the identity warp")
	}
}
