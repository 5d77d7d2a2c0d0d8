package codec

import (
	"testing"

	poselite "github.com/poselite/go-poselite"
)

func TestEncoderPoolMatchesSerial(t *testing.T) {

	params := testParams(2.0, 2.0)

	factory := func() (Codec, error) {
		return NewGaussianHeatmap(params)
	}

	pool, err := NewEncoderPool(4, factory)

	if err != nil {
		t.Fatalf("NewEncoderPool returned error: %v", err)
	}

	defer pool.Close()

	samples := make([]Sample, 10)

	for i := range samples {
		samples[i] = Sample{
			Keypoints: []poselite.Point{
				{X: float32(10 + i*15), Y: float32(20 + i*20)},
				{X: float32(96 - i*5), Y: float32(128 + i*3)},
			},
			Visible: []float32{1, 1},
		}
	}

	targets, err := pool.EncodeBatch(samples)

	if err != nil {
		t.Fatalf("EncodeBatch returned error: %v", err)
	}

	if len(targets) != len(samples) {
		t.Fatalf("expected %d targets, got %d", len(samples), len(targets))
	}

	serial, err := NewGaussianHeatmap(params)

	if err != nil {
		t.Fatalf("NewGaussianHeatmap returned error: %v", err)
	}

	for i, sample := range samples {
		expected, err := serial.Encode(sample.Keypoints, sample.Visible)

		if err != nil {
			t.Fatalf("serial Encode returned error: %v", err)
		}

		got := targets[i].Data.Data().([]float32)
		want := expected.Data.Data().([]float32)

		for n := range want {
			if got[n] != want[n] {
				t.Fatalf("sample %d: batch target differs from serial at index %d",
					i, n)
			}
		}

		for j := range expected.Weights {
			if targets[i].Weights[j] != expected.Weights[j] {
				t.Errorf("sample %d: expected weight %f, got %f",
					i, expected.Weights[j], targets[i].Weights[j])
			}
		}
	}
}

func TestEncoderPoolEncodeError(t *testing.T) {

	pool, err := NewEncoderPool(2, func() (Codec, error) {
		return NewGaussianHeatmap(testParams(2.0, 2.0))
	})

	if err != nil {
		t.Fatalf("NewEncoderPool returned error: %v", err)
	}

	defer pool.Close()

	samples := []Sample{
		{
			Keypoints: []poselite.Point{{X: 10, Y: 10}, {X: 20, Y: 20}},
			Visible:   []float32{1, 1},
		},
		{
			// wrong joint count
			Keypoints: []poselite.Point{{X: 10, Y: 10}},
			Visible:   []float32{1},
		},
	}

	if _, err := pool.EncodeBatch(samples); err == nil {
		t.Error("expected error for batch with a malformed sample")
	}
}

func TestEncoderPoolReturnAfterClose(t *testing.T) {

	pool, err := NewEncoderPool(1, func() (Codec, error) {
		return NewGaussianHeatmap(testParams(2.0))
	})

	if err != nil {
		t.Fatalf("NewEncoderPool returned error: %v", err)
	}

	c := pool.Get()

	if c == nil {
		t.Fatal("expected a codec from the pool")
	}

	pool.Close()

	// a late return to a closed pool is dropped, not a panic
	pool.Return(c)

	samples := []Sample{
		{
			Keypoints: []poselite.Point{{X: 10, Y: 10}},
			Visible:   []float32{1},
		},
	}

	if _, err := pool.EncodeBatch(samples); err == nil {
		t.Error("expected error encoding on a closed pool")
	}
}

func TestEncoderPoolBadSize(t *testing.T) {

	_, err := NewEncoderPool(0, func() (Codec, error) {
		return NewGaussianHeatmap(testParams(2.0))
	})

	if err == nil {
		t.Error("expected error for zero pool size")
	}
}
