package codec

import "testing"

func TestHeatmapFromFloat16(t *testing.T) {

	// 0x3C00 is 1.0, 0x3800 is 0.5
	bits := []uint16{0x3C00, 0x0000, 0x3800, 0x0000}

	heatmaps, err := HeatmapFromFloat16(bits, 1, 2, 2)

	if err != nil {
		t.Fatalf("HeatmapFromFloat16 returned error: %v", err)
	}

	shape := heatmaps.Shape()

	if len(shape) != 3 || shape[0] != 1 || shape[1] != 2 || shape[2] != 2 {
		t.Fatalf("expected shape [1, 2, 2], got %v", shape)
	}

	buf := heatmaps.Data().([]float32)

	expected := []float32{1.0, 0, 0.5, 0}

	for i, v := range expected {
		if buf[i] != v {
			t.Errorf("index %d: expected %f, got %f", i, v, buf[i])
		}
	}
}

func TestHeatmapFromFloat16BadLength(t *testing.T) {

	if _, err := HeatmapFromFloat16(make([]uint16, 5), 1, 2, 2); err == nil {
		t.Error("expected error for buffer length mismatch")
	}
}

func TestHeatmapFromFloat32(t *testing.T) {

	buf := []float32{0.1, 0.9, 0.3, 0.7}

	heatmaps, err := HeatmapFromFloat32(buf, 1, 2, 2)

	if err != nil {
		t.Fatalf("HeatmapFromFloat32 returned error: %v", err)
	}

	if got := heatmaps.Data().([]float32); &got[0] != &buf[0] {
		t.Error("expected the tensor to share the input backing")
	}

	if _, err := HeatmapFromFloat32(buf, 2, 2, 2); err == nil {
		t.Error("expected error for buffer length mismatch")
	}
}
