package codec

import "testing"

func TestRegisterBuiltinCodecs(t *testing.T) {

	reg := NewRegistry()

	if err := RegisterBuiltinCodecs(reg); err != nil {
		t.Fatalf("RegisterBuiltinCodecs returned error: %v", err)
	}

	expected := []string{"gaussian-heatmap", "megvii-heatmap", "regression-label"}

	names := reg.Names()

	if len(names) != len(expected) {
		t.Fatalf("expected %d codecs, got %d", len(expected), len(names))
	}

	for i, name := range expected {
		if names[i] != name {
			t.Errorf("expected codec %q at position %d, got %q", name, i, names[i])
		}
	}

	for _, name := range expected {
		c, err := reg.New(name, COCOParams())

		if err != nil {
			t.Errorf("building codec %q failed: %v", name, err)
			continue
		}

		if c == nil {
			t.Errorf("codec %q built to nil", name)
		}
	}
}

func TestRegistryUnknownCodec(t *testing.T) {

	reg := NewRegistry()

	if _, err := reg.New("no-such-codec", COCOParams()); err == nil {
		t.Error("expected error for unknown codec name")
	}
}

func TestRegistryDuplicateName(t *testing.T) {

	reg := NewRegistry()

	factory := func(p Params) (Codec, error) {
		return NewGaussianHeatmap(p)
	}

	if err := reg.Register("dup", factory); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	if err := reg.Register("dup", factory); err == nil {
		t.Error("expected error registering duplicate codec name")
	}
}
