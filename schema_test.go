package poselite

import (
	"errors"
	"testing"
)

func TestRegisterBuiltinSchemas(t *testing.T) {

	reg := NewSchemaRegistry()

	err := RegisterBuiltinSchemas(reg)

	if err != nil {
		t.Fatalf("RegisterBuiltinSchemas failed: %v", err)
	}

	tests := []struct {
		name         string
		numKeypoints int
		numFlipPairs int
	}{
		{"coco", 17, 8},
		{"mpii", 16, 6},
	}

	for _, tc := range tests {
		s, ok := reg.Lookup(tc.name)

		if !ok {
			t.Fatalf("schema %q not registered", tc.name)
		}

		if s.NumKeypoints() != tc.numKeypoints {
			t.Errorf("schema %q: expected %d keypoints, got %d",
				tc.name, tc.numKeypoints, s.NumKeypoints())
		}

		if len(s.FlipPairs) != tc.numFlipPairs {
			t.Errorf("schema %q: expected %d flip pairs, got %d",
				tc.name, tc.numFlipPairs, len(s.FlipPairs))
		}

		if len(s.Sigmas) != s.NumKeypoints() || len(s.Weights) != s.NumKeypoints() {
			t.Errorf("schema %q: sigmas/weights length does not match joint count",
				tc.name)
		}
	}

	names := reg.Names()

	if len(names) != 2 || names[0] != "coco" || names[1] != "mpii" {
		t.Errorf("expected sorted names [coco mpii], got %v", names)
	}
}

func TestRegisterDuplicateSchema(t *testing.T) {

	reg := NewSchemaRegistry()

	if err := reg.Register(COCOSchema()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	if err := reg.Register(COCOSchema()); err == nil {
		t.Error("expected error registering duplicate schema name")
	}
}

func TestRegisterInconsistentSchema(t *testing.T) {

	s := COCOSchema()
	s.Name = "broken"
	s.Sigmas = s.Sigmas[:5]

	reg := NewSchemaRegistry()
	err := reg.Register(s)

	var mismatch *SchemaMismatchError

	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}

	if mismatch.Want != 17 || mismatch.Got != 5 {
		t.Errorf("expected want=17 got=5, have want=%d got=%d",
			mismatch.Want, mismatch.Got)
	}
}

func TestAnnotationValidate(t *testing.T) {

	schema := COCOSchema()

	ann := &InstanceAnnotation{
		Keypoints: make([]Point, 17),
		Visible:   make([]float32, 17),
	}

	if err := ann.Validate(schema); err != nil {
		t.Errorf("valid annotation rejected: %v", err)
	}

	ann.Visible = ann.Visible[:10]

	var mismatch *SchemaMismatchError

	if err := ann.Validate(schema); !errors.As(err, &mismatch) {
		t.Errorf("expected SchemaMismatchError for short visibility, got %v", err)
	}

	ann = &InstanceAnnotation{
		Keypoints: make([]Point, 12),
		Visible:   make([]float32, 12),
	}

	if err := ann.Validate(schema); !errors.As(err, &mismatch) {
		t.Errorf("expected SchemaMismatchError for wrong joint count, got %v", err)
	}
}
