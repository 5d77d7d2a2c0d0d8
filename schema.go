package poselite

import (
	"fmt"
	"sort"
	"sync"
)

// KeypointSchema defines the static per dataset keypoint metadata: joint
// names, left/right swap pairs used by flip augmentation, per joint loss
// weights, per joint sigmas (expected annotation noise, used for Gaussian
// heatmap radius and normalized evaluation metrics) and skeleton edges.
// A schema is immutable once registered
type KeypointSchema struct {
	// Name is the dataset name the schema is keyed by, eg "coco"
	Name string
	// JointNames lists the joint names in keypoint order
	JointNames []string
	// FlipPairs lists index pairs of joints that swap under a horizontal
	// flip, eg left and right shoulder
	FlipPairs [][2]int
	// Weights holds the per joint loss weight
	Weights []float32
	// Sigmas holds the per joint sigma
	Sigmas []float32
	// Skeleton lists joint index pairs to draw limb edges between, kept
	// for downstream consumers only
	Skeleton [][2]int
}

// NumKeypoints returns the number of joints the schema defines
func (s *KeypointSchema) NumKeypoints() int {
	return len(s.JointNames)
}

// validate checks the schema's parallel sequences agree in length
func (s *KeypointSchema) validate() error {

	k := len(s.JointNames)

	if len(s.Weights) != k {
		return NewSchemaMismatchError("weights", k, len(s.Weights))
	}

	if len(s.Sigmas) != k {
		return NewSchemaMismatchError("sigmas", k, len(s.Sigmas))
	}

	for _, pair := range s.FlipPairs {
		if pair[0] < 0 || pair[0] >= k || pair[1] < 0 || pair[1] >= k {
			return NewSchemaMismatchError(
				fmt.Sprintf("flip pair (%d, %d)", pair[0], pair[1]),
				k, pair[0])
		}
	}

	return nil
}

// SchemaRegistry maps dataset names to keypoint schemas.  Registration is
// explicit, performed by the application bootstrap, there is no import time
// self registration
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*KeypointSchema
}

// NewSchemaRegistry returns an empty schema registry
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		schemas: make(map[string]*KeypointSchema),
	}
}

// Register adds a schema to the registry keyed by its name.  Registering a
// duplicate name or an inconsistent schema is an error
func (r *SchemaRegistry) Register(s *KeypointSchema) error {

	if err := s.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[s.Name]; ok {
		return fmt.Errorf("schema %q already registered", s.Name)
	}

	r.schemas[s.Name] = s
	return nil
}

// Lookup returns the schema registered under the given dataset name
func (r *SchemaRegistry) Lookup(name string) (*KeypointSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered dataset names in sorted order
func (r *SchemaRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))

	for name := range r.schemas {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// RegisterBuiltinSchemas registers the schemas shipped with the library
// (COCO and MPII) on the given registry.  Call it once from the application
// bootstrap
func RegisterBuiltinSchemas(r *SchemaRegistry) error {

	for _, s := range []*KeypointSchema{COCOSchema(), MPIISchema()} {
		if err := r.Register(s); err != nil {
			return err
		}
	}

	return nil
}

// COCOSchema returns the 17 joint COCO body keypoint schema
func COCOSchema() *KeypointSchema {
	return &KeypointSchema{
		Name: "coco",
		JointNames: []string{
			"nose", "left_eye", "right_eye", "left_ear", "right_ear",
			"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
			"left_wrist", "right_wrist", "left_hip", "right_hip",
			"left_knee", "right_knee", "left_ankle", "right_ankle",
		},
		FlipPairs: [][2]int{
			{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}, {11, 12}, {13, 14},
			{15, 16},
		},
		Weights: []float32{
			1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.2, 1.2, 1.5, 1.5,
			1.0, 1.0, 1.2, 1.2, 1.5, 1.5,
		},
		Sigmas: []float32{
			0.026, 0.025, 0.025, 0.035, 0.035, 0.079, 0.079, 0.072, 0.072,
			0.062, 0.062, 0.107, 0.107, 0.087, 0.087, 0.089, 0.089,
		},
		Skeleton: [][2]int{
			{15, 13}, {13, 11}, {16, 14}, {14, 12}, {11, 12}, {5, 11},
			{6, 12}, {5, 6}, {5, 7}, {6, 8}, {7, 9}, {8, 10}, {1, 2},
			{0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6},
		},
	}
}

// MPIISchema returns the 16 joint MPII body keypoint schema
func MPIISchema() *KeypointSchema {
	return &KeypointSchema{
		Name: "mpii",
		JointNames: []string{
			"right_ankle", "right_knee", "right_hip", "left_hip",
			"left_knee", "left_ankle", "pelvis", "thorax", "upper_neck",
			"head_top", "right_wrist", "right_elbow", "right_shoulder",
			"left_shoulder", "left_elbow", "left_wrist",
		},
		FlipPairs: [][2]int{
			{0, 5}, {1, 4}, {2, 3}, {10, 15}, {11, 14}, {12, 13},
		},
		Weights: []float32{
			1.5, 1.2, 1.0, 1.0, 1.2, 1.5, 1.0, 1.0, 1.0, 1.0,
			1.5, 1.2, 1.0, 1.0, 1.2, 1.5,
		},
		Sigmas: []float32{
			0.089, 0.083, 0.107, 0.107, 0.083, 0.089, 0.026, 0.026,
			0.026, 0.026, 0.062, 0.072, 0.179, 0.179, 0.072, 0.062,
		},
		Skeleton: [][2]int{
			{0, 1}, {1, 2}, {2, 6}, {6, 3}, {3, 4}, {4, 5}, {6, 7},
			{7, 8}, {8, 9}, {8, 12}, {12, 11}, {11, 10}, {8, 13},
			{13, 14}, {14, 15},
		},
	}
}
