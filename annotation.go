package poselite

// Point defines a 2D coordinate in one of the three coordinate spaces
// (original image, model input or heatmap output)
type Point struct {
	X float32
	Y float32
}

// Box defines an axis aligned bounding box in xyxy form
type Box struct {
	X1 float32
	Y1 float32
	X2 float32
	Y2 float32
}

// Width returns the box width
func (b Box) Width() float32 {
	return b.X2 - b.X1
}

// Height returns the box height
func (b Box) Height() float32 {
	return b.Y2 - b.Y1
}

// InstanceAnnotation defines a single detected instance as supplied by an
// external dataset loader.  Keypoints and Visible run parallel, one entry
// per joint in the dataset's keypoint schema
type InstanceAnnotation struct {
	// Keypoints are the joint coordinates in original image space
	Keypoints []Point
	// Visible holds the per joint visibility weight in [0, 1]
	Visible []float32
	// Bbox is the instance bounding box in xyxy form
	Bbox Box
	// BboxCenter is the bounding box center point
	BboxCenter Point
	// BboxScale is the bounding box size in multiples of the pixel
	// standard, see transform.DefaultPixelStd
	BboxScale [2]float32
}

// Validate checks the annotation against the given schema.  It returns a
// SchemaMismatchError when the keypoint or visibility sequence length
// disagrees with the schema joint count
func (a *InstanceAnnotation) Validate(schema *KeypointSchema) error {

	if len(a.Keypoints) != schema.NumKeypoints() {
		return NewSchemaMismatchError("keypoints",
			schema.NumKeypoints(), len(a.Keypoints))
	}

	if len(a.Visible) != len(a.Keypoints) {
		return NewSchemaMismatchError("keypoints_visible",
			len(a.Keypoints), len(a.Visible))
	}

	return nil
}
