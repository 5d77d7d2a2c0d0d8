/*
go-poselite provides the coordinate space transforms and keypoint target
codecs used by top-down and bottom-up pose estimation pipelines.  It aims to
provide a lite implementation of the data processing core found in the larger
Python research toolboxes, for running pose model pre and post processing
from Go.

The root package holds the data model: per instance annotations, per dataset
keypoint schemas, and the typed errors shared by the subpackages.  The
transform subpackage maps annotations between original image space and model
input space via affine transforms derived from a bounding box center and
scale.  The codec subpackage encodes input space keypoints into training
targets (Gaussian heatmaps or regression labels) and decodes predicted
targets back into coordinates.  The eval subpackage scores decoded keypoints
against ground truth.

See example usage in the package tests.
*/
package poselite
