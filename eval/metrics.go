// Package eval scores decoded keypoint predictions against ground truth
// annotations.  All metrics ignore masked joints, so partially labeled
// instances contribute only their labeled joints
package eval

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	poselite "github.com/poselite/go-poselite"
)

// distances computes the normalized distance between prediction and ground
// truth for every (instance, joint), arranged per joint.  Masked joints are
// marked with -1
func distances(pred, gt [][]poselite.Point, mask [][]bool,
	normalize [2]float32) ([][]float64, error) {

	if len(gt) != len(pred) || len(mask) != len(pred) {
		return nil, errors.Errorf(
			"instance counts disagree: pred %d, gt %d, mask %d",
			len(pred), len(gt), len(mask))
	}

	if len(pred) == 0 {
		return nil, errors.New("no instances to evaluate")
	}

	if normalize[0] <= 0 || normalize[1] <= 0 {
		return nil, errors.Errorf(
			"normalization factor (%f, %f) must be positive",
			normalize[0], normalize[1])
	}

	numJoints := len(pred[0])

	dists := make([][]float64, numJoints)

	for k := range dists {
		dists[k] = make([]float64, len(pred))
	}

	for n := range pred {
		if len(gt[n]) != len(pred[n]) || len(mask[n]) != len(pred[n]) ||
			len(pred[n]) != numJoints {
			return nil, poselite.NewSchemaMismatchError(
				"instance joints", numJoints, len(pred[n]))
		}

		for k := 0; k < numJoints; k++ {
			if !mask[n][k] {
				dists[k][n] = -1
				continue
			}

			dx := float64((pred[n][k].X - gt[n][k].X) / normalize[0])
			dy := float64((pred[n][k].Y - gt[n][k].Y) / normalize[1])

			dists[k][n] = math.Hypot(dx, dy)
		}
	}

	return dists, nil
}

// distanceAccuracy returns the fraction of valid distances below the
// threshold, or -1 when all joints of the kind are masked
func distanceAccuracy(dists []float64, threshold float64) float64 {

	var below, valid float64

	for _, d := range dists {
		if d == -1 {
			continue
		}

		valid++

		if d < threshold {
			below++
		}
	}

	if valid == 0 {
		return -1
	}

	return below / valid
}

// PCK computes the percentage of correct keypoints: the fraction of joints
// whose prediction lies within a normalized distance threshold of the
// ground truth.  It returns the per joint accuracy (-1 for joints masked
// everywhere), the average over valid joints and the valid joint count
func PCK(pred, gt [][]poselite.Point, mask [][]bool, threshold float64,
	normalize [2]float32) (perJoint []float64, avg float64, cnt int, err error) {

	dists, err := distances(pred, gt, mask, normalize)

	if err != nil {
		return nil, 0, 0, err
	}

	perJoint = make([]float64, len(dists))

	valid := make([]float64, 0, len(dists))

	for k, d := range dists {
		perJoint[k] = distanceAccuracy(d, threshold)

		if perJoint[k] >= 0 {
			valid = append(valid, perJoint[k])
		}
	}

	if len(valid) > 0 {
		avg = floats.Sum(valid) / float64(len(valid))
	}

	return perJoint, avg, len(valid), nil
}

// AUC computes the area under the PCK curve, sweeping the threshold from 0
// to 1 in the given number of steps
func AUC(pred, gt [][]poselite.Point, mask [][]bool, normalize float32,
	steps int) (float64, error) {

	if steps <= 0 {
		return 0, errors.Errorf("steps %d must be positive", steps)
	}

	accs := make([]float64, steps)

	for i := 0; i < steps; i++ {
		threshold := float64(i) / float64(steps)

		_, avg, _, err := PCK(pred, gt, mask, threshold,
			[2]float32{normalize, normalize})

		if err != nil {
			return 0, err
		}

		accs[i] = avg
	}

	return floats.Sum(accs) / float64(steps), nil
}

// EPE computes the average end point error in pixels over all unmasked
// joints
func EPE(pred, gt [][]poselite.Point, mask [][]bool) (float64, error) {

	dists, err := distances(pred, gt, mask, [2]float32{1, 1})

	if err != nil {
		return 0, err
	}

	var sum float64
	var valid int

	for _, d := range dists {
		for _, v := range d {
			if v == -1 {
				continue
			}

			sum += v
			valid++
		}
	}

	if valid == 0 {
		return 0, errors.New("all joints are masked")
	}

	return sum / float64(valid), nil
}
