package learn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Standardize scales each feature column to zero mean and unit population
// variance. Constant columns are only centred. points is not modified.
func Standardize(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	if len(points) == 0 {
		return out
	}
	dims := len(points[0])
	for i := range points {
		out[i] = make([]float64, dims)
	}
	col := make([]float64, len(points))
	for j := 0; j < dims; j++ {
		for i := range points {
			col[i] = points[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := range points {
			v := points[i][j] - mean
			if std > 0 {
				v /= std
			}
			out[i][j] = v
		}
	}
	return out
}

// TrainTestSplit permutes 0..n-1 with seed and returns ceil(n*fraction)
// test indices; the rest train. At least one row is kept for training.
func TrainTestSplit(n int, fraction float64, seed int64) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}
	nTest := int(math.Ceil(float64(n) * fraction))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	//nolint:gosec // reproducible split
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

// MeanSquaredError is the mean of the squared residuals.
func MeanSquaredError(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

// RSquared is the coefficient of determination. Undefined values, such as
// a constant actual series, report 0.
func RSquared(actual, predicted []float64) float64 {
	if len(actual) < 2 || len(actual) != len(predicted) {
		return 0
	}
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0
	}
	return r2
}
