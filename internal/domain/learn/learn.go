// Package learn provides the two models the analytics need: a simple linear
// regression and k-means clustering, plus the helpers used to evaluate them.
// Callers depend on the interfaces; the implementations are replaceable.
package learn

// RegressionModel is a fitted single-feature linear model.
type RegressionModel interface {
	Predict(x float64) float64
	Coefficients() (slope, intercept float64)
}

// Regressor fits y on x.
type Regressor interface {
	Fit(x, y []float64) (RegressionModel, error)
}

// ClusterModel assigns points to the nearest learned centroid.
type ClusterModel interface {
	Predict(point []float64) int
	Centroids() [][]float64
}

// Clusterer learns centroids from points, one row per observation.
type Clusterer interface {
	Fit(points [][]float64) (ClusterModel, error)
}
