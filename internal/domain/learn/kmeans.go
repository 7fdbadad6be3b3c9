package learn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// K-means defaults.
const (
	DefaultClusters = 3
	DefaultInits    = 10
	DefaultMaxIter  = 300
	DefaultTol      = 1e-4
	DefaultSeed     = 42
)

// KMeans is Lloyd's algorithm with k-means++ seeding. Each of Inits runs
// starts from fresh seeds and the run with the lowest inertia wins.
type KMeans struct {
	k       int
	inits   int
	maxIter int
	tol     float64
	seed    int64
}

// KMeansOption configures KMeans.
type KMeansOption func(*KMeans)

// WithClusters sets k.
func WithClusters(k int) KMeansOption {
	return func(m *KMeans) { m.k = k }
}

// WithInits sets the number of restarts.
func WithInits(n int) KMeansOption {
	return func(m *KMeans) {
		if n > 0 {
			m.inits = n
		}
	}
}

// WithMaxIter bounds the Lloyd iterations of one run.
func WithMaxIter(n int) KMeansOption {
	return func(m *KMeans) {
		if n > 0 {
			m.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance, relative to the mean
// feature variance.
func WithTolerance(tol float64) KMeansOption {
	return func(m *KMeans) {
		if tol >= 0 {
			m.tol = tol
		}
	}
}

// WithSeed fixes the random state.
func WithSeed(seed int64) KMeansOption {
	return func(m *KMeans) { m.seed = seed }
}

// NewKMeans creates a clusterer with k=3, 10 restarts and seed 42.
func NewKMeans(opts ...KMeansOption) *KMeans {
	m := &KMeans{
		k:       DefaultClusters,
		inits:   DefaultInits,
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
		seed:    DefaultSeed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type centroids [][]float64

func (c centroids) Predict(point []float64) int {
	label, _ := nearest(c, point)
	return label
}

func (c centroids) Centroids() [][]float64 {
	out := make([][]float64, len(c))
	for i := range c {
		out[i] = append([]float64(nil), c[i]...)
	}
	return out
}

// Fit clusters points. The same points and seed give the same centroids.
func (m *KMeans) Fit(points [][]float64) (ClusterModel, error) {
	if m.k < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidK, m.k)
	}
	if len(points) < m.k {
		return nil, fmt.Errorf("%w: %d points for %d clusters", ErrTooFewSamples, len(points), m.k)
	}
	dims := len(points[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: points have no features", ErrLengthMismatch)
	}
	for i, p := range points {
		if len(p) != dims {
			return nil, fmt.Errorf("%w: point %d has %d features, want %d", ErrLengthMismatch, i, len(p), dims)
		}
	}

	tol := m.tol * meanVariance(points)
	//nolint:gosec // reproducible clustering
	rng := rand.New(rand.NewSource(m.seed))

	var best centroids
	bestInertia := math.Inf(1)
	for run := 0; run < m.inits; run++ {
		c := m.lloyd(points, seedPlusPlus(points, m.k, rng), tol)
		if inertia := inertiaOf(c, points); inertia < bestInertia {
			best, bestInertia = c, inertia
		}
	}
	return best, nil
}

func (m *KMeans) lloyd(points [][]float64, c centroids, tol float64) centroids {
	dims := len(points[0])
	for iter := 0; iter < m.maxIter; iter++ {
		sums := make([][]float64, len(c))
		counts := make([]int, len(c))
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for _, p := range points {
			label, _ := nearest(c, p)
			floats.Add(sums[label], p)
			counts[label]++
		}

		next := make(centroids, len(c))
		shift := 0.0
		for i := range c {
			if counts[i] == 0 {
				next[i] = c[i]
				continue
			}
			floats.Scale(1/float64(counts[i]), sums[i])
			next[i] = sums[i]
			d := floats.Distance(c[i], next[i], 2)
			shift += d * d
		}
		c = next
		if shift <= tol {
			break
		}
	}
	return c
}

// seedPlusPlus picks k initial centroids, each drawn with probability
// proportional to its squared distance from the centroids chosen so far.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) centroids {
	c := make(centroids, 0, k)
	c = append(c, clone(points[rng.Intn(len(points))]))

	weights := make([]float64, len(points))
	for len(c) < k {
		total := 0.0
		for i, p := range points {
			_, d := nearest(c, p)
			weights[i] = d * d
			total += weights[i]
		}
		if total == 0 {
			c = append(c, clone(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		pick := len(points) - 1
		acc := 0.0
		for i, w := range weights {
			acc += w
			if acc > target {
				pick = i
				break
			}
		}
		c = append(c, clone(points[pick]))
	}
	return c
}

func nearest(c centroids, p []float64) (int, float64) {
	label, best := 0, math.Inf(1)
	for i := range c {
		if d := floats.Distance(c[i], p, 2); d < best {
			label, best = i, d
		}
	}
	return label, best
}

func inertiaOf(c centroids, points [][]float64) float64 {
	sum := 0.0
	for _, p := range points {
		_, d := nearest(c, p)
		sum += d * d
	}
	return sum
}

func meanVariance(points [][]float64) float64 {
	dims := len(points[0])
	col := make([]float64, len(points))
	total := 0.0
	for j := 0; j < dims; j++ {
		for i := range points {
			col[i] = points[i][j]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		total += std * std
	}
	return total / float64(dims)
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
