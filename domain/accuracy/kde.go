package accuracy

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GaussianKDE2D evaluates a bivariate Gaussian kernel density estimate at
// each sample point. Bandwidth follows Scott's rule for two dimensions,
// n^(-1/6), applied to the sample covariance. A degenerate covariance falls
// back to uniform density.
func GaussianKDE2D(xs, ys []float64) []float64 {
	n := len(xs)
	if n == 0 || len(ys) != n {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	factor := math.Pow(float64(n), -1.0/6.0)
	f2 := factor * factor
	cxx := stat.Variance(xs, nil) * f2
	cyy := stat.Variance(ys, nil) * f2
	cxy := stat.Covariance(xs, ys, nil) * f2

	det := cxx*cyy - cxy*cxy
	if det <= 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}

	inv00 := cyy / det
	inv11 := cxx / det
	inv01 := -cxy / det
	norm := 1.0 / (2.0 * math.Pi * math.Sqrt(det) * float64(n))

	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			dx := xs[i] - xs[j]
			dy := ys[i] - ys[j]
			e := dx*dx*inv00 + 2.0*dx*dy*inv01 + dy*dy*inv11
			sum += math.Exp(-0.5 * e)
		}
		out[i] = norm * sum
	}
	return out
}

// DensityOrder returns sample indexes sorted by ascending density, so a
// scatter draws the densest points last
func DensityOrder(density []float64) []int {
	order := make([]int, len(density))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return density[order[a]] < density[order[b]]
	})
	return order
}
