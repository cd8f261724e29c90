package accuracy

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestPearsonR tests correlation computation
func TestPearsonR(t *testing.T) {
	obs := []float64{1, 2, 3, 4, 5}

	if r := PearsonR(obs, obs); !almostEqual(r, 1.0, 1e-12) {
		t.Errorf("PearsonR(identical) = %f, expected 1", r)
	}

	inverse := []float64{5, 4, 3, 2, 1}
	if r := PearsonR(obs, inverse); !almostEqual(r, -1.0, 1e-12) {
		t.Errorf("PearsonR(inverse) = %f, expected -1", r)
	}

	if r := PearsonR(obs, []float64{1, 2}); r != 0 {
		t.Errorf("PearsonR(mismatched lengths) = %f, expected 0", r)
	}

	constant := []float64{2, 2, 2, 2, 2}
	if r := PearsonR(obs, constant); r != 0 {
		t.Errorf("PearsonR(constant series) = %f, expected 0", r)
	}
}

// TestRMSE tests root mean squared error
func TestRMSE(t *testing.T) {
	obs := []float64{1, 2, 3}

	if v := RMSE(obs, obs); v != 0 {
		t.Errorf("RMSE(identical) = %f, expected 0", v)
	}

	got := RMSE([]float64{0, 0}, []float64{3, 4})
	expected := math.Sqrt(12.5)
	if !almostEqual(got, expected, 1e-12) {
		t.Errorf("RMSE = %f, expected %f", got, expected)
	}

	if v := RMSE(nil, nil); v != 0 {
		t.Errorf("RMSE(empty) = %f, expected 0", v)
	}
}

// TestNormalizedRMSE tests RMSE scaling by the observed mean
func TestNormalizedRMSE(t *testing.T) {
	obs := []float64{10, 20, 30}
	prd := []float64{12, 18, 33}

	expected := RMSE(obs, prd) / 20.0
	if got := NormalizedRMSE(obs, prd); !almostEqual(got, expected, 1e-12) {
		t.Errorf("NormalizedRMSE = %f, expected %f", got, expected)
	}

	zeroMean := []float64{-1, 0, 1}
	if got := NormalizedRMSE(zeroMean, prd); got != 0 {
		t.Errorf("NormalizedRMSE(zero mean) = %f, expected 0", got)
	}
}

// TestRSquare tests the coefficient of determination
func TestRSquare(t *testing.T) {
	obs := []float64{1, 2, 3}

	if v := RSquare(obs, obs); !almostEqual(v, 1.0, 1e-12) {
		t.Errorf("RSquare(identical) = %f, expected 1", v)
	}

	// Predicting the mean everywhere explains none of the variance
	meanOnly := []float64{2, 2, 2}
	if v := RSquare(obs, meanOnly); !almostEqual(v, 0.0, 1e-12) {
		t.Errorf("RSquare(mean prediction) = %f, expected 0", v)
	}

	constant := []float64{5, 5, 5}
	if v := RSquare(constant, obs); v != 0 {
		t.Errorf("RSquare(constant observed) = %f, expected 0", v)
	}
}

// TestKappa tests Cohen's kappa from 2x2 counts
func TestKappa(t *testing.T) {
	// Perfect agreement
	if k := Kappa(5, 0, 0, 5); !almostEqual(k, 1.0, 1e-12) {
		t.Errorf("Kappa(perfect) = %f, expected 1", k)
	}

	// Agreement no better than chance
	if k := Kappa(2.5, 2.5, 2.5, 2.5); !almostEqual(k, 0.0, 1e-12) {
		t.Errorf("Kappa(chance) = %f, expected 0", k)
	}

	// Known hand-computed case: prA = 0.7, prE = 0.5, kappa = 0.4
	if k := Kappa(35, 15, 15, 35); !almostEqual(k, 0.4, 1e-12) {
		t.Errorf("Kappa = %f, expected 0.4", k)
	}

	if k := Kappa(0, 0, 0, 0); k != 0 {
		t.Errorf("Kappa(empty) = %f, expected 0", k)
	}

	// All observations and predictions in the same single cell
	if k := Kappa(10, 0, 0, 0); k != 0 {
		t.Errorf("Kappa(degenerate marginals) = %f, expected 0", k)
	}
}
