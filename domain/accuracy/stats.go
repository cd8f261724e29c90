package accuracy

import (
	"math"

	"github.com/montanaflynn/stats"
)

// PearsonR computes the correlation coefficient between observed and
// predicted values. Degenerate inputs yield 0.
func PearsonR(obs, prd []float64) float64 {
	if len(obs) != len(prd) || len(obs) < 2 {
		return 0
	}
	r, err := stats.Correlation(obs, prd)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	return r
}

// RMSE computes the root mean squared error between observed and predicted
// values
func RMSE(obs, prd []float64) float64 {
	if len(obs) != len(prd) || len(obs) == 0 {
		return 0
	}
	sum := 0.0
	for i := range obs {
		d := obs[i] - prd[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(obs)))
}

// NormalizedRMSE is RMSE scaled by the observed mean. A zero mean yields 0.
func NormalizedRMSE(obs, prd []float64) float64 {
	mean, err := stats.Mean(obs)
	if err != nil || mean == 0 {
		return 0
	}
	return RMSE(obs, prd) / mean
}

// RSquare computes the coefficient of determination about the observed mean
func RSquare(obs, prd []float64) float64 {
	if len(obs) != len(prd) || len(obs) == 0 {
		return 0
	}
	mean, err := stats.Mean(obs)
	if err != nil {
		return 0
	}
	ssRes, ssTot := 0.0, 0.0
	for i := range obs {
		r := obs[i] - prd[i]
		d := obs[i] - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0
	}
	return 1.0 - ssRes/ssTot
}

// Kappa computes Cohen's kappa from a 2x2 presence/absence table. The four
// counts are observed-present/predicted-present, observed-present/
// predicted-absent, observed-absent/predicted-present and observed-absent/
// predicted-absent.
func Kappa(opPP, opPA, oaPP, oaPA float64) float64 {
	total := opPP + opPA + oaPP + oaPA
	if total == 0 {
		return 0
	}
	prA := (opPP + oaPA) / total
	obsPresent := (opPP + opPA) / total
	prdPresent := (opPP + oaPP) / total
	obsAbsent := (oaPP + oaPA) / total
	prdAbsent := (opPA + oaPA) / total
	prE := obsPresent*prdPresent + obsAbsent*prdAbsent
	if prE == 1 {
		return 0
	}
	return (prA - prE) / (1.0 - prE)
}
