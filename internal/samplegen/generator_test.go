package samplegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/domain/accuracy"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plots = 80
	cfg.Attributes = 2

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Observed, b.Observed)
	assert.Equal(t, a.Predicted, b.Predicted)
	assert.Equal(t, a.VegObserved, b.VegObserved)
	assert.Equal(t, a.Species, b.Species)
	assert.Equal(t, a.Areas, b.Areas)
}

func TestGenerateSeedChangesSeries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plots = 80

	a, err := Generate(cfg)
	require.NoError(t, err)

	cfg.Seed = 1234
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a.Observed["BAPH_GE_3"], b.Observed["BAPH_GE_3"])
}

func TestGeneratePredictionsTrackObservations(t *testing.T) {
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)

	for _, attr := range b.Attrs {
		r := accuracy.PearsonR(b.Observed[attr.FieldName], b.Predicted[attr.FieldName])
		assert.Greater(t, r, 0.6, attr.FieldName)
		assert.Less(t, r, 0.99, attr.FieldName)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no plots", func(c *Config) { c.Plots = 0 }},
		{"no attributes", func(c *Config) { c.Attributes = 0 }},
		{"too many attributes", func(c *Config) { c.Attributes = len(continuousCatalogue) + 1 }},
		{"negative noise", func(c *Config) { c.Noise = -0.1 }},
		{"unknown model type", func(c *Config) { c.ModelType = "canopy" }},
		{"unknown format", func(c *Config) { c.PredictedFormat = "parquet" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg)
			assert.Error(t, err)
		})
	}
}

func TestGenerateRespectsAttributeBounds(t *testing.T) {
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)

	var cancov ContinuousAttr
	for _, attr := range b.Attrs {
		if attr.FieldName == "CANCOV" {
			cancov = attr
		}
	}
	require.NotZero(t, cancov.Max)

	for _, series := range [][]float64{b.Observed["CANCOV"], b.Predicted["CANCOV"]} {
		for _, v := range series {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, cancov.Max)
		}
	}
}

func TestBinEdgesAscend(t *testing.T) {
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)

	for _, attr := range b.Attrs {
		bins := b.Bins[attr.FieldName]
		require.Len(t, bins, binCount)
		for i, bin := range bins {
			assert.LessOrEqual(t, bin.Low, bin.High)
			if i > 0 {
				assert.Equal(t, bins[i-1].High, bin.Low)
			}
		}
	}
}

func TestVegclassPairsStayInRange(t *testing.T) {
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)

	matches := 0
	for i := range b.VegObserved {
		require.GreaterOrEqual(t, b.VegObserved[i], 1)
		require.LessOrEqual(t, b.VegObserved[i], len(vegclassCodes))
		require.GreaterOrEqual(t, b.VegPredicted[i], 1)
		require.LessOrEqual(t, b.VegPredicted[i], len(vegclassCodes))
		if b.VegObserved[i] == b.VegPredicted[i] {
			matches++
		}
	}
	assert.Greater(t, matches, len(b.VegObserved)/2)
}

func TestSpeciesTableCarriesCutoffAndUntallied(t *testing.T) {
	cfg := DefaultConfig()
	b, err := Generate(cfg)
	require.NoError(t, err)

	byField := make(map[string]SpeciesStat, len(b.Species))
	for _, s := range b.Species {
		byField[s.Field] = s
		assert.Equal(t, cfg.Plots, s.OpPP+s.OpPA+s.OaPP+s.OaPA, s.Field)
	}

	assert.Less(t, byField["CHLA"].Prevalence, 0.005)
	assert.Contains(t, byField, "CONNOTALY")
	assert.Greater(t, byField["PSME"].Kappa, 0.0)
}

func TestAreaEstimatesShape(t *testing.T) {
	cfg := DefaultConfig()
	b, err := Generate(cfg)
	require.NoError(t, err)

	require.Len(t, b.Areas, cfg.Attributes+1)
	for _, est := range b.Areas {
		require.GreaterOrEqual(t, len(est.Labels), 3)
		assert.Equal(t, "Nonforest", est.Labels[0])
		assert.Equal(t, "Unsampled", est.Labels[1])
		assert.Len(t, est.Observed, len(est.Labels))
		assert.Len(t, est.Predicted, len(est.Labels))
		assert.Len(t, est.Adjusted, len(est.Labels)-2)
		assert.Len(t, est.CI, len(est.Labels)-2)
		assert.Zero(t, est.Predicted[1])
	}

	last := b.Areas[len(b.Areas)-1]
	assert.Equal(t, "VEGCLASS", last.Variable)
	assert.Len(t, last.Labels, len(vegclassCodes)+2)
}

func TestHexLevelsGroupPlots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plots = 130
	cfg.Attributes = 1
	b, err := Generate(cfg)
	require.NoError(t, err)

	level := b.Hexes[10]
	require.NotNil(t, level)
	assert.Len(t, level.IDs, 33)

	total := 0
	for _, c := range level.PlotCounts {
		total += c
	}
	assert.Equal(t, cfg.Plots, total)

	field := b.Attrs[0].FieldName
	assert.Len(t, level.Observed[field], 33)
	assert.Len(t, level.Predicted[field], 33)
}
