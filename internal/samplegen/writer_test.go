package samplegen

import (
	"encoding/csv"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/paired"
	"gnnreport/internal/params"
)

// writeTestBundle generates a small bundle, writes it to a temp dir and
// loads the run parameters back through the regular loader
func writeTestBundle(t *testing.T, mutate func(*Config)) (string, *params.Params, *Bundle) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Plots = 60
	cfg.Attributes = 2
	if mutate != nil {
		mutate(&cfg)
	}

	b, err := Generate(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, Write(dir, b))

	p, err := params.Load(ParamsFile(dir))
	require.NoError(t, err)
	return dir, p, b
}

func TestWriteRoundTripsThroughLoader(t *testing.T) {
	dir, p, b := writeTestBundle(t, nil)

	assert.Equal(t, b.Config.ModelRegion, p.ModelRegion)
	assert.Equal(t, b.Config.ModelYear, p.ModelYear)
	assert.Equal(t, params.ModelTypeSppsz, p.ModelType)
	assert.Equal(t, params.DefaultSections, p.Sections)
	assert.Equal(t, params.DefaultHexResolutions, p.HexResolutions)
	assert.Equal(t, filepath.Join(dir, "mr221_report.pdf"), p.ReportFile)
}

func TestWritePlotTablesReadBack(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	obs, err := tabular.NewTableReader(p.Files.ObservedFile).Read()
	require.NoError(t, err)
	prd, err := tabular.NewTableReader(p.Files.PredictedFile).Read()
	require.NoError(t, err)

	assert.Equal(t, len(b.PlotIDs), obs.Len())
	assert.Equal(t, len(b.PlotIDs), prd.Len())

	fields := make([]string, 0, len(b.Attrs))
	for _, attr := range b.Attrs {
		fields = append(fields, attr.FieldName)
	}
	data, err := paired.Build(obs, prd, p.PlotIDField, fields)
	require.NoError(t, err)
	assert.Equal(t, obs.Len(), data.Len())

	veg, err := obs.Floats("VEGCLASS")
	require.NoError(t, err)
	assert.InDelta(t, float64(b.VegObserved[0]), veg[0], 0.001)
}

func TestWriteXLSXPredictedTable(t *testing.T) {
	_, p, b := writeTestBundle(t, func(c *Config) { c.PredictedFormat = "xlsx" })

	assert.Equal(t, ".xlsx", filepath.Ext(p.Files.PredictedFile))
	table, err := tabular.NewTableReader(p.Files.PredictedFile).Read()
	require.NoError(t, err)
	assert.Equal(t, len(b.PlotIDs), table.Len())

	values, err := table.Floats(b.Attrs[0].FieldName)
	require.NoError(t, err)
	assert.Len(t, values, len(b.PlotIDs))
}

func TestWriteStandMetadataReadBack(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	meta, err := xmlmeta.NewStandMetadataReader(p.Files.StandMetadataFile).Read()
	require.NoError(t, err)

	attr, err := meta.Attribute(b.Attrs[0].FieldName)
	require.NoError(t, err)
	assert.True(t, attr.IsContinuous())
	assert.True(t, attr.IsAccuracy())
	assert.Equal(t, b.Attrs[0].Units, attr.Units)

	veg, err := meta.Attribute("VEGCLASS")
	require.NoError(t, err)
	assert.True(t, veg.IsCategorical())
	assert.Len(t, veg.Codes, len(vegclassCodes))
	sets := veg.FuzzyIndexSets()
	require.NotNil(t, sets)
	assert.Contains(t, sets[0], 0)
	assert.Contains(t, sets[0], 1)

	psme, err := meta.Attribute("PSME")
	require.NoError(t, err)
	assert.True(t, psme.IsSpecies())
	assert.Equal(t, "m^2/ha", psme.Units)

	_, err = meta.Attribute("CONNOTALY")
	assert.NoError(t, err)
}

func TestWriteReportMetadataReadBack(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	meta, err := xmlmeta.NewReportMetadataReader(p.Files.ReportMetadataFile).Read()
	require.NoError(t, err)

	assert.Equal(t, b.Config.ModelRegion, meta.ModelRegion)
	assert.NotEmpty(t, meta.ModelRegionName)
	assert.Len(t, meta.Contacts, 3)
	assert.Greater(t, meta.ModelRegionArea, meta.ForestArea)

	total := 0
	for _, src := range meta.PlotDataSources {
		for _, y := range src.AssessmentYears {
			total += y.PlotCount
		}
	}
	assert.Equal(t, len(b.PlotIDs), total)

	sp, err := meta.Species("PSME")
	require.NoError(t, err)
	assert.Equal(t, "Douglas-fir", sp.CommonName)

	_, err = os.Stat(meta.ImagePath)
	assert.NoError(t, err)
}

func TestWriteAccuracyFilesReadBack(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	matrixTable, err := tabular.NewTableReader(p.Files.ErrorMatrixFile).Read()
	require.NoError(t, err)
	variables, err := matrixTable.Strings("VARIABLE")
	require.NoError(t, err)
	counts, err := matrixTable.Floats("COUNT")
	require.NoError(t, err)

	perVariable := make(map[string]float64)
	for i, v := range variables {
		perVariable[v] += counts[i]
	}
	for _, attr := range b.Attrs {
		assert.InDelta(t, float64(len(b.PlotIDs)), perVariable[attr.FieldName], 0.001)
	}
	assert.InDelta(t, float64(len(b.PlotIDs)), perVariable["VEGCLASS"], 0.001)

	bins, err := tabular.NewTableReader(p.Files.BinFile).Read()
	require.NoError(t, err)
	assert.Equal(t, len(b.Attrs)*binCount, bins.Len())

	area, err := tabular.NewTableReader(p.Files.AreaEstimateFile).Read()
	require.NoError(t, err)
	expected := 0
	for _, est := range b.Areas {
		expected += 2 * len(est.Labels)
	}
	assert.Equal(t, expected, area.Len())

	olofsson, err := tabular.NewTableReader(p.Files.OlofssonFile).Read()
	require.NoError(t, err)
	adjusted, err := olofsson.Floats("ADJUSTED")
	require.NoError(t, err)
	for _, v := range adjusted {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	species, err := tabular.NewTableReader(p.Files.SpeciesAccuracyFile).Read()
	require.NoError(t, err)
	symbols, err := species.Strings("SPECIES")
	require.NoError(t, err)
	assert.Contains(t, symbols, "PSME")
	assert.Contains(t, symbols, "CONNOTALY")
}

func TestWriteVegclassMatrixLayout(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	f, err := os.Open(p.Files.VegclassMatrixFile)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	n := len(vegclassCodes)
	require.Len(t, records, n+4)
	for _, record := range records {
		assert.Len(t, record, n+4)
	}

	grand, err := strconv.Atoi(records[n+1][n+1])
	require.NoError(t, err)
	assert.Equal(t, len(b.PlotIDs), grand)

	assert.Equal(t, "Total", records[n+1][0])
	assert.Equal(t, "% Correct", records[n+2][0])
	assert.Equal(t, "% FCorrect", records[n+3][0])

	// Margin cells that carry no value stay blank
	assert.Empty(t, records[n+1][n+2])
	assert.Empty(t, records[n+2][n+1])
	assert.Empty(t, records[n+3][n+2])
}

func TestWriteRiemannJoins(t *testing.T) {
	_, p, b := writeTestBundle(t, nil)

	for _, res := range p.HexResolutions {
		hexDir := filepath.Join(p.Files.RiemannDir, fmt.Sprintf("hex_%d", res))
		obs, err := tabular.NewTableReader(
			filepath.Join(hexDir, fmt.Sprintf("hex_%d_observed_mean.csv", res))).Read()
		require.NoError(t, err)
		prd, err := tabular.NewTableReader(
			filepath.Join(hexDir, fmt.Sprintf("hex_%d_predicted_k%d_mean.csv", res, p.K))).Read()
		require.NoError(t, err)

		data, err := paired.Build(obs, prd,
			fmt.Sprintf("HEX_%d_ID", res), []string{b.Attrs[0].FieldName})
		require.NoError(t, err)
		assert.Equal(t, len(b.Hexes[res].IDs), data.Len())

		counts, err := obs.Floats("PLOT_COUNT")
		require.NoError(t, err)
		total := 0.0
		for _, c := range counts {
			total += c
		}
		assert.InDelta(t, float64(len(b.PlotIDs)), total, 0.001)
	}
}

func TestWriteRendersImages(t *testing.T) {
	_, p, _ := writeTestBundle(t, nil)

	names := []string{
		logoImage, plotDiagramImage, localScatterImage,
		errorMatrixImage, regionalHistogramImage, regionMapImage,
		"hex_10_scatter.png", "hex_30_scatter.png", "hex_50_scatter.png",
	}
	for _, name := range names {
		f, err := os.Open(filepath.Join(p.Files.ImageDir, name))
		require.NoError(t, err, name)
		_, err = png.Decode(f)
		f.Close()
		assert.NoError(t, err, name)
	}
}
