package metadata

import (
	"testing"

	"gnnreport/domain/core"
)

// TestPlotDataSourceTotals tests year aggregation over a data source
func TestPlotDataSourceTotals(t *testing.T) {
	src := PlotDataSource{
		DataSource: "FIA_ANNUAL",
		AssessmentYears: []AssessmentYear{
			{Year: 2011, PlotCount: 120},
			{Year: 2013, PlotCount: 80},
			{Year: 2012, PlotCount: 100},
		},
	}

	if got := src.TotalPlots(); got != 300 {
		t.Errorf("TotalPlots() = %d, expected 300", got)
	}

	min, max := src.YearRange()
	if min != 2011 || max != 2013 {
		t.Errorf("YearRange() = (%d, %d), expected (2011, 2013)", min, max)
	}
}

// TestSpeciesLookup tests species symbol resolution
func TestSpeciesLookup(t *testing.T) {
	md := &ReportMetadata{
		SpeciesList: []SpeciesRecord{
			{Symbol: "PSME", ScientificName: "Pseudotsuga menziesii", CommonName: "Douglas-fir"},
			{Symbol: "TSHE", ScientificName: "Tsuga heterophylla", CommonName: "western hemlock"},
		},
	}

	sp, err := md.Species("psme")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sp.CommonName != "Douglas-fir" {
		t.Errorf("Expected Douglas-fir, got %s", sp.CommonName)
	}

	_, err = md.Species("ABAM")
	if !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

// TestForestPercent tests forest share computation
func TestForestPercent(t *testing.T) {
	md := &ReportMetadata{ModelRegionArea: 2000000, ForestArea: 1500000}
	if got := md.ForestPercent(); got != 75.0 {
		t.Errorf("ForestPercent() = %f, expected 75.0", got)
	}

	empty := &ReportMetadata{}
	if got := empty.ForestPercent(); got != 0 {
		t.Errorf("ForestPercent() on zero area = %f, expected 0", got)
	}
}
