package metadata

import (
	"fmt"
	"strings"

	"gnnreport/domain/core"
)

// Contact is one person listed on the report cover
type Contact struct {
	Name          string `json:"name"`
	PositionTitle string `json:"position_title"`
	Affiliation   string `json:"affiliation"`
	PhoneNumber   string `json:"phone_number"`
	EmailAddress  string `json:"email_address"`
}

// AssessmentYear pairs a plot measurement year with its plot count
type AssessmentYear struct {
	Year      int `json:"assessment_year"`
	PlotCount int `json:"plot_count"`
}

// PlotDataSource describes one inventory source contributing plots
type PlotDataSource struct {
	DataSource      string           `json:"data_source"`
	Description     string           `json:"description"`
	AssessmentYears []AssessmentYear `json:"assessment_years"`
}

// TotalPlots sums the plot counts across assessment years
func (s PlotDataSource) TotalPlots() int {
	total := 0
	for _, y := range s.AssessmentYears {
		total += y.PlotCount
	}
	return total
}

// YearRange returns the lowest and highest assessment years
func (s PlotDataSource) YearRange() (int, int) {
	if len(s.AssessmentYears) == 0 {
		return 0, 0
	}
	min, max := s.AssessmentYears[0].Year, s.AssessmentYears[0].Year
	for _, y := range s.AssessmentYears[1:] {
		if y.Year < min {
			min = y.Year
		}
		if y.Year > max {
			max = y.Year
		}
	}
	return min, max
}

// OrdinationVariable is one spatial predictor used in the model
type OrdinationVariable struct {
	FieldName   string `json:"field_name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// SpeciesRecord maps a species symbol to its names
type SpeciesRecord struct {
	Symbol         string `json:"spp_symbol"`
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
}

// ReportMetadata is the parsed report-level metadata for a model region
type ReportMetadata struct {
	ModelRegionName     string               `json:"model_region_name"`
	ModelRegion         int                  `json:"model_region"`
	Overview            string               `json:"model_region_overview"`
	ImagePath           string               `json:"image_path"`
	Contacts            []Contact            `json:"contacts"`
	ModelRegionArea     float64              `json:"model_region_area"`
	ForestArea          float64              `json:"forest_area"`
	PlotDataSources     []PlotDataSource     `json:"plot_data_sources"`
	OrdinationVariables []OrdinationVariable `json:"ordination_variables"`
	SpeciesList         []SpeciesRecord      `json:"species"`
}

// Species looks up a species record by symbol, case-insensitively
func (m *ReportMetadata) Species(symbol string) (SpeciesRecord, error) {
	for _, s := range m.SpeciesList {
		if strings.EqualFold(s.Symbol, symbol) {
			return s, nil
		}
	}
	return SpeciesRecord{}, fmt.Errorf("%w %s", core.ErrSpeciesUnknown, symbol)
}

// ForestPercent is the forest share of the model region area
func (m *ReportMetadata) ForestPercent() float64 {
	if m.ModelRegionArea == 0 {
		return 0
	}
	return m.ForestArea / m.ModelRegionArea * 100.0
}
