package xmlmeta

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"

	"gnnreport/domain/metadata"
)

// ReportMetadataReader parses the report-level metadata XML
type ReportMetadataReader struct {
	filePath string
}

// NewReportMetadataReader creates a reader for a report metadata file
func NewReportMetadataReader(filePath string) *ReportMetadataReader {
	return &ReportMetadataReader{filePath: filePath}
}

type xmlReportMetadata struct {
	XMLName             xml.Name           `xml:"report_metadata"`
	ModelRegionName     string             `xml:"model_region_name"`
	ModelRegion         int                `xml:"model_region"`
	Overview            string             `xml:"model_region_overview"`
	ImagePath           string             `xml:"image_path"`
	Contacts            []xmlContact       `xml:"contacts>contact"`
	ModelRegionArea     float64            `xml:"model_region_area"`
	ForestArea          float64            `xml:"forest_area"`
	PlotDataSources     []xmlPlotSource    `xml:"plot_data_sources>plot_data_source"`
	OrdinationVariables []xmlOrdinationVar `xml:"ordination_variables>ordination_variable"`
	Species             []xmlSpecies       `xml:"species_list>species"`
}

type xmlContact struct {
	Name          string `xml:"name"`
	PositionTitle string `xml:"position_title"`
	Affiliation   string `xml:"affiliation"`
	PhoneNumber   string `xml:"phone_number"`
	EmailAddress  string `xml:"email_address"`
}

type xmlPlotSource struct {
	DataSource      string              `xml:"data_source"`
	Description     string              `xml:"description"`
	AssessmentYears []xmlAssessmentYear `xml:"assessment_years>assessment_year"`
}

type xmlAssessmentYear struct {
	Year      int `xml:"year"`
	PlotCount int `xml:"plot_count"`
}

type xmlOrdinationVar struct {
	FieldName   string `xml:"field_name"`
	Description string `xml:"description"`
	Source      string `xml:"source"`
}

type xmlSpecies struct {
	Symbol         string `xml:"spp_symbol"`
	ScientificName string `xml:"scientific_name"`
	CommonName     string `xml:"common_name"`
}

// Read parses the file into domain metadata
func (r *ReportMetadataReader) Read() (*metadata.ReportMetadata, error) {
	log.Printf("[ReportMetadata] Reading report metadata: %s", r.filePath)

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report metadata: %w", err)
	}

	var doc xmlReportMetadata
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse report metadata XML: %w", err)
	}

	md := &metadata.ReportMetadata{
		ModelRegionName: doc.ModelRegionName,
		ModelRegion:     doc.ModelRegion,
		Overview:        doc.Overview,
		ImagePath:       doc.ImagePath,
		ModelRegionArea: doc.ModelRegionArea,
		ForestArea:      doc.ForestArea,
	}
	for _, c := range doc.Contacts {
		md.Contacts = append(md.Contacts, metadata.Contact(c))
	}
	for _, s := range doc.PlotDataSources {
		src := metadata.PlotDataSource{
			DataSource:  s.DataSource,
			Description: s.Description,
		}
		for _, y := range s.AssessmentYears {
			src.AssessmentYears = append(src.AssessmentYears, metadata.AssessmentYear(y))
		}
		md.PlotDataSources = append(md.PlotDataSources, src)
	}
	for _, v := range doc.OrdinationVariables {
		md.OrdinationVariables = append(md.OrdinationVariables, metadata.OrdinationVariable(v))
	}
	for _, s := range doc.Species {
		md.SpeciesList = append(md.SpeciesList, metadata.SpeciesRecord(s))
	}

	log.Printf("[ReportMetadata] Parsed region %d (%s), %d contacts, %d plot sources",
		md.ModelRegion, md.ModelRegionName, len(md.Contacts), len(md.PlotDataSources))
	return md, nil
}
