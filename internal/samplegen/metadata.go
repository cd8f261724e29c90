package samplegen

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"gnnreport/domain/metadata"
)

type standMetadataDoc struct {
	XMLName    xml.Name       `xml:"stand_metadata"`
	Attributes []attributeDoc `xml:"attributes>attribute"`
}

type attributeDoc struct {
	FieldName        string          `xml:"field_name"`
	FieldType        string          `xml:"field_type"`
	Units            string          `xml:"units"`
	Description      string          `xml:"description"`
	ShortDescription string          `xml:"short_description"`
	ProjectAttr      string          `xml:"project_attr"`
	AccuracyAttr     string          `xml:"accuracy_attr"`
	SpeciesAttr      string          `xml:"species_attr"`
	Codes            []codeDoc       `xml:"codes>code"`
	FuzzyClasses     []fuzzyClassDoc `xml:"fuzzy_classes>fuzzy_class"`
}

type codeDoc struct {
	Value       string `xml:"code_value"`
	Label       string `xml:"label"`
	Description string `xml:"description"`
}

type fuzzyClassDoc struct {
	OriginalClass string `xml:"original_class"`
	FuzzyClass    string `xml:"fuzzy_class"`
}

// writeStandMetadata emits the attribute dictionary: the plot identifier,
// the generated continuous attributes, the vegetation classes with their
// codes and fuzzy-agreement declarations, and one entry per species field
func writeStandMetadata(path string, b *Bundle) error {
	doc := standMetadataDoc{}
	doc.Attributes = append(doc.Attributes, attributeDoc{
		FieldName:        "FCID",
		FieldType:        string(metadata.FieldID),
		Units:            "none",
		Description:      "Unique identifier for each plot footprint.",
		ShortDescription: "Plot identifier",
		ProjectAttr:      "1",
		AccuracyAttr:     "0",
		SpeciesAttr:      "0",
	})
	for _, attr := range b.Attrs {
		doc.Attributes = append(doc.Attributes, attributeDoc{
			FieldName:        attr.FieldName,
			FieldType:        string(metadata.FieldContinuous),
			Units:            attr.Units,
			Description:      attr.Description,
			ShortDescription: attr.Short,
			ProjectAttr:      "1",
			AccuracyAttr:     "1",
			SpeciesAttr:      "0",
		})
	}
	doc.Attributes = append(doc.Attributes, vegclassAttribute())
	doc.Attributes = append(doc.Attributes, speciesAttributes(b)...)
	return writeXML(path, doc)
}

func vegclassAttribute() attributeDoc {
	attr := attributeDoc{
		FieldName: "VEGCLASS",
		FieldType: string(metadata.FieldCategorical),
		Units:     "none",
		Description: "Vegetation class based on canopy cover, hardwood " +
			"proportion and quadratic mean diameter of dominant and " +
			"codominant trees.",
		ShortDescription: "Vegetation class",
		ProjectAttr:      "1",
		AccuracyAttr:     "1",
		SpeciesAttr:      "0",
	}
	for i, c := range vegclassCodes {
		attr.Codes = append(attr.Codes, codeDoc{
			Value:       strconv.Itoa(i + 1),
			Label:       c.Label,
			Description: c.Description,
		})
	}
	for class := 1; class <= len(vegclassCodes); class++ {
		attr.FuzzyClasses = append(attr.FuzzyClasses, fuzzyClassDoc{
			OriginalClass: strconv.Itoa(class),
			FuzzyClass:    strconv.Itoa(class),
		})
		for _, neighbor := range vegclassNeighbors[class] {
			attr.FuzzyClasses = append(attr.FuzzyClasses, fuzzyClassDoc{
				OriginalClass: strconv.Itoa(class),
				FuzzyClass:    strconv.Itoa(neighbor),
			})
		}
	}
	return attr
}

// speciesAttributes emits one dictionary entry per species accuracy field.
// Units follow the model type: basal-area models carry m^2/ha, cover models
// carry percent.
func speciesAttributes(b *Bundle) []attributeDoc {
	units := "percent"
	kind := "Percent cover"
	if b.Config.ModelType.BasalArea() {
		units = "m^2/ha"
		kind = "Basal area per hectare"
	}

	byName := make(map[string]SpeciesDef, len(speciesCatalogue))
	for _, sp := range speciesCatalogue {
		byName[sp.Symbol] = sp
	}

	out := make([]attributeDoc, 0, len(b.Species))
	for _, s := range b.Species {
		attr := attributeDoc{
			FieldName:    s.Field,
			FieldType:    string(metadata.FieldContinuous),
			Units:        units,
			ProjectAttr:  "1",
			AccuracyAttr: "1",
			SpeciesAttr:  "1",
		}
		if sp, ok := byName[s.Field]; ok {
			attr.Description = fmt.Sprintf("%s of %s (%s).", kind, sp.ScientificName, sp.CommonName)
			attr.ShortDescription = sp.CommonName
		} else {
			attr.Description = kind + " of conifers not tallied to a species."
			attr.ShortDescription = "Untallied conifer"
		}
		out = append(out, attr)
	}
	return out
}

type reportMetadataDoc struct {
	XMLName             xml.Name        `xml:"report_metadata"`
	ModelRegionName     string          `xml:"model_region_name"`
	ModelRegion         int             `xml:"model_region"`
	Overview            string          `xml:"model_region_overview"`
	ImagePath           string          `xml:"image_path"`
	Contacts            []contactDoc    `xml:"contacts>contact"`
	ModelRegionArea     float64         `xml:"model_region_area"`
	ForestArea          float64         `xml:"forest_area"`
	PlotDataSources     []plotSourceDoc `xml:"plot_data_sources>plot_data_source"`
	OrdinationVariables []ordinationDoc `xml:"ordination_variables>ordination_variable"`
	Species             []speciesDoc    `xml:"species_list>species"`
}

type contactDoc struct {
	Name          string `xml:"name"`
	PositionTitle string `xml:"position_title"`
	Affiliation   string `xml:"affiliation"`
	PhoneNumber   string `xml:"phone_number"`
	EmailAddress  string `xml:"email_address"`
}

type plotSourceDoc struct {
	DataSource      string    `xml:"data_source"`
	Description     string    `xml:"description"`
	AssessmentYears []yearDoc `xml:"assessment_years>assessment_year"`
}

type yearDoc struct {
	Year      int `xml:"year"`
	PlotCount int `xml:"plot_count"`
}

type ordinationDoc struct {
	FieldName   string `xml:"field_name"`
	Description string `xml:"description"`
	Source      string `xml:"source"`
}

type speciesDoc struct {
	Symbol         string `xml:"spp_symbol"`
	ScientificName string `xml:"scientific_name"`
	CommonName     string `xml:"common_name"`
}

const sampleRegionName = "Sample Coastal Province"

const sampleOverview = "This model region is a synthetic demonstration " +
	"region. The plot attributes, accuracy files and metadata in this bundle " +
	"come from a seeded generator shaped like a coastal forest province, so " +
	"every report page renders with realistic content without any real " +
	"inventory data. Mapped attributes cover live-tree structure and species " +
	"occupancy across the forested portion of the region."

var sampleContacts = []contactDoc{
	{
		Name:          "Morgan Reyes",
		PositionTitle: "Research Scientist",
		Affiliation:   "Landscape Ecology, Modeling, Mapping and Analysis",
		PhoneNumber:   "555-0142",
		EmailAddress:  "morgan.reyes@example.org",
	},
	{
		Name:          "Jamie Okafor",
		PositionTitle: "Faculty Research Assistant",
		Affiliation:   "Landscape Ecology, Modeling, Mapping and Analysis",
		PhoneNumber:   "555-0178",
		EmailAddress:  "jamie.okafor@example.org",
	},
	{
		Name:          "Alex Lindqvist",
		PositionTitle: "GIS Analyst",
		Affiliation:   "Landscape Ecology, Modeling, Mapping and Analysis",
		PhoneNumber:   "555-0105",
		EmailAddress:  "alex.lindqvist@example.org",
	},
}

var sampleOrdinationVars = []ordinationDoc{
	{"ANNPRE", "Mean annual precipitation (natural log, mm)", "PRISM climate grids"},
	{"ANNTMP", "Mean annual temperature (degrees C)", "PRISM climate grids"},
	{"AUGMAXT", "Mean August maximum temperature (degrees C)", "PRISM climate grids"},
	{"CONTPRE", "Percentage of annual precipitation falling in June through August", "PRISM climate grids"},
	{"ELEV", "Elevation (m)", "Digital elevation model"},
	{"SLPPCT", "Slope (percent)", "Digital elevation model"},
	{"ASPTR", "Cosine transformation of aspect", "Digital elevation model"},
	{"TC1", "Tasseled-cap brightness", "Landsat imagery"},
	{"TC2", "Tasseled-cap greenness", "Landsat imagery"},
	{"TC3", "Tasseled-cap wetness", "Landsat imagery"},
	{"LAT", "Latitude (decimal degrees)", "Plot coordinates"},
	{"LON", "Longitude (decimal degrees)", "Plot coordinates"},
}

func writeReportMetadata(path string, b *Bundle, mapPath string) error {
	doc := reportMetadataDoc{
		ModelRegionName:     sampleRegionName,
		ModelRegion:         b.Config.ModelRegion,
		Overview:            sampleOverview,
		ImagePath:           mapPath,
		Contacts:            sampleContacts,
		ModelRegionArea:     regionAreaHa,
		ForestArea:          forestAreaHa,
		PlotDataSources:     plotSources(b.Config),
		OrdinationVariables: sampleOrdinationVars,
	}
	for _, sp := range speciesCatalogue {
		doc.Species = append(doc.Species, speciesDoc{
			Symbol:         sp.Symbol,
			ScientificName: sp.ScientificName,
			CommonName:     sp.CommonName,
		})
	}
	return writeXML(path, doc)
}

// plotSources spreads the plot count over three inventory programs and the
// ten assessment years ending at the model year
func plotSources(cfg Config) []plotSourceDoc {
	programs := []struct {
		name        string
		description string
		share       float64
	}{
		{"FIA Annual", "USDA Forest Service Forest Inventory and Analysis annual plots", 0.60},
		{"CVS", "Region 6 Current Vegetation Survey plots", 0.25},
		{"BLM", "Bureau of Land Management district inventory plots", 0.15},
	}

	const years = 10
	sources := make([]plotSourceDoc, 0, len(programs))
	remaining := cfg.Plots
	for i, prog := range programs {
		count := int(prog.share*float64(cfg.Plots) + 0.5)
		if i == len(programs)-1 || count > remaining {
			count = remaining
		}
		remaining -= count

		src := plotSourceDoc{DataSource: prog.name, Description: prog.description}
		per := count / years
		for y := 0; y < years; y++ {
			plotCount := per
			if y == years-1 {
				plotCount = count - per*(years-1)
			}
			src.AssessmentYears = append(src.AssessmentYears, yearDoc{
				Year:      cfg.ModelYear - years + y + 1,
				PlotCount: plotCount,
			})
		}
		sources = append(sources, src)
	}
	return sources
}
