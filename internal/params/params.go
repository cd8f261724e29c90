// Package params loads the YAML run-parameter file that describes one
// accuracy-assessment report run: which model it covers, where the model
// outputs live on disk, and which report sections to build.
package params

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gnnreport/domain/core"
	"gnnreport/internal/errors"
)

// ModelType identifies the GNN model family a run was built from
type ModelType string

const (
	ModelTypeSppsz  ModelType = "sppsz"
	ModelTypeSppba  ModelType = "sppba"
	ModelTypeTrecov ModelType = "trecov"
	ModelTypeWdycov ModelType = "wdycov"
)

// Valid reports whether the model type is a known family
func (m ModelType) Valid() bool {
	switch m {
	case ModelTypeSppsz, ModelTypeSppba, ModelTypeTrecov, ModelTypeWdycov:
		return true
	}
	return false
}

// BasalArea reports whether species attributes of this model type carry
// basal-area values rather than percent cover
func (m ModelType) BasalArea() bool {
	return m == ModelTypeSppsz || m == ModelTypeSppba
}

// Description returns the long model-type name used on the title page
func (m ModelType) Description() string {
	switch m {
	case ModelTypeSppsz:
		return "Basal-Area by Species-Size Combinations"
	case ModelTypeSppba:
		return "Basal-Area by Species"
	case ModelTypeTrecov:
		return "Tree Percent Cover by Species"
	case ModelTypeWdycov:
		return "Woody Percent Cover by Species"
	}
	return string(m)
}

// Section names accepted in the sections list
const (
	SectionIntroduction = "introduction"
	SectionAccuracyKey  = "accuracykey"
	SectionAttribute    = "attribute"
	SectionCategorical  = "categorical"
	SectionSpecies      = "species"
	SectionVegclass     = "vegclass"
	SectionLocal        = "local"
	SectionRegional     = "regional"
	SectionRiemann      = "riemann"
	SectionDictionary   = "dictionary"
	SectionReferences   = "references"
)

// DefaultSections is the section order of a full report. The legacy
// local and regional sections are available by name but not included
// because the attribute pages already carry their figures.
var DefaultSections = []string{
	SectionIntroduction,
	SectionAccuracyKey,
	SectionAttribute,
	SectionCategorical,
	SectionSpecies,
	SectionVegclass,
	SectionRiemann,
	SectionDictionary,
	SectionReferences,
}

// DefaultHexResolutions are the hexagon grid sizes (km) assessed by the
// hexagon-scale section
var DefaultHexResolutions = []int{10, 30, 50}

var knownSections = map[string]bool{
	SectionIntroduction: true,
	SectionAccuracyKey:  true,
	SectionAttribute:    true,
	SectionCategorical:  true,
	SectionSpecies:      true,
	SectionVegclass:     true,
	SectionLocal:        true,
	SectionRegional:     true,
	SectionRiemann:      true,
	SectionDictionary:   true,
	SectionReferences:   true,
}

// Files holds the paths to the model-run outputs a report is built from.
// Individual sections require individual files; a missing path only fails
// validation when a section that needs it is enabled.
type Files struct {
	ObservedFile        string `yaml:"stand_attribute_file"`
	PredictedFile       string `yaml:"independent_predicted_file"`
	StandMetadataFile   string `yaml:"stand_metadata_file"`
	ReportMetadataFile  string `yaml:"report_metadata_file"`
	ErrorMatrixFile     string `yaml:"error_matrix_accuracy_file"`
	BinFile             string `yaml:"error_matrix_bin_file"`
	AreaEstimateFile    string `yaml:"regional_accuracy_file"`
	OlofssonFile        string `yaml:"regional_olofsson_file"`
	SpeciesAccuracyFile string `yaml:"species_accuracy_file"`
	VegclassMatrixFile  string `yaml:"vegclass_errmatrix_file"`
	RiemannDir          string `yaml:"riemann_output_folder"`
	ImageDir            string `yaml:"image_dir"`
}

// Params describes one report run
type Params struct {
	ModelRegion int       `yaml:"model_region"`
	ModelYear   int       `yaml:"model_year"`
	ModelType   ModelType `yaml:"model_type"`
	K           int       `yaml:"k"`
	PlotIDField string    `yaml:"plot_id_field"`
	ReportFile  string    `yaml:"accuracy_assessment_report"`

	Files Files `yaml:"files"`

	HexResolutions []int    `yaml:"hex_resolutions"`
	Sections       []string `yaml:"sections"`
}

// Load reads and validates a run-parameter file
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	p := &Params{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file: %w", err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Params) applyDefaults() {
	if len(p.Sections) == 0 {
		p.Sections = append([]string{}, DefaultSections...)
	}
	if len(p.HexResolutions) == 0 {
		p.HexResolutions = append([]int{}, DefaultHexResolutions...)
	}
	if p.PlotIDField == "" {
		p.PlotIDField = "FCID"
	}
	if p.K == 0 {
		p.K = 1
	}
}

// Validate checks the run description for consistency. Paths are only
// required when a section that reads them is enabled.
func (p *Params) Validate() error {
	if !p.ModelType.Valid() {
		return errors.ParamsInvalid(fmt.Sprintf("unknown model_type %q", p.ModelType))
	}
	if p.ModelRegion <= 0 {
		return errors.ParamsInvalid("model_region must be positive")
	}
	if p.ModelYear <= 0 {
		return errors.ParamsInvalid("model_year must be positive")
	}
	if p.K <= 0 {
		return errors.ParamsInvalid("k must be positive")
	}
	if p.ReportFile == "" {
		return errors.ParamsInvalid("accuracy_assessment_report is required")
	}

	for _, section := range p.Sections {
		if !knownSections[section] {
			return errors.ParamsInvalid(fmt.Sprintf("unknown section %q", section))
		}
		for _, field := range p.requiredFields(section) {
			if field.value == "" {
				return errors.ParamsInvalid(fmt.Sprintf(
					"section %q requires %s", section, field.name))
			}
		}
	}
	return nil
}

// Enabled reports whether a section appears in the run's section list
func (p *Params) Enabled(section string) bool {
	for _, s := range p.Sections {
		if s == section {
			return true
		}
	}
	return false
}

type requiredField struct {
	name  string
	value string
}

func (p *Params) requiredFields(section string) []requiredField {
	f := p.Files
	observed := requiredField{"stand_attribute_file", f.ObservedFile}
	predicted := requiredField{"independent_predicted_file", f.PredictedFile}
	standMeta := requiredField{"stand_metadata_file", f.StandMetadataFile}
	reportMeta := requiredField{"report_metadata_file", f.ReportMetadataFile}

	switch section {
	case SectionIntroduction:
		return []requiredField{reportMeta}
	case SectionAttribute:
		return []requiredField{
			observed, predicted, standMeta,
			{"error_matrix_accuracy_file", f.ErrorMatrixFile},
			{"error_matrix_bin_file", f.BinFile},
			{"regional_accuracy_file", f.AreaEstimateFile},
			{"regional_olofsson_file", f.OlofssonFile},
			{"riemann_output_folder", f.RiemannDir},
		}
	case SectionCategorical:
		return []requiredField{
			observed, predicted, standMeta,
			{"regional_accuracy_file", f.AreaEstimateFile},
			{"regional_olofsson_file", f.OlofssonFile},
		}
	case SectionSpecies:
		return []requiredField{
			standMeta, reportMeta,
			{"species_accuracy_file", f.SpeciesAccuracyFile},
		}
	case SectionVegclass:
		return []requiredField{
			{"vegclass_errmatrix_file", f.VegclassMatrixFile},
		}
	case SectionLocal:
		return []requiredField{observed, predicted, standMeta}
	case SectionRegional:
		return []requiredField{
			standMeta,
			{"regional_accuracy_file", f.AreaEstimateFile},
			{"regional_olofsson_file", f.OlofssonFile},
		}
	case SectionRiemann:
		return []requiredField{
			standMeta,
			{"riemann_output_folder", f.RiemannDir},
		}
	case SectionDictionary:
		return []requiredField{standMeta}
	}
	return nil
}

// Describe returns a one-line summary used in CLI banners and logs
func (p *Params) Describe() string {
	return fmt.Sprintf("region %d, %s, %d (k=%d, %d sections)",
		p.ModelRegion, p.ModelType, p.ModelYear, p.K, len(p.Sections))
}

// SectionList returns the enabled sections joined for display
func (p *Params) SectionList() string {
	return strings.Join(p.Sections, ", ")
}

// Fingerprint hashes the full run description. Two runs with the same
// fingerprint read the same inputs and build the same sections, so archived
// runs can be matched to the parameter set that produced them.
func (p *Params) Fingerprint() core.Hash {
	data, err := yaml.Marshal(p)
	if err != nil {
		return core.Hash("")
	}
	return core.NewHash(data)
}
