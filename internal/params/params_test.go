package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gnnreport/internal/errors"
)

const sampleParamsYAML = `model_region: 221
model_year: 2017
model_type: sppsz
k: 7
plot_id_field: FCID
accuracy_assessment_report: out/mr221_accuracy.pdf
files:
  stand_attribute_file: data/observed.csv
  independent_predicted_file: data/predicted_k7.csv
  stand_metadata_file: data/stand_metadata.xml
  report_metadata_file: data/report_metadata.xml
  error_matrix_accuracy_file: data/error_matrix.csv
  error_matrix_bin_file: data/error_matrix_bins.csv
  regional_accuracy_file: data/area_estimates.csv
  regional_olofsson_file: data/olofsson.csv
  species_accuracy_file: data/species_accuracy.csv
  vegclass_errmatrix_file: data/vegclass_errmatrix.csv
  riemann_output_folder: data/riemann
  image_dir: images
hex_resolutions: [10, 30, 50]
sections:
  - introduction
  - attribute
  - species
`

func writeParamsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidFile(t *testing.T) {
	p, err := Load(writeParamsFile(t, sampleParamsYAML))
	require.NoError(t, err)

	assert.Equal(t, 221, p.ModelRegion)
	assert.Equal(t, 2017, p.ModelYear)
	assert.Equal(t, ModelTypeSppsz, p.ModelType)
	assert.Equal(t, 7, p.K)
	assert.Equal(t, "FCID", p.PlotIDField)
	assert.Equal(t, "out/mr221_accuracy.pdf", p.ReportFile)
	assert.Equal(t, "data/observed.csv", p.Files.ObservedFile)
	assert.Equal(t, "data/riemann", p.Files.RiemannDir)
	assert.Equal(t, []int{10, 30, 50}, p.HexResolutions)
	assert.Equal(t, []string{"introduction", "attribute", "species"}, p.Sections)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read parameter file")
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeParamsFile(t, "model_region: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse parameter file")
}

func TestLoadAppliesDefaults(t *testing.T) {
	minimal := `model_region: 221
model_year: 2017
model_type: trecov
accuracy_assessment_report: out/report.pdf
files:
  stand_attribute_file: data/observed.csv
  independent_predicted_file: data/predicted.csv
  stand_metadata_file: data/stand_metadata.xml
  report_metadata_file: data/report_metadata.xml
  error_matrix_accuracy_file: data/error_matrix.csv
  error_matrix_bin_file: data/error_matrix_bins.csv
  regional_accuracy_file: data/area_estimates.csv
  regional_olofsson_file: data/olofsson.csv
  species_accuracy_file: data/species_accuracy.csv
  vegclass_errmatrix_file: data/vegclass_errmatrix.csv
  riemann_output_folder: data/riemann
`
	p, err := Load(writeParamsFile(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, DefaultSections, p.Sections)
	assert.Equal(t, []int{10, 30, 50}, p.HexResolutions)
	assert.Equal(t, "FCID", p.PlotIDField)
	assert.Equal(t, 1, p.K)
}

func TestValidateUnknownModelType(t *testing.T) {
	p := validParams()
	p.ModelType = "canopy"

	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParamsInvalid, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), `unknown model_type "canopy"`)
}

func TestValidateUnknownSection(t *testing.T) {
	p := validParams()
	p.Sections = []string{"introduction", "appendix"}

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown section "appendix"`)
}

func TestValidateMissingSectionInput(t *testing.T) {
	p := validParams()
	p.Sections = []string{"species"}
	p.Files.SpeciesAccuracyFile = ""

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `section "species" requires species_accuracy_file`)
}

func TestValidateSkipsDisabledSectionInputs(t *testing.T) {
	p := validParams()
	p.Sections = []string{"references"}
	p.Files = Files{}

	assert.NoError(t, p.Validate())
}

func TestValidateRequiresReportFile(t *testing.T) {
	p := validParams()
	p.ReportFile = ""

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accuracy_assessment_report is required")
}

func TestModelTypeDescription(t *testing.T) {
	cases := map[ModelType]string{
		ModelTypeSppsz:  "Basal-Area by Species-Size Combinations",
		ModelTypeSppba:  "Basal-Area by Species",
		ModelTypeTrecov: "Tree Percent Cover by Species",
		ModelTypeWdycov: "Woody Percent Cover by Species",
	}
	for mt, want := range cases {
		assert.Equal(t, want, mt.Description())
	}
	assert.Equal(t, "other", ModelType("other").Description())
}

func TestModelTypeBasalArea(t *testing.T) {
	assert.True(t, ModelTypeSppsz.BasalArea())
	assert.True(t, ModelTypeSppba.BasalArea())
	assert.False(t, ModelTypeTrecov.BasalArea())
	assert.False(t, ModelTypeWdycov.BasalArea())
}

func TestEnabled(t *testing.T) {
	p := validParams()
	p.Sections = []string{"introduction", "vegclass"}

	assert.True(t, p.Enabled(SectionVegclass))
	assert.False(t, p.Enabled(SectionSpecies))
}

func TestFingerprintStable(t *testing.T) {
	a := validParams()
	b := validParams()

	assert.False(t, a.Fingerprint().IsEmpty())
	assert.Len(t, a.Fingerprint().String(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.ModelRegion = 224
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func validParams() *Params {
	return &Params{
		ModelRegion: 221,
		ModelYear:   2017,
		ModelType:   ModelTypeSppsz,
		K:           7,
		PlotIDField: "FCID",
		ReportFile:  "out/report.pdf",
		Files: Files{
			ObservedFile:        "data/observed.csv",
			PredictedFile:       "data/predicted.csv",
			StandMetadataFile:   "data/stand_metadata.xml",
			ReportMetadataFile:  "data/report_metadata.xml",
			ErrorMatrixFile:     "data/error_matrix.csv",
			BinFile:             "data/error_matrix_bins.csv",
			AreaEstimateFile:    "data/area_estimates.csv",
			OlofssonFile:        "data/olofsson.csv",
			SpeciesAccuracyFile: "data/species_accuracy.csv",
			VegclassMatrixFile:  "data/vegclass_errmatrix.csv",
			RiemannDir:          "data/riemann",
			ImageDir:            "images",
		},
		HexResolutions: []int{10, 30, 50},
		Sections:       DefaultSections,
	}
}
