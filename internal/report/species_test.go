package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/adapters/tabular"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
)

func speciesFixture() *tabular.Table {
	return tabular.NewTable(
		[]string{"SPECIES", "PREVALENCE", "KAPPA", "OP_PP", "OP_PA", "OA_PP", "OA_PA"},
		[][]string{
			{"PSME", "0.85", "0.62", "4100", "210", "530", "1180"},
			{"ABAM", "0.30", "0.55", "1500", "320", "410", "3790"},
			{"RARE", "0.002", "0.10", "8", "4", "12", "5996"},
		})
}

func speciesMetadataFixture() *metadata.StandMetadata {
	return &metadata.StandMetadata{Attributes: []metadata.Attribute{
		{FieldName: "PSME", SpeciesAttr: true},
		{FieldName: "ABAM", SpeciesAttr: true},
		{FieldName: "RARE", SpeciesAttr: true},
		{FieldName: "QUGA_NOTALY", SpeciesAttr: true},
		{FieldName: "ABSENT", SpeciesAttr: true},
		{FieldName: "BAPH_GE_3", SpeciesAttr: false},
	}}
}

func TestCommonSpecies(t *testing.T) {
	fields, err := commonSpecies(speciesFixture(), speciesMetadataFixture())
	require.NoError(t, err)

	// RARE falls under the prevalence floor, NOTALY fields and species
	// without accuracy rows are skipped, survivors sort by symbol
	assert.Equal(t, []string{"ABAM", "PSME"}, fields)
}

func TestSpeciesName(t *testing.T) {
	assert.Equal(t, "PSME", speciesName("PSME", nil))

	meta := &metadata.ReportMetadata{SpeciesList: []metadata.SpeciesRecord{
		{Symbol: "PSME", ScientificName: "Pseudotsuga menziesii", CommonName: "Douglas-fir"},
	}}
	assert.Equal(t, "PSME\nPseudotsuga menziesii/Douglas-fir", speciesName("PSME", meta))
	assert.Equal(t, "PSME\nPseudotsuga menziesii/Douglas-fir", speciesName("PSME_BA", meta))
	assert.Equal(t, "ABAM", speciesName("ABAM", meta))
}

func TestSpeciesRow(t *testing.T) {
	row, err := speciesRow(speciesFixture(), "PSME", nil)
	require.NoError(t, err)
	require.Len(t, row, 4)

	name := row[0].Content.(layout.Paragraph)
	assert.Equal(t, "PSME", name.Text)

	prevalence := row[1].Content.(layout.Paragraph)
	assert.Equal(t, "0.8500", prevalence.Text)
	assert.Equal(t, "contact_right", prevalence.Style)

	grid := row[2].Content.(*layout.Table)
	require.Len(t, grid.Cells, 2)
	assert.Equal(t, "4100", grid.Cells[0][0].Content.(layout.Paragraph).Text)
	assert.Equal(t, "210", grid.Cells[0][1].Content.(layout.Paragraph).Text)
	assert.Equal(t, "530", grid.Cells[1][0].Content.(layout.Paragraph).Text)
	assert.Equal(t, "1180", grid.Cells[1][1].Content.(layout.Paragraph).Text)

	kappa := row[3].Content.(layout.Paragraph)
	assert.Equal(t, "0.6200", kappa.Text)
}

func TestSpeciesRowUnknownSpecies(t *testing.T) {
	_, err := speciesRow(speciesFixture(), "MISSING", nil)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestPresenceGrid(t *testing.T) {
	grid := presenceGrid("a", "b", "c", "d")

	require.Len(t, grid.Cells, 2)
	assert.Equal(t, []float64{0.75 * layout.Inch, 0.75 * layout.Inch}, grid.ColWidths)
	assert.Equal(t, "a", grid.Cells[0][0].Content.(layout.Paragraph).Text)
	assert.Equal(t, "d", grid.Cells[1][1].Content.(layout.Paragraph).Text)
}
