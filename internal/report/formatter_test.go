package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildFollowsSectionOrder(t *testing.T) {
	p := params.Params{
		Sections: []string{params.SectionReferences, params.SectionIntroduction, "bogus"},
	}
	formatters := Build(p, testLogger())

	require.Len(t, formatters, 2)
	assert.Equal(t, params.SectionReferences, formatters[0].Name())
	assert.Equal(t, params.SectionIntroduction, formatters[1].Name())
}

func TestBuildCoversEverySection(t *testing.T) {
	sections := append([]string{}, params.DefaultSections...)
	sections = append(sections, params.SectionLocal, params.SectionRegional)

	formatters := Build(params.Params{Sections: sections}, testLogger())

	require.Len(t, formatters, len(sections))
	for i, f := range formatters {
		assert.Equal(t, sections[i], f.Name())
	}
}

func TestCheckInputsMissingFile(t *testing.T) {
	p := params.Params{}
	p.Files.StandMetadataFile = "/nonexistent/stand.xml"

	err := CheckInputs(NewDataDictionary(p, testLogger()))
	require.Error(t, err)
	assert.True(t, core.IsMissingInputError(err))
}

func TestCheckInputsSkipsUnconfiguredPaths(t *testing.T) {
	err := CheckInputs(NewDataDictionary(params.Params{}, testLogger()))
	assert.NoError(t, err)
}

func TestCheckInputsAllPresent(t *testing.T) {
	p := params.Params{}
	p.Files.StandMetadataFile = writeTestFile(t, t.TempDir(), "stand.xml", "<stand_metadata/>")

	assert.NoError(t, CheckInputs(NewDataDictionary(p, testLogger())))
}

func TestMakeTitle(t *testing.T) {
	banner, ok := makeTitle("**References**").(*layout.Table)
	require.True(t, ok)

	para, ok := banner.Cells[0][0].Content.(layout.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "**References**", para.Text)
	assert.Equal(t, "section", para.Style)
	assert.Equal(t, []float64{7.5 * layout.Inch}, banner.ColWidths)
	assert.Equal(t, layout.TitleBrown, banner.Style.Backgrounds[0].Color)
}

func TestFigureTablePairsImages(t *testing.T) {
	table := figureTable([]string{"a.png", "b.png", "c.png"})

	require.Len(t, table.Cells, 2)
	first, ok := table.Cells[0][0].Content.(layout.Image)
	require.True(t, ok)
	assert.Equal(t, "a.png", first.Path)
	assert.Equal(t, 3.4*layout.Inch, first.Width)
	assert.Equal(t, 3.0*layout.Inch, first.Height)

	// odd figure counts leave the final slot empty
	assert.Nil(t, table.Cells[1][1].Content)
}

func TestHexFigureRow(t *testing.T) {
	paths := []string{"h10.png", "h30.png", "h50.png"}
	row := hexFigureRow(paths, []int{10, 30, 50}, "LEFT")

	require.Len(t, row.Cells, 3)
	require.Len(t, row.Cells[0], 3)

	img, ok := row.Cells[0][2].Content.(layout.Image)
	require.True(t, ok)
	assert.Equal(t, "h50.png", img.Path)
	assert.Equal(t, 2.4*layout.Inch, img.Width)

	caption, ok := row.Cells[2][1].Content.(layout.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "78,100 ha hexagons", caption.Text)
	assert.Equal(t, "subheading", caption.Style)

	assert.Equal(t, "LEFT", row.Style.HAlign)
	assert.Equal(t, []float64{2.5 * layout.Inch, 2.5 * layout.Inch, 2.5 * layout.Inch}, row.ColWidths)
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0"},
		{12, "12"},
		{12.5, "12.5"},
		{1234, "1234"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, formatCount(test.value))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50.0", formatPercent(50))
	assert.Equal(t, "93.8", formatPercent(93.75))
}

func TestShortDescription(t *testing.T) {
	attr := metadata.Attribute{Description: "long", ShortDescription: "short"}
	assert.Equal(t, "short", shortDescription(attr))

	attr.ShortDescription = ""
	assert.Equal(t, "long", shortDescription(attr))
}
