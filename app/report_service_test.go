package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/domain/layout"
	"gnnreport/internal"
	"gnnreport/internal/params"
	"gnnreport/models"
	"gnnreport/ports"
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

const appStandXML = `<?xml version="1.0"?>
<stand_metadata>
  <attributes>
    <attribute>
      <field_name>BAPH_GE_3</field_name>
      <field_type>CONTINUOUS</field_type>
      <units>m^2/ha</units>
      <description>Basal area of live trees</description>
      <project_attr>1</project_attr>
      <accuracy_attr>1</accuracy_attr>
      <species_attr>0</species_attr>
    </attribute>
  </attributes>
</stand_metadata>
`

func newTestReportService(archive ports.RunArchive) (*ReportService, *fakeDocumentEngine) {
	engine := &fakeDocumentEngine{}
	figures := NewFigureService(&fakeChartRenderer{}, 2, testLogger())
	return NewReportService(figures, engine, archive, testLogger()), engine
}

func TestGenerateReport(t *testing.T) {
	dir := t.TempDir()
	metaPath := writeTestFile(t, dir, "stand_metadata.xml", appStandXML)

	p := params.Params{
		ModelRegion: 221,
		ModelType:   params.ModelTypeSppsz,
		ModelYear:   2012,
		K:           7,
		ReportFile:  filepath.Join(dir, "report.pdf"),
		Files:       params.Files{StandMetadataFile: metaPath},
		Sections:    []string{params.SectionDictionary, params.SectionReferences},
	}

	archive := &fakeRunArchive{}
	svc, engine := newTestReportService(archive)

	result, err := svc.GenerateReport(context.Background(), ReportRequest{Params: p})
	require.NoError(t, err)

	assert.Equal(t, []string{params.SectionDictionary, params.SectionReferences}, result.Sections)
	assert.Empty(t, result.Skipped)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, p.ReportFile, result.OutputPath)

	assert.Equal(t, p.ReportFile, engine.outPath)
	assert.Greater(t, engine.flows, 0)

	require.Len(t, archive.runs, 2)
	assert.Equal(t, models.RunStatusRunning, archive.runs[0].Status)
	assert.Equal(t, models.RunStatusCompleted, archive.runs[1].Status)
	assert.Equal(t, 2, archive.runs[1].SectionCount)
}

func TestGenerateReportSkipsSectionsWithMissingInputs(t *testing.T) {
	dir := t.TempDir()
	metaPath := writeTestFile(t, dir, "stand_metadata.xml", appStandXML)

	p := params.Params{
		ModelRegion: 221,
		ModelType:   params.ModelTypeSppsz,
		ModelYear:   2012,
		ReportFile:  filepath.Join(dir, "report.pdf"),
		Files: params.Files{
			StandMetadataFile: metaPath,
			ObservedFile:      filepath.Join(dir, "never_written.csv"),
		},
		Sections: []string{params.SectionAttribute, params.SectionReferences},
	}

	svc, engine := newTestReportService(nil)

	result, err := svc.GenerateReport(context.Background(), ReportRequest{Params: p})
	require.NoError(t, err)

	assert.Equal(t, []string{params.SectionReferences}, result.Sections)
	assert.Equal(t, []string{params.SectionAttribute}, result.Skipped)
	assert.Greater(t, engine.flows, 0)
}

func TestGenerateReportFailsWhenNothingBuildable(t *testing.T) {
	dir := t.TempDir()

	p := params.Params{
		ModelRegion: 221,
		ModelType:   params.ModelTypeSppsz,
		ModelYear:   2012,
		ReportFile:  filepath.Join(dir, "report.pdf"),
		Files:       params.Files{StandMetadataFile: filepath.Join(dir, "absent.xml")},
		Sections:    []string{params.SectionDictionary},
	}

	archive := &fakeRunArchive{}
	svc, _ := newTestReportService(archive)

	_, err := svc.GenerateReport(context.Background(), ReportRequest{Params: p})
	require.Error(t, err)

	require.NotEmpty(t, archive.runs)
	last := archive.runs[len(archive.runs)-1]
	assert.Equal(t, models.RunStatusFailed, last.Status)
	assert.True(t, last.Error.Valid)
}

// Port fakes shared across the service tests.

type fakeChartRenderer struct {
	mu         sync.Mutex
	scatters   int
	histograms int
	failPath   string
}

func (f *fakeChartRenderer) Scatter(req ports.ScatterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPath != "" && req.OutputPath == f.failPath {
		return fmt.Errorf("scatter render failed: %s", req.OutputPath)
	}
	f.scatters++
	return nil
}

func (f *fakeChartRenderer) Histogram(req ports.HistogramRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPath != "" && req.OutputPath == f.failPath {
		return fmt.Errorf("histogram render failed: %s", req.OutputPath)
	}
	f.histograms++
	return nil
}

func (f *fakeChartRenderer) scatterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scatters
}

func (f *fakeChartRenderer) histogramCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.histograms
}

type fakeDocumentEngine struct {
	outPath string
	flows   int
	err     error
}

func (f *fakeDocumentEngine) Render(story []layout.Flowable, outPath string) error {
	if f.err != nil {
		return f.err
	}
	f.outPath = outPath
	f.flows = len(story)
	return nil
}

type fakeRunArchive struct {
	runs  []models.ReportRun
	stats []models.AttributeStat
}

func (f *fakeRunArchive) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeRunArchive) SaveRun(ctx context.Context, run *models.ReportRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRunArchive) SaveAttributeStats(ctx context.Context, rows []models.AttributeStat) error {
	f.stats = append(f.stats, rows...)
	return nil
}

func (f *fakeRunArchive) RecentRuns(ctx context.Context, limit int) ([]models.ReportRun, error) {
	return append([]models.ReportRun{}, f.runs...), nil
}
