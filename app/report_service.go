package app

import (
	"context"
	"time"

	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/internal"
	"gnnreport/internal/errors"
	"gnnreport/internal/params"
	"gnnreport/internal/report"
	"gnnreport/models"
	"gnnreport/ports"
)

// ReportService orchestrates one accuracy-assessment run: section assembly,
// figure rendering, document layout, and optional archiving
type ReportService struct {
	figures *FigureService
	engine  ports.DocumentEngine
	archive ports.RunArchive
	log     *internal.Logger
}

// NewReportService creates a report service. A nil archive disables run
// archiving.
func NewReportService(figures *FigureService, engine ports.DocumentEngine, archive ports.RunArchive, log *internal.Logger) *ReportService {
	return &ReportService{
		figures: figures,
		engine:  engine,
		archive: archive,
		log:     log,
	}
}

// ReportRequest describes one report generation run
type ReportRequest struct {
	Params params.Params

	// KeepImages leaves the rendered figure files on disk after the
	// document is written
	KeepImages bool
}

// ReportResult summarizes a finished run
type ReportResult struct {
	RunID      core.RunID `json:"run_id"`
	OutputPath string     `json:"output_path"`
	Sections   []string   `json:"sections"`
	Skipped    []string   `json:"skipped,omitempty"`
	Figures    int        `json:"figures"`
	RuntimeMs  int64      `json:"runtime_ms"`
}

// GenerateReport builds the report document for one model run. Sections
// whose required inputs are missing are skipped with a warning so a partial
// model run still yields a partial report; the run fails only when no
// section at all can be built.
func (s *ReportService) GenerateReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	startTime := time.Now()
	p := req.Params

	run := models.NewReportRun(p.ModelRegion, string(p.ModelType), p.ModelYear, p.ReportFile)
	run.InputsHash = p.Fingerprint()
	s.archiveStart(ctx, run)

	var active []report.Formatter
	var skipped []string
	for _, f := range report.Build(p, s.log) {
		if err := report.CheckInputs(f); err != nil {
			s.log.Warn("skipping section %s: %v", f.Name(), err)
			skipped = append(skipped, f.Name())
			continue
		}
		active = append(active, f)
	}
	if len(active) == 0 {
		err := errors.DocumentError("no report section has complete inputs", nil)
		s.archiveFail(ctx, run, err)
		return nil, err
	}

	var jobs []report.FigureJob
	for _, f := range active {
		sectionJobs, err := f.Figures()
		if err != nil {
			s.archiveFail(ctx, run, err)
			return nil, err
		}
		jobs = append(jobs, sectionJobs...)
	}
	s.log.Info("rendering %d figures across %d sections", len(jobs), len(active))
	if err := s.figures.RenderAll(ctx, jobs); err != nil {
		s.archiveFail(ctx, run, err)
		return nil, err
	}

	var story []layout.Flowable
	sections := make([]string, 0, len(active))
	for _, f := range active {
		flows, err := f.Run()
		if err != nil {
			s.archiveFail(ctx, run, err)
			return nil, err
		}
		story = append(story, flows...)
		sections = append(sections, f.Name())
	}

	s.log.Info("writing document to %s", p.ReportFile)
	if err := s.engine.Render(story, p.ReportFile); err != nil {
		s.archiveFail(ctx, run, err)
		return nil, err
	}

	if !req.KeepImages {
		for _, f := range active {
			f.CleanUp()
		}
	}

	s.archiveComplete(ctx, run, p, len(sections))

	return &ReportResult{
		RunID:      run.ID,
		OutputPath: p.ReportFile,
		Sections:   sections,
		Skipped:    skipped,
		Figures:    len(jobs),
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *ReportService) archiveStart(ctx context.Context, run *models.ReportRun) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveRun(ctx, run); err != nil {
		s.log.Warn("could not archive run start: %v", err)
	}
}

func (s *ReportService) archiveFail(ctx context.Context, run *models.ReportRun, cause error) {
	if s.archive == nil {
		return
	}
	run.Fail(cause.Error())
	if err := s.archive.SaveRun(ctx, run); err != nil {
		s.log.Warn("could not archive run failure: %v", err)
	}
}

// archiveComplete stamps the run record and saves the per-attribute accuracy
// rows. Stats are best-effort: a run whose attribute inputs are absent still
// archives, just without rows.
func (s *ReportService) archiveComplete(ctx context.Context, run *models.ReportRun, p params.Params, sectionCount int) {
	if s.archive == nil {
		return
	}

	plotCount := 0
	rows, err := report.AttributeStats(p)
	if err != nil {
		s.log.Warn("attribute stats unavailable for archive: %v", err)
	} else {
		for i := range rows {
			rows[i].RunID = run.ID
		}
		if len(rows) > 0 {
			plotCount = rows[0].PlotCount
		}
		if err := s.archive.SaveAttributeStats(ctx, rows); err != nil {
			s.log.Warn("could not archive attribute stats: %v", err)
		}
	}

	run.Complete(plotCount, sectionCount)
	if err := s.archive.SaveRun(ctx, run); err != nil {
		s.log.Warn("could not archive run completion: %v", err)
	}
}
