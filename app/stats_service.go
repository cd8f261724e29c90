package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gnnreport/domain/core"
	"gnnreport/internal"
	"gnnreport/internal/params"
	"gnnreport/internal/report"
	"gnnreport/models"
	"gnnreport/ports"
)

// StatsService computes the per-attribute accuracy summary without building
// the document, for quick model checks between full report runs
type StatsService struct {
	archive ports.RunArchive
	log     *internal.Logger
}

// NewStatsService creates a stats service. A nil archive disables run
// archiving.
func NewStatsService(archive ports.RunArchive, log *internal.Logger) *StatsService {
	return &StatsService{archive: archive, log: log}
}

// StatsResult carries the computed accuracy rows for one model run
type StatsResult struct {
	RunID     core.RunID             `json:"run_id"`
	Rows      []models.AttributeStat `json:"rows"`
	PlotCount int                    `json:"plot_count"`
	RuntimeMs int64                  `json:"runtime_ms"`
}

// ComputeStats builds the accuracy rows for a run. When an archive is
// configured the rows are saved under a fresh run record so successive
// models of the same region can be compared.
func (s *StatsService) ComputeStats(ctx context.Context, p params.Params) (*StatsResult, error) {
	startTime := time.Now()

	rows, err := report.AttributeStats(p)
	if err != nil {
		return nil, err
	}

	plotCount := 0
	if len(rows) > 0 {
		plotCount = rows[0].PlotCount
	}

	run := models.NewReportRun(p.ModelRegion, string(p.ModelType), p.ModelYear, p.ReportFile)
	run.InputsHash = p.Fingerprint()
	if s.archive != nil {
		for i := range rows {
			rows[i].RunID = run.ID
		}
		run.Complete(plotCount, 0)
		if err := s.archive.SaveRun(ctx, run); err != nil {
			s.log.Warn("could not archive stats run: %v", err)
		} else if err := s.archive.SaveAttributeStats(ctx, rows); err != nil {
			s.log.Warn("could not archive attribute stats: %v", err)
		}
	}

	return &StatsResult{
		RunID:     run.ID,
		Rows:      rows,
		PlotCount: plotCount,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// FormatStatsTable renders accuracy rows as an aligned text table for
// terminal output
func FormatStatsTable(rows []models.AttributeStat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %9s %10s %9s %9s %12s %12s\n",
		"ATTRIBUTE", "CORR", "RMSE", "NRMSE", "RSQR", "OBS MEAN", "PRD MEAN")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-16s %9.4f %10.4f %9.4f %9.4f %12.3f %12.3f\n",
			r.FieldName, r.Correlation, r.RMSE, r.NormalizedRMSE, r.RSquare,
			r.ObservedMean, r.PredictedMean)
	}
	return b.String()
}
