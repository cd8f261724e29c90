package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gnnreport/models"
	"gnnreport/ports"
)

// ArchiveRepositoryImpl implements RunArchive for PostgreSQL
type ArchiveRepositoryImpl struct {
	db *sqlx.DB
}

// NewArchiveRepository creates a new PostgreSQL run archive
func NewArchiveRepository(db *sqlx.DB) ports.RunArchive {
	return &ArchiveRepositoryImpl{db: db}
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS report_runs (
	id TEXT PRIMARY KEY,
	model_region INTEGER NOT NULL,
	model_type TEXT NOT NULL,
	model_year INTEGER NOT NULL,
	output_path TEXT NOT NULL,
	inputs_hash TEXT NOT NULL DEFAULT '',
	plot_count INTEGER NOT NULL DEFAULT 0,
	section_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	duration_ms BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS attribute_stats (
	run_id TEXT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
	field_name TEXT NOT NULL,
	units TEXT NOT NULL DEFAULT '',
	plot_count INTEGER NOT NULL,
	correlation DOUBLE PRECISION NOT NULL,
	rmse DOUBLE PRECISION NOT NULL,
	normalized_rmse DOUBLE PRECISION NOT NULL,
	r_square DOUBLE PRECISION NOT NULL,
	observed_mean DOUBLE PRECISION NOT NULL,
	predicted_mean DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, field_name)
);

CREATE INDEX IF NOT EXISTS idx_report_runs_started_at
	ON report_runs (started_at DESC);
`

// EnsureSchema creates the archive tables when they do not exist
func (r *ArchiveRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, archiveSchema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// SaveRun inserts a run record, updating the lifecycle columns when the run
// already exists
func (r *ArchiveRepositoryImpl) SaveRun(ctx context.Context, run *models.ReportRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_runs (id, model_region, model_type, model_year, output_path, inputs_hash, plot_count, section_count, status, error_message, started_at, completed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			plot_count = EXCLUDED.plot_count,
			section_count = EXCLUDED.section_count,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at,
			duration_ms = EXCLUDED.duration_ms
	`, run.ID, run.ModelRegion, run.ModelType, run.ModelYear, run.OutputPath,
		run.InputsHash, run.PlotCount, run.SectionCount, run.Status, run.Error,
		run.StartedAt, run.CompletedAt, run.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveAttributeStats inserts the per-attribute accuracy rows for a run.
// Re-saving a run's rows overwrites the earlier values.
func (r *ArchiveRepositoryImpl) SaveAttributeStats(ctx context.Context, stats []models.AttributeStat) error {
	for _, stat := range stats {
		_, err := r.db.NamedExecContext(ctx, `
			INSERT INTO attribute_stats (run_id, field_name, units, plot_count, correlation, rmse, normalized_rmse, r_square, observed_mean, predicted_mean)
			VALUES (:run_id, :field_name, :units, :plot_count, :correlation, :rmse, :normalized_rmse, :r_square, :observed_mean, :predicted_mean)
			ON CONFLICT (run_id, field_name) DO UPDATE SET
				units = EXCLUDED.units,
				plot_count = EXCLUDED.plot_count,
				correlation = EXCLUDED.correlation,
				rmse = EXCLUDED.rmse,
				normalized_rmse = EXCLUDED.normalized_rmse,
				r_square = EXCLUDED.r_square,
				observed_mean = EXCLUDED.observed_mean,
				predicted_mean = EXCLUDED.predicted_mean
		`, stat)
		if err != nil {
			return fmt.Errorf("failed to save stats for %s: %w", stat.FieldName, err)
		}
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first
func (r *ArchiveRepositoryImpl) RecentRuns(ctx context.Context, limit int) ([]models.ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []models.ReportRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, model_region, model_type, model_year, output_path, inputs_hash, plot_count, section_count, status, error_message, started_at, completed_at, duration_ms
		FROM report_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	return runs, nil
}
