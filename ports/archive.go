package ports

import (
	"context"

	"gnnreport/models"
)

// RunArchive persists report runs and their accuracy statistics
type RunArchive interface {
	// EnsureSchema creates the archive tables if they do not exist
	EnsureSchema(ctx context.Context) error

	// SaveRun inserts or updates a run record
	SaveRun(ctx context.Context, run *models.ReportRun) error

	// SaveAttributeStats inserts the per-attribute accuracy rows for a run
	SaveAttributeStats(ctx context.Context, stats []models.AttributeStat) error

	// RecentRuns returns the most recent runs, newest first
	RecentRuns(ctx context.Context, limit int) ([]models.ReportRun, error)
}
