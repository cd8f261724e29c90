package models

import (
	"database/sql"
	"time"

	"gnnreport/domain/core"
)

// RunStatus tracks the lifecycle of an archived report run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ReportRun records one report generation in the archive
type ReportRun struct {
	ID           core.RunID     `json:"id" db:"id"`
	ModelRegion  int            `json:"model_region" db:"model_region"`
	ModelType    string         `json:"model_type" db:"model_type"`
	ModelYear    int            `json:"model_year" db:"model_year"`
	OutputPath   string         `json:"output_path" db:"output_path"`
	InputsHash   core.Hash      `json:"inputs_hash" db:"inputs_hash"`
	PlotCount    int            `json:"plot_count" db:"plot_count"`
	SectionCount int            `json:"section_count" db:"section_count"`
	Status       RunStatus      `json:"status" db:"status"`
	Error        sql.NullString `json:"error,omitempty" db:"error_message"`
	StartedAt    time.Time      `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	DurationMS   int64          `json:"duration_ms" db:"duration_ms"`
}

// NewReportRun creates a run record in the running state
func NewReportRun(modelRegion int, modelType string, modelYear int, outputPath string) *ReportRun {
	return &ReportRun{
		ID:          core.NewRunID(),
		ModelRegion: modelRegion,
		ModelType:   modelType,
		ModelYear:   modelYear,
		OutputPath:  outputPath,
		Status:      RunStatusRunning,
		StartedAt:   time.Now(),
	}
}

// Complete marks the run finished and stamps counts and duration
func (r *ReportRun) Complete(plotCount, sectionCount int) {
	now := time.Now()
	r.PlotCount = plotCount
	r.SectionCount = sectionCount
	r.Status = RunStatusCompleted
	r.CompletedAt = &now
	r.DurationMS = now.Sub(r.StartedAt).Milliseconds()
}

// Fail marks the run failed with an error message
func (r *ReportRun) Fail(errMsg string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.Error = sql.NullString{String: errMsg, Valid: errMsg != ""}
	r.CompletedAt = &now
	r.DurationMS = now.Sub(r.StartedAt).Milliseconds()
}

// AttributeStat is one per-attribute accuracy row for an archived run
type AttributeStat struct {
	RunID          core.RunID `json:"run_id" db:"run_id"`
	FieldName      string     `json:"field_name" db:"field_name"`
	Units          string     `json:"units" db:"units"`
	PlotCount      int        `json:"plot_count" db:"plot_count"`
	Correlation    float64    `json:"correlation" db:"correlation"`
	RMSE           float64    `json:"rmse" db:"rmse"`
	NormalizedRMSE float64    `json:"normalized_rmse" db:"normalized_rmse"`
	RSquare        float64    `json:"r_square" db:"r_square"`
	ObservedMean   float64    `json:"observed_mean" db:"observed_mean"`
	PredictedMean  float64    `json:"predicted_mean" db:"predicted_mean"`
}
