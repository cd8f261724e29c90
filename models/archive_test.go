package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportRunStartsRunning(t *testing.T) {
	run := NewReportRun(221, "sppsz", 2017, "out/mr221_report.pdf")

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 221, run.ModelRegion)
	assert.Equal(t, "sppsz", run.ModelType)
	assert.Equal(t, 2017, run.ModelYear)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero())
	assert.Nil(t, run.CompletedAt)
}

func TestReportRunComplete(t *testing.T) {
	run := NewReportRun(221, "sppsz", 2017, "out/mr221_report.pdf")
	run.Complete(500, 9)

	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 500, run.PlotCount)
	assert.Equal(t, 9, run.SectionCount)
	require.NotNil(t, run.CompletedAt)
	assert.GreaterOrEqual(t, run.DurationMS, int64(0))
	assert.False(t, run.Error.Valid)
}

func TestReportRunFail(t *testing.T) {
	run := NewReportRun(221, "sppsz", 2017, "out/mr221_report.pdf")
	run.Fail("observed file missing")

	assert.Equal(t, RunStatusFailed, run.Status)
	require.NotNil(t, run.CompletedAt)
	assert.True(t, run.Error.Valid)
	assert.Equal(t, "observed file missing", run.Error.String)
}
