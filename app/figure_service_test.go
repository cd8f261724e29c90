package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/internal/report"
	"gnnreport/ports"
)

func TestRenderAll(t *testing.T) {
	renderer := &fakeChartRenderer{}
	svc := NewFigureService(renderer, 4, testLogger())

	jobs := []report.FigureJob{
		{Scatter: &ports.ScatterRequest{OutputPath: "a.png"}},
		{Scatter: &ports.ScatterRequest{OutputPath: "b.png"}},
		{Histogram: &ports.HistogramRequest{OutputPath: "c.png"}},
	}

	require.NoError(t, svc.RenderAll(context.Background(), jobs))
	assert.Equal(t, 2, renderer.scatterCalls())
	assert.Equal(t, 1, renderer.histogramCalls())
}

func TestRenderAllReturnsRenderError(t *testing.T) {
	renderer := &fakeChartRenderer{failPath: "bad.png"}
	svc := NewFigureService(renderer, 2, testLogger())

	jobs := []report.FigureJob{
		{Scatter: &ports.ScatterRequest{OutputPath: "ok.png"}},
		{Scatter: &ports.ScatterRequest{OutputPath: "bad.png"}},
		{Scatter: &ports.ScatterRequest{OutputPath: "also_ok.png"}},
	}

	err := svc.RenderAll(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")

	// The batch still runs to completion around the failure
	assert.Equal(t, 2, renderer.scatterCalls())
}

func TestRenderAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewFigureService(&fakeChartRenderer{}, 1, testLogger())
	err := svc.RenderAll(ctx, []report.FigureJob{
		{Scatter: &ports.ScatterRequest{OutputPath: "a.png"}},
	})
	require.Error(t, err)
}

func TestRenderAllEmptyBatch(t *testing.T) {
	svc := NewFigureService(&fakeChartRenderer{}, 4, testLogger())
	require.NoError(t, svc.RenderAll(context.Background(), nil))
}
