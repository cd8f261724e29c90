package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"gnnreport/internal"
	"gnnreport/internal/report"
	"gnnreport/ports"
)

// FigureService renders report figures through the chart renderer, bounded
// to a fixed number of concurrent jobs. Chart rasterization dominates report
// runtime, so the sections queue their figures here instead of rendering
// inline.
type FigureService struct {
	renderer ports.ChartRenderer
	sem      *semaphore.Weighted
	log      *internal.Logger
}

// NewFigureService creates a figure service allowing workers concurrent
// renders
func NewFigureService(renderer ports.ChartRenderer, workers int, log *internal.Logger) *FigureService {
	if workers < 1 {
		workers = 1
	}
	return &FigureService{
		renderer: renderer,
		sem:      semaphore.NewWeighted(int64(workers)),
		log:      log,
	}
}

// RenderAll renders every figure job. All jobs run even when one fails, so
// a bad figure surfaces every render error in the log; the first error is
// returned once the batch finishes.
func (s *FigureService) RenderAll(ctx context.Context, jobs []report.FigureJob) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, job := range jobs {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return fmt.Errorf("failed to acquire render slot: %w", err)
		}
		wg.Add(1)
		go func(job report.FigureJob) {
			defer wg.Done()
			defer s.sem.Release(1)
			if err := s.render(job); err != nil {
				s.log.Error("figure render failed: %v", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(job)
	}

	wg.Wait()
	return firstErr
}

func (s *FigureService) render(job report.FigureJob) error {
	switch {
	case job.Scatter != nil:
		return s.renderer.Scatter(*job.Scatter)
	case job.Histogram != nil:
		return s.renderer.Histogram(*job.Histogram)
	}
	return nil
}
