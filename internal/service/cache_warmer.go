package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
)

const (
	warmGradesOverview   = "grades_overview"
	warmDashboardSummary = "dashboard_summary"
)

type overviewComputer interface {
	Overview(ctx context.Context) (*dto.GPAOverview, bool, error)
}

type summaryComputer interface {
	Summary(ctx context.Context) (*dto.DashboardResponse, bool, error)
}

// CacheWarmer recomputes the GPA overview and dashboard in the background so
// the first read after a write is served from cache.
type CacheWarmer struct {
	queue     *jobs.Queue
	grades    overviewComputer
	dashboard summaryComputer
	logger    *zap.Logger
}

// NewCacheWarmer builds a warmer; call Start before scheduling work.
func NewCacheWarmer(grades overviewComputer, dashboard summaryComputer, cfg jobs.QueueConfig) *CacheWarmer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	w := &CacheWarmer{grades: grades, dashboard: dashboard, logger: cfg.Logger}
	w.queue = jobs.NewQueue("cache-warmer", w.handle, cfg)
	return w
}

// Start launches the worker pool.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop waits for in-flight recomputes to finish.
func (w *CacheWarmer) Stop() {
	w.queue.Stop()
}

// Schedule queues a recompute of every derived view. Requests arriving while
// a recompute is still waiting are folded into it.
func (w *CacheWarmer) Schedule() {
	if w == nil {
		return
	}
	for _, key := range []string{warmGradesOverview, warmDashboardSummary} {
		if _, err := w.queue.Offer(key); err != nil && !errors.Is(err, jobs.ErrNotStarted) {
			w.logger.Warn("cache warm skipped", zap.String("view", key), zap.Error(err))
		}
	}
}

func (w *CacheWarmer) handle(ctx context.Context, job jobs.Job) error {
	var err error
	switch job.Key {
	case warmGradesOverview:
		if w.grades != nil {
			_, _, err = w.grades.Overview(ctx)
		}
	case warmDashboardSummary:
		if w.dashboard != nil {
			_, _, err = w.dashboard.Summary(ctx)
		}
	default:
		return fmt.Errorf("unknown view %q", job.Key)
	}
	if err != nil {
		return fmt.Errorf("warm %s: %w", job.Key, err)
	}
	w.logger.Debug("cache warmed", zap.String("view", job.Key))
	return nil
}
