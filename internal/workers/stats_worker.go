package workers

import (
	"context"
	"time"

	"chronicle/internal/monitoring"
	statsPort "chronicle/internal/ports/stats"

	"go.uber.org/zap"
)

type StatsWorker struct {
	StatsRepo statsPort.StatsRepository
	Interval  time.Duration
	Logger    *zap.Logger
}

func NewStatsWorker(statsRepo statsPort.StatsRepository, interval time.Duration, logger *zap.Logger) *StatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		StatsRepo: statsRepo,
		Interval:  interval,
		Logger:    logger,
	}
}

// Run refreshes the entity gauges until ctx is cancelled.
func (w *StatsWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 StatsWorker started", zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("❌ Stats refresh panicked", zap.Any("panic", r))
		}
	}()

	counts, err := w.StatsRepo.Counts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.Logger.Error("❌ Error fetching counts", zap.Error(err))
		}
		return
	}

	monitoring.EntityTotals.WithLabelValues("users").Set(float64(counts.Users))
	monitoring.EntityTotals.WithLabelValues("groups").Set(float64(counts.Groups))
	monitoring.EntityTotals.WithLabelValues("posts").Set(float64(counts.Posts))
	monitoring.EntityTotals.WithLabelValues("comments").Set(float64(counts.Comments))
	monitoring.EntityTotals.WithLabelValues("follows").Set(float64(counts.Follows))

	w.Logger.Debug("📊 Stats refreshed",
		zap.Int64("users", counts.Users),
		zap.Int64("posts", counts.Posts),
		zap.Int64("follows", counts.Follows),
	)
}
