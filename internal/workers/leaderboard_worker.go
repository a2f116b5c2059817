package workers

import (
	"context"
	"time"

	"infinite-experiment/coursehub/internal/logging"
)

// LeaderboardRefresher rebuilds the cached global leaderboard.
type LeaderboardRefresher interface {
	RefreshLeaderboard(ctx context.Context) error
}

// LeaderboardWorker keeps the global leaderboard warm so dashboard reads
// rarely pay for a cross-course fan-out.
type LeaderboardWorker struct {
	refresher LeaderboardRefresher
	timeout   time.Duration
}

func NewLeaderboardWorker(refresher LeaderboardRefresher, timeout time.Duration) *LeaderboardWorker {
	return &LeaderboardWorker{refresher: refresher, timeout: timeout}
}

// Start refreshes immediately and then on every tick until ctx is done.
func (w *LeaderboardWorker) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting leaderboard refresh worker", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Leaderboard refresh worker shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *LeaderboardWorker) refresh(ctx context.Context) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := w.refresher.RefreshLeaderboard(ctx); err != nil {
		logging.Warn("Leaderboard refresh failed", "error", err.Error())
		return
	}
	logging.Debug("Leaderboard refreshed", "duration_ms", time.Since(start).Milliseconds())
}
