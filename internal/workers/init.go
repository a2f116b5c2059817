package workers

import (
	"context"
	"time"

	"infinite-experiment/coursehub/internal/logging"
)

type WorkersContainer struct {
	Leaderboard *LeaderboardWorker
}

// InitWorkers starts the background workers. A zero refresh interval leaves
// the leaderboard to be rebuilt on demand only.
func InitWorkers(ctx context.Context, refresher LeaderboardRefresher, refreshInterval time.Duration) *WorkersContainer {
	container := &WorkersContainer{}

	if refreshInterval <= 0 {
		logging.Info("Leaderboard refresh worker disabled")
		return container
	}

	container.Leaderboard = NewLeaderboardWorker(refresher, refreshInterval)
	go container.Leaderboard.Start(ctx, refreshInterval)

	return container
}
