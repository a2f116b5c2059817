package repositories

import (
	"context"
	"errors"
	"time"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsDelta is added to a user's counters. Negative values revert earlier awards.
type StatsDelta struct {
	Posts                int
	Comments             int
	ReactionsReceived    int
	AssignmentsCompleted int
	Points               int
}

func (d StatsDelta) IsZero() bool { return d == StatsDelta{} }

func (r *CourseContentRepo) GetUserStats(ctx context.Context, courseID, userID string) (*tenant.UserStats, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var stats tenant.UserStats
	err = db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.queryFailed("fetch user stats", courseID, err)
	}
	return &stats, nil
}

// ListUserStats returns the stats row of every user in the course.
func (r *CourseContentRepo) ListUserStats(ctx context.Context, courseID string) ([]tenant.UserStats, error) {
	stats := []tenant.UserStats{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return stats, err
	}

	if err := db.Order("user_id ASC").Find(&stats).Error; err != nil {
		return []tenant.UserStats{}, r.queryFailed("list user stats", courseID, err)
	}
	return stats, nil
}

// GetCourseLeaderboard ranks the course's users by points, highest first.
func (r *CourseContentRepo) GetCourseLeaderboard(ctx context.Context, courseID string, limit int) ([]tenant.UserStats, error) {
	stats := []tenant.UserStats{}
	if limit <= 0 {
		limit = constants.DefaultLeaderboardLimit
	}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return stats, err
	}

	err = db.Order("points DESC").Order("user_id ASC").Limit(limit).Find(&stats).Error
	if err != nil {
		return []tenant.UserStats{}, r.queryFailed("fetch course leaderboard", courseID, err)
	}
	return stats, nil
}

// IncrementUserStats adds delta to the user's counters, creating the row on
// first activity, and marks the user active now.
func (r *CourseContentRepo) IncrementUserStats(ctx context.Context, courseID, userID string, delta StatsDelta) error {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	row := tenant.UserStats{
		UserID:               userID,
		PostsCount:           atLeastZero(delta.Posts),
		CommentsCount:        atLeastZero(delta.Comments),
		ReactionsReceived:    atLeastZero(delta.ReactionsReceived),
		AssignmentsCompleted: atLeastZero(delta.AssignmentsCompleted),
		Points:               atLeastZero(delta.Points),
		LastActive:           now,
	}

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"posts_count":           gorm.Expr("user_stats.posts_count + ?", delta.Posts),
			"comments_count":        gorm.Expr("user_stats.comments_count + ?", delta.Comments),
			"reactions_received":    gorm.Expr("user_stats.reactions_received + ?", delta.ReactionsReceived),
			"assignments_completed": gorm.Expr("user_stats.assignments_completed + ?", delta.AssignmentsCompleted),
			"points":                gorm.Expr("user_stats.points + ?", delta.Points),
			"last_active":           now,
			"updated_at":            now,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.queryFailed("update user stats", courseID, err)
	}
	return nil
}

func atLeastZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
