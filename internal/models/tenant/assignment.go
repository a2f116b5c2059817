package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentStatus struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	PostID         string     `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_assignment_status_post_user" json:"postId"`
	UserID         string     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_assignment_status_post_user" json:"userId"`
	IsCompleted    bool       `gorm:"column:is_completed;default:false;not null" json:"isCompleted"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	SubmissionNote *string    `gorm:"column:submission_note" json:"submissionNote,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (AssignmentStatus) TableName() string {
	return "assignment_status"
}

func (s *AssignmentStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserStats holds the per-course counters used by the leaderboards.
type UserStats struct {
	ID                   string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID               string    `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"userId"`
	PostsCount           int       `gorm:"column:posts_count;default:0;not null" json:"postsCount"`
	CommentsCount        int       `gorm:"column:comments_count;default:0;not null" json:"commentsCount"`
	ReactionsReceived    int       `gorm:"column:reactions_received;default:0;not null" json:"reactionsReceived"`
	AssignmentsCompleted int       `gorm:"column:assignments_completed;default:0;not null" json:"assignmentsCompleted"`
	Points               int       `gorm:"column:points;default:0;not null" json:"points"`
	LastActive           time.Time `gorm:"column:last_active" json:"lastActive"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (UserStats) TableName() string {
	return "user_stats"
}

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Contributions is what the global leaderboard counts as activity.
func (s UserStats) Contributions() int {
	return s.PostsCount + s.CommentsCount
}

// Models lists every table provisioned in a course database.
func Models() []interface{} {
	return []interface{}{
		&Post{},
		&Comment{},
		&Reaction{},
		&AssignmentStatus{},
		&UserStats{},
	}
}
