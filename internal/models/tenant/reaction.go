package tenant

import (
	"infinite-experiment/coursehub/internal/constants"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is unique per (target, target kind, user); the kind is mutable.
type Reaction struct {
	ID           string                 `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TargetID     string                 `gorm:"column:target_id;type:uuid;not null;uniqueIndex:idx_reactions_target_user" json:"targetId"`
	TargetType   constants.TargetKind   `gorm:"column:target_type;not null;uniqueIndex:idx_reactions_target_user" json:"targetType"`
	UserID       string                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reactions_target_user" json:"userId"`
	ReactionType constants.ReactionKind `gorm:"column:reaction_type;not null" json:"reactionType"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
