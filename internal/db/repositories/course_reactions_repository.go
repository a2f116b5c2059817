package repositories

import (
	"context"
	"errors"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionAction reports what a toggle did.
type ReactionAction string

const (
	ReactionAdded    ReactionAction = "added"
	ReactionSwitched ReactionAction = "switched"
	ReactionRemoved  ReactionAction = "removed"
)

// ReactionTarget identifies what a reaction points at.
type ReactionTarget struct {
	ID   string
	Kind constants.TargetKind
}

// SetReaction records the user's reaction on a target, replacing any
// previous kind. A user holds at most one reaction per target.
func (r *CourseContentRepo) SetReaction(ctx context.Context, courseID string, target ReactionTarget, userID string, kind constants.ReactionKind) (*tenant.Reaction, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	row := tenant.Reaction{
		TargetID:     target.ID,
		TargetType:   target.Kind,
		UserID:       userID,
		ReactionType: kind,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_id"}, {Name: "target_type"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type"}),
	}).Create(&row).Error
	if err != nil {
		return nil, r.queryFailed("set reaction", courseID, err)
	}

	// The row id differs from the generated one when the upsert hit an existing row.
	var stored tenant.Reaction
	err = db.Where("target_id = ? AND target_type = ? AND user_id = ?", target.ID, target.Kind, userID).
		First(&stored).Error
	if err != nil {
		return nil, r.queryFailed("fetch reaction", courseID, err)
	}
	return &stored, nil
}

// ToggleReaction adds the reaction when the user has none on the target,
// removes it when the same kind is toggled again, and switches the kind
// otherwise. The returned reaction is nil after a removal.
func (r *CourseContentRepo) ToggleReaction(ctx context.Context, courseID string, target ReactionTarget, userID string, kind constants.ReactionKind) (*tenant.Reaction, ReactionAction, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	var (
		result *tenant.Reaction
		action ReactionAction
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing tenant.Reaction
		err := tx.Where("target_id = ? AND target_type = ? AND user_id = ?", target.ID, target.Kind, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := tenant.Reaction{
				TargetID:     target.ID,
				TargetType:   target.Kind,
				UserID:       userID,
				ReactionType: kind,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			result, action = &row, ReactionAdded
		case err != nil:
			return err
		case existing.ReactionType == kind:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result, action = nil, ReactionRemoved
		default:
			if err := tx.Model(&existing).Update("reaction_type", kind).Error; err != nil {
				return err
			}
			existing.ReactionType = kind
			result, action = &existing, ReactionSwitched
		}
		return nil
	})
	if err != nil {
		return nil, "", r.queryFailed("toggle reaction", courseID, err)
	}
	return result, action, nil
}

func (r *CourseContentRepo) GetReactions(ctx context.Context, courseID string, target ReactionTarget) ([]tenant.Reaction, error) {
	reactions := []tenant.Reaction{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return reactions, err
	}

	err = db.Where("target_id = ? AND target_type = ?", target.ID, target.Kind).
		Order("created_at ASC").Order("id ASC").
		Find(&reactions).Error
	if err != nil {
		return []tenant.Reaction{}, r.queryFailed("fetch reactions", courseID, err)
	}
	return reactions, nil
}

// CountReactions groups the reactions on a target by kind. Every kind is
// present in the result, zero when unused.
func (r *CourseContentRepo) CountReactions(ctx context.Context, courseID string, target ReactionTarget) (map[constants.ReactionKind]int, error) {
	counts := make(map[constants.ReactionKind]int, len(constants.AllReactionKinds))
	for _, k := range constants.AllReactionKinds {
		counts[k] = 0
	}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return counts, err
	}

	var rows []struct {
		ReactionType constants.ReactionKind
		Total        int
	}
	err = db.Model(&tenant.Reaction{}).
		Select("reaction_type, COUNT(*) AS total").
		Where("target_id = ? AND target_type = ?", target.ID, target.Kind).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return counts, r.queryFailed("count reactions", courseID, err)
	}
	for _, row := range rows {
		counts[row.ReactionType] = row.Total
	}
	return counts, nil
}

// DeleteReaction removes the user's reaction on a target, if any.
func (r *CourseContentRepo) DeleteReaction(ctx context.Context, courseID string, target ReactionTarget, userID string) (bool, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return false, err
	}

	res := db.Where("target_id = ? AND target_type = ? AND user_id = ?", target.ID, target.Kind, userID).
		Delete(&tenant.Reaction{})
	if res.Error != nil {
		return false, r.queryFailed("delete reaction", courseID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
