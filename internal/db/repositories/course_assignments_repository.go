package repositories

import (
	"context"
	"errors"
	"time"

	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/gorm"
)

func (r *CourseContentRepo) CreateAssignmentStatus(ctx context.Context, courseID string, status *tenant.AssignmentStatus) (*tenant.AssignmentStatus, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if status.IsCompleted && status.CompletedAt == nil {
		now := time.Now().UTC()
		status.CompletedAt = &now
	}
	if err := db.Create(status).Error; err != nil {
		return nil, r.queryFailed("create assignment status", courseID, err)
	}
	return status, nil
}

func (r *CourseContentRepo) GetAssignmentStatus(ctx context.Context, courseID, postID, userID string) (*tenant.AssignmentStatus, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var status tenant.AssignmentStatus
	err = db.Where("post_id = ? AND user_id = ?", postID, userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.queryFailed("fetch assignment status", courseID, err)
	}
	return &status, nil
}

// UpdateAssignmentStatus saves every field of an existing row.
func (r *CourseContentRepo) UpdateAssignmentStatus(ctx context.Context, courseID string, status *tenant.AssignmentStatus) error {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return err
	}

	if err := db.Save(status).Error; err != nil {
		return r.queryFailed("update assignment status", courseID, err)
	}
	return nil
}

func (r *CourseContentRepo) GetUserAssignmentStatuses(ctx context.Context, courseID, userID string) ([]tenant.AssignmentStatus, error) {
	statuses := []tenant.AssignmentStatus{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return statuses, err
	}

	err = db.Where("user_id = ?", userID).Order("created_at ASC").Find(&statuses).Error
	if err != nil {
		return []tenant.AssignmentStatus{}, r.queryFailed("fetch assignment statuses", courseID, err)
	}
	return statuses, nil
}

// SetAssignmentCompletion creates or updates the user's status row for an
// assignment. changed reports whether the completion flag flipped, so the
// caller can award or revert points exactly once.
func (r *CourseContentRepo) SetAssignmentCompletion(ctx context.Context, courseID, postID, userID string, completed bool, note *string) (status *tenant.AssignmentStatus, changed bool, err error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing tenant.AssignmentStatus
		findErr := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			existing = tenant.AssignmentStatus{PostID: postID, UserID: userID}
			changed = completed
		} else {
			changed = existing.IsCompleted != completed
		}

		existing.IsCompleted = completed
		if note != nil {
			existing.SubmissionNote = note
		}
		if completed && (changed || existing.CompletedAt == nil) {
			now := time.Now().UTC()
			existing.CompletedAt = &now
		}
		if !completed {
			existing.CompletedAt = nil
		}

		if existing.ID == "" {
			if err := tx.Create(&existing).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		status = &existing
		return nil
	})
	if err != nil {
		return nil, false, r.queryFailed("set assignment completion", courseID, err)
	}
	return status, changed, nil
}
