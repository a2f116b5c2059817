package repositories

import (
	"context"
	"errors"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/gorm"
)

func (r *CourseContentRepo) CreateComment(ctx context.Context, courseID string, comment *tenant.Comment) (*tenant.Comment, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := db.Create(comment).Error; err != nil {
		return nil, r.queryFailed("create comment", courseID, err)
	}
	return comment, nil
}

// GetComments lists the active comments of a post, oldest first.
func (r *CourseContentRepo) GetComments(ctx context.Context, courseID, postID string) ([]tenant.Comment, error) {
	comments := []tenant.Comment{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return comments, err
	}

	err = db.Where("post_id = ? AND state = ?", postID, constants.StateActive).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return []tenant.Comment{}, r.queryFailed("fetch comments", courseID, err)
	}
	return comments, nil
}

func (r *CourseContentRepo) GetCommentByID(ctx context.Context, courseID, commentID string) (*tenant.Comment, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var comment tenant.Comment
	err = db.Where("id = ? AND state = ?", commentID, constants.StateActive).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.queryFailed("fetch comment", courseID, err)
	}
	return &comment, nil
}

func (r *CourseContentRepo) UpdateComment(ctx context.Context, courseID, commentID, content string) (*tenant.Comment, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := db.Model(&tenant.Comment{}).
		Where("id = ? AND state = ?", commentID, constants.StateActive).
		Update("content", content)
	if res.Error != nil {
		return nil, r.queryFailed("update comment", courseID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var comment tenant.Comment
	if err := db.Where("id = ?", commentID).First(&comment).Error; err != nil {
		return nil, r.queryFailed("fetch comment", courseID, err)
	}
	return &comment, nil
}

func (r *CourseContentRepo) SoftDeleteComment(ctx context.Context, courseID, commentID string) (bool, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return false, err
	}

	res := db.Model(&tenant.Comment{}).
		Where("id = ? AND state = ?", commentID, constants.StateActive).
		Update("state", constants.StateDeleted)
	if res.Error != nil {
		return false, r.queryFailed("delete comment", courseID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
