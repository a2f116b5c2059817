package repositories

import (
	"context"
	"errors"
	"time"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListOptions pages and filters post listings. The zero value lists the
// first DefaultPostPageSize active posts of every kind.
type ListOptions struct {
	Limit          int
	Offset         int
	Kind           constants.PostKind
	IncludeDeleted bool
}

func (o ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return constants.DefaultPostPageSize
	case o.Limit > constants.MaxPostPageSize:
		return constants.MaxPostPageSize
	}
	return o.Limit
}

// PostUpdate carries the fields to change; nil fields are left alone.
type PostUpdate struct {
	Title         *string
	Content       *string
	Deadline      *time.Time
	ClearDeadline bool
	MediaURLs     *[]string
	IsPinned      *bool
}

func (u PostUpdate) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Content != nil {
		cols["content"] = *u.Content
	}
	if u.ClearDeadline {
		cols["deadline"] = nil
	} else if u.Deadline != nil {
		cols["deadline"] = *u.Deadline
	}
	if u.MediaURLs != nil {
		cols["media_urls"] = datatypes.JSONSlice[string](*u.MediaURLs)
	}
	if u.IsPinned != nil {
		cols["is_pinned"] = *u.IsPinned
	}
	return cols
}

func (r *CourseContentRepo) CreatePost(ctx context.Context, courseID string, post *tenant.Post) (*tenant.Post, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if post.Type == "" {
		post.Type = constants.PostKindPost
	}
	if post.MediaURLs == nil {
		post.MediaURLs = datatypes.JSONSlice[string]{}
	}
	if err := db.Create(post).Error; err != nil {
		return nil, r.queryFailed("create post", courseID, err)
	}
	return post, nil
}

// GetPosts lists posts oldest first.
func (r *CourseContentRepo) GetPosts(ctx context.Context, courseID string, opts ListOptions) ([]tenant.Post, error) {
	posts := []tenant.Post{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return posts, err
	}

	q := db.Model(&tenant.Post{})
	if !opts.IncludeDeleted {
		q = q.Where("state = ?", constants.StateActive)
	}
	if opts.Kind != "" {
		q = q.Where("type = ?", opts.Kind)
	}

	err = q.Order("created_at ASC").Order("id ASC").
		Limit(opts.limit()).
		Offset(opts.Offset).
		Find(&posts).Error
	if err != nil {
		return []tenant.Post{}, r.queryFailed("fetch posts", courseID, err)
	}
	return posts, nil
}

// GetPostsByKind returns every active post of one kind, oldest first, without
// the page cap. Aggregations need the complete set.
func (r *CourseContentRepo) GetPostsByKind(ctx context.Context, courseID string, kind constants.PostKind) ([]tenant.Post, error) {
	posts := []tenant.Post{}

	db, err := r.conn(ctx, courseID)
	if err != nil {
		return posts, err
	}

	err = db.Where("type = ? AND state = ?", kind, constants.StateActive).
		Order("created_at ASC").Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return []tenant.Post{}, r.queryFailed("fetch posts by kind", courseID, err)
	}
	return posts, nil
}

// GetPostByID returns nil for missing and deleted posts alike.
func (r *CourseContentRepo) GetPostByID(ctx context.Context, courseID, postID string) (*tenant.Post, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var post tenant.Post
	err = db.Where("id = ? AND state = ?", postID, constants.StateActive).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.queryFailed("fetch post", courseID, err)
	}
	return &post, nil
}

// UpdatePost applies the update to an active post and returns the result,
// or nil when the post does not exist.
func (r *CourseContentRepo) UpdatePost(ctx context.Context, courseID, postID string, update PostUpdate) (*tenant.Post, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	cols := update.columns()
	if len(cols) > 0 {
		res := db.Model(&tenant.Post{}).
			Where("id = ? AND state = ?", postID, constants.StateActive).
			Updates(cols)
		if res.Error != nil {
			return nil, r.queryFailed("update post", courseID, res.Error)
		}
	}

	var post tenant.Post
	err = db.Where("id = ? AND state = ?", postID, constants.StateActive).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.queryFailed("fetch post", courseID, err)
	}
	return &post, nil
}

// SoftDeletePost marks the post deleted. It reports false when there was no
// active post to delete.
func (r *CourseContentRepo) SoftDeletePost(ctx context.Context, courseID, postID string) (bool, error) {
	db, err := r.conn(ctx, courseID)
	if err != nil {
		return false, err
	}

	res := db.Model(&tenant.Post{}).
		Where("id = ? AND state = ?", postID, constants.StateActive).
		Update("state", constants.StateDeleted)
	if res.Error != nil {
		return false, r.queryFailed("delete post", courseID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
