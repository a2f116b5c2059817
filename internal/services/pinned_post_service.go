package services

import (
	"context"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
)

// PinnedPostService manages announcements shown above every course feed.
type PinnedPostService struct {
	pinned *repositories.PinnedPostRepository
}

func NewPinnedPostService(pinned *repositories.PinnedPostRepository) *PinnedPostService {
	return &PinnedPostService{pinned: pinned}
}

func (s *PinnedPostService) List(ctx context.Context) ([]gormModels.GlobalPinnedPost, error) {
	return s.pinned.ListPinned(ctx)
}

func (s *PinnedPostService) Create(ctx context.Context, authorID string, req dtos.PinnedPostRequest) (*gormModels.GlobalPinnedPost, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	post := &gormModels.GlobalPinnedPost{
		Title:    title,
		Content:  content,
		Author:   authorID,
		IsPinned: true,
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}
	if err := s.pinned.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies the non-empty fields of req. Unpinning hides the post
// without deleting it.
func (s *PinnedPostService) Update(ctx context.Context, id string, req dtos.PinnedPostRequest) (*gormModels.GlobalPinnedPost, error) {
	post, err := s.pinned.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(req.Content); content != "" {
		post.Content = content
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}
	if err := s.pinned.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PinnedPostService) Delete(ctx context.Context, id string) error {
	return mapNotFound(s.pinned.Delete(ctx, id))
}
