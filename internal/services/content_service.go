package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/models/tenant"

	"gorm.io/datatypes"
)

// ContentService applies permissions, the points policy and notifications
// on top of the per-course repository.
type ContentService struct {
	content       *repositories.CourseContentRepo
	roles         *RoleService
	memberships   *repositories.MembershipRepository
	users         *repositories.UserRepository
	notifications *repositories.NotificationRepository
	leaderboards  LeaderboardInvalidator
}

func NewContentService(
	content *repositories.CourseContentRepo,
	roles *RoleService,
	memberships *repositories.MembershipRepository,
	users *repositories.UserRepository,
	notifications *repositories.NotificationRepository,
	leaderboards LeaderboardInvalidator,
) *ContentService {
	return &ContentService{
		content:       content,
		roles:         roles,
		memberships:   memberships,
		users:         users,
		notifications: notifications,
		leaderboards:  leaderboards,
	}
}

// ReactionSummary is what clients render under a post or comment.
type ReactionSummary struct {
	Counts map[constants.ReactionKind]int `json:"counts"`
	Mine   *constants.ReactionKind        `json:"mine,omitempty"`
}

// ToggleResult reports the outcome of a reaction toggle.
type ToggleResult struct {
	Action   repositories.ReactionAction `json:"action"`
	Reaction *tenant.Reaction            `json:"reaction,omitempty"`
}

// Posts

func (s *ContentService) ListPosts(ctx context.Context, courseID string, opts repositories.ListOptions) ([]tenant.Post, error) {
	if opts.Kind != "" && !opts.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %q", ErrInvalidInput, opts.Kind)
	}
	opts.IncludeDeleted = false
	return s.content.GetPosts(ctx, courseID, opts)
}

func (s *ContentService) GetPost(ctx context.Context, courseID, postID string) (*tenant.Post, error) {
	post, err := s.content.GetPostByID(ctx, courseID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// CreatePost publishes a post. Assignments, announcements and pinned posts
// need course admin rights. New assignments notify every active member.
func (s *ContentService) CreatePost(ctx context.Context, claims auth.UserClaims, courseID string, req dtos.CreatePostRequest) (*tenant.Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	kind := req.Type
	if kind == "" {
		kind = constants.PostKindPost
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %q", ErrInvalidInput, kind)
	}

	if kind != constants.PostKindPost || req.IsPinned {
		if err := s.requireModerator(ctx, claims, courseID); err != nil {
			return nil, err
		}
	}

	post := &tenant.Post{
		Title:     title,
		Content:   req.Content,
		Type:      kind,
		AuthorID:  claims.UserID(),
		Deadline:  req.Deadline,
		MediaURLs: datatypes.JSONSlice[string](req.MediaURLs),
		IsPinned:  req.IsPinned,
	}
	created, err := s.content.CreatePost(ctx, courseID, post)
	if err != nil {
		return nil, err
	}

	s.award(ctx, courseID, claims.UserID(), repositories.StatsDelta{Posts: 1, Points: constants.PointsPerPost})
	if kind == constants.PostKindAssignment {
		s.notifyMembers(ctx, courseID, claims.UserID(), created)
	}
	return created, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, claims auth.UserClaims, courseID, postID string, req dtos.UpdatePostRequest) (*tenant.Post, error) {
	post, err := s.GetPost(ctx, courseID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthorOrModerator(ctx, claims, courseID, post.AuthorID); err != nil {
		return nil, err
	}
	if req.IsPinned != nil && *req.IsPinned != post.IsPinned {
		if err := s.requireModerator(ctx, claims, courseID); err != nil {
			return nil, err
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}

	update := repositories.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Deadline: req.Deadline,
		IsPinned: req.IsPinned,
	}
	if req.MediaURLs != nil {
		update.MediaURLs = &req.MediaURLs
	}

	updated, err := s.content.UpdatePost(ctx, courseID, postID, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeletePost soft deletes. Points earned by the post are kept.
func (s *ContentService) DeletePost(ctx context.Context, claims auth.UserClaims, courseID, postID string) error {
	post, err := s.GetPost(ctx, courseID, postID)
	if err != nil {
		return err
	}
	if err := s.requireAuthorOrModerator(ctx, claims, courseID, post.AuthorID); err != nil {
		return err
	}

	deleted, err := s.content.SoftDeletePost(ctx, courseID, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Comments

func (s *ContentService) ListComments(ctx context.Context, courseID, postID string) ([]tenant.Comment, error) {
	return s.content.GetComments(ctx, courseID, postID)
}

func (s *ContentService) CreateComment(ctx context.Context, claims auth.UserClaims, courseID, postID string, req dtos.CreateCommentRequest) (*tenant.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if _, err := s.GetPost(ctx, courseID, postID); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		parent, err := s.content.GetCommentByID(ctx, courseID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment not found on this post", ErrInvalidInput)
		}
	}

	comment := &tenant.Comment{
		PostID:   postID,
		AuthorID: claims.UserID(),
		Content:  req.Content,
		ParentID: req.ParentID,
	}
	created, err := s.content.CreateComment(ctx, courseID, comment)
	if err != nil {
		return nil, err
	}

	s.award(ctx, courseID, claims.UserID(), repositories.StatsDelta{Comments: 1, Points: constants.PointsPerComment})
	return created, nil
}

func (s *ContentService) UpdateComment(ctx context.Context, claims auth.UserClaims, courseID, commentID string, req dtos.UpdateCommentRequest) (*tenant.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	comment, err := s.getComment(ctx, courseID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthorOrModerator(ctx, claims, courseID, comment.AuthorID); err != nil {
		return nil, err
	}

	updated, err := s.content.UpdateComment(ctx, courseID, commentID, req.Content)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *ContentService) DeleteComment(ctx context.Context, claims auth.UserClaims, courseID, commentID string) error {
	comment, err := s.getComment(ctx, courseID, commentID)
	if err != nil {
		return err
	}
	if err := s.requireAuthorOrModerator(ctx, claims, courseID, comment.AuthorID); err != nil {
		return err
	}

	deleted, err := s.content.SoftDeleteComment(ctx, courseID, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) getComment(ctx context.Context, courseID, commentID string) (*tenant.Comment, error) {
	comment, err := s.content.GetCommentByID(ctx, courseID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

// Reactions

// ToggleReaction applies the toggle and credits the target's author, unless
// the author reacted to their own content. Switching kinds is worth nothing.
func (s *ContentService) ToggleReaction(ctx context.Context, claims auth.UserClaims, courseID string, req dtos.ReactionRequest) (*ToggleResult, error) {
	if !req.TargetType.Valid() {
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidInput, req.TargetType)
	}
	if !req.ReactionType.Valid() {
		return nil, fmt.Errorf("%w: unknown reaction type %q", ErrInvalidInput, req.ReactionType)
	}

	authorID, err := s.targetAuthor(ctx, courseID, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	target := repositories.ReactionTarget{ID: req.TargetID, Kind: req.TargetType}
	reaction, action, err := s.content.ToggleReaction(ctx, courseID, target, claims.UserID(), req.ReactionType)
	if err != nil {
		return nil, err
	}

	if authorID != claims.UserID() {
		switch action {
		case repositories.ReactionAdded:
			s.award(ctx, courseID, authorID, repositories.StatsDelta{
				ReactionsReceived: 1,
				Points:            constants.PointsPerReactionReceived,
			})
			s.notify(ctx, gormModels.Notification{
				UserID:  authorID,
				Title:   "New reaction",
				Message: fmt.Sprintf("%s reacted to your %s", claims.Username(), req.TargetType),
				Type:    constants.NotificationReaction,
				Data:    notificationData(map[string]string{"courseId": courseID, "targetId": req.TargetID}),
			})
		case repositories.ReactionRemoved:
			s.award(ctx, courseID, authorID, repositories.StatsDelta{
				ReactionsReceived: -1,
				Points:            -constants.PointsPerReactionReceived,
			})
		}
	}

	return &ToggleResult{Action: action, Reaction: reaction}, nil
}

// Reactions summarises a target's reactions and the caller's own.
func (s *ContentService) Reactions(ctx context.Context, claims auth.UserClaims, courseID string, targetKind constants.TargetKind, targetID string) (*ReactionSummary, error) {
	if !targetKind.Valid() {
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidInput, targetKind)
	}
	target := repositories.ReactionTarget{ID: targetID, Kind: targetKind}

	counts, err := s.content.CountReactions(ctx, courseID, target)
	summary := &ReactionSummary{Counts: counts}
	if err != nil {
		return summary, err
	}

	reactions, err := s.content.GetReactions(ctx, courseID, target)
	if err != nil {
		return summary, err
	}
	for _, r := range reactions {
		if r.UserID == claims.UserID() {
			kind := r.ReactionType
			summary.Mine = &kind
			break
		}
	}
	return summary, nil
}

func (s *ContentService) targetAuthor(ctx context.Context, courseID string, kind constants.TargetKind, targetID string) (string, error) {
	if kind == constants.TargetComment {
		comment, err := s.getComment(ctx, courseID, targetID)
		if err != nil {
			return "", err
		}
		return comment.AuthorID, nil
	}
	post, err := s.GetPost(ctx, courseID, targetID)
	if err != nil {
		return "", err
	}
	return post.AuthorID, nil
}

// Assignments

// SetAssignmentCompletion records the caller's completion of an assignment.
// Points move only when the completion flag actually flips.
func (s *ContentService) SetAssignmentCompletion(ctx context.Context, claims auth.UserClaims, courseID, postID string, req dtos.AssignmentCompletionRequest) (*tenant.AssignmentStatus, error) {
	post, err := s.GetPost(ctx, courseID, postID)
	if err != nil {
		return nil, err
	}
	if post.Type != constants.PostKindAssignment {
		return nil, fmt.Errorf("%w: post is not an assignment", ErrInvalidInput)
	}

	status, changed, err := s.content.SetAssignmentCompletion(ctx, courseID, postID, claims.UserID(), req.IsCompleted, req.SubmissionNote)
	if err != nil {
		return nil, err
	}

	if changed {
		delta := repositories.StatsDelta{AssignmentsCompleted: 1, Points: constants.PointsPerAssignmentComplete}
		if !req.IsCompleted {
			delta = repositories.StatsDelta{AssignmentsCompleted: -1, Points: -constants.PointsPerAssignmentComplete}
		}
		s.award(ctx, courseID, claims.UserID(), delta)
	}
	return status, nil
}

func (s *ContentService) MyAssignmentStatuses(ctx context.Context, claims auth.UserClaims, courseID string) ([]tenant.AssignmentStatus, error) {
	return s.content.GetUserAssignmentStatuses(ctx, courseID, claims.UserID())
}

// Leaderboard

// CourseLeaderboard ranks one course's users by points and attaches their
// registry usernames.
func (s *ContentService) CourseLeaderboard(ctx context.Context, courseID string, limit int) ([]dtos.CourseLeaderboardEntry, error) {
	stats, err := s.content.GetCourseLeaderboard(ctx, courseID, limit)
	if err != nil {
		return []dtos.CourseLeaderboardEntry{}, err
	}

	ids := make([]string, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]dtos.CourseLeaderboardEntry, 0, len(stats))
	for i, st := range stats {
		username := constants.UnknownUsername
		if u, ok := users[st.UserID]; ok && u.Username != "" {
			username = u.Username
		}
		entries = append(entries, dtos.CourseLeaderboardEntry{
			UserID:               st.UserID,
			Username:             username,
			Points:               st.Points,
			PostsCount:           st.PostsCount,
			CommentsCount:        st.CommentsCount,
			AssignmentsCompleted: st.AssignmentsCompleted,
			Rank:                 i + 1,
		})
	}
	return entries, nil
}

// Helpers

func (s *ContentService) requireModerator(ctx context.Context, claims auth.UserClaims, courseID string) error {
	ok, err := s.roles.IsCourseAdmin(ctx, claims, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *ContentService) requireAuthorOrModerator(ctx context.Context, claims auth.UserClaims, courseID, authorID string) error {
	if claims.UserID() == authorID {
		return nil
	}
	return s.requireModerator(ctx, claims, courseID)
}

// award updates the user's stats. Failures are logged and never fail the
// write that earned the points.
func (s *ContentService) award(ctx context.Context, courseID, userID string, delta repositories.StatsDelta) {
	if delta.IsZero() {
		return
	}
	if err := s.content.IncrementUserStats(ctx, courseID, userID, delta); err != nil {
		logging.Warn("Failed to update user stats",
			"course_id", courseID,
			"user_id", userID,
			"points", delta.Points,
			"error", err.Error(),
		)
		return
	}
	if s.leaderboards != nil && delta.Points != 0 {
		s.leaderboards.InvalidateLeaderboard()
	}
}

func (s *ContentService) notifyMembers(ctx context.Context, courseID, authorID string, post *tenant.Post) {
	members, err := s.memberships.GetByCourse(ctx, courseID)
	if err != nil {
		logging.Warn("Failed to load course members for notification", "course_id", courseID, "error", err.Error())
		return
	}

	data := notificationData(map[string]string{"courseId": courseID, "postId": post.ID})
	var batch []gormModels.Notification
	for _, m := range members {
		if m.Status != constants.MembershipActive || m.UserID == authorID {
			continue
		}
		batch = append(batch, gormModels.Notification{
			UserID:  m.UserID,
			Title:   "New assignment",
			Message: post.Title,
			Type:    constants.NotificationAssignment,
			Data:    data,
		})
	}
	if len(batch) == 0 {
		return
	}
	if err := s.notifications.CreateMany(ctx, batch); err != nil {
		logging.Warn("Failed to create assignment notifications", "course_id", courseID, "error", err.Error())
	}
}

func (s *ContentService) notify(ctx context.Context, n gormModels.Notification) {
	if err := s.notifications.Create(ctx, &n); err != nil {
		logging.Warn("Failed to create notification", "user_id", n.UserID, "error", err.Error())
	}
}

func notificationData(fields map[string]string) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
