package dtos

import (
	"encoding/json"
	"time"

	"infinite-experiment/coursehub/internal/constants"
)

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type AssignRoleRequest struct {
	UserID   string             `json:"userId"`
	RoleType constants.RoleKind `json:"roleType"`
	Scope    *string            `json:"scope"`
}

type CreateCourseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Lecturer    *string `json:"lecturer"`
	CourseRep   *string `json:"courseRep"`
	EndpointURL string  `json:"endpointUrl"`
	PublicKey   string  `json:"publicKey"`
	ServiceKey  string  `json:"serviceKey"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Lecturer    *string `json:"lecturer"`
	CourseRep   *string `json:"courseRep"`
	IsActive    *bool   `json:"isActive"`
}

type RotateCredentialsRequest struct {
	EndpointURL string `json:"endpointUrl"`
	PublicKey   string `json:"publicKey"`
	ServiceKey  string `json:"serviceKey"`
}

type AddMemberRequest struct {
	UserID string                   `json:"userId"`
	Role   constants.MembershipRole `json:"role"`
}

type UpdateMemberRequest struct {
	Role   *constants.MembershipRole   `json:"role"`
	Status *constants.MembershipStatus `json:"status"`
}

type UpsertSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

type CreatePostRequest struct {
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Type      constants.PostKind `json:"type"`
	Deadline  *time.Time         `json:"deadline"`
	MediaURLs []string           `json:"mediaUrls"`
	IsPinned  bool               `json:"isPinned"`
}

type UpdatePostRequest struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Deadline  *time.Time `json:"deadline"`
	MediaURLs []string   `json:"mediaUrls"`
	IsPinned  *bool      `json:"isPinned"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type ReactionRequest struct {
	TargetID     string                 `json:"targetId"`
	TargetType   constants.TargetKind   `json:"targetType"`
	ReactionType constants.ReactionKind `json:"reactionType"`
}

type AssignmentCompletionRequest struct {
	IsCompleted    bool    `json:"isCompleted"`
	SubmissionNote *string `json:"submissionNote"`
}

type PinnedPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned *bool  `json:"isPinned"`
}

type AwardBadgeRequest struct {
	BadgeType string          `json:"badgeType"`
	CourseID  *string         `json:"courseId"`
	BadgeData json.RawMessage `json:"badgeData"`
}
