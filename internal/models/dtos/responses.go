package dtos

import (
	"time"

	"infinite-experiment/coursehub/internal/constants"
)

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// DashboardStats is the per-user summary across every enrolled course.
type DashboardStats struct {
	TotalCourses         int `json:"totalCourses"`
	TotalAssignments     int `json:"totalAssignments"`
	CompletedAssignments int `json:"completedAssignments"`
	PendingAssignments   int `json:"pendingAssignments"`
	Rank                 int `json:"rank"`
	Points               int `json:"points"`
}

type AssignmentView struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Course         string             `json:"course"`
	CourseID       string             `json:"courseId"`
	DueDate        string             `json:"dueDate"`
	Description    string             `json:"description"`
	IsCompleted    bool               `json:"isCompleted"`
	Priority       constants.Priority `json:"priority"`
	SubmissionType string             `json:"submissionType"`
}

type LeaderboardEntry struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Points        int    `json:"points"`
	Badges        int    `json:"badges"`
	Rank          int    `json:"rank"`
	Contributions int    `json:"contributions"`
}

// CourseLeaderboardEntry is one row of a single course's ranking.
type CourseLeaderboardEntry struct {
	UserID               string `json:"userId"`
	Username             string `json:"username,omitempty"`
	Points               int    `json:"points"`
	PostsCount           int    `json:"postsCount"`
	CommentsCount        int    `json:"commentsCount"`
	AssignmentsCompleted int    `json:"assignmentsCompleted"`
	Rank                 int    `json:"rank"`
}

type CourseSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Lecturer    *string   `json:"lecturer,omitempty"`
	CourseRep   *string   `json:"courseRep,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MeResponse is the authenticated user's profile with effective roles.
type MeResponse struct {
	ID        string               `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	IsCreator bool                 `json:"isCreator"`
	Roles     []constants.RoleKind `json:"roles"`
}
