package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixLeaderboard CachePrefix = "LEADERBOARD_"
)

const (
	DefaultPostPageSize      = 50
	MaxPostPageSize          = 200
	DefaultLeaderboardLimit  = 10
	BadgePointsThreshold     = 100
	NoDeadlineLabel          = "No deadline"
	UnknownUsername          = "unknown"
	AssignmentSubmissionType = "Assignment"
)
