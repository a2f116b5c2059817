package constants

// PostKind is the kind of a tenant post.
type PostKind string

const (
	PostKindAssignment   PostKind = "assignment"
	PostKindPost         PostKind = "post"
	PostKindAnnouncement PostKind = "announcement"
)

func (k PostKind) Valid() bool {
	switch k {
	case PostKindAssignment, PostKindPost, PostKindAnnouncement:
		return true
	}
	return false
}

// TargetKind is what a reaction points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

func (k TargetKind) Valid() bool { return k == TargetPost || k == TargetComment }

// ReactionKind is the closed set of reactions a user can leave.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionLaugh ReactionKind = "laugh"
)

var AllReactionKinds = []ReactionKind{ReactionLike, ReactionLove, ReactionLaugh}

func (k ReactionKind) Valid() bool {
	for _, allowed := range AllReactionKinds {
		if allowed == k {
			return true
		}
	}
	return false
}

// LifecycleState replaces per-entity soft delete booleans.
type LifecycleState string

const (
	StateActive  LifecycleState = "active"
	StateDeleted LifecycleState = "deleted"
)

// Priority of an assignment as shown on the dashboard.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Points awarded into user_stats.
const (
	PointsPerPost               = 10
	PointsPerComment            = 2
	PointsPerReactionReceived   = 1
	PointsPerAssignmentComplete = 20
)

// Notification types.
const (
	NotificationAssignment = "assignment"
	NotificationPost       = "post"
	NotificationReaction   = "reaction"
	NotificationSystem     = "system"
)
