package constants

const (
	MsgAuthRequired         = "Authentication required"
	MsgInvalidToken         = "Invalid token"
	MsgAccountBanned        = "Account is banned"
	MsgInsufficientRole     = "Insufficient permissions"
	MsgCourseAccessDenied   = "Access denied to this course"
	MsgCourseNotFound       = "Course not found"
	MsgPostNotFound         = "Post not found"
	MsgInvalidInput         = "Invalid input data"
	MsgTenantUnavailable    = "Course database is unavailable"
	MsgCannotDemoteCreator  = "Cannot demote the creator"
	MsgCreatorNotAssignable = "The creator role cannot be assigned"
	MsgTooManyRequests      = "Too many requests"
)
