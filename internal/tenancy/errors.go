package tenancy

import "errors"

// ErrTenantUnavailable is wrapped by every failure to obtain a course
// database handle. Callers that only need to degrade test for this one.
var ErrTenantUnavailable = errors.New("course database unavailable")

var (
	// ErrTenantNotConfigured means no credentials are stored for the course.
	// This is the normal state of a freshly created course.
	ErrTenantNotConfigured = &unavailableError{reason: "credentials not configured"}

	// ErrTenantUnreachable means credentials exist but the connection failed.
	ErrTenantUnreachable = &unavailableError{reason: "connection failed"}
)

type unavailableError struct {
	reason string
}

func (e *unavailableError) Error() string {
	return "course database unavailable: " + e.reason
}

func (e *unavailableError) Unwrap() error { return ErrTenantUnavailable }
