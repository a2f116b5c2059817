package constants

import (
	"database/sql/driver"
	"fmt"
)

// RoleKind mirrors the registry roles.role_type column.
type RoleKind string

const (
	RoleCreator     RoleKind = "creator"
	RoleTopAdmin    RoleKind = "top_admin"
	RoleCourseAdmin RoleKind = "course_admin"
	RoleUser        RoleKind = "user"
)

// String is convenient for fmt and logs
func (r RoleKind) String() string { return string(r) }

// Assignable reports whether the kind may be granted through role assignment.
// The creator authority lives only on users.is_creator.
func (r RoleKind) Assignable() bool {
	switch r {
	case RoleTopAdmin, RoleCourseAdmin, RoleUser:
		return true
	}
	return false
}

func (r *RoleKind) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = RoleKind(v)
	case []byte:
		*r = RoleKind(v)
	default:
		return fmt.Errorf("RoleKind: cannot scan type %T", src)
	}
	return nil
}

func (r RoleKind) Value() (driver.Value, error) { return string(r), nil }

// MembershipRole is the role a user holds inside one course.
type MembershipRole string

const (
	MembershipStudent     MembershipRole = "student"
	MembershipCourseAdmin MembershipRole = "course_admin"
)

func (r MembershipRole) Valid() bool {
	return r == MembershipStudent || r == MembershipCourseAdmin
}

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipSuspended MembershipStatus = "suspended"
)

func (s MembershipStatus) Valid() bool {
	return s == MembershipActive || s == MembershipSuspended
}
