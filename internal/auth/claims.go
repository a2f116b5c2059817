package auth

import "infinite-experiment/coursehub/internal/constants"

// UserClaims is what handlers know about the caller once authentication
// middleware has run.
type UserClaims interface {
	UserID() string
	Email() string
	Username() string
	Source() string
	IsCreator() bool
	Roles() []constants.RoleKind
	HasRole(kind constants.RoleKind, scope string) bool
}

// RoleGrant is one role row; Scope is the course for course_admin.
type RoleGrant struct {
	Kind  constants.RoleKind
	Scope *string
}

// SessionClaims are built from a verified bearer token and the registry user.
type SessionClaims struct {
	UserUUID      string
	EmailValue    string
	UsernameValue string
	Creator       bool
	Grants        []RoleGrant
}

func (c *SessionClaims) UserID() string   { return c.UserUUID }
func (c *SessionClaims) Email() string    { return c.EmailValue }
func (c *SessionClaims) Username() string { return c.UsernameValue }
func (c *SessionClaims) Source() string   { return "JWT" }
func (c *SessionClaims) IsCreator() bool  { return c.Creator }

// Roles lists the distinct kinds held, with creator first when set.
func (c *SessionClaims) Roles() []constants.RoleKind {
	seen := map[constants.RoleKind]bool{}
	var kinds []constants.RoleKind
	if c.Creator {
		kinds = append(kinds, constants.RoleCreator)
		seen[constants.RoleCreator] = true
	}
	for _, g := range c.Grants {
		if !seen[g.Kind] {
			seen[g.Kind] = true
			kinds = append(kinds, g.Kind)
		}
	}
	return kinds
}

// HasRole checks for a grant of kind. An empty scope matches any grant of
// that kind; otherwise the grant must be unscoped or scoped to it.
func (c *SessionClaims) HasRole(kind constants.RoleKind, scope string) bool {
	if kind == constants.RoleCreator {
		return c.Creator
	}
	for _, g := range c.Grants {
		if g.Kind != kind {
			continue
		}
		if scope == "" || g.Scope == nil || *g.Scope == scope {
			return true
		}
	}
	return false
}

// IsPlatformAdmin is true for the creator and top admins.
func IsPlatformAdmin(c UserClaims) bool {
	return c != nil && (c.IsCreator() || c.HasRole(constants.RoleTopAdmin, ""))
}
