package services

import (
	"context"
	"errors"
	"fmt"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
)

type RoleService struct {
	roles       *repositories.RoleRepository
	users       *repositories.UserRepository
	memberships *repositories.MembershipRepository
}

func NewRoleService(roles *repositories.RoleRepository, users *repositories.UserRepository, memberships *repositories.MembershipRepository) *RoleService {
	return &RoleService{roles: roles, users: users, memberships: memberships}
}

// Assign grants a role. The creator authority is never assignable, a
// course_admin grant needs a course scope, and the creator cannot be
// demoted to a plain user.
func (s *RoleService) Assign(ctx context.Context, actorID string, req dtos.AssignRoleRequest) (*gormModels.Role, error) {
	if req.RoleType == constants.RoleCreator {
		return nil, ErrCreatorNotAssignable
	}
	if !req.RoleType.Assignable() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.RoleType)
	}
	if req.RoleType == constants.RoleCourseAdmin && (req.Scope == nil || *req.Scope == "") {
		return nil, fmt.Errorf("%w: course_admin requires a course scope", ErrInvalidInput)
	}

	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.IsCreator && req.RoleType == constants.RoleUser {
		return nil, ErrCannotDemoteCreator
	}

	scope := req.Scope
	if req.RoleType != constants.RoleCourseAdmin {
		scope = nil
	}
	has, err := s.roles.HasRole(ctx, target.ID, req.RoleType, scope)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, fmt.Errorf("%w: role already assigned", ErrInvalidInput)
	}

	role := &gormModels.Role{
		UserID:     target.ID,
		RoleType:   req.RoleType,
		Scope:      scope,
		AssignedBy: &actorID,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Revoke removes a role grant. It never touches users.is_creator.
func (s *RoleService) Revoke(ctx context.Context, roleID string) error {
	if err := s.roles.Delete(ctx, roleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *RoleService) GetUserRoles(ctx context.Context, userID string) ([]gormModels.Role, error) {
	return s.roles.GetUserRoles(ctx, userID)
}

func (s *RoleService) HasAnyRole(claims auth.UserClaims, kinds ...constants.RoleKind) bool {
	if claims == nil {
		return false
	}
	for _, k := range kinds {
		if claims.HasRole(k, "") {
			return true
		}
	}
	return false
}

// IsCourseAdmin covers platform admins, scoped course_admin grants and
// course_admin memberships.
func (s *RoleService) IsCourseAdmin(ctx context.Context, claims auth.UserClaims, courseID string) (bool, error) {
	if claims == nil {
		return false, nil
	}
	if auth.IsPlatformAdmin(claims) || claims.HasRole(constants.RoleCourseAdmin, courseID) {
		return true, nil
	}

	m, err := s.memberships.Get(ctx, claims.UserID(), courseID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Status == constants.MembershipActive && m.Role == constants.MembershipCourseAdmin, nil
}

// CanAccessCourse is true for platform admins, admins of the course and
// active members.
func (s *RoleService) CanAccessCourse(ctx context.Context, claims auth.UserClaims, courseID string) (bool, error) {
	if claims == nil {
		return false, nil
	}
	if auth.IsPlatformAdmin(claims) || claims.HasRole(constants.RoleCourseAdmin, courseID) {
		return true, nil
	}

	m, err := s.memberships.Get(ctx, claims.UserID(), courseID)
	if err != nil {
		return false, err
	}
	return m != nil && m.Status == constants.MembershipActive, nil
}
