package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/dtos"
)

func TestUserService_EnsureUser_CreatesOnFirstLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	p := &auth.Principal{ID: "u-1", Email: "ada@example.com", UsernameHint: "ada"}

	user, err := e.userSvc.EnsureUser(ctx, p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username != "ada" || user.Email != "ada@example.com" {
		t.Errorf("Unexpected user: %+v", user)
	}

	roles, _ := e.roles.GetUserRoles(ctx, "u-1")
	if len(roles) != 1 || roles[0].RoleType != constants.RoleUser {
		t.Errorf("Expected a single default user role, got %+v", roles)
	}

	again, err := e.userSvc.EnsureUser(ctx, p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Expected the same user, got %s", again.ID)
	}
	roles, _ = e.roles.GetUserRoles(ctx, "u-1")
	if len(roles) != 1 {
		t.Errorf("Expected no extra role on second login, got %d", len(roles))
	}
}

func TestUserService_EnsureUser_UsernameCollision(t *testing.T) {
	e := newTestEnv(t)
	e.addUser("u-1", "ada", false)

	user, err := e.userSvc.EnsureUser(context.Background(), &auth.Principal{ID: "u-2", Email: "other@example.com", UsernameHint: "ada"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username == "ada" || !strings.HasPrefix(user.Username, "ada_") {
		t.Errorf("Expected a suffixed username, got %s", user.Username)
	}
}

func TestUserService_EnsureUser_Banned(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("u-1", "ada", false)
	if err := e.userSvc.SetBanned(ctx, "u-1", true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := e.userSvc.EnsureUser(ctx, &auth.Principal{ID: "u-1", Email: "ada@example.com"})
	if !errors.Is(err, ErrBanned) {
		t.Errorf("Expected ErrBanned, got %v", err)
	}
}

func TestUserService_SetBanned_CreatorIsProtected(t *testing.T) {
	e := newTestEnv(t)
	e.addUser("root", "root", true)

	err := e.userSvc.SetBanned(context.Background(), "root", true)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := e.userSvc.SetBanned(context.Background(), "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserService_BuildClaimsAndMe(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("root", "root", true)
	scope := "course-1"
	_, err := e.roleSvc.Assign(ctx, "root", dtos.AssignRoleRequest{UserID: "root", RoleType: constants.RoleCourseAdmin, Scope: &scope})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims := e.claims("root")
	if !claims.IsCreator() || !claims.HasRole(constants.RoleCourseAdmin, "course-1") {
		t.Errorf("Unexpected claims: %+v", claims)
	}

	me, err := e.userSvc.GetMe(ctx, claims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(me.Roles) != 2 || me.Roles[0] != constants.RoleCreator {
		t.Errorf("Expected creator first in roles, got %v", me.Roles)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("u-1", "ada", false)
	e.addUser("u-2", "grace", false)

	taken := "grace"
	if _, err := e.userSvc.UpdateProfile(ctx, "u-1", dtos.UpdateProfileRequest{Username: &taken}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a taken username, got %v", err)
	}

	name := "lovelace"
	user, err := e.userSvc.UpdateProfile(ctx, "u-1", dtos.UpdateProfileRequest{Username: &name})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username != "lovelace" {
		t.Errorf("Expected lovelace, got %s", user.Username)
	}
}
