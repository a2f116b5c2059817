package services

import (
	"context"
	"errors"
	"testing"

	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/dtos"
)

func TestRoleService_AssignRules(t *testing.T) {
	e := newTestEnv(t)
	e.addUser("root", "root", true)
	e.addUser("u-1", "ada", false)
	scope := "course-1"

	tests := []struct {
		name string
		req  dtos.AssignRoleRequest
		want error
	}{
		{"creator is never assignable", dtos.AssignRoleRequest{UserID: "u-1", RoleType: constants.RoleCreator}, ErrCreatorNotAssignable},
		{"unknown role", dtos.AssignRoleRequest{UserID: "u-1", RoleType: "wizard"}, ErrInvalidInput},
		{"course admin needs scope", dtos.AssignRoleRequest{UserID: "u-1", RoleType: constants.RoleCourseAdmin}, ErrInvalidInput},
		{"missing user", dtos.AssignRoleRequest{UserID: "ghost", RoleType: constants.RoleTopAdmin}, ErrNotFound},
		{"creator cannot be demoted", dtos.AssignRoleRequest{UserID: "root", RoleType: constants.RoleUser}, ErrCannotDemoteCreator},
		{"scoped course admin", dtos.AssignRoleRequest{UserID: "u-1", RoleType: constants.RoleCourseAdmin, Scope: &scope}, nil},
		{"duplicate grant", dtos.AssignRoleRequest{UserID: "u-1", RoleType: constants.RoleCourseAdmin, Scope: &scope}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.roleSvc.Assign(context.Background(), "root", tt.req)
			if tt.want == nil && err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRoleService_RevokeKeepsCreatorFlag(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("root", "root", true)

	role, err := e.roleSvc.Assign(ctx, "root", dtos.AssignRoleRequest{UserID: "root", RoleType: constants.RoleTopAdmin})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := e.roleSvc.Revoke(ctx, role.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := e.roleSvc.Revoke(ctx, role.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second revoke, got %v", err)
	}

	user, _ := e.users.GetByID(ctx, "root")
	if !user.IsCreator {
		t.Error("Expected creator flag to survive role revocation")
	}
}

func TestRoleService_CourseAccess(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addUser("root", "root", true)
	e.addUser("student", "student", false)
	e.addUser("ta", "ta", false)
	e.addUser("outsider", "outsider", false)
	course := e.addCourse("alpha")
	e.enroll("student", course.ID, constants.MembershipStudent)
	e.enroll("ta", course.ID, constants.MembershipCourseAdmin)

	tests := []struct {
		user       string
		wantAccess bool
		wantAdmin  bool
	}{
		{"root", true, true},
		{"student", true, false},
		{"ta", true, true},
		{"outsider", false, false},
	}
	for _, tt := range tests {
		claims := e.claims(tt.user)
		access, err := e.roleSvc.CanAccessCourse(ctx, claims, course.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		admin, err := e.roleSvc.IsCourseAdmin(ctx, claims, course.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if access != tt.wantAccess || admin != tt.wantAdmin {
			t.Errorf("%s: expected access=%v admin=%v, got access=%v admin=%v",
				tt.user, tt.wantAccess, tt.wantAdmin, access, admin)
		}
	}

	suspended := constants.MembershipSuspended
	if _, err := e.courseSvc.UpdateMember(ctx, course.ID, "student", dtos.UpdateMemberRequest{Status: &suspended}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	access, _ := e.roleSvc.CanAccessCourse(ctx, e.claims("student"), course.ID)
	if access {
		t.Error("Expected suspended member to lose access")
	}
}
