package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/tenancy"
)

// HandleInvalidator drops a cached course database handle.
type HandleInvalidator interface {
	Invalidate(courseID string)
}

// LeaderboardInvalidator drops cached leaderboards after membership changes.
type LeaderboardInvalidator interface {
	InvalidateLeaderboard()
}

type CourseService struct {
	courses      *repositories.CourseRepository
	memberships  *repositories.MembershipRepository
	users        *repositories.UserRepository
	credentials  *repositories.CredentialsRepo
	sealer       *common.Sealer
	handles      HandleInvalidator
	leaderboards LeaderboardInvalidator
}

func NewCourseService(
	courses *repositories.CourseRepository,
	memberships *repositories.MembershipRepository,
	users *repositories.UserRepository,
	credentials *repositories.CredentialsRepo,
	sealer *common.Sealer,
	handles HandleInvalidator,
	leaderboards LeaderboardInvalidator,
) *CourseService {
	return &CourseService{
		courses:      courses,
		memberships:  memberships,
		users:        users,
		credentials:  credentials,
		sealer:       sealer,
		handles:      handles,
		leaderboards: leaderboards,
	}
}

// CreateCourse stores the course and, when given, its database credentials
// in one registry transaction. A course without credentials is valid; its
// content reads come back empty until credentials are set.
func (s *CourseService) CreateCourse(ctx context.Context, actorID string, req dtos.CreateCourseRequest) (*gormModels.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: course name is required", ErrInvalidInput)
	}

	course := &gormModels.Course{
		Name:        name,
		Description: req.Description,
		Lecturer:    req.Lecturer,
		CourseRep:   req.CourseRep,
		IsActive:    true,
		CreatedBy:   actorID,
	}

	var creds *gormModels.CourseCredentials
	if req.EndpointURL != "" || req.ServiceKey != "" {
		if req.EndpointURL == "" || req.ServiceKey == "" {
			return nil, fmt.Errorf("%w: endpointUrl and serviceKey must be set together", ErrInvalidInput)
		}
		sealed, err := s.sealer.Seal(req.ServiceKey)
		if err != nil {
			return nil, err
		}
		creds = &gormModels.CourseCredentials{
			EndpointURL: req.EndpointURL,
			PublicKey:   req.PublicKey,
			ServiceKey:  sealed,
		}
	}

	if err := s.courses.CreateWithCredentials(ctx, course, creds); err != nil {
		return nil, err
	}
	logging.Info("Course created", "course_id", course.ID, "has_credentials", creds != nil)
	return course, nil
}

// RotateCredentials replaces a course's credentials and drops its cached
// handle so the next request connects with the new ones.
func (s *CourseService) RotateCredentials(ctx context.Context, courseID string, req dtos.RotateCredentialsRequest) error {
	if req.EndpointURL == "" || req.ServiceKey == "" {
		return fmt.Errorf("%w: endpointUrl and serviceKey are required", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}

	err := s.credentials.Put(ctx, tenancy.Credentials{
		CourseID:   courseID,
		Endpoint:   req.EndpointURL,
		PublicKey:  req.PublicKey,
		ServiceKey: req.ServiceKey,
	})
	if err != nil {
		return err
	}

	s.handles.Invalidate(courseID)
	logging.Info("Course credentials rotated", "course_id", courseID)
	return nil
}

func (s *CourseService) Get(ctx context.Context, courseID string) (*gormModels.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

// ListForUser returns every active course to platform admins and the
// enrolled active courses to everyone else.
func (s *CourseService) ListForUser(ctx context.Context, claims auth.UserClaims) ([]dtos.CourseSummary, error) {
	var courses []gormModels.Course

	if auth.IsPlatformAdmin(claims) {
		all, err := s.courses.List(ctx, true)
		if err != nil {
			return nil, err
		}
		courses = all
	} else {
		memberships, err := s.memberships.GetActiveByUser(ctx, claims.UserID())
		if err != nil {
			return nil, err
		}
		for _, m := range memberships {
			courses = append(courses, m.Course)
		}
	}

	out := make([]dtos.CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseSummary(c))
	}
	return out, nil
}

func (s *CourseService) ListAll(ctx context.Context) ([]gormModels.Course, error) {
	return s.courses.List(ctx, false)
}

func (s *CourseService) Update(ctx context.Context, courseID string, req dtos.UpdateCourseRequest) (*gormModels.Course, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: course name is required", ErrInvalidInput)
		}
		course.Name = name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Lecturer != nil {
		course.Lecturer = req.Lecturer
	}
	if req.CourseRep != nil {
		course.CourseRep = req.CourseRep
	}
	activeChanged := req.IsActive != nil && *req.IsActive != course.IsActive
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	if activeChanged {
		s.invalidateLeaderboards()
	}
	return course, nil
}

// SetActive archives or restores a course.
func (s *CourseService) SetActive(ctx context.Context, courseID string, active bool) error {
	if err := s.courses.SetActive(ctx, courseID, active); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateLeaderboards()
	return nil
}

func (s *CourseService) AddMember(ctx context.Context, courseID string, req dtos.AddMemberRequest) (*gormModels.CourseMembership, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	role := req.Role
	if role == "" {
		role = constants.MembershipStudent
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown membership role %q", ErrInvalidInput, role)
	}

	existing, err := s.memberships.Get(ctx, req.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member", ErrInvalidInput)
	}

	m := &gormModels.CourseMembership{UserID: req.UserID, CourseID: courseID, Role: role}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	s.invalidateLeaderboards()
	return m, nil
}

func (s *CourseService) UpdateMember(ctx context.Context, courseID, userID string, req dtos.UpdateMemberRequest) (*gormModels.CourseMembership, error) {
	m, err := s.memberships.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown membership role %q", ErrInvalidInput, *req.Role)
		}
		m.Role = *req.Role
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown membership status %q", ErrInvalidInput, *req.Status)
		}
		m.Status = *req.Status
	}

	if err := s.memberships.Update(ctx, m); err != nil {
		return nil, err
	}
	s.invalidateLeaderboards()
	return m, nil
}

func (s *CourseService) RemoveMember(ctx context.Context, courseID, userID string) error {
	if err := s.memberships.Delete(ctx, userID, courseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateLeaderboards()
	return nil
}

func (s *CourseService) ListMembers(ctx context.Context, courseID string) ([]gormModels.CourseMembership, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	return s.memberships.GetByCourse(ctx, courseID)
}

func (s *CourseService) invalidateLeaderboards() {
	if s.leaderboards != nil {
		s.leaderboards.InvalidateLeaderboard()
	}
}

func toCourseSummary(c gormModels.Course) dtos.CourseSummary {
	return dtos.CourseSummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Lecturer:    c.Lecturer,
		CourseRep:   c.CourseRep,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}
