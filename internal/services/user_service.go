package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"github.com/google/uuid"
)

const maxUsernameLength = 50

type UserService struct {
	users *repositories.UserRepository
	roles *repositories.RoleRepository
}

func NewUserService(users *repositories.UserRepository, roles *repositories.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// EnsureUser returns the registry user of a verified principal, creating it
// with the default user role on first login. Banned users get ErrBanned.
func (s *UserService) EnsureUser(ctx context.Context, p *auth.Principal) (*gormModels.User, error) {
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		username, err := s.availableUsername(ctx, p.UsernameHint)
		if err != nil {
			return nil, err
		}
		user = &gormModels.User{ID: p.ID, Username: username, Email: p.Email}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		if err := s.roles.Create(ctx, &gormModels.Role{UserID: user.ID, RoleType: constants.RoleUser}); err != nil {
			return nil, err
		}
		logging.Info("Registered new user", "user_id", user.ID, "username", user.Username)
	}

	if user.IsBanned {
		return nil, ErrBanned
	}
	return user, nil
}

// availableUsername appends a short suffix when the hint is taken.
func (s *UserService) availableUsername(ctx context.Context, hint string) (string, error) {
	base := strings.TrimSpace(hint)
	if base == "" {
		base = "user"
	}
	if len(base) > maxUsernameLength-9 {
		base = base[:maxUsernameLength-9]
	}

	candidate := base
	for i := 0; i < 5; i++ {
		existing, err := s.users.GetByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = base + "_" + uuid.NewString()[:8]
	}
	return "", fmt.Errorf("could not find a free username for %q", base)
}

// BuildClaims loads the role grants of a user into request claims.
func (s *UserService) BuildClaims(ctx context.Context, user *gormModels.User) (*auth.SessionClaims, error) {
	roles, err := s.roles.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	grants := make([]auth.RoleGrant, 0, len(roles))
	for _, r := range roles {
		grants = append(grants, auth.RoleGrant{Kind: r.RoleType, Scope: r.Scope})
	}
	return &auth.SessionClaims{
		UserUUID:      user.ID,
		EmailValue:    user.Email,
		UsernameValue: user.Username,
		Creator:       user.IsCreator,
		Grants:        grants,
	}, nil
}

func (s *UserService) GetMe(ctx context.Context, claims auth.UserClaims) (*dtos.MeResponse, error) {
	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return &dtos.MeResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsCreator: user.IsCreator,
		Roles:     claims.Roles(),
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req dtos.UpdateProfileRequest) (*gormModels.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" || len(name) > maxUsernameLength {
			return nil, fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, maxUsernameLength)
		}
		if name != user.Username {
			taken, err := s.users.GetByUsername(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, fmt.Errorf("%w: username already taken", ErrInvalidInput)
			}
			user.Username = name
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]gormModels.User, error) {
	return s.users.ListAll(ctx)
}

// SetBanned bans or unbans a user. The creator cannot be banned.
func (s *UserService) SetBanned(ctx context.Context, userID string, banned bool) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if banned && user.IsCreator {
		return fmt.Errorf("%w: the creator cannot be banned", ErrForbidden)
	}

	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	logging.Info("User ban status changed", "user_id", userID, "banned", banned)
	return nil
}
