package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/blog-platform/internal/auth"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const MsgUsernameInUse = "Username already in use"

type UserService struct {
	users    repository.UserRepository
	sessions *SessionRegistry
	hasher   *auth.PasswordHasher
	log      logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, sessions *SessionRegistry, hasher *auth.PasswordHasher, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, sessions: sessions, hasher: hasher, log: log}
}

// UpdateUserInput holds the optional profile changes. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Username    *string
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	SocialLinks *domain.SocialLinks
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgUserNotFound)
		}
		return nil, domain.NewServerError("failed to load user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, domain.NewServerError("failed to count users", err)
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, domain.NewServerError("failed to list users", err)
	}
	return users, total, nil
}

// UpdateCurrent applies profile changes for the calling user. A password
// change ends every existing session of that user.
func (s *UserService) UpdateCurrent(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if err := s.ensureFree(ctx, userID, "username", *input.Username); err != nil {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if err := s.ensureFree(ctx, userID, "email", email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.SocialLinks != nil {
		user.SocialLinks = datatypes.NewJSONType(*input.SocialLinks)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewValidationError("Username or email already in use", nil)
		}
		return nil, domain.NewServerError("failed to update user", err)
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, domain.NewValidationError("Password is required", map[string]string{"password": "cannot be blank"})
		}
		if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
			return nil, domain.NewServerError("failed to update password", err)
		}
		if _, err := s.sessions.RevokeAll(ctx, userID); err != nil {
			return nil, domain.NewServerError("failed to revoke sessions", err)
		}
		user.PasswordHash = hash
	}

	s.log.WithField("userId", userID).Info("User updated successfully")
	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, userID uuid.UUID, field, value string) error {
	var (
		other *domain.User
		err   error
	)
	switch field {
	case "username":
		other, err = s.users.GetByUsername(ctx, value)
	default:
		other, err = s.users.GetByEmail(ctx, value)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domain.NewServerError("failed to check "+field, err)
	}
	if other.ID == userID {
		return nil
	}

	msg := MsgEmailInUse
	if field == "username" {
		msg = MsgUsernameInUse
	}
	return domain.NewValidationError(msg, map[string]string{field: msg})
}
