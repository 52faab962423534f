package service

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/dom/blog-platform/internal/auth"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MsgAdminNotWhitelisted = "You are not authorized to be an admin"
	MsgEmailInUse          = "Email already in use"
	MsgBadCredentials      = "Incorrect email or password"
	MsgRefreshNotFound     = "Refresh token not found"
	MsgRefreshExpired      = "Refresh token expired, please login again"
	MsgRefreshInvalid      = "Invalid refresh token"
	MsgRefreshRevoked      = "Refresh token revoked, please login again"
)

const usernameAttempts = 3

type AuthService struct {
	users    repository.UserRepository
	sessions *SessionRegistry
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
	cfg      *config.Config
	log      logrus.FieldLogger
}

func NewAuthService(
	users repository.UserRepository,
	sessions *SessionRegistry,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	cfg *config.Config,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User             *domain.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	if role.IsAdmin() && !s.cfg.IsAdminWhitelisted(email) {
		s.log.WithField("email", email).Warn("User tried to register as an admin but is not in the whitelist")
		return nil, domain.NewAuthorizationError(MsgAdminNotWhitelisted)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewServerError("failed to check email", err)
	}
	if exists {
		return nil, emailInUse()
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domain.NewValidationError("Password is required", map[string]string{"password": "cannot be blank"})
	}

	var user *domain.User
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		user = &domain.User{
			ID:           uuid.New(),
			Username:     generateUsername(),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
		}
		err = s.users.Create(ctx, user)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		// Either the email was taken by a concurrent registration or the
		// generated username collided.
		if taken, _ := s.users.ExistsByEmail(ctx, email); taken {
			return nil, emailInUse()
		}
	}
	if err != nil {
		return nil, domain.NewServerError("failed to create user", err)
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"userId": user.ID, "username": user.Username, "role": user.Role}).
		Info("User registered successfully")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.WithField("email", email).Warn("Login attempt for unknown email")
			return nil, domain.NewAuthenticationError(MsgBadCredentials)
		}
		return nil, domain.NewServerError("failed to load user", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.log.WithField("userId", user.ID).Warn("Login attempt with wrong password")
		return nil, domain.NewAuthenticationError(MsgBadCredentials)
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.WithField("userId", user.ID).Info("User logged in successfully")
	return result, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.NewAuthenticationError(MsgRefreshNotFound)
	}

	userID, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			s.log.Warn("Expired refresh token presented")
			return "", domain.NewAuthenticationError(MsgRefreshExpired)
		}
		s.log.WithError(err).Warn("Invalid refresh token presented")
		return "", domain.NewAuthenticationError(MsgRefreshInvalid)
	}

	live, err := s.sessions.IsLive(ctx, refreshToken)
	if err != nil {
		return "", domain.NewServerError("failed to look up session", err)
	}
	if !live {
		s.log.WithField("userId", userID).Warn("Revoked refresh token presented")
		return "", domain.NewAuthenticationError(MsgRefreshRevoked)
	}

	accessToken, _, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", domain.NewServerError("failed to issue access token", err)
	}

	s.log.WithField("userId", userID).Info("Access token refreshed")
	return accessToken, nil
}

// Logout revokes the session behind refreshToken. An empty or unknown token
// is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.sessions.Revoke(ctx, refreshToken); err != nil {
			return domain.NewServerError("failed to revoke session", err)
		}
	}
	s.log.WithField("userId", userID).Info("User logged out successfully")
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, _, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, domain.NewServerError("failed to issue access token", err)
	}

	refreshToken, expiresAt, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, domain.NewServerError("failed to issue refresh token", err)
	}

	if err := s.sessions.Create(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return nil, domain.NewServerError("failed to store session", err)
	}

	return &AuthResult{
		User:             user,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: expiresAt,
	}, nil
}

func emailInUse() error {
	return domain.NewValidationError(MsgEmailInUse, map[string]string{"email": MsgEmailInUse})
}

func generateUsername() string {
	return "user-" + randomHex(4)
}

// randomHex returns n random bytes as hex, taken from a v4 uuid.
func randomHex(n int) string {
	id := uuid.New()
	return hex.EncodeToString(id[:n])
}
