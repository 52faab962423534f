package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MsgNotAuthenticated     = "User not authenticated"
	MsgUserNotFound         = "User not found"
	MsgInsufficientRole     = "Access denied, insufficient permissions"
	msgPermissionDeniedTmpl = "You do not have permission to %s this %s"
)

// AccessControl answers whether an identity may perform an operation. Roles
// are always read from the user store so a demotion takes effect on the next
// request, not when the access token expires.
type AccessControl struct {
	users repository.UserRepository
	log   logrus.FieldLogger
}

func NewAccessControl(users repository.UserRepository, log logrus.FieldLogger) *AccessControl {
	return &AccessControl{users: users, log: log}
}

// RequireRole loads the identity and checks its role against allowed.
func (a *AccessControl) RequireRole(ctx context.Context, userID uuid.UUID, allowed ...domain.Role) (*domain.User, error) {
	if userID == uuid.Nil {
		return nil, domain.NewAuthenticationError(MsgNotAuthenticated)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.log.WithField("userId", userID).Warn("Role check for unknown user")
			return nil, domain.NewAuthorizationError(MsgUserNotFound)
		}
		return nil, domain.NewServerError("failed to load user", err)
	}

	if !user.Role.In(allowed...) {
		a.log.WithFields(logrus.Fields{
			"userId":  userID,
			"role":    user.Role,
			"allowed": allowed,
		}).Warn("User tried to access a resource without permission")
		return nil, domain.NewAuthorizationError(MsgInsufficientRole)
	}

	return user, nil
}

// RoleOf returns the role used to shape read-only responses. Anonymous and
// unknown identities are treated as plain users.
func (a *AccessControl) RoleOf(ctx context.Context, userID uuid.UUID) domain.Role {
	if userID == uuid.Nil {
		return domain.RoleUser
	}
	role, err := a.users.GetRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.log.WithError(err).WithField("userId", userID).Error("Failed to load user role")
		}
		return domain.RoleUser
	}
	return role
}

// OwnerOrAdmin allows the resource's owner, or any admin, to perform action.
// A nil resource is reported as not found before ownership is considered.
func (a *AccessControl) OwnerOrAdmin(ctx context.Context, actorID uuid.UUID, resource domain.Owned, action string) error {
	if resource == nil {
		return domain.NewNotFoundError("Resource not found")
	}
	if actorID == uuid.Nil {
		return domain.NewAuthenticationError(MsgNotAuthenticated)
	}
	if resource.OwnerID() == actorID {
		return nil
	}

	role, err := a.users.GetRole(ctx, actorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.NewServerError("failed to load user role", err)
	}
	if role.IsAdmin() {
		return nil
	}

	a.log.WithFields(logrus.Fields{
		"userId":   actorID,
		"resource": resource.ResourceName(),
		"action":   action,
	}).Warn("User tried to modify a resource they do not own")
	return domain.NewAuthorizationError(fmt.Sprintf(msgPermissionDeniedTmpl, action, resource.ResourceName()))
}
