package service

import (
	"context"
	"fmt"
	"strings"

	"landivo/internal/apperr"
	"landivo/internal/logging"
	"landivo/internal/model"
	"landivo/internal/repository"
)

type UserService struct {
	Users      *repository.UserRepository
	Properties *repository.PropertyRepository
	log        logging.Logger
}

func NewUserService(ur *repository.UserRepository, pr *repository.PropertyRepository, log logging.Logger) *UserService {
	return &UserService{Users: ur, Properties: pr, log: log}
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	users, err := s.Users.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("User ID is required")
	}
	u, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "An error occurred while fetching the user")
	}
	return u, nil
}

// PropertiesCount returns how many properties the user owns.
func (s *UserService) PropertiesCount(ctx context.Context, id string) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.Properties.CountByOwner(ctx, id)
	if err != nil {
		return 0, apperr.Internal("An error occurred while counting properties", err)
	}
	return n, nil
}

// SetStatus enables or disables a user. A user still owning properties
// cannot be disabled until they are reassigned.
func (s *UserService) SetStatus(ctx context.Context, id string, active bool) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active {
		n, err := s.Properties.CountByOwner(ctx, id)
		if err != nil {
			return nil, apperr.Internal("An error occurred while updating user status", err)
		}
		if n > 0 {
			return nil, apperr.Conflict(fmt.Sprintf("User owns %d properties. Reassign them before disabling the user.", n), nil)
		}
	}
	if err := s.Users.SetActive(ctx, id, active); err != nil {
		return nil, notFoundOr(err, "User not found", "An error occurred while updating user status")
	}
	u.IsActive = active
	s.log.Info("user status changed", "user", id, "active", active)
	return u, nil
}

// ReassignProperties moves every property of from to the active user to
// and returns how many moved.
func (s *UserService) ReassignProperties(ctx context.Context, from, to string) (int64, error) {
	if strings.TrimSpace(to) == "" {
		return 0, apperr.Validation("Target user ID is required")
	}
	if from == to {
		return 0, apperr.Validation("Cannot reassign properties to the same user")
	}
	if _, err := s.Get(ctx, from); err != nil {
		return 0, err
	}
	target, err := s.Users.Get(ctx, to)
	if err != nil {
		return 0, notFoundOr(err, "Target user not found", "An error occurred while reassigning properties")
	}
	if !target.IsActive {
		return 0, apperr.Validation("Target user is not active")
	}
	n, err := s.Properties.Reassign(ctx, from, to)
	if err != nil {
		return 0, apperr.Internal("An error occurred while reassigning properties", err)
	}
	s.log.Info("properties reassigned", "from", from, "to", to, "count", n)
	return n, nil
}
