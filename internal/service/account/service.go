// Package account manages platform user accounts. All account operations
// are immediate, there is no delayed phase.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/service/activity"
)

// Service coordinates user accounts.
type Service struct {
	users    repository.UserRepository
	activity activity.Service
	logger   *slog.Logger
}

// New constructs an account service.
func New(users repository.UserRepository, activitySvc activity.Service, logger *slog.Logger) Service {
	return Service{users: users, activity: activitySvc, logger: logger}
}

// AddInput holds the parameters for a new account.
type AddInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (in *AddInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("invalid email %q", in.Email)
	}
	if !domain.ValidUserRole(in.Role) {
		return fmt.Errorf("invalid role %q", in.Role)
	}
	return nil
}

// Add creates an active account that has never logged in.
func (s Service) Add(ctx context.Context, in AddInput) (*domain.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:        "usr_" + uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    domain.UserStatusActive,
		LastLogin: "Never",
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Added new user: %s (%s)", user.Name, user.Role),
		Category: domain.CategoryUser,
		Details:  fmt.Sprintf("Added new user %s (%s) with %s role. User has been activated and email invitation has been sent.", user.Name, user.Email, user.Role),
		Links:    []domain.RelatedLink{{Label: "View User"}},
	})
	s.logger.Info("user added", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// SetStatus activates or deactivates an account.
func (s Service) SetStatus(ctx context.Context, userID, status string) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if status != domain.UserStatusActive && status != domain.UserStatusInactive {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("set status for %s: %w", userID, err)
	}
	user.Status = status
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("set status for %s: %w", userID, err)
	}

	verb := "Deactivated"
	if status == domain.UserStatusActive {
		verb = "Activated"
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("%s user: %s", verb, user.Name),
		Category: domain.CategoryUser,
		Details:  fmt.Sprintf("%s user %s (%s).", verb, user.Name, user.Email),
		Links:    []domain.RelatedLink{{Label: "View User"}},
	})
	return user, nil
}

// Delete permanently removes an account.
func (s Service) Delete(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id is required")
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Deleted user: %s", user.Name),
		Category: domain.CategoryUser,
		Details:  fmt.Sprintf("Permanently deleted user %s (%s).", user.Name, user.Email),
	})
	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// List returns all accounts.
func (s Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record user activity", "error", err)
	}
}
