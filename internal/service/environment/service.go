// Package environment provisions and retires hosted Drupal environments.
// Provisioning is simulated: a created environment initializes for a fixed
// delay before the platform marks it healthy.
package environment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
)

// Service coordinates environment lifecycle operations.
type Service struct {
	envs      repository.EnvironmentRepository
	activity  activity.Service
	sched     scheduler.Scheduler
	logger    *slog.Logger
	initDelay time.Duration

	mu      sync.Mutex
	pending map[string]scheduler.Handle
}

// New constructs an environment service.
func New(envs repository.EnvironmentRepository, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, initDelay time.Duration) *Service {
	return &Service{
		envs:      envs,
		activity:  activitySvc,
		sched:     sched,
		logger:    logger,
		initDelay: initDelay,
		pending:   make(map[string]scheduler.Handle),
	}
}

// CreateInput captures attributes for a new environment.
type CreateInput struct {
	Site              string `json:"site"`
	EnvironmentType   string `json:"type"`
	DrupalVersion     string `json:"drupal_version"`
	CreationMethod    string `json:"creation_method,omitempty"`
	SourceEnvironment string `json:"source_environment,omitempty"`
}

func (in *CreateInput) validate() error {
	in.Site = strings.TrimSpace(in.Site)
	in.EnvironmentType = strings.TrimSpace(in.EnvironmentType)
	in.DrupalVersion = strings.TrimSpace(in.DrupalVersion)
	if in.Site == "" {
		return errors.New("site is required")
	}
	if !domain.ValidEnvironmentType(in.EnvironmentType) {
		return fmt.Errorf("unknown environment type %q", in.EnvironmentType)
	}
	if in.DrupalVersion == "" {
		return errors.New("drupal_version is required")
	}
	return nil
}

// Create registers a new environment in the initializing state and schedules
// the transition to healthy.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Environment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	name := in.Site + "-" + in.EnvironmentType
	env := &domain.Environment{
		Name:          name,
		Status:        domain.EnvStatusInitializing,
		Type:          in.EnvironmentType,
		URL:           fmt.Sprintf("https://%s.example.com", name),
		LastDeployed:  "Just now",
		DrupalVersion: in.DrupalVersion,
	}
	if err := s.envs.CreateEnvironment(ctx, env); err != nil {
		return nil, fmt.Errorf("create environment %s: %w", name, err)
	}

	provenance := "Created as blank environment."
	if in.CreationMethod == "clone" {
		provenance = fmt.Sprintf("Cloned from %s.", in.SourceEnvironment)
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Created new environment %s with Drupal %s", name, in.DrupalVersion),
		Category: domain.CategoryEnvironment,
		Details:  fmt.Sprintf("Created new %s environment for %s with Drupal %s. %s", in.EnvironmentType, in.Site, in.DrupalVersion, provenance),
		Links:    []domain.RelatedLink{{Label: "View Environment"}},
	})

	handle := s.sched.After(s.initDelay, func() {
		s.finishInit(name)
	})
	s.track(name, handle)
	s.logger.Info("environment initializing", "environment", name, "type", in.EnvironmentType)
	return env, nil
}

// finishInit marks an environment healthy once initialization elapses.
func (s *Service) finishInit(name string) {
	ctx := context.Background()
	s.untrack(name)
	env, err := s.envs.GetEnvironmentByName(ctx, name)
	if err != nil {
		// Deleted before the timer fired and the cancel raced it; there is
		// no record left to resurrect.
		s.logger.Warn("environment vanished before initialization finished", "environment", name, "error", err)
		return
	}
	env.Status = domain.EnvStatusHealthy
	if err := s.envs.UpdateEnvironment(ctx, env); err != nil {
		s.logger.Warn("environment status update failed", "environment", name, "error", err)
		return
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Environment %s is now ready", name),
		Category: domain.CategoryEnvironment,
		Actor:    activity.SystemActor,
		Details:  fmt.Sprintf("Environment %s has been successfully initialized and is now ready for use.", name),
		Links:    []domain.RelatedLink{{Label: "View Environment"}},
	})
	s.logger.Info("environment ready", "environment", name)
}

// Delete removes an environment immediately. A pending initialization
// transition is cancelled so the deleted record is never mutated later.
func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("environment name is required")
	}
	s.cancelPending(name)
	if err := s.envs.DeleteEnvironment(ctx, name); err != nil {
		return fmt.Errorf("delete environment %s: %w", name, err)
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Deleted environment %s", name),
		Category: domain.CategoryEnvironment,
		Details:  fmt.Sprintf("Permanently deleted environment %s and all associated data, including database, files, and configuration.", name),
	})
	s.logger.Info("environment deleted", "environment", name)
	return nil
}

// List returns the current environment snapshot.
func (s *Service) List(ctx context.Context) ([]domain.Environment, error) {
	return s.envs.ListEnvironments(ctx)
}

func (s *Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record environment activity", "error", err)
	}
}

func (s *Service) track(name string, h scheduler.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[name] = h
}

func (s *Service) untrack(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, name)
}

func (s *Service) cancelPending(name string) {
	s.mu.Lock()
	h, ok := s.pending[name]
	delete(s.pending, name)
	s.mu.Unlock()
	if ok {
		h.Cancel()
	}
}
