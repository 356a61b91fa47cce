// Package deploy handles code pushes to environments. A deployment starts
// in progress and settles to success after the configured delay, stamping
// the target environment and disabling any cache families the deploy
// opted out of.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
	"github.com/sitegrid/console/internal/service/cache"
)

// Service coordinates deployments.
type Service struct {
	deployments repository.DeploymentRepository
	envs        repository.EnvironmentRepository
	caches      cache.Service
	activity    activity.Service
	sched       scheduler.Scheduler
	logger      *slog.Logger
	delay       time.Duration
}

// New constructs a deployment service.
func New(deployments repository.DeploymentRepository, envs repository.EnvironmentRepository, caches cache.Service, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, delay time.Duration) Service {
	return Service{
		deployments: deployments,
		envs:        envs,
		caches:      caches,
		activity:    activitySvc,
		sched:       sched,
		logger:      logger,
		delay:       delay,
	}
}

// CreateInput holds the parameters for a new deployment. CacheOptions uses
// false to mean "disable that cache family when the deploy lands"; a nil
// CacheOptions keeps every family enabled.
type CreateInput struct {
	Environment  string               `json:"environment"`
	Branch       string               `json:"branch"`
	Commit       string               `json:"commit"`
	CacheOptions *domain.CacheOptions `json:"cache_options"`
}

func (in *CreateInput) validate() error {
	in.Environment = strings.TrimSpace(in.Environment)
	in.Branch = strings.TrimSpace(in.Branch)
	in.Commit = strings.TrimSpace(in.Commit)
	if in.Environment == "" {
		return errors.New("environment is required")
	}
	if in.Branch == "" {
		return errors.New("branch is required")
	}
	if in.Commit == "" {
		return errors.New("commit is required")
	}
	return nil
}

// Create records a new deployment in progress and schedules its completion.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.Deployment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.envs.GetEnvironmentByName(ctx, in.Environment); err != nil {
		return nil, fmt.Errorf("deploy to %s: %w", in.Environment, err)
	}

	opts := in.CacheOptions
	if opts == nil {
		opts = &domain.CacheOptions{DrupalCache: true, CDNCache: true, RedisCache: true}
	}
	dep := &domain.Deployment{
		ID:           "dep_" + uuid.NewString(),
		Environment:  in.Environment,
		Branch:       in.Branch,
		Commit:       shortCommit(in.Commit),
		DeployedBy:   activity.DefaultActor,
		DeployedAt:   "Just now",
		Status:       domain.DeployStatusInProgress,
		CacheOptions: opts,
	}
	if err := s.deployments.CreateDeployment(ctx, dep); err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Started deployment to %s from branch %s", dep.Environment, dep.Branch),
		Category: domain.CategoryDeployment,
		Details:  fmt.Sprintf("Deploying commit %s from branch %s to %s. Deployment includes cache configuration settings.", dep.Commit, dep.Branch, dep.Environment),
		Links:    []domain.RelatedLink{{Label: "View Deployment"}},
	})
	s.logger.Info("deployment started",
		"deployment_id", dep.ID,
		"environment", dep.Environment,
		"branch", dep.Branch,
	)

	id := dep.ID
	s.sched.After(s.delay, func() {
		s.finish(id)
	})
	return dep, nil
}

// finish settles the deployment to success, stamps the environment's last
// deploy time, and applies the deploy's cache options.
func (s Service) finish(id string) {
	ctx := context.Background()
	dep, err := s.deployments.GetDeploymentByID(ctx, id)
	if err != nil {
		s.logger.Warn("deployment vanished before completion", "deployment_id", id, "error", err)
		return
	}
	dep.Status = domain.DeployStatusSuccess
	if err := s.deployments.UpdateDeployment(ctx, dep); err != nil {
		s.logger.Warn("deployment update failed", "deployment_id", id, "error", err)
		return
	}

	if env, err := s.envs.GetEnvironmentByName(ctx, dep.Environment); err == nil {
		env.LastDeployed = "Just now"
		if err := s.envs.UpdateEnvironment(ctx, env); err != nil {
			s.logger.Warn("environment stamp failed", "environment", dep.Environment, "error", err)
		}
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Successfully deployed to %s from branch %s", dep.Environment, dep.Branch),
		Category: domain.CategoryDeployment,
		Details:  fmt.Sprintf("Successfully deployed commit %s to %s. All post-deployment tests passed successfully.", dep.Commit, dep.Environment),
		Links: []domain.RelatedLink{
			{Label: "View Deployment"},
			{Label: "View Site"},
		},
	})

	if opts := dep.CacheOptions; opts != nil {
		if !opts.DrupalCache {
			s.disableFamily(ctx, domain.CacheTypeDrupal, dep.Environment)
		}
		if !opts.CDNCache {
			s.disableFamily(ctx, domain.CacheTypeCDN, dep.Environment)
		}
		if !opts.RedisCache {
			s.disableFamily(ctx, domain.CacheTypeRedis, dep.Environment)
		}
	}
	s.logger.Info("deployment finished", "deployment_id", id, "environment", dep.Environment)
}

func (s Service) disableFamily(ctx context.Context, family, environment string) {
	if err := s.caches.DisableFamily(ctx, family, environment); err != nil {
		s.logger.Warn("cache family disable failed", "family", family, "error", err)
	}
}

// List returns the deployment history, newest first.
func (s Service) List(ctx context.Context) ([]domain.Deployment, error) {
	return s.deployments.ListDeployments(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record deployment activity", "error", err)
	}
}

// shortCommit truncates a commit hash to the seven characters shown in the
// console.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
