// Package update manages Drupal core and module updates: discovery scans,
// applying an update (with core-version propagation to environments), and
// scheduling for the next maintenance window.
package update

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
)

// Service coordinates updates.
type Service struct {
	updates    repository.UpdateRepository
	envs       repository.EnvironmentRepository
	activity   activity.Service
	sched      scheduler.Scheduler
	logger     *slog.Logger
	checkDelay time.Duration
	applyDelay time.Duration
}

// New constructs an update service.
func New(updates repository.UpdateRepository, envs repository.EnvironmentRepository, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, checkDelay, applyDelay time.Duration) Service {
	return Service{
		updates:    updates,
		envs:       envs,
		activity:   activitySvc,
		sched:      sched,
		logger:     logger,
		checkDelay: checkDelay,
		applyDelay: applyDelay,
	}
}

// Check starts a discovery scan. The scan completes after the configured
// delay and registers any newly found update.
func (s Service) Check(ctx context.Context) error {
	s.record(ctx, activity.Entry{
		Action:   "Started checking for Drupal updates",
		Category: domain.CategoryUpdate,
		Details:  "Checking for available Drupal core and module updates across all environments.",
		Links:    []domain.RelatedLink{{Label: "View Updates"}},
	})
	s.logger.Info("update check started")
	s.sched.After(s.checkDelay, func() {
		s.finishCheck()
	})
	return nil
}

// finishCheck registers the update the scan discovered.
func (s Service) finishCheck() {
	ctx := context.Background()
	found := &domain.Update{
		ID:             "upd_" + uuid.NewString(),
		Name:           "Token",
		Type:           domain.UpdateTypeModule,
		CurrentVersion: "1.9.0",
		NewVersion:     "1.10.0",
		AffectedSites:  "4",
		Security:       false,
		Status:         domain.UpdateStatusAvailable,
	}
	if err := s.updates.CreateUpdate(ctx, found); err != nil {
		s.logger.Warn("failed to register discovered update", "error", err)
		return
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Found new update available: %s %s", found.Name, found.NewVersion),
		Category: domain.CategoryUpdate,
		Actor:    activity.SystemActor,
		Details:  fmt.Sprintf("Found new update available for %s module. Current version: %s, New version: %s. Affected sites: %s.", found.Name, found.CurrentVersion, found.NewVersion, found.AffectedSites),
		Links:    []domain.RelatedLink{{Label: "View Update"}},
	})
	s.logger.Info("update check finished", "found", found.Name)
}

// Apply marks an update in progress and schedules its completion. Core
// updates propagate the new version to environments still on the prior one.
func (s Service) Apply(ctx context.Context, updateID string) (*domain.Update, error) {
	updateID = strings.TrimSpace(updateID)
	if updateID == "" {
		return nil, errors.New("update id is required")
	}
	upd, err := s.updates.GetUpdateByID(ctx, updateID)
	if err != nil {
		return nil, fmt.Errorf("apply update %s: %w", updateID, err)
	}
	upd.Status = domain.UpdateStatusInProgress
	if err := s.updates.SaveUpdate(ctx, upd); err != nil {
		return nil, fmt.Errorf("apply update %s: %w", updateID, err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Started applying update: %s %s", upd.Name, upd.NewVersion),
		Category: domain.CategoryUpdate,
		Details:  fmt.Sprintf("Applying update for %s from %s to %s. Affected sites: %s.", upd.Name, upd.CurrentVersion, upd.NewVersion, upd.AffectedSites),
		Links:    []domain.RelatedLink{{Label: "View Update"}},
	})
	s.logger.Info("update apply started", "update_id", upd.ID, "name", upd.Name)

	id := upd.ID
	s.sched.After(s.applyDelay, func() {
		s.finishApply(id)
	})
	return upd, nil
}

func (s Service) finishApply(id string) {
	ctx := context.Background()
	upd, err := s.updates.GetUpdateByID(ctx, id)
	if err != nil {
		s.logger.Warn("update vanished before completion", "update_id", id, "error", err)
		return
	}

	priorVersion := upd.CurrentVersion
	upd.Status = domain.UpdateStatusCompleted
	upd.CurrentVersion = upd.NewVersion
	if err := s.updates.SaveUpdate(ctx, upd); err != nil {
		s.logger.Warn("update save failed", "update_id", id, "error", err)
		return
	}

	if upd.Type == domain.UpdateTypeCore {
		s.propagateCore(ctx, priorVersion, upd.NewVersion)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Successfully applied update: %s %s", upd.Name, upd.NewVersion),
		Category: domain.CategoryUpdate,
		Details:  fmt.Sprintf("Successfully updated %s from %s to %s on %s sites. All post-update tests passed.", upd.Name, priorVersion, upd.NewVersion, upd.AffectedSites),
		Links:    []domain.RelatedLink{{Label: "View Update"}},
	})
	s.logger.Info("update apply finished", "update_id", id)
}

// propagateCore moves every environment still on the prior core version to
// the new one.
func (s Service) propagateCore(ctx context.Context, priorVersion, newVersion string) {
	envs, err := s.envs.ListEnvironments(ctx)
	if err != nil {
		s.logger.Warn("failed to list environments for core propagation", "error", err)
		return
	}
	for i := range envs {
		if envs[i].DrupalVersion != priorVersion {
			continue
		}
		envs[i].DrupalVersion = newVersion
		if err := s.envs.UpdateEnvironment(ctx, &envs[i]); err != nil {
			s.logger.Warn("environment version bump failed", "environment", envs[i].Name, "error", err)
		}
	}
}

// Schedule marks an update for the next maintenance window. Immediate, no
// delayed phase.
func (s Service) Schedule(ctx context.Context, updateID string) (*domain.Update, error) {
	updateID = strings.TrimSpace(updateID)
	if updateID == "" {
		return nil, errors.New("update id is required")
	}
	upd, err := s.updates.GetUpdateByID(ctx, updateID)
	if err != nil {
		return nil, fmt.Errorf("schedule update %s: %w", updateID, err)
	}
	upd.Status = domain.UpdateStatusScheduled
	if err := s.updates.SaveUpdate(ctx, upd); err != nil {
		return nil, fmt.Errorf("schedule update %s: %w", updateID, err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Scheduled update: %s %s", upd.Name, upd.NewVersion),
		Category: domain.CategoryUpdate,
		Details:  fmt.Sprintf("Scheduled update for %s from %s to %s. Update will be applied during the next maintenance window.", upd.Name, upd.CurrentVersion, upd.NewVersion),
		Links:    []domain.RelatedLink{{Label: "View Update"}},
	})
	return upd, nil
}

// List returns all known updates.
func (s Service) List(ctx context.Context) ([]domain.Update, error) {
	return s.updates.ListUpdates(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record update activity", "error", err)
	}
}
