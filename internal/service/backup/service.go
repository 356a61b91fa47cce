// Package backup manages environment snapshots. A backup starts in progress
// with a zero size and completes after the configured delay with a
// simulated size.
package backup

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
)

// DefaultType is used when a request does not name a backup type.
const DefaultType = "Manual"

// Service coordinates backups.
type Service struct {
	backups  repository.BackupRepository
	envs     repository.EnvironmentRepository
	activity activity.Service
	sched    scheduler.Scheduler
	logger   *slog.Logger
	delay    time.Duration
	sizeFn   func() string
}

// Option tweaks service construction. Used by tests to pin the simulated
// backup size.
type Option func(*Service)

// WithSizeFn overrides the simulated size generator.
func WithSizeFn(fn func() string) Option {
	return func(s *Service) { s.sizeFn = fn }
}

// New constructs a backup service.
func New(backups repository.BackupRepository, envs repository.EnvironmentRepository, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, delay time.Duration, opts ...Option) Service {
	s := Service{
		backups:  backups,
		envs:     envs,
		activity: activitySvc,
		sched:    sched,
		logger:   logger,
		delay:    delay,
		sizeFn:   randomSize,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// randomSize produces a size in the 1.0 to 4.0 GB range.
func randomSize() string {
	return fmt.Sprintf("%.1f GB", rand.Float64()*3+1)
}

// CreateInput holds the parameters for a new backup.
type CreateInput struct {
	Environment string `json:"environment"`
	Type        string `json:"type"`
}

func (in *CreateInput) validate() error {
	in.Environment = strings.TrimSpace(in.Environment)
	in.Type = strings.TrimSpace(in.Type)
	if in.Environment == "" {
		return errors.New("environment is required")
	}
	if in.Type == "" {
		in.Type = DefaultType
	}
	return nil
}

// Create records a new backup in progress and schedules its completion.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.Backup, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.envs.GetEnvironmentByName(ctx, in.Environment); err != nil {
		return nil, fmt.Errorf("backup of %s: %w", in.Environment, err)
	}

	bkp := &domain.Backup{
		ID:          "bkp_" + uuid.NewString(),
		Environment: in.Environment,
		Type:        in.Type,
		Size:        "0 GB",
		Created:     "Just now",
		Status:      domain.BackupStatusInProgress,
	}
	if err := s.backups.CreateBackup(ctx, bkp); err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Started backup of %s", bkp.Environment),
		Category: domain.CategoryBackup,
		Details:  fmt.Sprintf("Creating %s backup of %s. Backup includes database, files, and configuration.", bkp.Type, bkp.Environment),
		Links:    []domain.RelatedLink{{Label: "View Backup"}},
	})
	s.logger.Info("backup started", "backup_id", bkp.ID, "environment", bkp.Environment)

	id := bkp.ID
	s.sched.After(s.delay, func() {
		s.finish(id)
	})
	return bkp, nil
}

func (s Service) finish(id string) {
	ctx := context.Background()
	bkp, err := s.backups.GetBackupByID(ctx, id)
	if err != nil {
		s.logger.Warn("backup vanished before completion", "backup_id", id, "error", err)
		return
	}
	bkp.Status = domain.BackupStatusCompleted
	bkp.Size = s.sizeFn()
	if err := s.backups.UpdateBackup(ctx, bkp); err != nil {
		s.logger.Warn("backup update failed", "backup_id", id, "error", err)
		return
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Completed backup of %s", bkp.Environment),
		Category: domain.CategoryBackup,
		Details:  fmt.Sprintf("Successfully completed %s backup of %s. Backup size: %s.", bkp.Type, bkp.Environment, bkp.Size),
		Links: []domain.RelatedLink{
			{Label: "Download Backup"},
			{Label: "Restore"},
		},
	})
	s.logger.Info("backup finished", "backup_id", id, "size", bkp.Size)
}

// List returns the backup history, newest first.
func (s Service) List(ctx context.Context) ([]domain.Backup, error) {
	return s.backups.ListBackups(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record backup activity", "error", err)
	}
}
