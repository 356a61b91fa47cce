package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/repository/memory"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
)

const backupDelay = 2 * time.Second

func newTestService(t *testing.T, opts ...Option) (Service, *memory.Store, *scheduler.Manual, activity.Service) {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	svc := New(store, store, activitySvc, sched, logger, backupDelay, opts...)

	store.CreateEnvironment(context.Background(), &domain.Environment{
		Name:   "main-website-prod",
		Status: domain.EnvStatusHealthy,
	})
	return svc, store, sched, activitySvc
}

func TestCreateRequiresEnvironment(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateInput{}); err == nil {
		t.Fatal("expected error for missing environment")
	}
}

func TestCreateRejectsUnknownEnvironment(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{Environment: "ghost-env"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackupLifecycle(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t, WithSizeFn(func() string { return "2.4 GB" }))
	ctx := context.Background()

	bkp, err := svc.Create(ctx, CreateInput{Environment: "main-website-prod"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if bkp.Status != domain.BackupStatusInProgress {
		t.Fatalf("fresh backup status %q", bkp.Status)
	}
	if bkp.Type != DefaultType {
		t.Fatalf("backup type %q, want Manual default", bkp.Type)
	}
	if bkp.Size != "0 GB" {
		t.Fatalf("fresh backup size %q", bkp.Size)
	}

	// Still in progress just before the delay elapses.
	sched.Advance(backupDelay - time.Millisecond)
	current, _ := store.GetBackupByID(ctx, bkp.ID)
	if current.Status != domain.BackupStatusInProgress {
		t.Fatalf("backup settled early: %q", current.Status)
	}

	sched.Advance(time.Millisecond)
	current, _ = store.GetBackupByID(ctx, bkp.ID)
	if current.Status != domain.BackupStatusCompleted {
		t.Fatalf("backup status %q, want Completed", current.Status)
	}
	if current.Size != "2.4 GB" {
		t.Fatalf("backup size %q, want 2.4 GB", current.Size)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryBackup, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 backup entries, got %d", len(entries))
	}
	if entries[0].Action != "Completed backup of main-website-prod" {
		t.Fatalf("unexpected completion entry %q", entries[0].Action)
	}
	if entries[0].Details != "Successfully completed Manual backup of main-website-prod. Backup size: 2.4 GB." {
		t.Fatalf("unexpected completion details %q", entries[0].Details)
	}
	if entries[1].Action != "Started backup of main-website-prod" {
		t.Fatalf("unexpected start entry %q", entries[1].Action)
	}
}

func TestCreateKeepsExplicitType(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	bkp, err := svc.Create(context.Background(), CreateInput{
		Environment: "main-website-prod",
		Type:        "Automated",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if bkp.Type != "Automated" {
		t.Fatalf("backup type %q, want Automated", bkp.Type)
	}
}

func TestRandomSizeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		size := randomSize()
		var value float64
		var unit string
		if _, err := fmt.Sscanf(size, "%f %s", &value, &unit); err != nil {
			t.Fatalf("unparseable size %q: %v", size, err)
		}
		if value < 1.0 || value > 4.0 || unit != "GB" {
			t.Fatalf("size out of range: %q", size)
		}
	}
}
