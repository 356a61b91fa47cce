package environment

import (
	"context"
	"errors"
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

const initDelay = 3 * time.Second

func newTestService(t *testing.T) (*Service, *memory.Store, *scheduler.Manual, activity.Service) {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	return New(store, activitySvc, sched, logger, initDelay), store, sched, activitySvc
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing site", CreateInput{EnvironmentType: "staging", DrupalVersion: "10.1.5"}},
		{"unknown type", CreateInput{Site: "shop", EnvironmentType: "qa", DrupalVersion: "10.1.5"}},
		{"missing version", CreateInput{Site: "shop", EnvironmentType: "staging"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateStartsInitializing(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t)
	ctx := context.Background()

	env, err := svc.Create(ctx, CreateInput{Site: "shop", EnvironmentType: "staging", DrupalVersion: "10.1.5"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if env.Name != "shop-staging" {
		t.Fatalf("derived name %q, want shop-staging", env.Name)
	}
	if env.Status != domain.EnvStatusInitializing {
		t.Fatalf("fresh environment status %q", env.Status)
	}
	if env.URL != "https://shop-staging.example.com" {
		t.Fatalf("unexpected URL %q", env.URL)
	}

	// Still initializing just before the delay elapses.
	sched.Advance(initDelay - time.Millisecond)
	current, _ := store.GetEnvironmentByName(ctx, "shop-staging")
	if current.Status != domain.EnvStatusInitializing {
		t.Fatalf("status flipped early: %q", current.Status)
	}

	sched.Advance(time.Millisecond)
	current, _ = store.GetEnvironmentByName(ctx, "shop-staging")
	if current.Status != domain.EnvStatusHealthy {
		t.Fatalf("status after init %q, want healthy", current.Status)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryEnvironment, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(entries))
	}
	if entries[0].Action != "Environment shop-staging is now ready" {
		t.Fatalf("unexpected ready entry %q", entries[0].Action)
	}
	if entries[0].User.Name != activity.SystemActor {
		t.Fatalf("ready entry actor %q, want System", entries[0].User.Name)
	}
	if entries[1].Action != "Created new environment shop-staging with Drupal 10.1.5" {
		t.Fatalf("unexpected creation entry %q", entries[1].Action)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	in := CreateInput{Site: "shop", EnvironmentType: "staging", DrupalVersion: "10.1.5"}

	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(ctx, in)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCloneProvenanceRecorded(t *testing.T) {
	svc, _, _, activitySvc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		Site:              "shop",
		EnvironmentType:   "development",
		DrupalVersion:     "10.1.5",
		CreationMethod:    "clone",
		SourceEnvironment: "shop-production",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryEnvironment, 1, 0)
	want := "Created new development environment for shop with Drupal 10.1.5. Cloned from shop-production."
	if entries[0].Details != want {
		t.Fatalf("details = %q, want %q", entries[0].Details, want)
	}
}

func TestDeleteCancelsPendingInitialization(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Site: "shop", EnvironmentType: "staging", DrupalVersion: "10.1.5"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, "shop-staging"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// The pending transition must not fire against the deleted record.
	sched.Advance(time.Minute)
	if _, err := store.GetEnvironmentByName(ctx, "shop-staging"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected environment gone, got %v", err)
	}
	entries, _ := activitySvc.List(ctx, domain.CategoryEnvironment, 10, 0)
	for _, entry := range entries {
		if entry.Action == "Environment shop-staging is now ready" {
			t.Fatal("initialization fired after delete")
		}
	}
	if entries[0].Action != "Deleted environment shop-staging" {
		t.Fatalf("newest entry %q, want deletion entry", entries[0].Action)
	}
}

func TestDeleteMissingEnvironment(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.Delete(context.Background(), "nope-production")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
