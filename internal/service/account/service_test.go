package account

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

func newTestService(t *testing.T) (Service, *memory.Store, activity.Service) {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	return New(store, activitySvc, logger), store, activitySvc
}

func TestAddValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   AddInput
	}{
		{"missing name", AddInput{Email: "sam@example.com", Role: domain.RoleDeveloper}},
		{"bad email", AddInput{Name: "Sam Lee", Email: "not-an-email", Role: domain.RoleDeveloper}},
		{"unknown role", AddInput{Name: "Sam Lee", Email: "sam@example.com", Role: "Owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tc.in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAddCreatesActiveUser(t *testing.T) {
	svc, _, activitySvc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Add(ctx, AddInput{
		Name:  "Sam Lee",
		Email: "sam@example.com",
		Role:  domain.RoleContentEditor,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if user.ID == "" || user.ID[:4] != "usr_" {
		t.Fatalf("unexpected user ID %q", user.ID)
	}
	if user.Status != domain.UserStatusActive {
		t.Fatalf("new user status %q", user.Status)
	}
	if user.LastLogin != "Never" {
		t.Fatalf("new user last login %q", user.LastLogin)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryUser, 1, 0)
	if entries[0].Action != "Added new user: Sam Lee (Content Editor)" {
		t.Fatalf("unexpected entry %q", entries[0].Action)
	}
}

func TestSetStatus(t *testing.T) {
	svc, _, activitySvc := newTestService(t)
	ctx := context.Background()
	user, _ := svc.Add(ctx, AddInput{Name: "Sam Lee", Email: "sam@example.com", Role: domain.RoleDeveloper})

	updated, err := svc.SetStatus(ctx, user.ID, domain.UserStatusInactive)
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if updated.Status != domain.UserStatusInactive {
		t.Fatalf("status %q, want Inactive", updated.Status)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryUser, 1, 0)
	if entries[0].Action != "Deactivated user: Sam Lee" {
		t.Fatalf("unexpected entry %q", entries[0].Action)
	}

	if _, err := svc.SetStatus(ctx, user.ID, "Suspended"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := svc.SetStatus(ctx, "usr_ghost", domain.UserStatusActive); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, store, activitySvc := newTestService(t)
	ctx := context.Background()
	user, _ := svc.Add(ctx, AddInput{Name: "Sam Lee", Email: "sam@example.com", Role: domain.RoleDeveloper})

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.GetUserByID(ctx, user.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryUser, 1, 0)
	if entries[0].Action != "Deleted user: Sam Lee" {
		t.Fatalf("unexpected entry %q", entries[0].Action)
	}
}
