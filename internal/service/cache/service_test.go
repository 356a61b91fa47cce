package cache

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

const (
	clearDelay    = time.Second
	clearAllDelay = 2 * time.Second
)

func newTestService(t *testing.T) (Service, *memory.Store, *scheduler.Manual, activity.Service) {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	svc := New(store, activitySvc, sched, logger, clearDelay, clearAllDelay)

	ctx := context.Background()
	store.CreateCache(ctx, &domain.Cache{
		ID: "cache_1", Name: "Drupal Page Cache", Type: domain.CacheTypeDrupal,
		Size: "256 MB", Items: "14,583", LastCleared: "2 hours ago", Status: domain.CacheStatusEnabled,
	})
	store.CreateCache(ctx, &domain.Cache{
		ID: "cache_2", Name: "Redis Object Cache", Type: domain.CacheTypeRedis,
		Size: "512 MB", Items: "45,872", LastCleared: "4 hours ago", Status: domain.CacheStatusEnabled,
	})
	return svc, store, sched, activitySvc
}

func TestClearSingleCache(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t)
	ctx := context.Background()

	if err := svc.Clear(ctx, "cache_1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	// Nothing changes until the delay elapses.
	current, _ := store.GetCacheByID(ctx, "cache_1")
	if current.Size != "256 MB" {
		t.Fatalf("cache cleared early: %q", current.Size)
	}

	sched.Advance(clearDelay)
	current, _ = store.GetCacheByID(ctx, "cache_1")
	if current.Size != "0 MB" || current.Items != "0" || current.LastCleared != "Just now" {
		t.Fatalf("cache not zeroed: %+v", current)
	}
	// The other bin is untouched.
	other, _ := store.GetCacheByID(ctx, "cache_2")
	if other.Size != "512 MB" {
		t.Fatalf("unrelated cache mutated: %q", other.Size)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryCache, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "Successfully cleared Drupal Page Cache" {
		t.Fatalf("unexpected completion entry %q", entries[0].Action)
	}
	// Completion reports the size the bin held before clearing.
	if entries[0].Details != "Successfully cleared Drupal Page Cache cache. Cache size cleared: 256 MB." {
		t.Fatalf("unexpected completion details %q", entries[0].Details)
	}
}

func TestClearUnknownCache(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.Clear(context.Background(), "cache_ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearAllZeroesEveryBin(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t)
	ctx := context.Background()

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}
	sched.Advance(clearAllDelay)

	caches, _ := store.ListCaches(ctx)
	for _, c := range caches {
		if c.Size != "0 MB" || c.Items != "0" || c.LastCleared != "Just now" {
			t.Fatalf("cache %s not zeroed: %+v", c.ID, c)
		}
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryCache, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected start and completion entries, got %d", len(entries))
	}
	if entries[0].Action != "Successfully cleared all caches" {
		t.Fatalf("unexpected completion entry %q", entries[0].Action)
	}
}

func TestToggleFlipsStatus(t *testing.T) {
	svc, _, _, activitySvc := newTestService(t)
	ctx := context.Background()

	toggled, err := svc.Toggle(ctx, "cache_1")
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if toggled.Status != domain.CacheStatusDisabled {
		t.Fatalf("status after first toggle %q", toggled.Status)
	}

	toggled, err = svc.Toggle(ctx, "cache_1")
	if err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}
	if toggled.Status != domain.CacheStatusEnabled {
		t.Fatalf("status after second toggle %q", toggled.Status)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryCache, 10, 0)
	if entries[0].Action != "Enabled Drupal Page Cache" || entries[1].Action != "Disabled Drupal Page Cache" {
		t.Fatalf("unexpected toggle entries: %q, %q", entries[0].Action, entries[1].Action)
	}
}

func TestDisableFamily(t *testing.T) {
	svc, store, _, activitySvc := newTestService(t)
	ctx := context.Background()

	if err := svc.DisableFamily(ctx, domain.CacheTypeDrupal, "main-website-prod"); err != nil {
		t.Fatalf("DisableFamily returned error: %v", err)
	}

	drupal, _ := store.ListCachesByType(ctx, domain.CacheTypeDrupal)
	for _, c := range drupal {
		if c.Status != domain.CacheStatusDisabled {
			t.Fatalf("drupal cache %s still enabled", c.ID)
		}
	}
	redis, _ := store.ListCachesByType(ctx, domain.CacheTypeRedis)
	for _, c := range redis {
		if c.Status != domain.CacheStatusEnabled {
			t.Fatalf("redis cache %s disabled", c.ID)
		}
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryCache, 10, 0)
	if len(entries) != 1 {
		t.Fatalf("expected a single family entry, got %d", len(entries))
	}
	if entries[0].Action != "Disabled Drupal caches for main-website-prod" {
		t.Fatalf("unexpected entry %q", entries[0].Action)
	}
	if entries[0].User.Name != activity.SystemActor {
		t.Fatalf("entry actor %q, want System", entries[0].User.Name)
	}
}

func TestDisableFamilyRejectsUnknownFamily(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if err := svc.DisableFamily(context.Background(), "varnish", "main-website-prod"); err == nil {
		t.Fatal("expected error for unknown family")
	}
}
