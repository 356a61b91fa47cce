package deploy

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/repository/memory"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
	"github.com/sitegrid/console/internal/service/cache"
)

const deployDelay = 3 * time.Second

type harness struct {
	svc      Service
	store    *memory.Store
	sched    *scheduler.Manual
	activity activity.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	cacheSvc := cache.New(store, activitySvc, sched, logger, time.Second, 2*time.Second)
	svc := New(store, store, cacheSvc, activitySvc, sched, logger, deployDelay)

	ctx := context.Background()
	store.CreateEnvironment(ctx, &domain.Environment{
		Name:         "main-website-prod",
		Status:       domain.EnvStatusHealthy,
		LastDeployed: "2 days ago",
	})
	store.CreateCache(ctx, &domain.Cache{ID: "cache_1", Name: "Drupal Page Cache", Type: domain.CacheTypeDrupal, Status: domain.CacheStatusEnabled})
	store.CreateCache(ctx, &domain.Cache{ID: "cache_2", Name: "Drupal Views Cache", Type: domain.CacheTypeDrupal, Status: domain.CacheStatusEnabled})
	store.CreateCache(ctx, &domain.Cache{ID: "cache_3", Name: "CDN Edge Cache", Type: domain.CacheTypeCDN, Status: domain.CacheStatusEnabled})
	store.CreateCache(ctx, &domain.Cache{ID: "cache_4", Name: "Redis Object Cache", Type: domain.CacheTypeRedis, Status: domain.CacheStatusEnabled})

	return &harness{svc: svc, store: store, sched: sched, activity: activitySvc}
}

func TestCreateValidatesInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.Create(ctx, CreateInput{Branch: "main", Commit: "abc1234"}); err == nil {
		t.Fatal("expected error for missing environment")
	}
	if _, err := h.svc.Create(ctx, CreateInput{Environment: "main-website-prod", Commit: "abc1234"}); err == nil {
		t.Fatal("expected error for missing branch")
	}
	_, err := h.svc.Create(ctx, CreateInput{Environment: "ghost-env", Branch: "main", Commit: "abc1234"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown environment, got %v", err)
	}
}

func TestDeploymentLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	dep, err := h.svc.Create(ctx, CreateInput{
		Environment: "main-website-prod",
		Branch:      "main",
		Commit:      "a1b2c3d4e5f6",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if dep.Status != domain.DeployStatusInProgress {
		t.Fatalf("fresh deployment status %q", dep.Status)
	}
	if dep.Commit != "a1b2c3d" {
		t.Fatalf("commit not truncated: %q", dep.Commit)
	}
	if dep.DeployedBy != activity.DefaultActor {
		t.Fatalf("deployed by %q", dep.DeployedBy)
	}

	h.sched.Advance(deployDelay)

	settled, _ := h.store.GetDeploymentByID(ctx, dep.ID)
	if settled.Status != domain.DeployStatusSuccess {
		t.Fatalf("deployment status %q, want Success", settled.Status)
	}
	env, _ := h.store.GetEnvironmentByName(ctx, "main-website-prod")
	if env.LastDeployed != "Just now" {
		t.Fatalf("environment not stamped: %q", env.LastDeployed)
	}

	entries, _ := h.activity.List(ctx, domain.CategoryDeployment, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 deployment entries, got %d", len(entries))
	}
	if entries[0].Action != "Successfully deployed to main-website-prod from branch main" {
		t.Fatalf("unexpected completion entry %q", entries[0].Action)
	}
}

func TestDefaultCacheOptionsKeepAllEnabled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.Create(ctx, CreateInput{
		Environment: "main-website-prod",
		Branch:      "main",
		Commit:      "abc1234",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	h.sched.Advance(deployDelay)

	caches, _ := h.store.ListCaches(ctx)
	for _, c := range caches {
		if c.Status != domain.CacheStatusEnabled {
			t.Fatalf("cache %s disabled without opting out", c.ID)
		}
	}
	entries, _ := h.activity.List(ctx, domain.CategoryCache, 10, 0)
	if len(entries) != 0 {
		t.Fatalf("expected no cache entries, got %d", len(entries))
	}
}

func TestOptedOutFamiliesDisabledWithOneEntryEach(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.Create(ctx, CreateInput{
		Environment: "main-website-prod",
		Branch:      "main",
		Commit:      "abc1234",
		CacheOptions: &domain.CacheOptions{
			DrupalCache: false,
			CDNCache:    true,
			RedisCache:  false,
		},
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	h.sched.Advance(deployDelay)

	drupal, _ := h.store.ListCachesByType(ctx, domain.CacheTypeDrupal)
	for _, c := range drupal {
		if c.Status != domain.CacheStatusDisabled {
			t.Fatalf("drupal cache %s still enabled", c.ID)
		}
	}
	cdn, _ := h.store.ListCachesByType(ctx, domain.CacheTypeCDN)
	for _, c := range cdn {
		if c.Status != domain.CacheStatusEnabled {
			t.Fatalf("cdn cache %s disabled despite staying opted in", c.ID)
		}
	}
	redis, _ := h.store.ListCachesByType(ctx, domain.CacheTypeRedis)
	for _, c := range redis {
		if c.Status != domain.CacheStatusDisabled {
			t.Fatalf("redis cache %s still enabled", c.ID)
		}
	}

	// One entry per disabled family, not per cache bin.
	entries, _ := h.activity.List(ctx, domain.CategoryCache, 10, 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 cache entries, got %d", len(entries))
	}
	var actions []string
	for _, entry := range entries {
		if entry.User.Name != activity.SystemActor {
			t.Fatalf("cascade entry actor %q, want System", entry.User.Name)
		}
		actions = append(actions, entry.Action)
	}
	joined := strings.Join(actions, "|")
	if !strings.Contains(joined, "Disabled Drupal caches for main-website-prod") ||
		!strings.Contains(joined, "Disabled Redis caches for main-website-prod") {
		t.Fatalf("unexpected cascade entries: %v", actions)
	}
}

func TestListNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, _ := h.svc.Create(ctx, CreateInput{Environment: "main-website-prod", Branch: "main", Commit: "1111111"})
	second, _ := h.svc.Create(ctx, CreateInput{Environment: "main-website-prod", Branch: "develop", Commit: "2222222"})

	deployments, err := h.svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if deployments[0].ID != second.ID || deployments[1].ID != first.ID {
		t.Fatal("deployments not newest first")
	}
}
