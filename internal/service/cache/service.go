// Package cache manages the platform's cache bins: clearing (simulated with
// a delay), enable/disable toggling, and the family-wide disables a deploy
// can request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/activity"
)

// Service coordinates cache operations.
type Service struct {
	caches        repository.CacheRepository
	activity      activity.Service
	sched         scheduler.Scheduler
	logger        *slog.Logger
	clearDelay    time.Duration
	clearAllDelay time.Duration
}

// New constructs a cache service.
func New(caches repository.CacheRepository, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, clearDelay, clearAllDelay time.Duration) Service {
	return Service{
		caches:        caches,
		activity:      activitySvc,
		sched:         sched,
		logger:        logger,
		clearDelay:    clearDelay,
		clearAllDelay: clearAllDelay,
	}
}

// ClearAll empties every cache bin after the simulated delay.
func (s Service) ClearAll(ctx context.Context) error {
	s.record(ctx, activity.Entry{
		Action:   "Started clearing all caches",
		Category: domain.CategoryCache,
		Details:  "Clearing all caches across all environments, including Drupal, Redis, Varnish, and CDN caches.",
		Links:    []domain.RelatedLink{{Label: "View Caches"}},
	})
	s.sched.After(s.clearAllDelay, func() {
		s.finishClearAll()
	})
	s.logger.Info("cache clear requested", "scope", "all")
	return nil
}

func (s Service) finishClearAll() {
	ctx := context.Background()
	caches, err := s.caches.ListCaches(ctx)
	if err != nil {
		s.logger.Warn("failed to list caches for clear", "error", err)
		return
	}
	for i := range caches {
		caches[i].Size = "0 MB"
		caches[i].Items = "0"
		caches[i].LastCleared = "Just now"
		if err := s.caches.UpdateCache(ctx, &caches[i]); err != nil {
			s.logger.Warn("cache update failed", "cache_id", caches[i].ID, "error", err)
		}
	}
	s.record(ctx, activity.Entry{
		Action:   "Successfully cleared all caches",
		Category: domain.CategoryCache,
		Details:  "Successfully cleared all caches across all environments. Total cache size cleared: 4.1 GB.",
		Links:    []domain.RelatedLink{{Label: "View Caches"}},
	})
}

// Clear empties a single cache bin after the simulated delay.
func (s Service) Clear(ctx context.Context, cacheID string) error {
	cacheID = strings.TrimSpace(cacheID)
	if cacheID == "" {
		return errors.New("cache id is required")
	}
	cached, err := s.caches.GetCacheByID(ctx, cacheID)
	if err != nil {
		return fmt.Errorf("clear cache %s: %w", cacheID, err)
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Started clearing %s", cached.Name),
		Category: domain.CategoryCache,
		Details:  fmt.Sprintf("Clearing %s cache. Current size: %s, Items: %s.", cached.Name, cached.Size, cached.Items),
		Links:    []domain.RelatedLink{{Label: "View Cache"}},
	})
	priorSize := cached.Size
	name := cached.Name
	s.sched.After(s.clearDelay, func() {
		s.finishClear(cacheID, name, priorSize)
	})
	return nil
}

func (s Service) finishClear(cacheID, name, priorSize string) {
	ctx := context.Background()
	cached, err := s.caches.GetCacheByID(ctx, cacheID)
	if err != nil {
		s.logger.Warn("cache vanished before clear finished", "cache_id", cacheID, "error", err)
		return
	}
	cached.Size = "0 MB"
	cached.Items = "0"
	cached.LastCleared = "Just now"
	if err := s.caches.UpdateCache(ctx, cached); err != nil {
		s.logger.Warn("cache update failed", "cache_id", cacheID, "error", err)
		return
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Successfully cleared %s", name),
		Category: domain.CategoryCache,
		Details:  fmt.Sprintf("Successfully cleared %s cache. Cache size cleared: %s.", name, priorSize),
		Links:    []domain.RelatedLink{{Label: "View Cache"}},
	})
}

// Toggle flips a cache between enabled and disabled. Immediate, no delayed
// phase.
func (s Service) Toggle(ctx context.Context, cacheID string) (*domain.Cache, error) {
	cacheID = strings.TrimSpace(cacheID)
	if cacheID == "" {
		return nil, errors.New("cache id is required")
	}
	cached, err := s.caches.GetCacheByID(ctx, cacheID)
	if err != nil {
		return nil, fmt.Errorf("toggle cache %s: %w", cacheID, err)
	}
	verb := "Enabled"
	if cached.Status == domain.CacheStatusEnabled {
		cached.Status = domain.CacheStatusDisabled
		verb = "Disabled"
	} else {
		cached.Status = domain.CacheStatusEnabled
	}
	if err := s.caches.UpdateCache(ctx, cached); err != nil {
		return nil, fmt.Errorf("toggle cache %s: %w", cacheID, err)
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("%s %s", verb, cached.Name),
		Category: domain.CategoryCache,
		Details:  fmt.Sprintf("%s %s cache.", verb, cached.Name),
		Links:    []domain.RelatedLink{{Label: "View Cache"}},
	})
	return cached, nil
}

// familyLabels maps cache families to the display names used in feed text.
var familyLabels = map[string]string{
	domain.CacheTypeDrupal: "Drupal",
	domain.CacheTypeCDN:    "CDN",
	domain.CacheTypeRedis:  "Redis",
}

// DisableFamily disables every cache of one family, recording a single feed
// entry for the whole family rather than one per bin. Used by deployment
// cache options.
func (s Service) DisableFamily(ctx context.Context, cacheType, environment string) error {
	label, ok := familyLabels[cacheType]
	if !ok {
		return fmt.Errorf("unknown cache family %q", cacheType)
	}
	caches, err := s.caches.ListCachesByType(ctx, cacheType)
	if err != nil {
		return err
	}
	for i := range caches {
		caches[i].Status = domain.CacheStatusDisabled
		if err := s.caches.UpdateCache(ctx, &caches[i]); err != nil {
			s.logger.Warn("cache disable failed", "cache_id", caches[i].ID, "error", err)
		}
	}
	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Disabled %s caches for %s", label, environment),
		Category: domain.CategoryCache,
		Actor:    activity.SystemActor,
	})
	return nil
}

// List returns the current cache snapshot.
func (s Service) List(ctx context.Context) ([]domain.Cache, error) {
	return s.caches.ListCaches(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record cache activity", "error", err)
	}
}
