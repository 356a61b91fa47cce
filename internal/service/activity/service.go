// Package activity maintains the append-only activity feed every mutating
// dashboard action reports into, and streams new entries to subscribers.
package activity

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/ws"
)

// DefaultActor is charged with actions that carry no explicit user.
const DefaultActor = "Admin User"

// SystemActor is used for completions the platform performs on its own.
const SystemActor = "System"

// Service appends feed entries and broadcasts them to stream clients.
type Service struct {
	repo   repository.ActivityRepository
	hub    *ws.Hub
	clock  scheduler.Scheduler
	logger *slog.Logger
}

// New constructs an activity service.
func New(repo repository.ActivityRepository, hub *ws.Hub, clock scheduler.Scheduler, logger *slog.Logger) Service {
	return Service{repo: repo, hub: hub, clock: clock, logger: logger}
}

// Entry carries the caller-supplied portion of a feed entry. ID, initials
// and timestamp are assigned on record.
type Entry struct {
	Action   string
	Category string
	Actor    string
	Details  string
	Links    []domain.RelatedLink
}

// Record appends a new entry stamped with the current time and pushes it to
// stream subscribers.
func (s Service) Record(ctx context.Context, e Entry) (*domain.Activity, error) {
	actor := strings.TrimSpace(e.Actor)
	if actor == "" {
		actor = DefaultActor
	}
	entry := &domain.Activity{
		ID:           "act_" + uuid.NewString(),
		Action:       e.Action,
		Category:     e.Category,
		User:         domain.ActivityUser{Name: actor, Initials: Initials(actor)},
		Details:      e.Details,
		RelatedLinks: e.Links,
		Timestamp:    s.clock.Now(),
	}
	if err := s.repo.AppendActivity(ctx, entry); err != nil {
		return nil, err
	}
	s.broadcast(entry)
	return entry, nil
}

// List returns entries newest first, optionally filtered by category.
func (s Service) List(ctx context.Context, category string, limit, offset int) ([]domain.Activity, error) {
	return s.repo.ListActivities(ctx, category, limit, offset)
}

// Count reports the total number of feed entries.
func (s Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountActivities(ctx)
}

// Hub returns the stream hub (useful for HTTP handlers).
func (s Service) Hub() *ws.Hub {
	return s.hub
}

// Now exposes the service clock so read surfaces derive display strings
// from the same time source actions are stamped with.
func (s Service) Now() time.Time {
	return s.clock.Now()
}

func (s Service) broadcast(entry *domain.Activity) {
	if s.hub == nil {
		return
	}
	data, err := MarshalEntry(*entry, s.clock.Now())
	if err != nil {
		s.logger.Warn("failed to marshal activity payload", "error", err)
		return
	}
	s.hub.Broadcast(entry.Category, data)
}

// Initials derives the avatar initials shown in the feed from a name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
	}
	return b.String()
}

// MarshalEntry formats a feed entry for streaming payloads, including the
// derived relative-time string.
func MarshalEntry(entry domain.Activity, now time.Time) ([]byte, error) {
	return json.Marshal(Render(entry, now))
}
