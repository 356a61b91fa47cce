package dns

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

const phaseDelay = 2 * time.Second

func newTestService(t *testing.T) (Service, *memory.Store, *scheduler.Manual, activity.Service) {
	t.Helper()
	store := memory.New()
	sched := scheduler.NewManual(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activitySvc := activity.New(store, nil, sched, logger)
	svc := New(store, store, activitySvc, sched, logger, phaseDelay)

	store.CreateEnvironment(context.Background(), &domain.Environment{
		Name:   "main-website-prod",
		Status: domain.EnvStatusHealthy,
	})
	return svc, store, sched, activitySvc
}

func TestAddValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   AddInput
	}{
		{"missing name", AddInput{Environment: "main-website-prod"}},
		{"no dot", AddInput{DomainName: "localhost", Environment: "main-website-prod"}},
		{"embedded space", AddInput{DomainName: "bad name.com", Environment: "main-website-prod"}},
		{"missing environment", AddInput{DomainName: "shop.example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tc.in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	_, err := svc.Add(ctx, AddInput{DomainName: "shop.example.com", Environment: "ghost-env"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown environment, got %v", err)
	}
}

func TestTwoPhaseVerification(t *testing.T) {
	svc, store, sched, activitySvc := newTestService(t)
	ctx := context.Background()

	d, err := svc.Add(ctx, AddInput{DomainName: "shop.example.com", Environment: "main-website-prod"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if d.DNS != domain.DNSPending || d.SSLStatus != domain.SSLStatusPending {
		t.Fatalf("fresh domain not pending: dns=%q ssl=%q", d.DNS, d.SSLStatus)
	}
	if d.SSLExpiry != "Not issued" {
		t.Fatalf("fresh domain expiry %q", d.SSLExpiry)
	}

	// Phase one: DNS verifies, SSL still pending.
	sched.Advance(phaseDelay)
	current, _ := store.GetDomainByName(ctx, "shop.example.com")
	if current.DNS != domain.DNSVerified {
		t.Fatalf("dns after phase one %q", current.DNS)
	}
	if current.SSLStatus != domain.SSLStatusPending {
		t.Fatalf("ssl settled early: %q", current.SSLStatus)
	}

	// Phase two: SSL issued for twelve months.
	sched.Advance(phaseDelay)
	current, _ = store.GetDomainByName(ctx, "shop.example.com")
	if current.SSLStatus != domain.SSLStatusValid {
		t.Fatalf("ssl after phase two %q", current.SSLStatus)
	}
	if current.SSLExpiry != "12 months" {
		t.Fatalf("ssl expiry %q", current.SSLExpiry)
	}

	entries, _ := activitySvc.List(ctx, domain.CategoryDomain, 10, 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 domain entries, got %d", len(entries))
	}
	if entries[0].Action != "SSL certificate issued for shop.example.com" {
		t.Fatalf("unexpected ssl entry %q", entries[0].Action)
	}
	if entries[1].Action != "DNS verified for shop.example.com" {
		t.Fatalf("unexpected dns entry %q", entries[1].Action)
	}
	if entries[2].Action != "Added new domain shop.example.com to main-website-prod" {
		t.Fatalf("unexpected add entry %q", entries[2].Action)
	}
	// Platform, not an operator, drives the verification phases.
	if entries[0].User.Name != activity.SystemActor || entries[1].User.Name != activity.SystemActor {
		t.Fatal("verification entries should carry the System actor")
	}
	if entries[2].User.Name != activity.DefaultActor {
		t.Fatalf("add entry actor %q", entries[2].User.Name)
	}
}

func TestBothPhasesWithinOneAdvance(t *testing.T) {
	svc, store, sched, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{DomainName: "shop.example.com", Environment: "main-website-prod"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	sched.Advance(2 * phaseDelay)
	current, _ := store.GetDomainByName(ctx, "shop.example.com")
	if current.DNS != domain.DNSVerified || current.SSLStatus != domain.SSLStatusValid {
		t.Fatalf("phases incomplete: dns=%q ssl=%q", current.DNS, current.SSLStatus)
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	in := AddInput{DomainName: "shop.example.com", Environment: "main-website-prod"}

	if _, err := svc.Add(ctx, in); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := svc.Add(ctx, in)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
