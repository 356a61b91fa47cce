// Package dns attaches hostnames to environments and walks them through
// the two verification phases: DNS records first, then SSL issuance.
package dns

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

// Service coordinates domain attachment and verification.
type Service struct {
	domains    repository.DomainRepository
	envs       repository.EnvironmentRepository
	activity   activity.Service
	sched      scheduler.Scheduler
	logger     *slog.Logger
	phaseDelay time.Duration
}

// New constructs a domain service. phaseDelay applies to each verification
// phase separately.
func New(domains repository.DomainRepository, envs repository.EnvironmentRepository, activitySvc activity.Service, sched scheduler.Scheduler, logger *slog.Logger, phaseDelay time.Duration) Service {
	return Service{
		domains:    domains,
		envs:       envs,
		activity:   activitySvc,
		sched:      sched,
		logger:     logger,
		phaseDelay: phaseDelay,
	}
}

// AddInput holds the parameters for attaching a hostname.
type AddInput struct {
	DomainName  string `json:"domain_name"`
	Environment string `json:"environment"`
}

func (in *AddInput) validate() error {
	in.DomainName = strings.TrimSpace(in.DomainName)
	in.Environment = strings.TrimSpace(in.Environment)
	if in.DomainName == "" {
		return errors.New("domain name is required")
	}
	if strings.ContainsAny(in.DomainName, " /") || !strings.Contains(in.DomainName, ".") {
		return fmt.Errorf("invalid domain name %q", in.DomainName)
	}
	if in.Environment == "" {
		return errors.New("environment is required")
	}
	return nil
}

// Add attaches a hostname in the pending state and schedules DNS
// verification, which in turn schedules SSL issuance.
func (s Service) Add(ctx context.Context, in AddInput) (*domain.Domain, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.envs.GetEnvironmentByName(ctx, in.Environment); err != nil {
		return nil, fmt.Errorf("attach %s: %w", in.DomainName, err)
	}

	d := &domain.Domain{
		Name:        in.DomainName,
		Environment: in.Environment,
		SSLStatus:   domain.SSLStatusPending,
		SSLExpiry:   "Not issued",
		DNS:         domain.DNSPending,
		Created:     "Just now",
	}
	if err := s.domains.CreateDomain(ctx, d); err != nil {
		return nil, fmt.Errorf("attach %s: %w", in.DomainName, err)
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("Added new domain %s to %s", d.Name, d.Environment),
		Category: domain.CategoryDomain,
		Details:  fmt.Sprintf("Added new domain %s to %s. SSL certificate provisioning and DNS verification in progress.", d.Name, d.Environment),
		Links:    []domain.RelatedLink{{Label: "View Domain"}},
	})
	s.logger.Info("domain attached", "domain", d.Name, "environment", d.Environment)

	name := d.Name
	s.sched.After(s.phaseDelay, func() {
		s.verifyDNS(name)
	})
	return d, nil
}

// verifyDNS marks the DNS records verified and schedules the SSL phase.
func (s Service) verifyDNS(name string) {
	ctx := context.Background()
	d, err := s.domains.GetDomainByName(ctx, name)
	if err != nil {
		s.logger.Warn("domain vanished before DNS verification", "domain", name, "error", err)
		return
	}
	d.DNS = domain.DNSVerified
	if err := s.domains.UpdateDomain(ctx, d); err != nil {
		s.logger.Warn("domain update failed", "domain", name, "error", err)
		return
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("DNS verified for %s", name),
		Category: domain.CategoryDomain,
		Actor:    activity.SystemActor,
		Details:  fmt.Sprintf("DNS records for %s have been verified successfully.", name),
		Links:    []domain.RelatedLink{{Label: "View Domain"}},
	})

	s.sched.After(s.phaseDelay, func() {
		s.issueSSL(name)
	})
}

// issueSSL marks the certificate valid for twelve months.
func (s Service) issueSSL(name string) {
	ctx := context.Background()
	d, err := s.domains.GetDomainByName(ctx, name)
	if err != nil {
		s.logger.Warn("domain vanished before SSL issuance", "domain", name, "error", err)
		return
	}
	d.SSLStatus = domain.SSLStatusValid
	d.SSLExpiry = "12 months"
	if err := s.domains.UpdateDomain(ctx, d); err != nil {
		s.logger.Warn("domain update failed", "domain", name, "error", err)
		return
	}

	s.record(ctx, activity.Entry{
		Action:   fmt.Sprintf("SSL certificate issued for %s", name),
		Category: domain.CategoryDomain,
		Actor:    activity.SystemActor,
		Details:  fmt.Sprintf("SSL certificate for %s has been issued successfully. Certificate is valid for 12 months.", name),
		Links:    []domain.RelatedLink{{Label: "View Domain"}},
	})
	s.logger.Info("ssl issued", "domain", name)
}

// List returns all attached hostnames.
func (s Service) List(ctx context.Context) ([]domain.Domain, error) {
	return s.domains.ListDomains(ctx)
}

func (s Service) record(ctx context.Context, e activity.Entry) {
	if _, err := s.activity.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record domain activity", "error", err)
	}
}
