// Package dashboard assembles the per-family services behind a single
// coordinator so callers wire one value instead of eight.
package dashboard

import (
	"log/slog"

	"github.com/sitegrid/console/internal/repository/memory"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/account"
	"github.com/sitegrid/console/internal/service/activity"
	"github.com/sitegrid/console/internal/service/backup"
	"github.com/sitegrid/console/internal/service/cache"
	"github.com/sitegrid/console/internal/service/deploy"
	"github.com/sitegrid/console/internal/service/dns"
	"github.com/sitegrid/console/internal/service/environment"
	"github.com/sitegrid/console/internal/service/update"
	"github.com/sitegrid/console/internal/ws"
	"github.com/sitegrid/console/pkg/config"
)

// Coordinator holds one service per entity family, all sharing the same
// store, activity feed, and scheduler.
type Coordinator struct {
	Activity     activity.Service
	Environments *environment.Service
	Deployments  deploy.Service
	Backups      backup.Service
	Domains      dns.Service
	Updates      update.Service
	Accounts     account.Service
	Caches       cache.Service
}

// New wires a coordinator from shared infrastructure.
func New(store *memory.Store, hub *ws.Hub, sched scheduler.Scheduler, logger *slog.Logger, cfg config.ConsoleConfig) *Coordinator {
	activitySvc := activity.New(store, hub, sched, logger)
	cacheSvc := cache.New(store, activitySvc, sched, logger, cfg.CacheClearDelay, cfg.CacheClearAllDelay)
	return &Coordinator{
		Activity:     activitySvc,
		Environments: environment.New(store, activitySvc, sched, logger, cfg.EnvironmentInitDelay),
		Deployments:  deploy.New(store, store, cacheSvc, activitySvc, sched, logger, cfg.DeploymentDelay),
		Backups:      backup.New(store, store, activitySvc, sched, logger, cfg.BackupDelay),
		Domains:      dns.New(store, store, activitySvc, sched, logger, cfg.DomainPhaseDelay),
		Updates:      update.New(store, store, activitySvc, sched, logger, cfg.UpdateCheckDelay, cfg.UpdateApplyDelay),
		Accounts:     account.New(store, activitySvc, logger),
		Caches:       cacheSvc,
	}
}
