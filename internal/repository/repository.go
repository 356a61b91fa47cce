package repository

import (
	"context"

	"github.com/sitegrid/console/internal/domain"
)

// EnvironmentRepository stores environments keyed by name.
type EnvironmentRepository interface {
	CreateEnvironment(ctx context.Context, env *domain.Environment) error
	GetEnvironmentByName(ctx context.Context, name string) (*domain.Environment, error)
	ListEnvironments(ctx context.Context) ([]domain.Environment, error)
	UpdateEnvironment(ctx context.Context, env *domain.Environment) error
	DeleteEnvironment(ctx context.Context, name string) error
}

// DeploymentRepository stores deployment history, newest first.
type DeploymentRepository interface {
	CreateDeployment(ctx context.Context, deployment *domain.Deployment) error
	GetDeploymentByID(ctx context.Context, id string) (*domain.Deployment, error)
	ListDeployments(ctx context.Context) ([]domain.Deployment, error)
	UpdateDeployment(ctx context.Context, deployment *domain.Deployment) error
}

// BackupRepository stores backups, newest first.
type BackupRepository interface {
	CreateBackup(ctx context.Context, backup *domain.Backup) error
	GetBackupByID(ctx context.Context, id string) (*domain.Backup, error)
	ListBackups(ctx context.Context) ([]domain.Backup, error)
	UpdateBackup(ctx context.Context, backup *domain.Backup) error
}

// DomainRepository stores attached hostnames keyed by name.
type DomainRepository interface {
	CreateDomain(ctx context.Context, d *domain.Domain) error
	GetDomainByName(ctx context.Context, name string) (*domain.Domain, error)
	ListDomains(ctx context.Context) ([]domain.Domain, error)
	UpdateDomain(ctx context.Context, d *domain.Domain) error
}

// UpdateRepository stores available core/module updates.
type UpdateRepository interface {
	CreateUpdate(ctx context.Context, update *domain.Update) error
	GetUpdateByID(ctx context.Context, id string) (*domain.Update, error)
	ListUpdates(ctx context.Context) ([]domain.Update, error)
	SaveUpdate(ctx context.Context, update *domain.Update) error
}

// UserRepository stores platform accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// CacheRepository stores cache bins.
type CacheRepository interface {
	CreateCache(ctx context.Context, cache *domain.Cache) error
	GetCacheByID(ctx context.Context, id string) (*domain.Cache, error)
	ListCaches(ctx context.Context) ([]domain.Cache, error)
	ListCachesByType(ctx context.Context, cacheType string) ([]domain.Cache, error)
	UpdateCache(ctx context.Context, cache *domain.Cache) error
}

// ActivityRepository is the append-only activity feed. Entries are never
// mutated or removed once appended; listing is newest first.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, entry *domain.Activity) error
	ListActivities(ctx context.Context, category string, limit, offset int) ([]domain.Activity, error)
	CountActivities(ctx context.Context) (int, error)
}
