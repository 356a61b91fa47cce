// Package memory implements every repository over process memory. All state
// is lost on restart; a fresh process starts from the demo seed snapshot.
package memory

import (
	"context"
	"sync"

	"github.com/sitegrid/console/internal/domain"
	"github.com/sitegrid/console/internal/repository"
)

// Store holds the current snapshot of every entity family. Collections are
// ordered slices; insertion order is display order. One mutex guards the
// whole store, which keeps each repository call atomic without any
// cross-call transaction semantics.
type Store struct {
	mu           sync.RWMutex
	environments []domain.Environment
	deployments  []domain.Deployment
	backups      []domain.Backup
	domains      []domain.Domain
	updates      []domain.Update
	users        []domain.User
	caches       []domain.Cache
	activities   []domain.Activity
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Environments

func (s *Store) CreateEnvironment(_ context.Context, env *domain.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.environments {
		if s.environments[i].Name == env.Name {
			return repository.ErrDuplicate
		}
	}
	s.environments = append(s.environments, *env)
	return nil
}

func (s *Store) GetEnvironmentByName(_ context.Context, name string) (*domain.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.environments {
		if s.environments[i].Name == name {
			env := s.environments[i]
			return &env, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListEnvironments(_ context.Context) ([]domain.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Environment, len(s.environments))
	copy(out, s.environments)
	return out, nil
}

func (s *Store) UpdateEnvironment(_ context.Context, env *domain.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.environments {
		if s.environments[i].Name == env.Name {
			s.environments[i] = *env
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteEnvironment(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.environments {
		if s.environments[i].Name == name {
			s.environments = append(s.environments[:i], s.environments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Deployments. Created records go to the front so "most recent first" holds
// without re-sorting.

func (s *Store) CreateDeployment(_ context.Context, deployment *domain.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deployments {
		if s.deployments[i].ID == deployment.ID {
			return repository.ErrDuplicate
		}
	}
	s.deployments = append([]domain.Deployment{cloneDeployment(deployment)}, s.deployments...)
	return nil
}

func (s *Store) GetDeploymentByID(_ context.Context, id string) (*domain.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.deployments {
		if s.deployments[i].ID == id {
			dep := cloneDeployment(&s.deployments[i])
			return &dep, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListDeployments(_ context.Context) ([]domain.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Deployment, 0, len(s.deployments))
	for i := range s.deployments {
		out = append(out, cloneDeployment(&s.deployments[i]))
	}
	return out, nil
}

func (s *Store) UpdateDeployment(_ context.Context, deployment *domain.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deployments {
		if s.deployments[i].ID == deployment.ID {
			s.deployments[i] = cloneDeployment(deployment)
			return nil
		}
	}
	return repository.ErrNotFound
}

func cloneDeployment(d *domain.Deployment) domain.Deployment {
	out := *d
	if d.CacheOptions != nil {
		opts := *d.CacheOptions
		out.CacheOptions = &opts
	}
	return out
}

// Backups, newest first like deployments.

func (s *Store) CreateBackup(_ context.Context, backup *domain.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.backups {
		if s.backups[i].ID == backup.ID {
			return repository.ErrDuplicate
		}
	}
	s.backups = append([]domain.Backup{*backup}, s.backups...)
	return nil
}

func (s *Store) GetBackupByID(_ context.Context, id string) (*domain.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.backups {
		if s.backups[i].ID == id {
			b := s.backups[i]
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListBackups(_ context.Context) ([]domain.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Backup, len(s.backups))
	copy(out, s.backups)
	return out, nil
}

func (s *Store) UpdateBackup(_ context.Context, backup *domain.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.backups {
		if s.backups[i].ID == backup.ID {
			s.backups[i] = *backup
			return nil
		}
	}
	return repository.ErrNotFound
}

// Domains

func (s *Store) CreateDomain(_ context.Context, d *domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].Name == d.Name {
			return repository.ErrDuplicate
		}
	}
	s.domains = append(s.domains, *d)
	return nil
}

func (s *Store) GetDomainByName(_ context.Context, name string) (*domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.domains {
		if s.domains[i].Name == name {
			d := s.domains[i]
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListDomains(_ context.Context) ([]domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Domain, len(s.domains))
	copy(out, s.domains)
	return out, nil
}

func (s *Store) UpdateDomain(_ context.Context, d *domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].Name == d.Name {
			s.domains[i] = *d
			return nil
		}
	}
	return repository.ErrNotFound
}

// Updates

func (s *Store) CreateUpdate(_ context.Context, update *domain.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.updates {
		if s.updates[i].ID == update.ID {
			return repository.ErrDuplicate
		}
	}
	s.updates = append(s.updates, *update)
	return nil
}

func (s *Store) GetUpdateByID(_ context.Context, id string) (*domain.Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.updates {
		if s.updates[i].ID == id {
			u := s.updates[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUpdates(_ context.Context) ([]domain.Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Update, len(s.updates))
	copy(out, s.updates)
	return out, nil
}

func (s *Store) SaveUpdate(_ context.Context, update *domain.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.updates {
		if s.updates[i].ID == update.ID {
			s.updates[i] = *update
			return nil
		}
	}
	return repository.ErrNotFound
}

// Users

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			return repository.ErrDuplicate
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Caches

func (s *Store) CreateCache(_ context.Context, cache *domain.Cache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.caches {
		if s.caches[i].ID == cache.ID {
			return repository.ErrDuplicate
		}
	}
	s.caches = append(s.caches, *cache)
	return nil
}

func (s *Store) GetCacheByID(_ context.Context, id string) (*domain.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.caches {
		if s.caches[i].ID == id {
			c := s.caches[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListCaches(_ context.Context) ([]domain.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Cache, len(s.caches))
	copy(out, s.caches)
	return out, nil
}

func (s *Store) ListCachesByType(_ context.Context, cacheType string) ([]domain.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Cache
	for i := range s.caches {
		if s.caches[i].Type == cacheType {
			out = append(out, s.caches[i])
		}
	}
	return out, nil
}

func (s *Store) UpdateCache(_ context.Context, cache *domain.Cache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.caches {
		if s.caches[i].ID == cache.ID {
			s.caches[i] = *cache
			return nil
		}
	}
	return repository.ErrNotFound
}

// Activity feed. Append-only; entries are stored newest first and never
// mutated or removed.

func (s *Store) AppendActivity(_ context.Context, entry *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append([]domain.Activity{cloneActivity(entry)}, s.activities...)
	return nil
}

func (s *Store) ListActivities(_ context.Context, category string, limit, offset int) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	skipped := 0
	for i := range s.activities {
		if category != "" && s.activities[i].Category != category {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, cloneActivity(&s.activities[i]))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CountActivities(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities), nil
}

func cloneActivity(a *domain.Activity) domain.Activity {
	out := *a
	if len(a.RelatedLinks) > 0 {
		out.RelatedLinks = make([]domain.RelatedLink, len(a.RelatedLinks))
		copy(out.RelatedLinks, a.RelatedLinks)
	}
	return out
}
