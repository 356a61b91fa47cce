package memory

import (
	"time"

	"github.com/sitegrid/console/internal/domain"
)

// Seed loads the demo snapshot the console starts from. Timestamps on the
// seeded activity entries are offsets from now so the feed reads naturally
// on first render.
func (s *Store) Seed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.environments = []domain.Environment{
		{Name: "main-website-prod", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeProduction, URL: "https://www.example.com", LastDeployed: "2 days ago", DrupalVersion: "11.0.0"},
		{Name: "admissions-prod", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeProduction, URL: "https://admissions.example.com", LastDeployed: "5 days ago", DrupalVersion: "10.2.0"},
		{Name: "alumni-prod", Status: domain.EnvStatusWarning, Type: domain.EnvTypeProduction, URL: "https://alumni.example.com", LastDeployed: "14 days ago", DrupalVersion: "10.1.2"},
		{Name: "main-website-staging", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeStaging, URL: "https://staging.example.com", LastDeployed: "1 day ago", DrupalVersion: "11.0.0"},
		{Name: "admissions-staging", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeStaging, URL: "https://admissions-staging.example.com", LastDeployed: "3 days ago", DrupalVersion: "10.2.0"},
		{Name: "alumni-staging", Status: domain.EnvStatusError, Type: domain.EnvTypeStaging, URL: "https://alumni-staging.example.com", LastDeployed: "2 days ago", DrupalVersion: "11.0.0"},
		{Name: "main-website-dev", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeDevelopment, URL: "https://dev.example.com", LastDeployed: "12 hours ago", DrupalVersion: "11.0.0"},
		{Name: "admissions-dev", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeDevelopment, URL: "https://admissions-dev.example.com", LastDeployed: "1 day ago", DrupalVersion: "10.2.0"},
		{Name: "alumni-dev", Status: domain.EnvStatusHealthy, Type: domain.EnvTypeDevelopment, URL: "https://alumni-dev.example.com", LastDeployed: "6 hours ago", DrupalVersion: "11.0.0"},
	}

	s.deployments = []domain.Deployment{
		{ID: "dep_12345", Environment: "main-website-dev", Branch: "feature/homepage", Commit: "a1b2c3d", DeployedBy: "Admin User", DeployedAt: "6 hours ago", Status: domain.DeployStatusSuccess, CacheOptions: &domain.CacheOptions{DrupalCache: true, CDNCache: true, RedisCache: false}},
		{ID: "dep_12344", Environment: "admissions-staging", Branch: "feature/application-form", Commit: "e4f5g6h", DeployedBy: "Jane Smith", DeployedAt: "1 day ago", Status: domain.DeployStatusSuccess, CacheOptions: &domain.CacheOptions{DrupalCache: true, CDNCache: false, RedisCache: true}},
		{ID: "dep_12343", Environment: "main-website-prod", Branch: "main", Commit: "i7j8k9l", DeployedBy: "Admin User", DeployedAt: "2 days ago", Status: domain.DeployStatusSuccess, CacheOptions: &domain.CacheOptions{DrupalCache: true, CDNCache: true, RedisCache: true}},
		{ID: "dep_12342", Environment: "alumni-dev", Branch: "feature/events", Commit: "m1n2o3p", DeployedBy: "John Doe", DeployedAt: "3 days ago", Status: domain.DeployStatusFailed},
		{ID: "dep_12341", Environment: "admissions-prod", Branch: "main", Commit: "q4r5s6t", DeployedBy: "Admin User", DeployedAt: "5 days ago", Status: domain.DeployStatusSuccess, CacheOptions: &domain.CacheOptions{DrupalCache: true, CDNCache: true, RedisCache: false}},
	}

	s.backups = []domain.Backup{
		{ID: "bkp_12345", Environment: "main-website-prod", Type: "Automated", Size: "2.4 GB", Created: "2 hours ago", Status: domain.BackupStatusCompleted},
		{ID: "bkp_12344", Environment: "admissions-prod", Type: "Automated", Size: "1.8 GB", Created: "6 hours ago", Status: domain.BackupStatusCompleted},
		{ID: "bkp_12343", Environment: "alumni-prod", Type: "Manual", Size: "1.2 GB", Created: "1 day ago", Status: domain.BackupStatusCompleted},
		{ID: "bkp_12342", Environment: "main-website-staging", Type: "Pre-deployment", Size: "2.3 GB", Created: "1 day ago", Status: domain.BackupStatusCompleted},
		{ID: "bkp_12341", Environment: "admissions-staging", Type: "Automated", Size: "1.7 GB", Created: "2 days ago", Status: domain.BackupStatusCompleted},
		{ID: "bkp_12340", Environment: "alumni-staging", Type: "Manual", Size: "1.1 GB", Created: "3 days ago", Status: domain.BackupStatusCompleted},
	}

	s.domains = []domain.Domain{
		{Name: "www.example.com", Environment: "main-website-prod", SSLStatus: domain.SSLStatusValid, SSLExpiry: "11 months", DNS: domain.DNSVerified, Created: "1 year ago"},
		{Name: "admissions.example.com", Environment: "admissions-prod", SSLStatus: domain.SSLStatusValid, SSLExpiry: "9 months", DNS: domain.DNSVerified, Created: "1 year ago"},
		{Name: "alumni.example.com", Environment: "alumni-prod", SSLStatus: domain.SSLStatusExpiringSoon, SSLExpiry: "1 month", DNS: domain.DNSVerified, Created: "1 year ago"},
		{Name: "events.example.com", Environment: "events-prod", SSLStatus: domain.SSLStatusExpiringSoon, SSLExpiry: "1 month", DNS: domain.DNSVerified, Created: "6 months ago"},
		{Name: "staging.example.com", Environment: "main-website-staging", SSLStatus: domain.SSLStatusValid, SSLExpiry: "10 months", DNS: domain.DNSVerified, Created: "1 year ago"},
		{Name: "dev.example.com", Environment: "main-website-dev", SSLStatus: domain.SSLStatusValid, SSLExpiry: "10 months", DNS: domain.DNSVerified, Created: "1 year ago"},
	}

	s.updates = []domain.Update{
		{ID: "upd_1", Name: "Drupal Core", Type: domain.UpdateTypeCore, CurrentVersion: "10.1.0", NewVersion: "11.0.0", AffectedSites: "3", Security: true, Status: domain.UpdateStatusAvailable},
		{ID: "upd_2", Name: "Pathauto", Type: domain.UpdateTypeModule, CurrentVersion: "1.10.0", NewVersion: "1.11.0", AffectedSites: "5", Security: false, Status: domain.UpdateStatusAvailable},
		{ID: "upd_3", Name: "Views", Type: domain.UpdateTypeModule, CurrentVersion: "2.0.0", NewVersion: "2.0.1", AffectedSites: "8", Security: true, Status: domain.UpdateStatusAvailable},
		{ID: "upd_4", Name: "Media Library", Type: domain.UpdateTypeModule, CurrentVersion: "1.5.0", NewVersion: "1.6.0", AffectedSites: "4", Security: false, Status: domain.UpdateStatusAvailable},
		{ID: "upd_5", Name: "Webform", Type: domain.UpdateTypeModule, CurrentVersion: "6.1.3", NewVersion: "6.1.4", AffectedSites: "6", Security: true, Status: domain.UpdateStatusAvailable},
	}

	s.users = []domain.User{
		{ID: "usr_1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdministrator, Status: domain.UserStatusActive, LastLogin: "2 hours ago"},
		{ID: "usr_2", Name: "Jane Smith", Email: "jane.smith@example.com", Role: domain.RoleDeveloper, Status: domain.UserStatusActive, LastLogin: "1 day ago"},
		{ID: "usr_3", Name: "John Doe", Email: "john.doe@example.com", Role: domain.RoleContentEditor, Status: domain.UserStatusActive, LastLogin: "3 days ago"},
		{ID: "usr_4", Name: "Sarah Johnson", Email: "sarah.johnson@example.com", Role: domain.RoleDeveloper, Status: domain.UserStatusActive, LastLogin: "5 days ago"},
		{ID: "usr_5", Name: "Michael Brown", Email: "michael.brown@example.com", Role: domain.RoleContentEditor, Status: domain.UserStatusInactive, LastLogin: "2 months ago"},
	}

	s.caches = []domain.Cache{
		{ID: "cache_1", Name: "Page Cache", Size: "245 MB", Items: "1,245", LastCleared: "3 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeDrupal},
		{ID: "cache_2", Name: "Block Cache", Size: "56 MB", Items: "324", LastCleared: "3 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeDrupal},
		{ID: "cache_3", Name: "Entity Cache", Size: "189 MB", Items: "2,567", LastCleared: "3 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeDrupal},
		{ID: "cache_4", Name: "Menu Cache", Size: "12 MB", Items: "45", LastCleared: "3 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeDrupal},
		{ID: "cache_5", Name: "Render Cache", Size: "78 MB", Items: "890", LastCleared: "3 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeDrupal},
		{ID: "cache_6", Name: "CloudFront Assets", Size: "1,245 MB", Items: "3,567", LastCleared: "1 day ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeCDN},
		{ID: "cache_7", Name: "CloudFront Images", Size: "890 MB", Items: "1,234", LastCleared: "1 day ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeCDN},
		{ID: "cache_8", Name: "Redis Object Cache", Size: "345 MB", Items: "5,678", LastCleared: "6 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeRedis},
		{ID: "cache_9", Name: "Redis Session Cache", Size: "78 MB", Items: "456", LastCleared: "6 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeRedis},
		{ID: "cache_10", Name: "Varnish Cache", Size: "1,890 MB", Items: "12,456", LastCleared: "12 hours ago", Status: domain.CacheStatusEnabled, Type: domain.CacheTypeCDN},
	}

	// Stored newest first, matching the repository's list order.
	s.activities = []domain.Activity{
		{
			ID:        "act_1",
			Action:    "Deployed main-website-prod from branch main",
			Category:  domain.CategoryDeployment,
			User:      domain.ActivityUser{Name: "Admin User", Initials: "AU"},
			Details:   "Successfully deployed commit i7j8k9l to main-website-prod environment. All post-deployment tests passed successfully. Deployment included 23 file changes across 8 modules.",
			Timestamp: now.Add(-2 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Deployment"},
				{Label: "View Site"},
			},
		},
		{
			ID:        "act_2",
			Action:    "Created backup of alumni-prod",
			Category:  domain.CategoryBackup,
			User:      domain.ActivityUser{Name: "System", Initials: "SY"},
			Details:   "Automated backup created for alumni-prod environment. Backup size: 1.2 GB. Backup includes database, files, and configuration.",
			Timestamp: now.Add(-4 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "Download Backup"},
				{Label: "Restore"},
			},
		},
		{
			ID:        "act_3",
			Action:    "Updated Drupal core on main-website-staging to 11.0.0",
			Category:  domain.CategoryUpdate,
			User:      domain.ActivityUser{Name: "Jane Smith", Initials: "JS"},
			Details:   "Successfully updated Drupal core from 10.1.2 to 11.0.0 on main-website-staging environment. Update included security patches and new features. All post-update tests passed.",
			Timestamp: now.Add(-28 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Changes"},
			},
		},
		{
			ID:        "act_4",
			Action:    "Added new domain events.example.com",
			Category:  domain.CategoryDomain,
			User:      domain.ActivityUser{Name: "Admin User", Initials: "AU"},
			Details:   "Added new domain events.example.com to events-prod environment. SSL certificate provisioned automatically. DNS verification completed successfully.",
			Timestamp: now.Add(-36 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Domain"},
			},
		},
		{
			ID:        "act_5",
			Action:    "Restored alumni-staging from backup",
			Category:  domain.CategoryBackup,
			User:      domain.ActivityUser{Name: "John Doe", Initials: "JD"},
			Details:   "Restored alumni-staging environment from backup bkp_12340. Restoration included database, files, and configuration. Restoration completed successfully in 8 minutes.",
			Timestamp: now.Add(-48 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Environment"},
			},
		},
		{
			ID:        "act_6",
			Action:    "Added new user Sarah Johnson",
			Category:  domain.CategoryUser,
			User:      domain.ActivityUser{Name: "Admin User", Initials: "AU"},
			Details:   "Added new user Sarah Johnson (sarah.johnson@example.com) with Developer role. User has access to all development and staging environments.",
			Timestamp: now.Add(-72 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View User"},
			},
		},
		{
			ID:        "act_7",
			Action:    "Cleared all caches for main-website-prod",
			Category:  domain.CategoryCache,
			User:      domain.ActivityUser{Name: "Jane Smith", Initials: "JS"},
			Details:   "Cleared all caches for main-website-prod environment, including Drupal, Redis, and Varnish caches. Total cache size cleared: 2.1 GB.",
			Timestamp: now.Add(-74 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Cache"},
			},
		},
		{
			ID:        "act_8",
			Action:    "Created new development environment feature-homepage",
			Category:  domain.CategoryEnvironment,
			User:      domain.ActivityUser{Name: "John Doe", Initials: "JD"},
			Details:   "Created new development environment feature-homepage based on main-website-dev. Environment created with Drupal 11.0.0 and includes all modules and configurations from source environment.",
			Timestamp: now.Add(-96 * time.Hour),
			RelatedLinks: []domain.RelatedLink{
				{Label: "View Environment"},
			},
		},
	}
}
