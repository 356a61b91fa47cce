package domain

// Deployment status values. StatusFailed is declared for completeness but
// the simulation only ever drives deployments to success.
const (
	DeployStatusInProgress = "In Progress"
	DeployStatusSuccess    = "Success"
	DeployStatusFailed     = "Failed"
)

// CacheOptions selects which cache families stay enabled after a deploy.
type CacheOptions struct {
	DrupalCache bool `json:"drupal_cache"`
	CDNCache    bool `json:"cdn_cache"`
	RedisCache  bool `json:"redis_cache"`
}

// Deployment captures a single code push to an environment.
type Deployment struct {
	ID           string        `json:"id"`
	Environment  string        `json:"environment"`
	Branch       string        `json:"branch"`
	Commit       string        `json:"commit"`
	DeployedBy   string        `json:"deployed_by"`
	DeployedAt   string        `json:"deployed_at"`
	Status       string        `json:"status"`
	CacheOptions *CacheOptions `json:"cache_options,omitempty"`
}
