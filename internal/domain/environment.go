package domain

// Environment status values.
const (
	EnvStatusHealthy      = "healthy"
	EnvStatusWarning      = "warning"
	EnvStatusError        = "error"
	EnvStatusInitializing = "initializing"
)

// Environment types.
const (
	EnvTypeProduction  = "production"
	EnvTypeStaging     = "staging"
	EnvTypeDevelopment = "development"
)

// Environment represents a hosted Drupal site instance. Name doubles as the
// natural key; there is no separate surrogate ID.
type Environment struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	URL           string `json:"url"`
	LastDeployed  string `json:"last_deployed"`
	DrupalVersion string `json:"drupal_version"`
}

// ValidEnvironmentType reports whether t is a known environment type.
func ValidEnvironmentType(t string) bool {
	switch t {
	case EnvTypeProduction, EnvTypeStaging, EnvTypeDevelopment:
		return true
	}
	return false
}
