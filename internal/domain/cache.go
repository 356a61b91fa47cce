package domain

// Cache states.
const (
	CacheStatusEnabled  = "enabled"
	CacheStatusDisabled = "disabled"
)

// Cache families.
const (
	CacheTypeDrupal = "drupal"
	CacheTypeCDN    = "cdn"
	CacheTypeRedis  = "redis"
)

// Cache is one cache bin tracked by the platform. Size and Items are
// display strings, matching what the panel renders.
type Cache struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        string `json:"size"`
	Items       string `json:"items"`
	LastCleared string `json:"last_cleared"`
	Status      string `json:"status"`
	Type        string `json:"type,omitempty"`
}
