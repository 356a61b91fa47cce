package domain

// Update lifecycle states.
const (
	UpdateStatusAvailable  = "available"
	UpdateStatusInProgress = "in-progress"
	UpdateStatusScheduled  = "scheduled"
	UpdateStatusCompleted  = "completed"
)

// Update kinds.
const (
	UpdateTypeCore   = "Core"
	UpdateTypeModule = "Module"
)

// Update describes an available Drupal core or module upgrade.
type Update struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	CurrentVersion string `json:"current_version"`
	NewVersion     string `json:"new_version"`
	AffectedSites  string `json:"affected_sites"`
	Security       bool   `json:"security"`
	Status         string `json:"status"`
}
