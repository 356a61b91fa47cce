package domain

// Backup status values. StatusFailed is never produced by the simulation.
const (
	BackupStatusInProgress = "In Progress"
	BackupStatusCompleted  = "Completed"
	BackupStatusFailed     = "Failed"
)

// Backup records a point-in-time snapshot of an environment.
type Backup struct {
	ID          string `json:"id"`
	Environment string `json:"environment"`
	Type        string `json:"type"`
	Size        string `json:"size"`
	Created     string `json:"created"`
	Status      string `json:"status"`
}
