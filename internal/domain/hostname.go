package domain

// SSL certificate states for an attached domain.
const (
	SSLStatusPending      = "Pending"
	SSLStatusValid        = "Valid"
	SSLStatusExpiringSoon = "Expiring Soon"
	SSLStatusExpired      = "Expired"
	SSLStatusInvalid      = "Invalid"
)

// DNS verification states.
const (
	DNSPending  = "Pending"
	DNSVerified = "Verified"
)

// Domain is a hostname attached to an environment. Name is the natural key.
type Domain struct {
	Name        string `json:"name"`
	Environment string `json:"environment"`
	SSLStatus   string `json:"ssl_status"`
	SSLExpiry   string `json:"ssl_expiry"`
	DNS         string `json:"dns"`
	Created     string `json:"created"`
}
