package domain

import "time"

// Activity categories, one per entity family.
const (
	CategoryDeployment  = "deployment"
	CategoryBackup      = "backup"
	CategoryUpdate      = "update"
	CategoryDomain      = "domain"
	CategoryEnvironment = "environment"
	CategoryUser        = "user"
	CategoryCache       = "cache"
)

// ActivityUser identifies the actor behind an activity entry.
type ActivityUser struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// RelatedLink is a navigation hint attached to an activity entry.
type RelatedLink struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// Activity is one append-only feed entry. Timestamp is immutable; the
// displayed relative-time string is derived from it at read time.
type Activity struct {
	ID           string        `json:"id"`
	Action       string        `json:"action"`
	Category     string        `json:"category"`
	User         ActivityUser  `json:"user"`
	Details      string        `json:"details,omitempty"`
	RelatedLinks []RelatedLink `json:"related_links,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}
