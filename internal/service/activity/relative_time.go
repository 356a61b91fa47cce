package activity

import (
	"fmt"
	"time"

	"github.com/sitegrid/console/internal/domain"
)

// FormatRelativeTime renders how long ago timestamp was relative to now.
// Pure: it never touches stored state, so rerunning it at a later instant
// only changes the returned string. Bucket thresholds:
//
//	< 60s   "Just now"
//	< 1h    "{n} minute(s) ago"
//	< 24h   "{n} hour(s) ago"
//	< 48h   "Yesterday"
//	< 7d    "{n} day(s) ago"
//	< 30d   "{n} week(s) ago"
//	else    absolute date
func FormatRelativeTime(timestamp, now time.Time) string {
	seconds := int64(now.Sub(timestamp) / time.Second)
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 172800:
		return "Yesterday"
	case seconds < 604800:
		return plural(seconds/86400, "day")
	case seconds < 2592000:
		return plural(seconds/604800, "week")
	default:
		return timestamp.Format("1/2/2006")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// View is a feed entry decorated with its derived display fields.
type View struct {
	ID           string               `json:"id"`
	Action       string               `json:"action"`
	Category     string               `json:"category"`
	User         domain.ActivityUser  `json:"user"`
	Details      string               `json:"details,omitempty"`
	RelatedLinks []domain.RelatedLink `json:"related_links,omitempty"`
	Time         string               `json:"time"`
	Timestamp    int64                `json:"timestamp"`
}

// Render derives the display view of an entry at the given instant.
func Render(entry domain.Activity, now time.Time) View {
	return View{
		ID:           entry.ID,
		Action:       entry.Action,
		Category:     entry.Category,
		User:         entry.User,
		Details:      entry.Details,
		RelatedLinks: entry.RelatedLinks,
		Time:         FormatRelativeTime(entry.Timestamp, now),
		Timestamp:    entry.Timestamp.UnixMilli(),
	}
}

// RenderAll derives display views for a batch of entries.
func RenderAll(entries []domain.Activity, now time.Time) []View {
	views := make([]View, 0, len(entries))
	for _, entry := range entries {
		views = append(views, Render(entry, now))
	}
	return views
}
