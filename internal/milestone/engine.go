// AngelaMos | 2026
// engine.go

package milestone

import (
	"time"

	"github.com/breathnew/backend/internal/profile"
)

// Non-Pro users see the first freeCount milestones unlocked; the rest of
// the timeline is display-locked. The lock is presentation only and
// never changes which milestones count as reached.
const freeCount = 3

// Reached returns the milestones whose threshold has passed. Because
// the catalog is ordered, the result is always a prefix of it.
func Reached(sinceQuit time.Duration) []Milestone {
	if sinceQuit < 0 {
		sinceQuit = 0
	}

	reached := make([]Milestone, 0, len(Catalog))
	for _, m := range Catalog {
		if sinceQuit < m.After {
			break
		}
		reached = append(reached, m)
	}
	return reached
}

// Latest returns the most recently reached milestone, if any.
func Latest(sinceQuit time.Duration) (Milestone, bool) {
	reached := Reached(sinceQuit)
	if len(reached) == 0 {
		return Milestone{}, false
	}
	return reached[len(reached)-1], true
}

// Unlocked evaluates every achievement predicate against the profile
// and its derived stats.
func Unlocked(p *profile.Profile, stats profile.Stats) []Achievement {
	unlocked := make([]Achievement, 0, len(Achievements))
	for _, a := range Achievements {
		if a.Unlocked(p, stats) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

type TimelineEntry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AfterSecs   int64   `json:"afterSeconds"`
	Achieved    bool    `json:"achieved"`
	Progress    float64 `json:"progress"`
	Locked      bool    `json:"locked"`
}

// Timeline renders the full catalog for display: achievement state,
// progress toward each threshold, and the Pro display lock.
func Timeline(sinceQuit time.Duration, isPro bool, lang string) []TimelineEntry {
	if sinceQuit < 0 {
		sinceQuit = 0
	}

	entries := make([]TimelineEntry, 0, len(Catalog))
	for i, m := range Catalog {
		text := m.Localize(lang)

		progress := float64(sinceQuit) / float64(m.After)
		if progress > 1 {
			progress = 1
		}

		entries = append(entries, TimelineEntry{
			ID:          m.ID,
			Title:       text.Title,
			Description: text.Description,
			AfterSecs:   int64(m.After.Seconds()),
			Achieved:    sinceQuit >= m.After,
			Progress:    progress,
			Locked:      !isPro && i > freeCount-1,
		})
	}
	return entries
}

// LockedFor reports whether the given milestone is display-locked for a
// non-Pro user. Unknown IDs are not locked; the handler 404s them.
func LockedFor(id string, isPro bool) bool {
	if isPro {
		return false
	}
	for i, m := range Catalog {
		if m.ID == id {
			return i > freeCount-1
		}
	}
	return false
}
