// AngelaMos | 2026
// entity.go

package profile

import (
	"time"
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Profile is the single tracked smoker record. The app is single-user:
// at most one row exists and every endpoint operates on it.
type Profile struct {
	ID                    string     `db:"id"                     json:"id"`
	Name                  string     `db:"name"                   json:"name"`
	QuitDate              time.Time  `db:"quit_date"              json:"quitDate"`
	CigarettesPerDay      int        `db:"cigarettes_per_day"     json:"cigarettesPerDay"`
	CostPerPack           float64    `db:"cost_per_pack"          json:"costPerPack"`
	CigarettesPerPack     int        `db:"cigarettes_per_pack"    json:"cigarettesPerPack"`
	Currency              string     `db:"currency"               json:"currency"`
	IsPro                 bool       `db:"is_pro"                 json:"isPro"`
	CravingsResisted      int        `db:"cravings_resisted"      json:"cravingsResisted"`
	NotificationsEnabled  bool       `db:"notifications_enabled"  json:"notificationsEnabled"`
	NotificationFrequency string     `db:"notification_frequency" json:"notificationFrequency"`
	LastNotificationDate  *time.Time `db:"last_notification_date" json:"lastNotificationDate,omitempty"`
	CreatedAt             time.Time  `db:"created_at"             json:"createdAt"`
	UpdatedAt             time.Time  `db:"updated_at"             json:"updatedAt"`
}

// Normalize backfills fields that older records may be missing so the
// rest of the app never sees zero-value surprises.
func (p *Profile) Normalize() {
	if p.Currency == "" {
		p.Currency = "$"
	}
	if p.CravingsResisted < 0 {
		p.CravingsResisted = 0
	}
	if p.NotificationFrequency != FrequencyDaily &&
		p.NotificationFrequency != FrequencyWeekly {
		p.NotificationFrequency = FrequencyDaily
	}
}
