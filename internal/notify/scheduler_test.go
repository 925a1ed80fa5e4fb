// AngelaMos | 2026
// scheduler_test.go

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/breathnew/backend/internal/profile"
)

func TestDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		p    profile.Profile
		want bool
	}{
		{
			"disabled never fires",
			profile.Profile{
				NotificationsEnabled:  false,
				NotificationFrequency: profile.FrequencyDaily,
			},
			false,
		},
		{
			"never notified fires immediately",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyDaily,
			},
			true,
		},
		{
			"daily under a day",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyDaily,
				LastNotificationDate:  at(23 * time.Hour),
			},
			false,
		},
		{
			"daily at a day",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyDaily,
				LastNotificationDate:  at(24 * time.Hour),
			},
			true,
		},
		{
			"weekly under a week",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyWeekly,
				LastNotificationDate:  at(167 * time.Hour),
			},
			false,
		},
		{
			"weekly at a week",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyWeekly,
				LastNotificationDate:  at(168 * time.Hour),
			},
			true,
		},
		{
			"weekly ignores the daily interval",
			profile.Profile{
				NotificationsEnabled:  true,
				NotificationFrequency: profile.FrequencyWeekly,
				LastNotificationDate:  at(48 * time.Hour),
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Due(&tt.p, now))
		})
	}
}
