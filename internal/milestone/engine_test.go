// AngelaMos | 2026
// engine_test.go

package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/breathnew/backend/internal/profile"
)

func TestCatalogOrdered(t *testing.T) {
	require.NotEmpty(t, Catalog)

	for i := 1; i < len(Catalog); i++ {
		require.Greater(
			t,
			Catalog[i].After,
			Catalog[i-1].After,
			"catalog must be sorted ascending",
		)
	}
}

func TestReachedIsPrefix(t *testing.T) {
	durations := []time.Duration{
		0,
		20 * time.Minute,
		1200 * time.Second,
		13 * time.Hour,
		25 * time.Hour,
		100 * 24 * time.Hour,
	}

	for _, d := range durations {
		reached := Reached(d)
		for i, m := range reached {
			require.Equal(t, Catalog[i].ID, m.ID)
		}
	}
}

func TestReached(t *testing.T) {
	tests := []struct {
		name      string
		sinceQuit time.Duration
		wantIDs   []string
	}{
		{"nothing yet", 10 * time.Minute, nil},
		{"twenty minutes", 1200 * time.Second, []string{"bp"}},
		{"negative clamps", -time.Hour, nil},
		{
			"one day",
			24 * time.Hour,
			[]string{"bp", "co", "heart_attack"},
		},
		{
			"everything",
			31 * 24 * time.Hour,
			[]string{
				"bp", "co", "heart_attack", "senses",
				"nicotine", "energy", "cough",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := Reached(tt.sinceQuit)

			ids := make([]string, 0, len(reached))
			for _, m := range reached {
				ids = append(ids, m.ID)
			}
			require.Equal(t, tt.wantIDs, nilIfEmpty(ids))
		})
	}
}

func nilIfEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func TestLatest(t *testing.T) {
	_, ok := Latest(5 * time.Minute)
	require.False(t, ok)

	m, ok := Latest(50 * time.Hour)
	require.True(t, ok)
	require.Equal(t, "senses", m.ID)
}

func TestTimelineLocking(t *testing.T) {
	entries := Timeline(24*time.Hour, false, LangEN)
	require.Len(t, entries, len(Catalog))

	for i, entry := range entries {
		if i <= 2 {
			require.False(t, entry.Locked, "first three stay free: %s", entry.ID)
		} else {
			require.True(t, entry.Locked, "index %d should lock", i)
		}
	}

	for _, entry := range Timeline(24*time.Hour, true, LangEN) {
		require.False(t, entry.Locked, "pro never sees locks")
	}
}

func TestTimelineLockIsDisplayOnly(t *testing.T) {
	sinceQuit := 100 * 24 * time.Hour

	free := Timeline(sinceQuit, false, LangEN)
	pro := Timeline(sinceQuit, true, LangEN)

	for i := range free {
		require.Equal(t, pro[i].Achieved, free[i].Achieved)
		require.InDelta(t, pro[i].Progress, free[i].Progress, 1e-9)
	}
}

func TestTimelineProgress(t *testing.T) {
	entries := Timeline(10*time.Minute, true, LangEN)

	require.InDelta(t, 0.5, entries[0].Progress, 1e-9)
	require.False(t, entries[0].Achieved)

	entries = Timeline(40*time.Minute, true, LangEN)
	require.InDelta(t, 1.0, entries[0].Progress, 1e-9)
	require.True(t, entries[0].Achieved)
}

func TestTimelineLocalization(t *testing.T) {
	en := Timeline(0, true, LangEN)
	zh := Timeline(0, true, LangZH)

	require.NotEqual(t, en[0].Title, zh[0].Title)

	// Unknown language falls back to English.
	other := Timeline(0, true, "fr")
	require.Equal(t, en[0].Title, other[0].Title)
}

func TestLockedFor(t *testing.T) {
	require.False(t, LockedFor("bp", false))
	require.False(t, LockedFor("heart_attack", false))
	require.True(t, LockedFor("senses", false))
	require.True(t, LockedFor("cough", false))
	require.False(t, LockedFor("cough", true))
	require.False(t, LockedFor("unknown", false))
}

func TestAchievementListingOrder(t *testing.T) {
	ids := make([]string, 0, len(Achievements))
	for _, a := range Achievements {
		ids = append(ids, a.ID)
	}

	require.Equal(
		t,
		[]string{"day1", "week1", "month1", "savings", "resolute"},
		ids,
	)
}

func TestAchievements(t *testing.T) {
	p := &profile.Profile{
		QuitDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CigarettesPerDay:  10,
		CostPerPack:       10,
		CigarettesPerPack: 20,
	}

	tests := []struct {
		name     string
		days     float64
		cravings int
		wantIDs  []string
	}{
		{"nothing", 0.5, 0, nil},
		{"first day", 1, 0, []string{"day1"}},
		{"one week", 8, 0, []string{"day1", "week1"}},
		{
			"two weeks unlocks savings",
			14, 0,
			[]string{"day1", "week1", "savings"},
		},
		{
			"a month plus resolute",
			31, 12,
			[]string{"day1", "week1", "month1", "savings", "resolute"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.CravingsResisted = tt.cravings
			now := p.QuitDate.Add(
				time.Duration(tt.days * 24 * float64(time.Hour)),
			)
			stats := profile.Derive(p, now)

			unlocked := Unlocked(p, stats)
			ids := make([]string, 0, len(unlocked))
			for _, a := range unlocked {
				ids = append(ids, a.ID)
			}
			require.Equal(t, tt.wantIDs, nilIfEmpty(ids))
		})
	}
}
