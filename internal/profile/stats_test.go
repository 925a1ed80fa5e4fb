// AngelaMos | 2026
// stats_test.go

package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseProfile() *Profile {
	return &Profile{
		ID:                "p1",
		Name:              "Alex",
		QuitDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CigarettesPerDay:  10,
		CostPerPack:       10.0,
		CigarettesPerPack: 20,
		Currency:          "$",
		CravingsResisted:  4,
	}
}

func TestDerive(t *testing.T) {
	p := baseProfile()

	tests := []struct {
		name        string
		now         time.Time
		wantAvoided int
		wantSaved   float64
		wantMinutes int
	}{
		{
			name:        "three days",
			now:         p.QuitDate.Add(3 * 24 * time.Hour),
			wantAvoided: 30,
			wantSaved:   15.0,
			wantMinutes: 330,
		},
		{
			name:        "half day floors avoided count",
			now:         p.QuitDate.Add(12 * time.Hour),
			wantAvoided: 5,
			wantSaved:   2.5,
			wantMinutes: 55,
		},
		{
			name:        "at quit instant",
			now:         p.QuitDate,
			wantAvoided: 0,
			wantSaved:   0,
			wantMinutes: 0,
		},
		{
			name:        "clock before quit date clamps to zero",
			now:         p.QuitDate.Add(-48 * time.Hour),
			wantAvoided: 0,
			wantSaved:   0,
			wantMinutes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Derive(p, tt.now)

			require.Equal(t, tt.wantAvoided, stats.CigarettesAvoided)
			require.InDelta(t, tt.wantSaved, stats.MoneySaved, 1e-9)
			require.Equal(t, tt.wantMinutes, stats.LifeRegainedMinutes)
			require.Equal(t, p.CravingsResisted, stats.CravingsResisted)
			require.GreaterOrEqual(t, stats.SecondsSmokeFree, int64(0))
		})
	}
}

func TestDeriveMonotonic(t *testing.T) {
	p := baseProfile()

	var prev Stats
	for hours := 0; hours <= 24*30; hours += 7 {
		now := p.QuitDate.Add(time.Duration(hours) * time.Hour)
		stats := Derive(p, now)

		require.GreaterOrEqual(t, stats.CigarettesAvoided, prev.CigarettesAvoided)
		require.GreaterOrEqual(t, stats.MoneySaved, prev.MoneySaved)
		require.GreaterOrEqual(t, stats.SecondsSmokeFree, prev.SecondsSmokeFree)

		prev = stats
	}
}

func TestDeriveZeroPackSize(t *testing.T) {
	p := baseProfile()
	p.CigarettesPerPack = 0

	stats := Derive(p, p.QuitDate.Add(24*time.Hour))

	require.Equal(t, 10, stats.CigarettesAvoided)
	require.Zero(t, stats.MoneySaved)
}

func TestDailyRate(t *testing.T) {
	cigs, money := DailyRate(baseProfile())

	require.Equal(t, 10, cigs)
	require.InDelta(t, 5.0, money, 1e-9)
}
