// AngelaMos | 2026
// stats.go

package profile

import (
	"math"
	"time"
)

// Each cigarette not smoked is counted as 11 minutes of life regained.
const minutesRegainedPerCigarette = 11

type Stats struct {
	SecondsSmokeFree    int64   `json:"secondsSmokeFree"`
	DaysSmokeFree       float64 `json:"daysSmokeFree"`
	CigarettesAvoided   int     `json:"cigarettesAvoided"`
	MoneySaved          float64 `json:"moneySaved"`
	Currency            string  `json:"currency"`
	LifeRegainedMinutes int     `json:"lifeRegainedMinutes"`
	CravingsResisted    int     `json:"cravingsResisted"`
}

// Derive computes every displayed stat from the profile and the current
// time. Pure; all outputs are monotonic in now. If the clock reads
// before the quit date the elapsed time clamps to zero so every stat
// reads zero instead of going negative.
func Derive(p *Profile, now time.Time) Stats {
	elapsed := now.Sub(p.QuitDate)
	if elapsed < 0 {
		elapsed = 0
	}

	days := elapsed.Hours() / 24
	avoided := int(math.Floor(days * float64(p.CigarettesPerDay)))

	var saved float64
	if p.CigarettesPerPack > 0 {
		saved = float64(avoided) / float64(p.CigarettesPerPack) * p.CostPerPack
	}

	return Stats{
		SecondsSmokeFree:    int64(elapsed.Seconds()),
		DaysSmokeFree:       days,
		CigarettesAvoided:   avoided,
		MoneySaved:          saved,
		Currency:            p.Currency,
		LifeRegainedMinutes: avoided * minutesRegainedPerCigarette,
		CravingsResisted:    p.CravingsResisted,
	}
}

// DailyRate reports what one smoke-free day is worth: cigarettes not
// smoked and money kept.
func DailyRate(p *Profile) (cigarettes int, money float64) {
	cigarettes = p.CigarettesPerDay
	if p.CigarettesPerPack > 0 {
		money = float64(p.CigarettesPerDay) /
			float64(p.CigarettesPerPack) * p.CostPerPack
	}
	return cigarettes, money
}
