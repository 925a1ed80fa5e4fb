// AngelaMos | 2026
// dto.go

package profile

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Habit parameter defaults applied when onboarding input is missing or
// unparseable. Onboarding never rejects a bad number, it falls back.
const (
	DefaultCigarettesPerDay  = 10
	DefaultCostPerPack       = 10.0
	DefaultCigarettesPerPack = 20
)

// FlexNumber accepts a JSON number or a numeric string, since habit
// parameters arrive from free-form input fields.
type FlexNumber struct {
	value float64
	valid bool
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f.value = parsed
		f.valid = true
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	f.value = n
	f.valid = true
	return nil
}

// IntOr returns the value as an int, or def when the input was absent,
// unparseable, or not positive.
func (f FlexNumber) IntOr(def int) int {
	if !f.valid || f.value <= 0 {
		return def
	}
	return int(f.value)
}

func (f FlexNumber) FloatOr(def float64) float64 {
	if !f.valid || f.value <= 0 {
		return def
	}
	return f.value
}

type OnboardRequest struct {
	Name              string     `json:"name"              validate:"required,max=100"`
	QuitDate          *time.Time `json:"quitDate"`
	CigarettesPerDay  FlexNumber `json:"cigarettesPerDay"`
	CostPerPack       FlexNumber `json:"costPerPack"`
	CigarettesPerPack FlexNumber `json:"cigarettesPerPack"`
	Currency          string     `json:"currency"          validate:"max=8"`
	Pro               bool       `json:"pro"`
}

// UpdateRequest merges field by field; absent fields keep their stored
// value. The quit date is fixed at onboarding and not editable here:
// every elapsed-time figure is anchored on it.
type UpdateRequest struct {
	Name                  *string    `json:"name"                  validate:"omitempty,max=100"`
	CigarettesPerDay      *int       `json:"cigarettesPerDay"      validate:"omitempty,min=1"`
	CostPerPack           *float64   `json:"costPerPack"           validate:"omitempty,gt=0"`
	CigarettesPerPack     *int       `json:"cigarettesPerPack"     validate:"omitempty,min=1"`
	Currency              *string    `json:"currency"              validate:"omitempty,max=8"`
	NotificationsEnabled  *bool      `json:"notificationsEnabled"`
	NotificationFrequency *string    `json:"notificationFrequency" validate:"omitempty,oneof=daily weekly"`
}

type SummaryResponse struct {
	Date              string  `json:"date"`
	CigarettesAvoided int     `json:"cigarettesAvoided"`
	MoneySaved        float64 `json:"moneySaved"`
	Currency          string  `json:"currency"`
	DaysSmokeFree     float64 `json:"daysSmokeFree"`
	LatestMilestone   any     `json:"latestMilestone,omitempty"`
}
