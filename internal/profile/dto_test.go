// AngelaMos | 2026
// dto_test.go

package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexNumberCoercion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantInt int
	}{
		{"plain number", `{"cigarettesPerDay": 15}`, 15},
		{"numeric string", `{"cigarettesPerDay": "15"}`, 15},
		{"padded string", `{"cigarettesPerDay": " 15 "}`, 15},
		{"garbage string falls back", `{"cigarettesPerDay": "a lot"}`, 10},
		{"zero falls back", `{"cigarettesPerDay": 0}`, 10},
		{"zero string falls back", `{"cigarettesPerDay": "0"}`, 10},
		{"negative falls back", `{"cigarettesPerDay": -3}`, 10},
		{"null falls back", `{"cigarettesPerDay": null}`, 10},
		{"absent falls back", `{}`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req OnboardRequest
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &req))

			got := req.CigarettesPerDay.IntOr(DefaultCigarettesPerDay)
			require.Equal(t, tt.wantInt, got)
		})
	}
}

func TestFlexNumberFloat(t *testing.T) {
	var req OnboardRequest
	payload := `{"costPerPack": "12.50"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.InDelta(t, 12.5, req.CostPerPack.FloatOr(DefaultCostPerPack), 1e-9)
	require.InDelta(
		t,
		DefaultCostPerPack,
		OnboardRequest{}.CostPerPack.FloatOr(DefaultCostPerPack),
		1e-9,
	)
}
