package brackets

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Settings is the per-fixture configuration consumed by the generators and
// the standings calculator. Unknown JSON fields are ignored.
type Settings struct {
	RandomizeSeeds          bool `json:"randomize_seeds"`
	AvoidSameTeamFirstRound bool `json:"avoid_same_team_first_round"`
	// StrictAvoidance turns a same-team knockout round-1 match into
	// ErrConstraintInfeasible instead of a warning. Round robin ignores it.
	StrictAvoidance bool `json:"strict_avoidance"`
	ThirdPlaceMatch bool `json:"third_place_match"`
	Rounds          int  `json:"rounds"`
	PointsForWin    int  `json:"points_for_win"`
	PointsForDraw   int  `json:"points_for_draw"`
	PointsForLoss   int  `json:"points_for_loss"`
}

func DefaultSettings() Settings {
	return Settings{
		RandomizeSeeds:          true,
		AvoidSameTeamFirstRound: true,
		Rounds:                  1,
		PointsForWin:            3,
		PointsForDraw:           1,
		PointsForLoss:           0,
	}
}

// ParseSettings decodes raw over DefaultSettings, so omitted fields keep
// their defaults. Empty input yields the defaults.
func ParseSettings(raw []byte) (Settings, error) {
	settings := DefaultSettings()
	if len(bytes.TrimSpace(raw)) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: settings: %v", ErrInvalidInput, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) Validate() error {
	if s.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidInput, s.Rounds)
	}
	return nil
}

type PointsPolicy struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

func (s Settings) Points() PointsPolicy {
	return PointsPolicy{Win: s.PointsForWin, Draw: s.PointsForDraw, Loss: s.PointsForLoss}
}
