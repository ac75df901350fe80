package models

import (
	"time"

	"github.com/Dosada05/fixture-engine/brackets"
)

// FixtureStatus mirrors the CHECK constraint on fixtures.status.
type FixtureStatus string

const (
	FixtureStatusRegistration FixtureStatus = "registration"
	FixtureStatusActive       FixtureStatus = "active"
	FixtureStatusCompleted    FixtureStatus = "completed"
)

type ParticipantType string

const (
	ParticipantTypeSolo    ParticipantType = "solo"
	ParticipantTypeDoubles ParticipantType = "doubles"
)

func (t ParticipantType) Valid() bool {
	return t == ParticipantTypeSolo || t == ParticipantTypeDoubles
}

// Fixture is one competition using a single format and participant set.
type Fixture struct {
	ID              int             `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Format          brackets.Format `json:"format" db:"format"`
	ParticipantType ParticipantType `json:"participant_type" db:"participant_type"`
	Status          FixtureStatus   `json:"status" db:"status"`
	SettingsJSON    *string         `json:"-" db:"settings"`
	TotalRounds     *int            `json:"total_rounds,omitempty" db:"total_rounds"`
	ChampionID      *int            `json:"champion_participant_id,omitempty" db:"champion_participant_id"`
	SnapshotURL     *string         `json:"snapshot_url,omitempty" db:"snapshot_url"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	// Populated by services.
	Settings     *brackets.Settings `json:"settings,omitempty" db:"-"`
	Participants []Participant      `json:"participants,omitempty" db:"-"`
	Matches      []Match            `json:"matches,omitempty" db:"-"`
	Standings    []Standing         `json:"standings,omitempty" db:"-"`
}

// ParsedSettings decodes the stored settings over the engine defaults.
func (f *Fixture) ParsedSettings() (brackets.Settings, error) {
	if f.SettingsJSON == nil {
		return brackets.DefaultSettings(), nil
	}
	return brackets.ParseSettings([]byte(*f.SettingsJSON))
}
