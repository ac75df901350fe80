package models

import (
	"time"

	"github.com/Dosada05/fixture-engine/brackets"
)

type Standing struct {
	FixtureID       int       `json:"fixture_id" db:"fixture_id"`
	ParticipantID   int       `json:"participant_id" db:"participant_id"`
	Rank            int       `json:"rank" db:"rank"`
	Played          int       `json:"played" db:"played"`
	Won             int       `json:"won" db:"won"`
	Drawn           int       `json:"drawn" db:"drawn"`
	Lost            int       `json:"lost" db:"lost"`
	PointsFor       int       `json:"points_for" db:"points_for"`
	PointsAgainst   int       `json:"points_against" db:"points_against"`
	PointDifference int       `json:"point_difference" db:"point_difference"`
	Points          int       `json:"points" db:"points"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Participant *Participant `json:"participant,omitempty" db:"-"`
}

func StandingFromRow(fixtureID int, row brackets.StandingRow[int]) Standing {
	return Standing{
		FixtureID:       fixtureID,
		ParticipantID:   row.ParticipantID,
		Rank:            row.Rank,
		Played:          row.Played,
		Won:             row.Won,
		Drawn:           row.Drawn,
		Lost:            row.Lost,
		PointsFor:       row.PointsFor,
		PointsAgainst:   row.PointsAgainst,
		PointDifference: row.PointDifference,
		Points:          row.Points,
	}
}
