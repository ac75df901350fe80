package models

import "time"

// Participant is a seeded entry of a fixture. In doubles fixtures a row may
// name a partner row; partner rows are not seeded themselves.
type Participant struct {
	ID        int       `json:"id" db:"id"`
	FixtureID int       `json:"fixture_id" db:"fixture_id"`
	Name      string    `json:"name" db:"name"`
	TeamID    *int      `json:"team_id,omitempty" db:"team_id"`
	PartnerID *int      `json:"partner_id,omitempty" db:"partner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
