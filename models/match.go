package models

import (
	"time"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/lib/pq"
)

// Match is the stored form of brackets.Match[int].
type Match struct {
	ID                  string               `json:"id" db:"id"`
	FixtureID           int                  `json:"fixture_id" db:"fixture_id"`
	Round               int                  `json:"round" db:"round"`
	MatchNumber         int                  `json:"match_number" db:"match_number"`
	HomeParticipantID   *int                 `json:"home_participant_id,omitempty" db:"home_participant_id"`
	AwayParticipantID   *int                 `json:"away_participant_id,omitempty" db:"away_participant_id"`
	HomePartnerID       *int                 `json:"home_partner_id,omitempty" db:"home_partner_id"`
	AwayPartnerID       *int                 `json:"away_partner_id,omitempty" db:"away_partner_id"`
	HomeScore           *int                 `json:"home_score,omitempty" db:"home_score"`
	AwayScore           *int                 `json:"away_score,omitempty" db:"away_score"`
	PenaltyHomeScore    *int                 `json:"penalty_home_score,omitempty" db:"penalty_home_score"`
	PenaltyAwayScore    *int                 `json:"penalty_away_score,omitempty" db:"penalty_away_score"`
	Status              brackets.MatchStatus `json:"status" db:"status"`
	WinnerParticipantID *int                 `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	LoserParticipantID  *int                 `json:"loser_participant_id,omitempty" db:"loser_participant_id"`
	WinnerPartnerID     *int                 `json:"winner_partner_id,omitempty" db:"winner_partner_id"`
	LoserPartnerID      *int                 `json:"loser_partner_id,omitempty" db:"loser_partner_id"`
	NextMatchID         *string              `json:"next_match_id,omitempty" db:"next_match_id"`
	PreviousMatchIDs    pq.StringArray       `json:"previous_match_ids" db:"previous_match_ids"`
	IsThirdPlaceMatch   bool                 `json:"is_third_place_match" db:"is_third_place_match"`
	CreatedAt           time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at" db:"updated_at"`
}

func (m *Match) ToEngine() brackets.Match[int] {
	out := brackets.Match[int]{
		ID:                m.ID,
		FixtureID:         m.FixtureID,
		Round:             m.Round,
		MatchNumber:       m.MatchNumber,
		Home:              m.HomeParticipantID,
		Away:              m.AwayParticipantID,
		HomePartner:       m.HomePartnerID,
		AwayPartner:       m.AwayPartnerID,
		HomeScore:         m.HomeScore,
		AwayScore:         m.AwayScore,
		Status:            m.Status,
		Winner:            m.WinnerParticipantID,
		Loser:             m.LoserParticipantID,
		WinnerPartner:     m.WinnerPartnerID,
		LoserPartner:      m.LoserPartnerID,
		NextMatchID:       m.NextMatchID,
		PreviousMatchIDs:  append([]string{}, m.PreviousMatchIDs...),
		IsThirdPlaceMatch: m.IsThirdPlaceMatch,
	}
	if m.PenaltyHomeScore != nil && m.PenaltyAwayScore != nil {
		out.PenaltyShootout = &brackets.PenaltyShootout{HomeScore: *m.PenaltyHomeScore, AwayScore: *m.PenaltyAwayScore}
	}
	return out.Clone()
}

// MatchFromEngine converts an engine match for storage. Timestamps are left
// to the database.
func MatchFromEngine(em *brackets.Match[int]) *Match {
	c := em.Clone()
	m := &Match{
		ID:                  c.ID,
		FixtureID:           c.FixtureID,
		Round:               c.Round,
		MatchNumber:         c.MatchNumber,
		HomeParticipantID:   c.Home,
		AwayParticipantID:   c.Away,
		HomePartnerID:       c.HomePartner,
		AwayPartnerID:       c.AwayPartner,
		HomeScore:           c.HomeScore,
		AwayScore:           c.AwayScore,
		Status:              c.Status,
		WinnerParticipantID: c.Winner,
		LoserParticipantID:  c.Loser,
		WinnerPartnerID:     c.WinnerPartner,
		LoserPartnerID:      c.LoserPartner,
		NextMatchID:         c.NextMatchID,
		PreviousMatchIDs:    pq.StringArray(c.PreviousMatchIDs),
		IsThirdPlaceMatch:   c.IsThirdPlaceMatch,
	}
	if c.PenaltyShootout != nil {
		home, away := c.PenaltyShootout.HomeScore, c.PenaltyShootout.AwayScore
		m.PenaltyHomeScore, m.PenaltyAwayScore = &home, &away
	}
	return m
}
