package brackets

type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusInProgress MatchStatus = "in_progress"
	StatusCompleted  MatchStatus = "completed"
	StatusCancelled  MatchStatus = "cancelled"
	StatusPostponed  MatchStatus = "postponed"
	StatusWalkover   MatchStatus = "walkover"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusPostponed, StatusWalkover:
		return true
	}
	return false
}

// Slot names one side of a match.
type Slot string

const (
	SlotHome Slot = "home"
	SlotAway Slot = "away"
)

var slotOrder = [...]Slot{SlotHome, SlotAway}

type PenaltyShootout struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// Match is one node of a fixture's match arena. Links between matches are
// plain IDs so a bracket can be serialized and stored without pointer cycles.
type Match[P comparable] struct {
	ID          string `json:"id"`
	FixtureID   int    `json:"fixture_id"`
	Round       int    `json:"round"`
	MatchNumber int    `json:"match_number"`

	Home        *P `json:"home_participant,omitempty"`
	Away        *P `json:"away_participant,omitempty"`
	HomePartner *P `json:"home_partner,omitempty"`
	AwayPartner *P `json:"away_partner,omitempty"`

	HomeScore       *int             `json:"home_score,omitempty"`
	AwayScore       *int             `json:"away_score,omitempty"`
	PenaltyShootout *PenaltyShootout `json:"penalty_shootout,omitempty"`
	Status          MatchStatus      `json:"status"`

	Winner        *P `json:"winner,omitempty"`
	Loser         *P `json:"loser,omitempty"`
	WinnerPartner *P `json:"winner_partner,omitempty"`
	LoserPartner  *P `json:"loser_partner,omitempty"`

	NextMatchID       *string  `json:"next_match_id,omitempty"`
	PreviousMatchIDs  []string `json:"previous_match_ids"`
	IsThirdPlaceMatch bool     `json:"is_third_place_match"`
}

func (m *Match[P]) Participant(slot Slot) *P {
	if slot == SlotHome {
		return m.Home
	}
	return m.Away
}

func (m *Match[P]) Partner(slot Slot) *P {
	if slot == SlotHome {
		return m.HomePartner
	}
	return m.AwayPartner
}

func (m *Match[P]) setSlot(slot Slot, participant, partner *P) {
	if slot == SlotHome {
		m.Home, m.HomePartner = participant, partner
		return
	}
	m.Away, m.AwayPartner = participant, partner
}

// HasParticipant reports whether p plays on either side of m.
func (m *Match[P]) HasParticipant(p P) bool {
	return (m.Home != nil && *m.Home == p) || (m.Away != nil && *m.Away == p)
}

// Clone returns a deep copy that shares no pointers or slices with m.
func (m *Match[P]) Clone() Match[P] {
	c := *m
	c.Home = clonePtr(m.Home)
	c.Away = clonePtr(m.Away)
	c.HomePartner = clonePtr(m.HomePartner)
	c.AwayPartner = clonePtr(m.AwayPartner)
	c.HomeScore = clonePtr(m.HomeScore)
	c.AwayScore = clonePtr(m.AwayScore)
	c.PenaltyShootout = clonePtr(m.PenaltyShootout)
	c.Winner = clonePtr(m.Winner)
	c.Loser = clonePtr(m.Loser)
	c.WinnerPartner = clonePtr(m.WinnerPartner)
	c.LoserPartner = clonePtr(m.LoserPartner)
	c.NextMatchID = clonePtr(m.NextMatchID)
	c.PreviousMatchIDs = append([]string{}, m.PreviousMatchIDs...)
	return c
}

func (m *Match[P]) linkPrevious(id string) {
	for _, prev := range m.PreviousMatchIDs {
		if prev == id {
			return
		}
	}
	m.PreviousMatchIDs = append(m.PreviousMatchIDs, id)
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
