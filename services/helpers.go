package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

// EventPublisher delivers fixture events to websocket subscribers.
// realtime.Hub implements it.
type EventPublisher interface {
	PublishFixtureEvent(fixtureID int, eventType string, payload interface{})
}

func publish(events EventPublisher, fixtureID int, eventType string, payload interface{}) {
	if events == nil {
		return
	}
	events.PublishFixtureEvent(fixtureID, eventType, payload)
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. A panic in fn rolls back and is re-raised.
func withTx(ctx context.Context, db *sqlx.DB, logger *slog.Logger, fn func(tx *sqlx.Tx) error) (txErr error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// roster splits the stored participant rows into seeds and their partners.
// A row that another row names as its partner is not seeded on its own.
type roster struct {
	seeds    []int
	partners map[int]int
	teams    brackets.TeamMap[int]
	byID     map[int]*models.Participant
}

func newRoster(participants []*models.Participant) roster {
	r := roster{
		partners: make(map[int]int),
		teams:    make(brackets.TeamMap[int]),
		byID:     make(map[int]*models.Participant, len(participants)),
	}
	partnered := make(map[int]bool)
	for _, p := range participants {
		r.byID[p.ID] = p
		if p.PartnerID != nil {
			partnered[*p.PartnerID] = true
		}
	}
	for _, p := range participants {
		if partnered[p.ID] {
			continue
		}
		r.seeds = append(r.seeds, p.ID)
		if p.PartnerID != nil {
			r.partners[p.ID] = *p.PartnerID
		}
		if p.TeamID != nil {
			r.teams[p.ID] = *p.TeamID
		}
	}
	return r
}

func (r roster) partnerOf(id *int) *int {
	if id == nil {
		return nil
	}
	partner, ok := r.partners[*id]
	if !ok {
		return nil
	}
	return &partner
}

// applyPartners fills the partner columns of every placed seed, including
// the winners of walkovers decided during generation.
func (r roster) applyPartners(matches []*brackets.Match[int]) {
	if len(r.partners) == 0 {
		return
	}
	for _, m := range matches {
		m.HomePartner = r.partnerOf(m.Home)
		m.AwayPartner = r.partnerOf(m.Away)
		m.WinnerPartner = r.partnerOf(m.Winner)
		m.LoserPartner = r.partnerOf(m.Loser)
	}
}

func toModelMatches(matches []*brackets.Match[int]) []*models.Match {
	out := make([]*models.Match, len(matches))
	for i, m := range matches {
		out[i] = models.MatchFromEngine(m)
	}
	return out
}

func toEngineMatches(matches []*models.Match) []*brackets.Match[int] {
	out := make([]*brackets.Match[int], len(matches))
	for i, m := range matches {
		em := m.ToEngine()
		out[i] = &em
	}
	return out
}

func derefMatches(matches []*models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func derefParticipants(participants []*models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func derefStandings(standings []*models.Standing) []models.Standing {
	out := make([]models.Standing, 0, len(standings))
	for _, s := range standings {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func isDecided(status brackets.MatchStatus) bool {
	switch status {
	case brackets.StatusCompleted, brackets.StatusWalkover, brackets.StatusCancelled:
		return true
	}
	return false
}

// fixtureOutcome reports whether every match of a fixture is decided and,
// for knockout fixtures, who won the final.
func fixtureOutcome(format brackets.Format, totalRounds int, matches []*models.Match) (finished bool, champion *int) {
	if len(matches) == 0 {
		return false, nil
	}
	for _, m := range matches {
		if !isDecided(m.Status) {
			return false, nil
		}
		if format == brackets.FormatKnockout && m.Round == totalRounds && !m.IsThirdPlaceMatch {
			champion = m.WinnerParticipantID
		}
	}
	if format == brackets.FormatKnockout && champion == nil {
		return false, nil
	}
	return true, champion
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
