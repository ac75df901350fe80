package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchFixtureInvalid     = errors.New("match fixture conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchNumberConflict     = errors.New("match number already used in fixture")
	ErrMatchIDConflict         = errors.New("match id already exists")
	// ErrSlotTaken means a conditional slot update found the slot changed
	// since it was read, or the target match already started.
	ErrSlotTaken = errors.New("match slot no longer holds the expected participant")
)

var matchConstraintErrors = map[string]error{
	"matches_pkey":                        ErrMatchIDConflict,
	"matches_fixture_id_fkey":             ErrMatchFixtureInvalid,
	"matches_fixture_id_match_number_key": ErrMatchNumberConflict,
	"matches_home_participant_id_fkey":    ErrMatchParticipantInvalid,
	"matches_away_participant_id_fkey":    ErrMatchParticipantInvalid,
	"matches_home_partner_id_fkey":        ErrMatchParticipantInvalid,
	"matches_away_partner_id_fkey":        ErrMatchParticipantInvalid,
	"matches_winner_participant_id_fkey":  ErrMatchParticipantInvalid,
	"matches_loser_participant_id_fkey":   ErrMatchParticipantInvalid,
	"matches_winner_partner_id_fkey":      ErrMatchParticipantInvalid,
	"matches_loser_partner_id_fkey":       ErrMatchParticipantInvalid,
}

const matchColumns = `id, fixture_id, round, match_number,
	home_participant_id, away_participant_id, home_partner_id, away_partner_id,
	home_score, away_score, penalty_home_score, penalty_away_score, status,
	winner_participant_id, loser_participant_id, winner_partner_id, loser_partner_id,
	next_match_id, previous_match_ids, is_third_place_match, created_at, updated_at`

type MatchRepository interface {
	BulkCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	GetThirdPlaceForUpdate(ctx context.Context, exec SQLExecutor, fixtureID int) (*models.Match, error)
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int, round *int, status *brackets.MatchStatus) ([]*models.Match, error)
	CountByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) (int, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// FillSlot writes participant and partner into one side of a match only if
	// that side still holds expected and the match has not started.
	FillSlot(ctx context.Context, exec SQLExecutor, params FillSlotParams) error
}

type FillSlotParams struct {
	MatchID     string
	Slot        brackets.Slot
	Expected    *int
	Participant *int
	Partner     *int
	// PreviousMatchID is appended to previous_match_ids when not already
	// present. Empty leaves the list alone.
	PreviousMatchID string
}

type postgresMatchRepository struct {
	db *sqlx.DB
}

func NewPostgresMatchRepository(db *sqlx.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) BulkCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	query := `
		INSERT INTO matches
			(id, fixture_id, round, match_number,
			 home_participant_id, away_participant_id, home_partner_id, away_partner_id,
			 home_score, away_score, penalty_home_score, penalty_away_score, status,
			 winner_participant_id, loser_participant_id, winner_partner_id, loser_partner_id,
			 next_match_id, previous_match_ids, is_third_place_match)
		VALUES
			(:id, :fixture_id, :round, :match_number,
			 :home_participant_id, :away_participant_id, :home_partner_id, :away_partner_id,
			 :home_score, :away_score, :penalty_home_score, :penalty_away_score, :status,
			 :winner_participant_id, :loser_participant_id, :winner_partner_id, :loser_partner_id,
			 :next_match_id, :previous_match_ids, :is_third_place_match)`

	if _, err := sqlx.NamedExecContext(ctx, getExecutor(r.db, exec), query, matches); err != nil {
		return fmt.Errorf("failed to insert %d matches: %w", len(matches), mapConstraintError(err, matchConstraintErrors))
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	return r.get(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	return r.get(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresMatchRepository) GetThirdPlaceForUpdate(ctx context.Context, exec SQLExecutor, fixtureID int) (*models.Match, error) {
	return r.get(ctx, exec,
		`SELECT `+matchColumns+` FROM matches WHERE fixture_id = $1 AND is_third_place_match FOR UPDATE`, fixtureID)
}

func (r *postgresMatchRepository) get(ctx context.Context, exec SQLExecutor, query string, arg interface{}) (*models.Match, error) {
	var match models.Match
	if err := getExecutor(r.db, exec).GetContext(ctx, &match, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %v: %w", arg, err)
	}
	return &match, nil
}

func (r *postgresMatchRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int, roundFilter *int, statusFilter *brackets.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE fixture_id = $1`)

	args := []interface{}{fixtureID}
	if roundFilter != nil {
		args = append(args, *roundFilter)
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(len(args)))
	}
	if statusFilter != nil {
		args = append(args, *statusFilter)
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	queryBuilder.WriteString(" ORDER BY match_number ASC")

	matches := make([]*models.Match, 0)
	if err := getExecutor(r.db, exec).SelectContext(ctx, &matches, queryBuilder.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list matches for fixture %d: %w", fixtureID, err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) (int, error) {
	var count int
	if err := getExecutor(r.db, exec).GetContext(ctx, &count, `SELECT COUNT(*) FROM matches WHERE fixture_id = $1`, fixtureID); err != nil {
		return 0, fmt.Errorf("failed to count matches for fixture %d: %w", fixtureID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, penalty_home_score = $3, penalty_away_score = $4,
		    status = $5, winner_participant_id = $6, loser_participant_id = $7,
		    winner_partner_id = $8, loser_partner_id = $9, updated_at = NOW()
		WHERE id = $10`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		m.HomeScore, m.AwayScore, m.PenaltyHomeScore, m.PenaltyAwayScore,
		m.Status, m.WinnerParticipantID, m.LoserParticipantID,
		m.WinnerPartnerID, m.LoserPartnerID, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result of match %s: %w", m.ID, mapConstraintError(err, matchConstraintErrors))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

var slotColumns = map[brackets.Slot][2]string{
	brackets.SlotHome: {"home_participant_id", "home_partner_id"},
	brackets.SlotAway: {"away_participant_id", "away_partner_id"},
}

func (r *postgresMatchRepository) FillSlot(ctx context.Context, exec SQLExecutor, p FillSlotParams) error {
	cols, ok := slotColumns[p.Slot]
	if !ok {
		return fmt.Errorf("unknown match slot %q", p.Slot)
	}
	query := fmt.Sprintf(`
		UPDATE matches
		SET %[1]s = $1, %[2]s = $2,
		    previous_match_ids = CASE
		        WHEN $3::text = '' OR $3::text = ANY(previous_match_ids) THEN previous_match_ids
		        ELSE array_append(previous_match_ids, $3::text)
		    END,
		    updated_at = NOW()
		WHERE id = $4 AND %[1]s IS NOT DISTINCT FROM $5 AND status IN ('scheduled', 'postponed')`,
		cols[0], cols[1])

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		p.Participant, p.Partner, p.PreviousMatchID, p.MatchID, p.Expected)
	if err != nil {
		return fmt.Errorf("failed to fill %s slot of match %s: %w", p.Slot, p.MatchID, mapConstraintError(err, matchConstraintErrors))
	}
	return checkAffectedRows(result, ErrSlotTaken)
}
