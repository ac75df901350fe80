package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MatchRepositoryTestSuite struct {
	suite.Suite
	db   *sqlx.DB
	mock sqlmock.Sqlmock
	repo MatchRepository
}

func (s *MatchRepositoryTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	s.db = sqlx.NewDb(mockDB, "sqlmock")
	s.mock = mock
	s.repo = NewPostgresMatchRepository(s.db)
}

func (s *MatchRepositoryTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.db.Close()
}

func TestMatchRepository(t *testing.T) {
	suite.Run(t, new(MatchRepositoryTestSuite))
}

var matchRowColumns = []string{
	"id", "fixture_id", "round", "match_number",
	"home_participant_id", "away_participant_id", "home_partner_id", "away_partner_id",
	"home_score", "away_score", "penalty_home_score", "penalty_away_score", "status",
	"winner_participant_id", "loser_participant_id", "winner_partner_id", "loser_partner_id",
	"next_match_id", "previous_match_ids", "is_third_place_match", "created_at", "updated_at",
}

func (s *MatchRepositoryTestSuite) TestGetByID() {
	now := time.Now()
	rows := sqlmock.NewRows(matchRowColumns).AddRow(
		"m-final", 4, 2, 3,
		10, nil, 11, nil,
		nil, nil, nil, nil, "scheduled",
		nil, nil, nil, nil,
		nil, "{m-1,m-2}", false, now, now,
	)
	s.mock.ExpectQuery(`SELECT (.+) FROM matches WHERE id = \$1`).
		WithArgs("m-final").
		WillReturnRows(rows)

	match, err := s.repo.GetByID(context.Background(), nil, "m-final")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, match.FixtureID)
	assert.Equal(s.T(), 10, *match.HomeParticipantID)
	assert.Equal(s.T(), 11, *match.HomePartnerID)
	assert.Nil(s.T(), match.AwayParticipantID)
	assert.Equal(s.T(), brackets.StatusScheduled, match.Status)
	assert.Equal(s.T(), pq.StringArray{"m-1", "m-2"}, match.PreviousMatchIDs)
}

func (s *MatchRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`SELECT (.+) FROM matches WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(matchRowColumns))

	_, err := s.repo.GetByID(context.Background(), nil, "missing")

	assert.ErrorIs(s.T(), err, ErrMatchNotFound)
}

func (s *MatchRepositoryTestSuite) TestGetForUpdate_LocksRow() {
	s.mock.ExpectQuery(`SELECT (.+) FROM matches WHERE id = \$1 FOR UPDATE`).
		WithArgs("m-1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.repo.GetForUpdate(context.Background(), nil, "m-1")

	assert.ErrorContains(s.T(), err, "connection reset")
}

func (s *MatchRepositoryTestSuite) TestListByFixture_WithFilters() {
	round := 2
	status := brackets.StatusCompleted
	s.mock.ExpectQuery(`SELECT (.+) FROM matches WHERE fixture_id = \$1 AND round = \$2 AND status = \$3 ORDER BY match_number ASC`).
		WithArgs(7, round, status).
		WillReturnRows(sqlmock.NewRows(matchRowColumns))

	matches, err := s.repo.ListByFixture(context.Background(), nil, 7, &round, &status)

	require.NoError(s.T(), err)
	assert.NotNil(s.T(), matches)
	assert.Empty(s.T(), matches)
}

func (s *MatchRepositoryTestSuite) TestBulkCreate_SingleStatementInTx() {
	matches := []*models.Match{
		{ID: "a", FixtureID: 1, Round: 1, MatchNumber: 1, Status: brackets.StatusScheduled, PreviousMatchIDs: pq.StringArray{}},
		{ID: "b", FixtureID: 1, Round: 2, MatchNumber: 2, Status: brackets.StatusScheduled, PreviousMatchIDs: pq.StringArray{"a"}},
	}
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO matches`).WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	tx, err := s.db.Beginx()
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.repo.BulkCreate(context.Background(), tx, matches))
	require.NoError(s.T(), tx.Commit())
}

func (s *MatchRepositoryTestSuite) TestBulkCreate_Empty() {
	assert.NoError(s.T(), s.repo.BulkCreate(context.Background(), nil, nil))
}

func (s *MatchRepositoryTestSuite) TestBulkCreate_MapsConstraint() {
	s.mock.ExpectExec(`INSERT INTO matches`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "matches_fixture_id_match_number_key"})

	err := s.repo.BulkCreate(context.Background(), nil, []*models.Match{{ID: "a", FixtureID: 1}})

	assert.ErrorIs(s.T(), err, ErrMatchNumberConflict)
}

func (s *MatchRepositoryTestSuite) TestUpdateResult() {
	home, away, winner, loser := 2, 1, 10, 11
	m := &models.Match{ID: "m-1", HomeScore: &home, AwayScore: &away, Status: brackets.StatusCompleted,
		WinnerParticipantID: &winner, LoserParticipantID: &loser}
	s.mock.ExpectExec(`UPDATE matches SET home_score = \$1`).
		WithArgs(&home, &away, nil, nil, brackets.StatusCompleted, &winner, &loser, nil, nil, "m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(s.T(), s.repo.UpdateResult(context.Background(), nil, m))
}

func (s *MatchRepositoryTestSuite) TestUpdateResult_NotFound() {
	s.mock.ExpectExec(`UPDATE matches SET home_score`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.UpdateResult(context.Background(), nil, &models.Match{ID: "gone"})

	assert.ErrorIs(s.T(), err, ErrMatchNotFound)
}

func (s *MatchRepositoryTestSuite) TestFillSlot_ConditionalOnExpected() {
	winner, partner := 10, 20
	s.mock.ExpectExec(`UPDATE matches SET away_participant_id = \$1, away_partner_id = \$2, (.+) WHERE id = \$4 AND away_participant_id IS NOT DISTINCT FROM \$5`).
		WithArgs(&winner, &partner, "m-semi", "m-final", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.repo.FillSlot(context.Background(), nil, FillSlotParams{
		MatchID:         "m-final",
		Slot:            brackets.SlotAway,
		Participant:     &winner,
		Partner:         &partner,
		PreviousMatchID: "m-semi",
	})

	assert.NoError(s.T(), err)
}

func (s *MatchRepositoryTestSuite) TestFillSlot_LostRace() {
	winner := 10
	s.mock.ExpectExec(`UPDATE matches SET home_participant_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.FillSlot(context.Background(), nil, FillSlotParams{MatchID: "m-final", Slot: brackets.SlotHome, Participant: &winner})

	assert.ErrorIs(s.T(), err, ErrSlotTaken)
}

func (s *MatchRepositoryTestSuite) TestFillSlot_UnknownSlot() {
	err := s.repo.FillSlot(context.Background(), nil, FillSlotParams{MatchID: "m", Slot: brackets.Slot("left")})

	assert.Error(s.T(), err)
}
