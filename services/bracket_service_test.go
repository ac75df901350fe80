package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bracketTest struct {
	svc          BracketService
	mock         sqlmock.Sqlmock
	fixtures     *fakeFixtureRepo
	participants *fakeParticipantRepo
	matches      *fakeMatchRepo
	events       *fakeEvents
	uploader     *fakeUploader
}

func newBracketTest(t *testing.T, fixture *models.Fixture, participants ...*models.Participant) *bracketTest {
	t.Helper()
	db, mock := newTxDB(t)
	bt := &bracketTest{
		mock:         mock,
		fixtures:     newFakeFixtureRepo(fixture),
		participants: newFakeParticipantRepo(participants...),
		matches:      newFakeMatchRepo(),
		events:       &fakeEvents{},
		uploader:     &fakeUploader{},
	}
	bt.svc = NewBracketService(db, bt.fixtures, bt.participants, bt.matches, bt.uploader, bt.events,
		NewFixtureLocks(), discardLogger(),
		WithRandSource(func() *rand.Rand { return brackets.NewRand(7) }),
		WithMatchIDs(func() brackets.IDGenerator { return brackets.SequentialIDs("") }),
	)
	return bt
}

func newFixture(id int, format brackets.Format, settings string) *models.Fixture {
	return &models.Fixture{
		ID:              id,
		Name:            "Spring Open",
		Format:          format,
		ParticipantType: models.ParticipantTypeSolo,
		Status:          models.FixtureStatusRegistration,
		SettingsJSON:    &settings,
	}
}

func soloEntries(fixtureID, n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := range out {
		out[i] = &models.Participant{ID: i + 1, FixtureID: fixtureID, Name: string(rune('A' + i))}
	}
	return out
}

func TestGenerateAndSaveBracket_Knockout(t *testing.T) {
	bt := newBracketTest(t, newFixture(1, brackets.FormatKnockout, `{"randomize_seeds": false}`), soloEntries(1, 5)...)
	bt.mock.ExpectBegin()
	bt.mock.ExpectCommit()

	res, err := bt.svc.GenerateAndSaveBracket(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRounds)
	assert.Equal(t, 8, res.BracketSize)
	assert.Equal(t, 3, res.Byes)
	assert.True(t, res.Feasible)
	require.Len(t, res.Matches, 4)

	first := bt.matches.get(t, "M1")
	assert.Equal(t, 1, *first.HomeParticipantID)
	assert.Equal(t, 2, *first.AwayParticipantID)
	assert.Equal(t, "M2", *first.NextMatchID)
	assert.Equal(t, 3, *bt.matches.get(t, "M2").HomeParticipantID)
	assert.Nil(t, bt.matches.get(t, "M2").AwayParticipantID)

	stored, err := bt.fixtures.GetByID(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FixtureStatusActive, stored.Status)
	assert.Equal(t, 3, *stored.TotalRounds)

	snapshot := "https://cdn.example.com/fixtures/1-spring-open/bracket.json"
	assert.Equal(t, []string{"fixtures/1-spring-open/bracket.json"}, bt.uploader.keys)
	require.NotNil(t, stored.SnapshotURL)
	assert.Equal(t, snapshot, *stored.SnapshotURL)
	assert.Equal(t, snapshot, *res.Fixture.SnapshotURL)
	assert.Equal(t, models.FixtureStatusActive, res.Fixture.Status)

	assert.Equal(t, []string{realtime.EventBracketGenerated}, bt.events.types())
}

func TestGenerateAndSaveBracket_RoundRobinWarnings(t *testing.T) {
	entries := soloEntries(1, 4)
	entries[0].TeamID = intPtr(10)
	entries[1].TeamID = intPtr(10)
	bt := newBracketTest(t, newFixture(1, brackets.FormatRoundRobin, `{"randomize_seeds": false}`), entries...)
	bt.mock.ExpectBegin()
	bt.mock.ExpectCommit()

	res, err := bt.svc.GenerateAndSaveBracket(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, res.Matches, 5)
	assert.False(t, res.Feasible)
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, res.TotalRounds)

	count, err := bt.matches.CountByFixture(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestGenerateAndSaveBracket_DoublesPartners(t *testing.T) {
	fixture := newFixture(1, brackets.FormatKnockout, `{"randomize_seeds": false}`)
	fixture.ParticipantType = models.ParticipantTypeDoubles
	var entries []*models.Participant
	for id := 1; id <= 8; id++ {
		p := &models.Participant{ID: id, FixtureID: 1, Name: string(rune('A' + id))}
		if id <= 4 {
			p.PartnerID = intPtr(id + 4)
		}
		entries = append(entries, p)
	}
	bt := newBracketTest(t, fixture, entries...)
	bt.mock.ExpectBegin()
	bt.mock.ExpectCommit()

	res, err := bt.svc.GenerateAndSaveBracket(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)

	m1, m2 := bt.matches.get(t, "M1"), bt.matches.get(t, "M2")
	assert.Equal(t, []int{1, 5, 2, 6}, []int{*m1.HomeParticipantID, *m1.HomePartnerID, *m1.AwayParticipantID, *m1.AwayPartnerID})
	assert.Equal(t, []int{3, 7, 4, 8}, []int{*m2.HomeParticipantID, *m2.HomePartnerID, *m2.AwayParticipantID, *m2.AwayPartnerID})
	assert.Nil(t, bt.matches.get(t, "M3").HomeParticipantID)
}

func TestGenerateAndSaveBracket_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		fixture func() *models.Fixture
		entries []*models.Participant
		seed    bool
		id      int
		wantErr []error
	}{
		{
			name:    "already active",
			fixture: func() *models.Fixture {
				f := newFixture(1, brackets.FormatKnockout, `{}`)
				f.Status = models.FixtureStatusActive
				return f
			},
			entries: soloEntries(1, 4),
			id:      1,
			wantErr: []error{ErrBracketAlreadyGenerated},
		},
		{
			name:    "matches already stored",
			fixture: func() *models.Fixture { return newFixture(1, brackets.FormatKnockout, `{}`) },
			entries: soloEntries(1, 4),
			seed:    true,
			id:      1,
			wantErr: []error{ErrBracketAlreadyGenerated},
		},
		{
			name:    "single participant",
			fixture: func() *models.Fixture { return newFixture(1, brackets.FormatKnockout, `{}`) },
			entries: soloEntries(1, 1),
			id:      1,
			wantErr: []error{ErrValidationFailed, ErrNotEnoughParticipants},
		},
		{
			name: "strict avoidance",
			fixture: func() *models.Fixture {
				return newFixture(1, brackets.FormatKnockout, `{"randomize_seeds": false, "strict_avoidance": true}`)
			},
			entries: func() []*models.Participant {
				entries := soloEntries(1, 4)
				for _, p := range entries {
					p.TeamID = intPtr(9)
				}
				return entries
			}(),
			id:      1,
			wantErr: []error{ErrConstraintInfeasible, brackets.ErrConstraintInfeasible},
		},
		{
			name:    "unknown fixture",
			fixture: func() *models.Fixture { return newFixture(1, brackets.FormatKnockout, `{}`) },
			id:      2,
			wantErr: []error{ErrFixtureNotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bt := newBracketTest(t, tt.fixture(), tt.entries...)
			if tt.seed {
				bt.matches.seed([]*brackets.Match[int]{{ID: "old", FixtureID: 1, Round: 1, MatchNumber: 1, Status: brackets.StatusScheduled}})
			}
			bt.mock.ExpectBegin()
			bt.mock.ExpectRollback()

			res, err := bt.svc.GenerateAndSaveBracket(context.Background(), tt.id)
			assert.Nil(t, res)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			assert.Empty(t, bt.events.types())
			assert.Empty(t, bt.uploader.keys)
		})
	}
}

func TestGenerateAndSaveBracket_SnapshotFailureIsNotFatal(t *testing.T) {
	bt := newBracketTest(t, newFixture(1, brackets.FormatKnockout, `{}`), soloEntries(1, 4)...)
	bt.uploader.err = errors.New("r2 unavailable")
	bt.mock.ExpectBegin()
	bt.mock.ExpectCommit()

	res, err := bt.svc.GenerateAndSaveBracket(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, res.Fixture.SnapshotURL)
	assert.Equal(t, []string{realtime.EventBracketGenerated}, bt.events.types())
}

func TestGenerateAndSaveBracket_CommitFailure(t *testing.T) {
	bt := newBracketTest(t, newFixture(1, brackets.FormatKnockout, `{}`), soloEntries(1, 4)...)
	bt.mock.ExpectBegin()
	bt.mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	_, err := bt.svc.GenerateAndSaveBracket(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.Empty(t, bt.events.types())
}
