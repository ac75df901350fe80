package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTxDB returns a sqlx handle whose transactions are expected by mock.
// The repositories are faked, so only Begin/Commit/Rollback reach it.
func newTxDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func intPtr(v int) *int { return &v }

type fakeFixtureRepo struct {
	mu       sync.Mutex
	fixtures map[int]*models.Fixture
	nextID   int
}

func newFakeFixtureRepo(fixtures ...*models.Fixture) *fakeFixtureRepo {
	r := &fakeFixtureRepo{fixtures: make(map[int]*models.Fixture), nextID: 1}
	for _, f := range fixtures {
		r.fixtures[f.ID] = f
		if f.ID >= r.nextID {
			r.nextID = f.ID + 1
		}
	}
	return r
}

func (r *fakeFixtureRepo) Create(_ context.Context, f *models.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.fixtures {
		if existing.Name == f.Name {
			return repositories.ErrFixtureNameConflict
		}
	}
	f.ID = r.nextID
	r.nextID++
	f.Status = models.FixtureStatusRegistration
	stored := *f
	r.fixtures[f.ID] = &stored
	return nil
}

func (r *fakeFixtureRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	c := *f
	return &c, nil
}

func (r *fakeFixtureRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Fixture, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeFixtureRepo) ListIDsByStatus(_ context.Context, status models.FixtureStatus, format brackets.Format) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int
	for id, f := range r.fixtures {
		if f.Status == status && f.Format == format {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *fakeFixtureRepo) update(id int, fn func(f *models.Fixture)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	fn(f)
	return nil
}

func (r *fakeFixtureRepo) MarkActive(_ context.Context, _ repositories.SQLExecutor, id int, totalRounds int) error {
	return r.update(id, func(f *models.Fixture) {
		f.Status = models.FixtureStatusActive
		f.TotalRounds = &totalRounds
	})
}

func (r *fakeFixtureRepo) MarkCompleted(_ context.Context, _ repositories.SQLExecutor, id int, championID *int) error {
	return r.update(id, func(f *models.Fixture) {
		f.Status = models.FixtureStatusCompleted
		f.ChampionID = championID
	})
}

func (r *fakeFixtureRepo) SetSnapshotURL(_ context.Context, id int, url string) error {
	return r.update(id, func(f *models.Fixture) { f.SnapshotURL = &url })
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants []*models.Participant
	nextID       int
}

func newFakeParticipantRepo(participants ...*models.Participant) *fakeParticipantRepo {
	r := &fakeParticipantRepo{nextID: 1}
	for _, p := range participants {
		r.participants = append(r.participants, p)
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.FixtureID == p.FixtureID && existing.Name == p.Name {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	stored := *p
	r.participants = append(r.participants, &stored)
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByFixture(_ context.Context, _ repositories.SQLExecutor, fixtureID int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Participant
	for _, p := range r.participants {
		if p.FixtureID == fixtureID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// fakeMatchRepo keeps rows in insertion order and applies FillSlot with the
// same conditions as the SQL update.
type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[string]*models.Match
	order   []string
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*models.Match)}
}

func copyMatch(m *models.Match) *models.Match {
	em := m.ToEngine()
	c := models.MatchFromEngine(&em)
	c.CreatedAt, c.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return c
}

func (r *fakeMatchRepo) seed(matches []*brackets.Match[int]) {
	for _, m := range matches {
		_ = r.BulkCreate(context.Background(), nil, []*models.Match{models.MatchFromEngine(m)})
	}
}

func (r *fakeMatchRepo) BulkCreate(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		if _, dup := r.matches[m.ID]; dup {
			return repositories.ErrMatchIDConflict
		}
		r.matches[m.ID] = copyMatch(m)
		r.order = append(r.order, m.ID)
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *fakeMatchRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) GetThirdPlaceForUpdate(_ context.Context, _ repositories.SQLExecutor, fixtureID int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if m := r.matches[id]; m.FixtureID == fixtureID && m.IsThirdPlaceMatch {
			return copyMatch(m), nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByFixture(_ context.Context, _ repositories.SQLExecutor, fixtureID int, round *int, status *brackets.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, id := range r.order {
		m := r.matches[id]
		if m.FixtureID != fixtureID || (round != nil && m.Round != *round) || (status != nil && m.Status != *status) {
			continue
		}
		out = append(out, copyMatch(m))
	}
	return out, nil
}

func (r *fakeMatchRepo) CountByFixture(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) (int, error) {
	matches, err := r.ListByFixture(ctx, exec, fixtureID, nil, nil)
	return len(matches), err
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.HomeScore, stored.AwayScore = m.HomeScore, m.AwayScore
	stored.PenaltyHomeScore, stored.PenaltyAwayScore = m.PenaltyHomeScore, m.PenaltyAwayScore
	stored.Status = m.Status
	stored.WinnerParticipantID, stored.LoserParticipantID = m.WinnerParticipantID, m.LoserParticipantID
	stored.WinnerPartnerID, stored.LoserPartnerID = m.WinnerPartnerID, m.LoserPartnerID
	return nil
}

func (r *fakeMatchRepo) FillSlot(_ context.Context, _ repositories.SQLExecutor, p repositories.FillSlotParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[p.MatchID]
	if !ok || (m.Status != brackets.StatusScheduled && m.Status != brackets.StatusPostponed) {
		return repositories.ErrSlotTaken
	}
	participant, partner := &m.HomeParticipantID, &m.HomePartnerID
	if p.Slot == brackets.SlotAway {
		participant, partner = &m.AwayParticipantID, &m.AwayPartnerID
	}
	if !sameInt(*participant, p.Expected) {
		return repositories.ErrSlotTaken
	}
	*participant, *partner = p.Participant, p.Partner
	if p.PreviousMatchID != "" {
		for _, prev := range m.PreviousMatchIDs {
			if prev == p.PreviousMatchID {
				return nil
			}
		}
		m.PreviousMatchIDs = append(m.PreviousMatchIDs, p.PreviousMatchID)
	}
	return nil
}

// setStatus changes a stored match outside the services, as a referee would.
func (r *fakeMatchRepo) setStatus(id string, status brackets.MatchStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[id].Status = status
}

func (r *fakeMatchRepo) get(t *testing.T, id string) *models.Match {
	t.Helper()
	m, err := r.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return m
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeStandingRepo struct {
	mu     sync.Mutex
	tables map[int][]models.Standing
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{tables: make(map[int][]models.Standing)}
}

func (r *fakeStandingRepo) ReplaceForFixture(_ context.Context, _ repositories.SQLExecutor, fixtureID int, standings []models.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[fixtureID] = append([]models.Standing{}, standings...)
	return nil
}

func (r *fakeStandingRepo) ListByFixture(_ context.Context, _ repositories.SQLExecutor, fixtureID int) ([]*models.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Standing
	for i := range r.tables[fixtureID] {
		s := r.tables[fixtureID][i]
		out = append(out, &s)
	}
	return out, nil
}

type publishedEvent struct {
	fixtureID int
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (e *fakeEvents) PublishFixtureEvent(fixtureID int, eventType string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, publishedEvent{fixtureID, eventType, payload})
}

func (e *fakeEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.eventType
	}
	return out
}

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.keys = append(u.keys, key)
	u.mu.Unlock()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
