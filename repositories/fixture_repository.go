package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrFixtureNameConflict = errors.New("fixture name already exists")
)

var fixtureConstraintErrors = map[string]error{
	"fixtures_name_key": ErrFixtureNameConflict,
}

const fixtureColumns = `id, name, format, participant_type, status, settings,
	total_rounds, champion_participant_id, snapshot_url, created_at, updated_at`

type FixtureRepository interface {
	Create(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error)
	ListIDsByStatus(ctx context.Context, status models.FixtureStatus, format brackets.Format) ([]int, error)
	MarkActive(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, id int, championID *int) error
	SetSnapshotURL(ctx context.Context, id int, url string) error
}

type postgresFixtureRepository struct {
	db *sqlx.DB
}

func NewPostgresFixtureRepository(db *sqlx.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) Create(ctx context.Context, f *models.Fixture) error {
	query := `
		INSERT INTO fixtures (name, format, participant_type, settings)
		VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'::jsonb))
		RETURNING id, status, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, f.Name, f.Format, f.ParticipantType, f.SettingsJSON).
		Scan(&f.ID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return mapConstraintError(err, fixtureConstraintErrors)
	}
	return nil
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error) {
	return r.get(ctx, exec, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1`, id)
}

func (r *postgresFixtureRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error) {
	return r.get(ctx, exec, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresFixtureRepository) get(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Fixture, error) {
	var fixture models.Fixture
	if err := getExecutor(r.db, exec).GetContext(ctx, &fixture, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, fmt.Errorf("failed to get fixture %d: %w", id, err)
	}
	return &fixture, nil
}

func (r *postgresFixtureRepository) ListIDsByStatus(ctx context.Context, status models.FixtureStatus, format brackets.Format) ([]int, error) {
	ids := make([]int, 0)
	query := `SELECT id FROM fixtures WHERE status = $1 AND format = $2 ORDER BY id`
	if err := r.db.SelectContext(ctx, &ids, query, status, format); err != nil {
		return nil, fmt.Errorf("failed to list %s %s fixtures: %w", status, format, err)
	}
	return ids, nil
}

func (r *postgresFixtureRepository) MarkActive(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error {
	query := `UPDATE fixtures SET status = $1, total_rounds = $2, updated_at = NOW() WHERE id = $3`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, models.FixtureStatusActive, totalRounds, id)
	if err != nil {
		return fmt.Errorf("failed to activate fixture %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id int, championID *int) error {
	query := `UPDATE fixtures SET status = $1, champion_participant_id = $2, updated_at = NOW() WHERE id = $3`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, models.FixtureStatusCompleted, championID, id)
	if err != nil {
		return fmt.Errorf("failed to complete fixture %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) SetSnapshotURL(ctx context.Context, id int, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE fixtures SET snapshot_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("failed to store snapshot url for fixture %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}
