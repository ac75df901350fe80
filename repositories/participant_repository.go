package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

var (
	ErrParticipantNotFound       = errors.New("participant not found")
	ErrParticipantConflict       = errors.New("participant name already registered in this fixture")
	ErrParticipantFixtureInvalid = errors.New("participant fixture conflict or invalid")
	ErrParticipantPartnerInvalid = errors.New("participant partner conflict or invalid")
	ErrParticipantTeamInvalid    = errors.New("participant team does not exist")
)

var participantConstraintErrors = map[string]error{
	"participants_fixture_id_name_key": ErrParticipantConflict,
	"participants_fixture_id_fkey":     ErrParticipantFixtureInvalid,
	"participants_partner_id_fkey":     ErrParticipantPartnerInvalid,
	"participants_team_id_fkey":        ErrParticipantTeamInvalid,
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sqlx.DB
}

func NewPostgresParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (fixture_id, name, team_id, partner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, p.FixtureID, p.Name, p.TeamID, p.PartnerID).Scan(&p.ID, &p.CreatedAt)
	return mapConstraintError(err, participantConstraintErrors)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	var participant models.Participant
	query := `SELECT id, fixture_id, name, team_id, partner_id, created_at FROM participants WHERE id = $1`
	if err := r.db.GetContext(ctx, &participant, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return &participant, nil
}

// ListByFixture returns participants in registration order, which is the
// seeding order when randomization is off.
func (r *postgresParticipantRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0)
	query := `
		SELECT id, fixture_id, name, team_id, partner_id, created_at
		FROM participants
		WHERE fixture_id = $1
		ORDER BY id ASC`
	if err := getExecutor(r.db, exec).SelectContext(ctx, &participants, query, fixtureID); err != nil {
		return nil, fmt.Errorf("failed to list participants for fixture %d: %w", fixtureID, err)
	}
	return participants, nil
}
