package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

type StandingRepository interface {
	// ReplaceForFixture swaps the stored table for standings. Run it inside
	// a transaction so readers never see a half-written table.
	ReplaceForFixture(ctx context.Context, exec SQLExecutor, fixtureID int, standings []models.Standing) error
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Standing, error)
}

type postgresStandingRepository struct {
	db *sqlx.DB
}

func NewPostgresStandingRepository(db *sqlx.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) ReplaceForFixture(ctx context.Context, exec SQLExecutor, fixtureID int, standings []models.Standing) error {
	executor := getExecutor(r.db, exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM fixture_standings WHERE fixture_id = $1`, fixtureID); err != nil {
		return fmt.Errorf("failed to clear standings for fixture %d: %w", fixtureID, err)
	}
	if len(standings) == 0 {
		return nil
	}

	query := `
		INSERT INTO fixture_standings
			(fixture_id, participant_id, rank, played, won, drawn, lost,
			 points_for, points_against, point_difference, points)
		VALUES
			(:fixture_id, :participant_id, :rank, :played, :won, :drawn, :lost,
			 :points_for, :points_against, :point_difference, :points)`
	if _, err := sqlx.NamedExecContext(ctx, executor, query, standings); err != nil {
		return fmt.Errorf("failed to insert %d standings for fixture %d: %w", len(standings), fixtureID, err)
	}
	return nil
}

func (r *postgresStandingRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Standing, error) {
	standings := make([]*models.Standing, 0)
	query := `
		SELECT fixture_id, participant_id, rank, played, won, drawn, lost,
		       points_for, points_against, point_difference, points, updated_at
		FROM fixture_standings
		WHERE fixture_id = $1
		ORDER BY rank ASC`
	if err := getExecutor(r.db, exec).SelectContext(ctx, &standings, query, fixtureID); err != nil {
		return nil, fmt.Errorf("failed to list standings for fixture %d: %w", fixtureID, err)
	}
	return standings, nil
}
