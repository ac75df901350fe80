package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/jmoiron/sqlx"
)

type StandingsService interface {
	// Compute builds the table from the current match results without
	// storing it.
	Compute(ctx context.Context, fixtureID int) ([]models.Standing, error)
	// Refresh recomputes, stores and broadcasts the table.
	Refresh(ctx context.Context, fixtureID int) ([]models.Standing, error)
	// RefreshActive refreshes every active round-robin fixture.
	RefreshActive(ctx context.Context) error
}

type standingsService struct {
	db              *sqlx.DB
	fixtureRepo     repositories.FixtureRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.StandingRepository
	events          EventPublisher
	logger          *slog.Logger
}

func NewStandingsService(
	db *sqlx.DB,
	fixtureRepo repositories.FixtureRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	events EventPublisher,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		db:              db,
		fixtureRepo:     fixtureRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		events:          events,
		logger:          logger,
	}
}

func (s *standingsService) Compute(ctx context.Context, fixtureID int) ([]models.Standing, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if fixture.Format != brackets.FormatRoundRobin {
		return nil, ErrStandingsNotTracked
	}
	settings, err := fixture.ParsedSettings()
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	participants, err := s.participantRepo.ListByFixture(ctx, nil, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of fixture %d: %w", fixtureID, err)
	}
	matches, err := s.matchRepo.ListByFixture(ctx, nil, fixtureID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of fixture %d: %w", fixtureID, err)
	}

	entries := newRoster(participants)
	rows := brackets.Standings(toEngineMatches(matches), entries.seeds, settings.Points())

	standings := make([]models.Standing, len(rows))
	for i, row := range rows {
		standings[i] = models.StandingFromRow(fixtureID, row)
		standings[i].Participant = entries.byID[row.ParticipantID]
	}
	return standings, nil
}

func (s *standingsService) Refresh(ctx context.Context, fixtureID int) ([]models.Standing, error) {
	standings, err := s.Compute(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	err = withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		return s.standingRepo.ReplaceForFixture(ctx, tx, fixtureID, standings)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store standings of fixture %d: %w", fixtureID, err)
	}
	publish(s.events, fixtureID, realtime.EventStandingsUpdated, standings)
	return standings, nil
}

func (s *standingsService) RefreshActive(ctx context.Context) error {
	ids, err := s.fixtureRepo.ListIDsByStatus(ctx, models.FixtureStatusActive, brackets.FormatRoundRobin)
	if err != nil {
		return fmt.Errorf("failed to list active round robin fixtures: %w", err)
	}
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.Refresh(ctx, id); err != nil {
			s.logger.Error("standings refresh failed", slog.Int("fixture_id", id), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
