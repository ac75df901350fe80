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

type ResolveMatchInput struct {
	HomeScore       *int                      `json:"home_score"`
	AwayScore       *int                      `json:"away_score"`
	PenaltyShootout *brackets.PenaltyShootout `json:"penalty_shootout,omitempty"`
}

// ResolveResult lists every match row the resolve touched.
type ResolveResult struct {
	Match            *models.Match `json:"match"`
	NextMatch        *models.Match `json:"next_match,omitempty"`
	ThirdPlaceMatch  *models.Match `json:"third_place_match,omitempty"`
	FixtureCompleted bool          `json:"fixture_completed"`
	ChampionID       *int          `json:"champion_participant_id,omitempty"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	ListByFixture(ctx context.Context, fixtureID int, round *int, status *brackets.MatchStatus) ([]*models.Match, error)
	ResolveMatch(ctx context.Context, matchID string, input ResolveMatchInput) (*ResolveResult, error)
}

type matchService struct {
	db          *sqlx.DB
	fixtureRepo repositories.FixtureRepository
	matchRepo   repositories.MatchRepository
	standings   StandingsService
	events      EventPublisher
	locks       *FixtureLocks
	logger      *slog.Logger
}

func NewMatchService(
	db *sqlx.DB,
	fixtureRepo repositories.FixtureRepository,
	matchRepo repositories.MatchRepository,
	standings StandingsService,
	events EventPublisher,
	locks *FixtureLocks,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:          db,
		fixtureRepo: fixtureRepo,
		matchRepo:   matchRepo,
		standings:   standings,
		events:      events,
		locks:       locks,
		logger:      logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return match, nil
}

func (s *matchService) ListByFixture(ctx context.Context, fixtureID int, round *int, status *brackets.MatchStatus) ([]*models.Match, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown match status %q", ErrValidationFailed, *status)
	}
	if _, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByFixture(ctx, nil, fixtureID, round, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of fixture %d: %w", fixtureID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// ResolveMatch records a score, derives the winner and moves it into the
// next match. Resolves of one fixture run one at a time; the rows involved
// are also locked for the length of the transaction.
func (s *matchService) ResolveMatch(ctx context.Context, matchID string, input ResolveMatchInput) (*ResolveResult, error) {
	if input.HomeScore == nil || input.AwayScore == nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, brackets.ErrMissingScores)
	}

	current, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	fixtureID := current.FixtureID
	log := s.logger.With(slog.Int("fixture_id", fixtureID), slog.String("match_id", matchID))

	unlock := s.locks.Lock(fixtureID)
	defer unlock()

	result := &ResolveResult{}
	var fixture *models.Fixture

	err = withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		fixture, err = s.fixtureRepo.GetByID(ctx, tx, fixtureID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if fixture.Status == models.FixtureStatusRegistration {
			return ErrFixtureNotActive
		}

		locked, err := s.matchRepo.GetForUpdate(ctx, tx, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		resolved, err := brackets.Resolve(locked.ToEngine(), input.HomeScore, input.AwayScore, input.PenaltyShootout)
		if err != nil {
			return handleRepositoryError(err)
		}
		knockout := fixture.Format == brackets.FormatKnockout
		if knockout && resolved.Winner == nil {
			return fmt.Errorf("%w: %w", ErrValidationFailed, ErrKnockoutNeedsWinner)
		}

		result.Match = models.MatchFromEngine(&resolved)
		if err := s.matchRepo.UpdateResult(ctx, tx, result.Match); err != nil {
			return handleRepositoryError(err)
		}

		if knockout {
			if result.NextMatch, err = s.advanceWinner(ctx, tx, resolved); err != nil {
				return err
			}
			if result.ThirdPlaceMatch, err = s.placeLoser(ctx, tx, fixture, resolved); err != nil {
				return err
			}
		}

		all, err := s.matchRepo.ListByFixture(ctx, tx, fixtureID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches of fixture %d: %w", fixtureID, err)
		}
		finished, champion := fixtureOutcome(fixture.Format, intValue(fixture.TotalRounds), all)
		if finished && fixture.Status != models.FixtureStatusCompleted {
			if err := s.fixtureRepo.MarkCompleted(ctx, tx, fixtureID, champion); err != nil {
				return handleRepositoryError(err)
			}
			result.FixtureCompleted = true
			result.ChampionID = champion
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrResultConflict) {
			log.Warn("resolve rejected", slog.Any("error", err))
		}
		return nil, err
	}

	log.Info("match resolved",
		slog.String("status", string(result.Match.Status)),
		slog.Bool("fixture_completed", result.FixtureCompleted))
	publish(s.events, fixtureID, realtime.EventMatchUpdated, result)

	if fixture.Format == brackets.FormatRoundRobin && s.standings != nil {
		if _, err := s.standings.Refresh(ctx, fixtureID); err != nil {
			log.Error("standings refresh after resolve failed", slog.Any("error", err))
		}
	}
	return result, nil
}

// advanceWinner writes the winner of resolved into its next match.
func (s *matchService) advanceWinner(ctx context.Context, tx *sqlx.Tx, resolved brackets.Match[int]) (*models.Match, error) {
	if resolved.NextMatchID == nil {
		return nil, nil
	}
	next, err := s.matchRepo.GetForUpdate(ctx, tx, *resolved.NextMatchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.fillFrom(ctx, tx, next, resolved.ID, func(target *brackets.Match[int]) (brackets.Slot, bool, error) {
		return brackets.Propagate(resolved, target)
	})
}

// placeLoser moves a semi-final loser into the third-place match.
func (s *matchService) placeLoser(ctx context.Context, tx *sqlx.Tx, fixture *models.Fixture, resolved brackets.Match[int]) (*models.Match, error) {
	if resolved.IsThirdPlaceMatch || fixture.TotalRounds == nil || resolved.Round != *fixture.TotalRounds-1 {
		return nil, nil
	}
	third, err := s.matchRepo.GetThirdPlaceForUpdate(ctx, tx, fixture.ID)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.fillFrom(ctx, tx, third, "", func(target *brackets.Match[int]) (brackets.Slot, bool, error) {
		return brackets.PlaceLoser(resolved, target)
	})
}

func (s *matchService) fillFrom(
	ctx context.Context,
	tx *sqlx.Tx,
	target *models.Match,
	previousMatchID string,
	place func(*brackets.Match[int]) (brackets.Slot, bool, error),
) (*models.Match, error) {
	before := target.ToEngine()
	after := before.Clone()
	slot, changed, err := place(&after)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if !changed {
		return target, nil
	}
	err = s.matchRepo.FillSlot(ctx, tx, repositories.FillSlotParams{
		MatchID:         target.ID,
		Slot:            slot,
		Expected:        before.Participant(slot),
		Participant:     after.Participant(slot),
		Partner:         after.Partner(slot),
		PreviousMatchID: previousMatchID,
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return models.MatchFromEngine(&after), nil
}
