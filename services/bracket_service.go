package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/realtime"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/jmoiron/sqlx"
)

// GenerationResult is returned to the caller and broadcast to the fixture room.
type GenerationResult struct {
	Fixture     *models.Fixture `json:"fixture"`
	Matches     []models.Match  `json:"matches"`
	TotalRounds int             `json:"total_rounds"`
	BracketSize int             `json:"bracket_size,omitempty"`
	Byes        int             `json:"byes"`
	Feasible    bool            `json:"feasible"`
	Warnings    []string        `json:"warnings,omitempty"`
}

type BracketService interface {
	GenerateAndSaveBracket(ctx context.Context, fixtureID int) (*GenerationResult, error)
}

type BracketServiceOption func(*bracketService)

// WithRandSource makes seeding reproducible, mostly for tests.
func WithRandSource(newRand func() *rand.Rand) BracketServiceOption {
	return func(s *bracketService) { s.newRand = newRand }
}

// WithMatchIDs replaces the UUID match identifiers.
func WithMatchIDs(newID func() brackets.IDGenerator) BracketServiceOption {
	return func(s *bracketService) { s.newIDs = newID }
}

type bracketService struct {
	db              *sqlx.DB
	fixtureRepo     repositories.FixtureRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	events          EventPublisher
	locks           *FixtureLocks
	logger          *slog.Logger

	newRand func() *rand.Rand
	newIDs  func() brackets.IDGenerator
}

// NewBracketService wires the generation flow. uploader and events may be nil.
func NewBracketService(
	db *sqlx.DB,
	fixtureRepo repositories.FixtureRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	events EventPublisher,
	locks *FixtureLocks,
	logger *slog.Logger,
	opts ...BracketServiceOption,
) BracketService {
	s := &bracketService{
		db:              db,
		fixtureRepo:     fixtureRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		events:          events,
		locks:           locks,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bracketService) GenerateAndSaveBracket(ctx context.Context, fixtureID int) (*GenerationResult, error) {
	unlock := s.locks.Lock(fixtureID)
	defer unlock()

	log := s.logger.With(slog.Int("fixture_id", fixtureID))
	var (
		fixture *models.Fixture
		bracket *brackets.Bracket[int]
		stored  []*models.Match
	)

	err := withTx(ctx, s.db, s.logger, func(tx *sqlx.Tx) error {
		var err error
		fixture, err = s.fixtureRepo.GetForUpdate(ctx, tx, fixtureID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if fixture.Status != models.FixtureStatusRegistration {
			return ErrBracketAlreadyGenerated
		}
		existing, err := s.matchRepo.CountByFixture(ctx, tx, fixtureID)
		if err != nil {
			return fmt.Errorf("failed to count matches of fixture %d: %w", fixtureID, err)
		}
		if existing > 0 {
			return ErrBracketAlreadyGenerated
		}

		settings, err := fixture.ParsedSettings()
		if err != nil {
			return handleRepositoryError(err)
		}
		fixture.Settings = &settings

		participants, err := s.participantRepo.ListByFixture(ctx, tx, fixtureID)
		if err != nil {
			return fmt.Errorf("failed to list participants of fixture %d: %w", fixtureID, err)
		}
		entries := newRoster(participants)
		if len(entries.seeds) < 2 {
			return fmt.Errorf("%w: %w (found %d)", ErrValidationFailed, ErrNotEnoughParticipants, len(entries.seeds))
		}

		generator, err := brackets.NewGenerator[int](fixture.Format)
		if err != nil {
			return handleRepositoryError(err)
		}
		params := brackets.GenerateBracketParams[int]{
			FixtureID:    fixtureID,
			Participants: entries.seeds,
			Teams:        entries.teams,
			Settings:     settings,
		}
		if s.newRand != nil {
			params.Rand = s.newRand()
		}
		if s.newIDs != nil {
			params.NewID = s.newIDs()
		}

		bracket, err = generator.GenerateBracket(params)
		if err != nil {
			return handleRepositoryError(err)
		}
		entries.applyPartners(bracket.Matches)

		stored = toModelMatches(bracket.Matches)
		if err := s.matchRepo.BulkCreate(ctx, tx, stored); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.fixtureRepo.MarkActive(ctx, tx, fixtureID, bracket.TotalRounds); err != nil {
			return handleRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrBracketAlreadyGenerated) && !errors.Is(err, ErrFixtureNotFound) {
			log.Error("bracket generation failed", slog.Any("error", err))
		}
		return nil, err
	}

	totalRounds := bracket.TotalRounds
	fixture.Status = models.FixtureStatusActive
	fixture.TotalRounds = &totalRounds

	for _, w := range bracket.Warnings {
		log.Warn("bracket generated with warning", slog.String("warning", w))
	}
	log.Info("bracket generated",
		slog.String("format", string(bracket.Format)),
		slog.Int("matches", len(stored)),
		slog.Int("total_rounds", bracket.TotalRounds),
		slog.Int("byes", bracket.Byes),
		slog.Bool("feasible", bracket.Feasible))

	result := &GenerationResult{
		Fixture:     fixture,
		Matches:     derefMatches(stored),
		TotalRounds: bracket.TotalRounds,
		BracketSize: bracket.BracketSize,
		Byes:        bracket.Byes,
		Feasible:    bracket.Feasible,
		Warnings:    bracket.Warnings,
	}

	s.exportSnapshot(ctx, log, result)
	publish(s.events, fixtureID, realtime.EventBracketGenerated, result)
	return result, nil
}

// exportSnapshot uploads the generated bracket. Failures are logged and do
// not undo the generation.
func (s *bracketService) exportSnapshot(ctx context.Context, log *slog.Logger, result *GenerationResult) {
	if s.uploader == nil {
		return
	}
	key := storage.SnapshotKey(result.Fixture.ID, result.Fixture.Name)
	uploaded, err := storage.UploadJSON(ctx, s.uploader, key, result)
	if err != nil {
		log.Error("snapshot export failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.fixtureRepo.SetSnapshotURL(ctx, result.Fixture.ID, uploaded.Location); err != nil {
		log.Error("failed to store snapshot url", slog.String("key", key), slog.Any("error", err))
		return
	}
	result.Fixture.SnapshotURL = &uploaded.Location
}
