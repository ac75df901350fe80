package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type CreateFixtureInput struct {
	Name            string                 `json:"name"`
	Format          brackets.Format        `json:"format"`
	ParticipantType models.ParticipantType `json:"participant_type,omitempty"`
	Settings        json.RawMessage        `json:"settings,omitempty" swaggertype:"object"`
}

type AddParticipantInput struct {
	Name      string `json:"name"`
	TeamID    *int   `json:"team_id,omitempty"`
	PartnerID *int   `json:"partner_id,omitempty"`
}

type FixtureService interface {
	CreateFixture(ctx context.Context, input CreateFixtureInput) (*models.Fixture, error)
	AddParticipant(ctx context.Context, fixtureID int, input AddParticipantInput) (*models.Participant, error)
	// GetFullFixtureData returns the fixture with its participants, matches
	// and stored standings.
	GetFullFixtureData(ctx context.Context, fixtureID int) (*models.Fixture, error)
}

type fixtureService struct {
	fixtureRepo     repositories.FixtureRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.StandingRepository
	logger          *slog.Logger
}

func NewFixtureService(
	fixtureRepo repositories.FixtureRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		fixtureRepo:     fixtureRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		logger:          logger,
	}
}

func (s *fixtureService) CreateFixture(ctx context.Context, input CreateFixtureInput) (*models.Fixture, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrFixtureNameRequired)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrValidationFailed, input.Format)
	}
	participantType := input.ParticipantType
	if participantType == "" {
		participantType = models.ParticipantTypeSolo
	}
	if !participantType.Valid() {
		return nil, fmt.Errorf("%w: unknown participant type %q", ErrValidationFailed, participantType)
	}

	settings, err := brackets.ParseSettings(input.Settings)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	encoded, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	settingsJSON := string(encoded)

	fixture := &models.Fixture{
		Name:            name,
		Format:          input.Format,
		ParticipantType: participantType,
		SettingsJSON:    &settingsJSON,
	}
	if err := s.fixtureRepo.Create(ctx, fixture); err != nil {
		return nil, handleRepositoryError(err)
	}
	fixture.Settings = &settings

	s.logger.Info("fixture created",
		slog.Int("fixture_id", fixture.ID),
		slog.String("format", string(fixture.Format)),
		slog.String("participant_type", string(fixture.ParticipantType)))
	return fixture, nil
}

func (s *fixtureService) AddParticipant(ctx context.Context, fixtureID int, input AddParticipantInput) (*models.Participant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrValidationFailed)
	}

	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if fixture.Status != models.FixtureStatusRegistration {
		return nil, ErrFixtureNotOpen
	}

	if input.PartnerID != nil {
		if fixture.ParticipantType != models.ParticipantTypeDoubles {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrPartnerNotAllowed)
		}
		existing, err := s.participantRepo.ListByFixture(ctx, nil, fixtureID)
		if err != nil {
			return nil, fmt.Errorf("failed to list participants of fixture %d: %w", fixtureID, err)
		}
		if !partnerAvailable(existing, *input.PartnerID) {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrPartnerUnavailable)
		}
	}

	participant := &models.Participant{
		FixtureID: fixtureID,
		Name:      name,
		TeamID:    input.TeamID,
		PartnerID: input.PartnerID,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, handleRepositoryError(err)
	}
	return participant, nil
}

// partnerAvailable reports whether partnerID is a row of the fixture that
// neither has a partner nor is anyone's partner yet.
func partnerAvailable(existing []*models.Participant, partnerID int) bool {
	found := false
	for _, p := range existing {
		if p.ID == partnerID {
			if p.PartnerID != nil {
				return false
			}
			found = true
		}
		if p.PartnerID != nil && *p.PartnerID == partnerID {
			return false
		}
	}
	return found
}

func (s *fixtureService) GetFullFixtureData(ctx context.Context, fixtureID int) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	settings, err := fixture.ParsedSettings()
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	fixture.Settings = &settings

	var (
		participants []*models.Participant
		matches      []*models.Match
		standings    []*models.Standing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByFixture(gctx, nil, fixtureID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByFixture(gctx, nil, fixtureID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	if fixture.Format == brackets.FormatRoundRobin {
		g.Go(func() error {
			var err error
			standings, err = s.standingRepo.ListByFixture(gctx, nil, fixtureID)
			if err != nil {
				return fmt.Errorf("failed to list standings: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load fixture %d: %w", fixtureID, err)
	}

	fixture.Participants = derefParticipants(participants)
	fixture.Matches = derefMatches(matches)
	fixture.Standings = derefStandings(standings)

	byID := make(map[int]*models.Participant, len(fixture.Participants))
	for i := range fixture.Participants {
		byID[fixture.Participants[i].ID] = &fixture.Participants[i]
	}
	for i := range fixture.Standings {
		fixture.Standings[i].Participant = byID[fixture.Standings[i].ParticipantID]
	}
	return fixture, nil
}
