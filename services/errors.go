package services

import (
	"errors"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/repositories"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed      = errors.New("validation failed")
	ErrFixtureNameRequired   = errors.New("fixture name is required")
	ErrNotEnoughParticipants = errors.New("at least 2 participants are required")
	ErrPartnerNotAllowed     = errors.New("partners are only allowed in doubles fixtures")
	ErrPartnerUnavailable    = errors.New("partner is not a free participant of this fixture")
	ErrKnockoutNeedsWinner   = errors.New("knockout matches cannot end level without a penalty shootout")

	ErrFixtureNameConflict     = errors.New("fixture name already exists")
	ErrParticipantConflict     = errors.New("participant is already registered in this fixture")
	ErrBracketAlreadyGenerated = errors.New("bracket already generated for this fixture")
	ErrResultConflict          = errors.New("result conflicts with the current bracket state")

	ErrFixtureNotOpen      = errors.New("fixture is not accepting participants")
	ErrFixtureNotActive    = errors.New("fixture has no generated schedule yet")
	ErrStandingsNotTracked = errors.New("standings are only kept for round robin fixtures")

	// ErrConstraintInfeasible is returned when strict same-team avoidance
	// cannot be met.
	ErrConstraintInfeasible = errors.New("same-team avoidance cannot be satisfied")

	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTeamNotFound        = errors.New("team not found")

	ErrTeamNameConflict = errors.New("team name already exists")
)

// handleRepositoryError maps repository and engine errors onto the service
// error set. Errors it does not know are returned unchanged.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrFixtureNotFound):
		return ErrFixtureNotFound
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrFixtureNameConflict):
		return ErrFixtureNameConflict
	case errors.Is(err, repositories.ErrParticipantConflict):
		return ErrParticipantConflict
	case errors.Is(err, repositories.ErrParticipantPartnerInvalid):
		return ErrPartnerUnavailable
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrParticipantTeamInvalid):
		return errors.Join(ErrValidationFailed, err)
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrMatchNumberConflict),
		errors.Is(err, repositories.ErrMatchIDConflict):
		return ErrBracketAlreadyGenerated
	case errors.Is(err, repositories.ErrSlotTaken),
		errors.Is(err, brackets.ErrStaleResolve):
		return errors.Join(ErrResultConflict, err)
	case errors.Is(err, brackets.ErrConstraintInfeasible):
		return errors.Join(ErrConstraintInfeasible, err)
	case errors.Is(err, brackets.ErrInvalidInput),
		errors.Is(err, brackets.ErrMissingScores),
		errors.Is(err, brackets.ErrNoWinner):
		return errors.Join(ErrValidationFailed, err)
	}
	return err
}
