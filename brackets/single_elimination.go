package brackets

import (
	"fmt"
	"math/bits"
)

type SingleEliminationGenerator[P comparable] struct{}

func NewSingleEliminationGenerator[P comparable]() Generator[P] {
	return &SingleEliminationGenerator[P]{}
}

func (g *SingleEliminationGenerator[P]) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator[P]) GenerateBracket(params GenerateBracketParams[P]) (*Bracket[P], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	settings := params.Settings
	ordered, feasible := Arrange(params.Participants, params.Teams, settings.RandomizeSeeds, settings.AvoidSameTeamFirstRound, params.rng())

	var teams TeamMap[P]
	if settings.AvoidSameTeamFirstRound {
		teams = params.Teams
	}
	bracket, err := BuildKnockout(params.FixtureID, ordered, settings, teams, params.idGenerator())
	if err != nil {
		return nil, err
	}
	if !feasible && bracket.Feasible {
		// Forced pairings all landed on byes; round 1 is clean.
		bracket.warnf("same-team pairings were forced but none reached round 1")
	}
	return bracket, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// BuildKnockout lays out a single-elimination tree over ordered, pairing
// positions 2i and 2i+1 in round 1 and seeding the tail of ordered into round 2
// as byes. teams is only consulted to validate round 1; pass nil to skip it.
func BuildKnockout[P comparable](fixtureID int, ordered []P, settings Settings, teams TeamMap[P], newID IDGenerator) (*Bracket[P], error) {
	n := len(ordered)
	if n < 2 {
		return nil, fmt.Errorf("%w: knockout needs at least 2 participants, got %d", ErrInvalidInput, n)
	}
	if newID == nil {
		newID = SequentialIDs("")
	}

	bracketSize := nextPowerOfTwo(n)
	byes := bracketSize - n
	firstRoundMatches := (n - byes) / 2
	totalRounds := bits.TrailingZeros(uint(bracketSize))

	bracket := &Bracket[P]{
		Format:      FormatKnockout,
		TotalRounds: totalRounds,
		BracketSize: bracketSize,
		Byes:        byes,
		Feasible:    true,
		Matches:     make([]*Match[P], 0, bracketSize),
	}

	matchNumber := 0
	newMatch := func(round int) *Match[P] {
		matchNumber++
		m := &Match[P]{
			ID:               newID(),
			FixtureID:        fixtureID,
			Round:            round,
			MatchNumber:      matchNumber,
			Status:           StatusScheduled,
			PreviousMatchIDs: []string{},
		}
		bracket.Matches = append(bracket.Matches, m)
		return m
	}

	rounds := make([][]*Match[P], totalRounds+1)
	for i := 0; i < firstRoundMatches; i++ {
		m := newMatch(1)
		m.Home = ptr(ordered[2*i])
		m.Away = ptr(ordered[2*i+1])
		rounds[1] = append(rounds[1], m)
	}
	for r := 2; r <= totalRounds; r++ {
		for i := 0; i < 1<<(totalRounds-r); i++ {
			rounds[r] = append(rounds[r], newMatch(r))
		}
	}

	for r := 1; r < totalRounds; r++ {
		for i, m := range rounds[r] {
			next := rounds[r+1][i/2]
			m.NextMatchID = ptr(next.ID)
			next.linkPrevious(m.ID)
		}
	}

	if byes > 0 {
		seedByes(rounds[2], ordered[2*firstRoundMatches:])
	}

	if len(teams) > 0 {
		for _, m := range rounds[1] {
			if m.Home == nil || m.Away == nil || !teams.SameTeam(*m.Home, *m.Away) {
				continue
			}
			if settings.StrictAvoidance {
				return nil, fmt.Errorf("%w: round 1 match %d pairs %v and %v from team %d",
					ErrConstraintInfeasible, m.MatchNumber, *m.Home, *m.Away, teams[*m.Home])
			}
			bracket.Feasible = false
			bracket.warnf("round 1 match %d pairs %v and %v from team %d", m.MatchNumber, *m.Home, *m.Away, teams[*m.Home])
		}
	}

	if err := advanceWalkovers(bracket, rounds[1]); err != nil {
		return nil, err
	}

	if settings.ThirdPlaceMatch {
		switch {
		case totalRounds < 2:
			bracket.warnf("third place match skipped: bracket of %d has no semi-finals", n)
		case playedMatches(rounds[totalRounds-1]) < 2:
			// A bye in a semi-final leaves only one loser to play for third.
			bracket.warnf("third place match skipped: bracket of %d has fewer than two played semi-finals", n)
		default:
			newMatch(totalRounds).IsThirdPlaceMatch = true
		}
	}

	return bracket, nil
}

// playedMatches counts the matches of one round that are not walkovers.
func playedMatches[P comparable](round []*Match[P]) int {
	played := 0
	for _, m := range round {
		if m.Status != StatusWalkover {
			played++
		}
	}
	return played
}

// seedByes drops bye receivers into round-2 slots that no round-1 match feeds,
// home before away, in order.
func seedByes[P comparable](secondRound []*Match[P], receivers []P) {
	next := 0
	for _, m := range secondRound {
		open := 2 - len(m.PreviousMatchIDs)
		for k := 0; k < open && next < len(receivers); k++ {
			for _, slot := range slotOrder {
				if m.Participant(slot) == nil {
					m.setSlot(slot, ptr(receivers[next]), nil)
					break
				}
			}
			next++
		}
	}
}

// advanceWalkovers settles first-round matches that only have one side and
// pushes their winner into the next match.
func advanceWalkovers[P comparable](bracket *Bracket[P], firstRound []*Match[P]) error {
	index := bracket.Index()
	for _, m := range firstRound {
		if !declareWalkover(m) || m.NextMatchID == nil {
			continue
		}
		next, ok := index[*m.NextMatchID]
		if !ok {
			return fmt.Errorf("%w: match %s links to unknown match %s", ErrInvalidInput, m.ID, *m.NextMatchID)
		}
		if _, _, err := Propagate(*m, next); err != nil {
			return fmt.Errorf("advancing walkover %s: %w", m.ID, err)
		}
	}
	return nil
}

// declareWalkover marks m as a walkover when exactly one side is present.
func declareWalkover[P comparable](m *Match[P]) bool {
	switch {
	case m.Home != nil && m.Away == nil:
		m.Winner, m.WinnerPartner = clonePtr(m.Home), clonePtr(m.HomePartner)
	case m.Away != nil && m.Home == nil:
		m.Winner, m.WinnerPartner = clonePtr(m.Away), clonePtr(m.AwayPartner)
	default:
		return false
	}
	m.Status = StatusWalkover
	return true
}
