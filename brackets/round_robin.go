package brackets

import "fmt"

type RoundRobinGenerator[P comparable] struct{}

func NewRoundRobinGenerator[P comparable]() Generator[P] {
	return &RoundRobinGenerator[P]{}
}

func (g *RoundRobinGenerator[P]) GetName() string {
	return "RoundRobin"
}

// GenerateBracket shuffles once per call (not per cycle) when seeds are
// randomized, then schedules every pairing for each cycle.
func (g *RoundRobinGenerator[P]) GenerateBracket(params GenerateBracketParams[P]) (*Bracket[P], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	settings := params.Settings
	participants := make([]P, len(params.Participants))
	copy(participants, params.Participants)
	if settings.RandomizeSeeds {
		doubleShuffle(params.rng(), participants)
	}
	return BuildRoundRobin(params.FixtureID, participants, settings.Rounds, params.Teams, settings.AvoidSameTeamFirstRound, params.idGenerator())
}

// BuildRoundRobin creates one match per unordered pair per cycle. Home and
// away swap on even cycles. With avoidance on, same-team pairs are dropped
// rather than substituted, so teamed participants may play fewer matches.
func BuildRoundRobin[P comparable](fixtureID int, participants []P, rounds int, teams TeamMap[P], avoidSameTeam bool, newID IDGenerator) (*Bracket[P], error) {
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: round robin needs at least 2 participants, got %d", ErrInvalidInput, n)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidInput, rounds)
	}
	if newID == nil {
		newID = SequentialIDs("")
	}

	bracket := &Bracket[P]{
		Format:      FormatRoundRobin,
		TotalRounds: rounds,
		Feasible:    true,
		Matches:     make([]*Match[P], 0, rounds*n*(n-1)/2),
	}

	matchNumber := 0
	for cycle := 1; cycle <= rounds; cycle++ {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				home, away := participants[i], participants[j]
				if avoidSameTeam && teams.SameTeam(home, away) {
					if cycle == 1 {
						bracket.Feasible = false
						bracket.warnf("skipped %v vs %v: both on team %d", home, away, teams[home])
					}
					continue
				}
				if cycle%2 == 0 {
					home, away = away, home
				}
				matchNumber++
				bracket.Matches = append(bracket.Matches, &Match[P]{
					ID:               newID(),
					FixtureID:        fixtureID,
					Round:            cycle,
					MatchNumber:      matchNumber,
					Home:             ptr(home),
					Away:             ptr(away),
					Status:           StatusScheduled,
					PreviousMatchIDs: []string{},
				})
			}
		}
	}
	return bracket, nil
}
