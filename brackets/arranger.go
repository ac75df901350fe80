package brackets

import "math/rand"

// TeamMap maps a participant to the team it belongs to within one event.
// Participants absent from the map are treated as team-less.
type TeamMap[P comparable] map[P]int

// SameTeam reports whether a and b are both mapped to the same team.
func (t TeamMap[P]) SameTeam(a, b P) bool {
	ta, okA := t[a]
	tb, okB := t[b]
	return okA && okB && ta == tb
}

// Arrange orders participants so that positions 2i and 2i+1 form a pairing.
// With avoidance on, pairings across different teams come first, then pairings
// with team-less participants, and forced same-team pairings last, so that they
// fall into the bye region of a knockout bracket when there is one. An odd
// participant out is always placed at the very end.
//
// feasible is false when at least one same-team pairing had to be forced.
func Arrange[P comparable](participants []P, teams TeamMap[P], randomize, avoidSameTeam bool, rng *rand.Rand) (ordered []P, feasible bool) {
	ordered = make([]P, len(participants))
	copy(ordered, participants)
	if randomize {
		if rng == nil {
			rng = defaultRand()
		}
		doubleShuffle(rng, ordered)
	}
	if !avoidSameTeam || len(teams) == 0 {
		return ordered, true
	}
	return pairAcrossTeams(ordered, teams)
}

type teamBucket[P comparable] struct {
	team    int
	members []P
}

func (b *teamBucket[P]) pop() P {
	p := b.members[0]
	b.members = b.members[1:]
	return p
}

func pairAcrossTeams[P comparable](ordered []P, teams TeamMap[P]) ([]P, bool) {
	var (
		buckets  []*teamBucket[P]
		teamless []P
	)
	byTeam := make(map[int]*teamBucket[P])
	for _, p := range ordered {
		team, ok := teams[p]
		if !ok {
			teamless = append(teamless, p)
			continue
		}
		b, ok := byTeam[team]
		if !ok {
			b = &teamBucket[P]{team: team}
			byTeam[team] = b
			buckets = append(buckets, b)
		}
		b.members = append(b.members, p)
	}

	// largest returns the biggest non-empty bucket other than exclude; ties go
	// to the team that appeared first in ordered.
	largest := func(exclude *teamBucket[P]) *teamBucket[P] {
		var best *teamBucket[P]
		for _, b := range buckets {
			if b == exclude || len(b.members) == 0 {
				continue
			}
			if best == nil || len(b.members) > len(best.members) {
				best = b
			}
		}
		return best
	}

	var crossTeam, withTeamless, sameTeam, singles []P
	for {
		a := largest(nil)
		if a == nil {
			break
		}
		home := a.pop()
		switch b := largest(a); {
		case b != nil:
			crossTeam = append(crossTeam, home, b.pop())
		case len(teamless) > 0:
			withTeamless = append(withTeamless, home, teamless[0])
			teamless = teamless[1:]
		case len(a.members) > 0:
			sameTeam = append(sameTeam, home, a.pop())
		default:
			singles = append(singles, home)
		}
	}
	if len(teamless)%2 == 1 {
		singles = append(singles, teamless[len(teamless)-1])
		teamless = teamless[:len(teamless)-1]
	}

	out := make([]P, 0, len(ordered))
	out = append(out, crossTeam...)
	out = append(out, withTeamless...)
	out = append(out, teamless...)
	out = append(out, sameTeam...)
	out = append(out, singles...)
	return out, len(sameTeam) == 0
}
