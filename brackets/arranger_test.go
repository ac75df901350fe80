package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairsOf(ordered []int) [][2]int {
	var pairs [][2]int
	for i := 0; i+1 < len(ordered); i += 2 {
		pairs = append(pairs, [2]int{ordered[i], ordered[i+1]})
	}
	return pairs
}

func TestArrange_NoAvoidanceKeepsOrder(t *testing.T) {
	input := []int{1, 2, 3, 4, 5}
	ordered, feasible := Arrange(input, TeamMap[int]{1: 1, 2: 1}, false, false, nil)

	assert.True(t, feasible)
	assert.Equal(t, input, ordered)

	ordered[0] = 99
	assert.Equal(t, 1, input[0], "input must not be mutated")
}

func TestArrange_EmptyTeamMapIsNoop(t *testing.T) {
	input := []int{4, 3, 2, 1}
	ordered, feasible := Arrange(input, nil, false, true, nil)

	assert.True(t, feasible)
	assert.Equal(t, input, ordered)
}

func TestArrange_RandomizeIsSeedable(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	first, _ := Arrange(input, nil, true, false, NewRand(7))
	second, _ := Arrange(input, nil, true, false, NewRand(7))

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, input, first)
}

func TestArrange_SeparatesTeams(t *testing.T) {
	teams := TeamMap[int]{1: 10, 2: 10, 3: 20, 4: 20}

	ordered, feasible := Arrange([]int{1, 2, 3, 4}, teams, false, true, nil)

	require.True(t, feasible)
	assert.Equal(t, []int{1, 3, 2, 4}, ordered)
	for _, p := range pairsOf(ordered) {
		assert.False(t, teams.SameTeam(p[0], p[1]), "pair %v shares a team", p)
	}
}

func TestArrange_FallsBackToTeamless(t *testing.T) {
	teams := TeamMap[int]{1: 10, 2: 10, 3: 10}

	ordered, feasible := Arrange([]int{1, 2, 3, 4, 5, 6}, teams, false, true, nil)

	require.True(t, feasible)
	assert.Equal(t, [][2]int{{1, 4}, {2, 5}, {3, 6}}, pairsOf(ordered))
}

func TestArrange_ForcedPairsGoLast(t *testing.T) {
	teams := TeamMap[int]{1: 10, 2: 10, 3: 10, 4: 10, 5: 20, 6: 20}

	ordered, feasible := Arrange([]int{1, 2, 3, 4, 5, 6}, teams, false, true, nil)

	assert.False(t, feasible)
	assert.Equal(t, []int{1, 5, 2, 6, 3, 4}, ordered)
}

func TestArrange_OddParticipantPlacedLast(t *testing.T) {
	teams := TeamMap[int]{1: 10, 2: 10, 3: 20}

	ordered, feasible := Arrange([]int{1, 2, 3, 4, 5}, teams, false, true, nil)

	assert.True(t, feasible)
	require.Len(t, ordered, 5)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, ordered)
	for _, p := range pairsOf(ordered[:4]) {
		assert.False(t, teams.SameTeam(p[0], p[1]))
	}
}

func TestArrange_SingleTeamIsInfeasible(t *testing.T) {
	teams := TeamMap[int]{1: 1, 2: 1, 3: 1, 4: 1}

	ordered, feasible := Arrange([]int{1, 2, 3, 4}, teams, false, true, nil)

	assert.False(t, feasible)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, ordered)
}
