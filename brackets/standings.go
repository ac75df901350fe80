package brackets

import "sort"

type StandingRow[P comparable] struct {
	ParticipantID   P   `json:"participant_id"`
	Rank            int `json:"rank"`
	Played          int `json:"played"`
	Won             int `json:"won"`
	Drawn           int `json:"drawn"`
	Lost            int `json:"lost"`
	PointsFor       int `json:"points_for"`
	PointsAgainst   int `json:"points_against"`
	PointDifference int `json:"point_difference"`
	Points          int `json:"points"`
}

// Standings tallies completed matches whose two sides are both in
// participants and ranks the rows by points, point difference and points
// scored. Rows still level keep the order of participants.
func Standings[P comparable](matches []*Match[P], participants []P, policy PointsPolicy) []StandingRow[P] {
	rows := make([]StandingRow[P], len(participants))
	index := make(map[P]int, len(participants))
	for i, p := range participants {
		rows[i].ParticipantID = p
		index[p] = i
	}

	for _, m := range matches {
		if m.Status != StatusCompleted || m.Home == nil || m.Away == nil || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		hi, okHome := index[*m.Home]
		ai, okAway := index[*m.Away]
		if !okHome || !okAway {
			continue
		}
		home, away := &rows[hi], &rows[ai]
		home.Played++
		away.Played++
		home.PointsFor += *m.HomeScore
		home.PointsAgainst += *m.AwayScore
		away.PointsFor += *m.AwayScore
		away.PointsAgainst += *m.HomeScore

		if m.Winner == nil {
			home.Drawn++
			away.Drawn++
			home.Points += policy.Draw
			away.Points += policy.Draw
			continue
		}
		winner, loser := home, away
		if *m.Winner == *m.Away {
			winner, loser = away, home
		}
		winner.Won++
		winner.Points += policy.Win
		loser.Lost++
		loser.Points += policy.Loss
	}

	for i := range rows {
		rows[i].PointDifference = rows[i].PointsFor - rows[i].PointsAgainst
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointDifference != b.PointDifference {
			return a.PointDifference > b.PointDifference
		}
		return a.PointsFor > b.PointsFor
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
