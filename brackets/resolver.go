package brackets

import "fmt"

// Resolve applies a final score to a copy of m and decides winner and loser.
// A level score is broken by the penalty shootout when one is given; without
// one the match completes with no winner. Re-resolving a completed match is
// allowed and recomputes everything from the new scores.
func Resolve[P comparable](m Match[P], homeScore, awayScore *int, shootout *PenaltyShootout) (Match[P], error) {
	if homeScore == nil || awayScore == nil {
		return Match[P]{}, fmt.Errorf("%w: match %s", ErrMissingScores, m.ID)
	}
	if *homeScore < 0 || *awayScore < 0 {
		return Match[P]{}, fmt.Errorf("%w: match %s: scores cannot be negative", ErrInvalidInput, m.ID)
	}
	if m.Home == nil || m.Away == nil {
		return Match[P]{}, fmt.Errorf("%w: match %s: participants are not determined yet", ErrInvalidInput, m.ID)
	}
	switch m.Status {
	case StatusCancelled, StatusWalkover:
		return Match[P]{}, fmt.Errorf("%w: match %s is %s", ErrInvalidInput, m.ID, m.Status)
	}

	out := m.Clone()
	out.HomeScore = ptr(*homeScore)
	out.AwayScore = ptr(*awayScore)
	out.PenaltyShootout = nil
	out.Status = StatusCompleted
	out.Winner, out.Loser, out.WinnerPartner, out.LoserPartner = nil, nil, nil, nil

	home, away := *homeScore, *awayScore
	if home == away && shootout != nil {
		if shootout.HomeScore == shootout.AwayScore {
			return Match[P]{}, fmt.Errorf("%w: match %s: penalty shootout cannot end level", ErrInvalidInput, m.ID)
		}
		out.PenaltyShootout = clonePtr(shootout)
		home, away = shootout.HomeScore, shootout.AwayScore
	}

	switch {
	case home > away:
		out.Winner, out.WinnerPartner = clonePtr(out.Home), clonePtr(out.HomePartner)
		out.Loser, out.LoserPartner = clonePtr(out.Away), clonePtr(out.AwayPartner)
	case away > home:
		out.Winner, out.WinnerPartner = clonePtr(out.Away), clonePtr(out.AwayPartner)
		out.Loser, out.LoserPartner = clonePtr(out.Home), clonePtr(out.HomePartner)
	}
	return out, nil
}

// Propagate moves source's winner (and partner) into next, the match its
// NextMatchID points at. It is the single unit of work that touches a second
// match, and callers must serialize it per fixture.
//
// The winner goes into the first empty slot, home first. A slot already holding
// one of source's own participants is treated as an earlier write from source
// and corrected, as long as next has not started. Anything else occupying both
// slots yields ErrStaleResolve. changed is false when next already holds the
// winner with the same partner.
func Propagate[P comparable](source Match[P], next *Match[P]) (slot Slot, changed bool, err error) {
	if source.Winner == nil {
		return "", false, fmt.Errorf("%w: match %s", ErrNoWinner, source.ID)
	}
	if source.NextMatchID == nil || *source.NextMatchID != next.ID {
		return "", false, fmt.Errorf("%w: match %s does not feed match %s", ErrInvalidInput, source.ID, next.ID)
	}
	slot, changed, err = place(&source, next, *source.Winner, source.WinnerPartner)
	if err != nil {
		return "", false, err
	}
	next.linkPrevious(source.ID)
	return slot, changed, nil
}

// PlaceLoser puts a semi-final loser into the third place match using the
// same slot rules as Propagate.
func PlaceLoser[P comparable](semiFinal Match[P], thirdPlace *Match[P]) (Slot, bool, error) {
	if semiFinal.Loser == nil {
		return "", false, fmt.Errorf("%w: match %s", ErrNoWinner, semiFinal.ID)
	}
	if !thirdPlace.IsThirdPlaceMatch {
		return "", false, fmt.Errorf("%w: match %s is not a third place match", ErrInvalidInput, thirdPlace.ID)
	}
	return place(&semiFinal, thirdPlace, *semiFinal.Loser, semiFinal.LoserPartner)
}

func place[P comparable](source *Match[P], target *Match[P], participant P, partner *P) (Slot, bool, error) {
	locked := target.Status != StatusScheduled && target.Status != StatusPostponed

	for _, slot := range slotOrder {
		if cur := target.Participant(slot); cur != nil && *cur == participant {
			if equalPtr(target.Partner(slot), partner) {
				return slot, false, nil
			}
			if locked {
				return "", false, staleErr(source, target, slot)
			}
			target.setSlot(slot, clonePtr(cur), clonePtr(partner))
			return slot, true, nil
		}
	}

	for _, slot := range slotOrder {
		if cur := target.Participant(slot); cur != nil && source.HasParticipant(*cur) {
			if locked {
				return "", false, staleErr(source, target, slot)
			}
			target.setSlot(slot, ptr(participant), clonePtr(partner))
			return slot, true, nil
		}
	}

	for _, slot := range slotOrder {
		if target.Participant(slot) == nil {
			if locked {
				return "", false, staleErr(source, target, slot)
			}
			target.setSlot(slot, ptr(participant), clonePtr(partner))
			return slot, true, nil
		}
	}

	return "", false, fmt.Errorf("%w: match %s has no free slot for the result of match %s", ErrStaleResolve, target.ID, source.ID)
}

func staleErr[P comparable](source, target *Match[P], slot Slot) error {
	return fmt.Errorf("%w: match %s is %s, cannot change %s slot from match %s",
		ErrStaleResolve, target.ID, target.Status, slot, source.ID)
}
