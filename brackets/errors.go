package brackets

import "errors"

var (
	// ErrInvalidInput covers empty or undersized participant lists, duplicate
	// participants, bad settings and scores that cannot be applied.
	ErrInvalidInput = errors.New("invalid bracket input")

	// ErrConstraintInfeasible is returned only when strict avoidance is on.
	// Otherwise the same condition is reported through Bracket.Warnings.
	ErrConstraintInfeasible = errors.New("same-team pairing could not be avoided")

	// ErrStaleResolve means the target slot holds data this match did not produce.
	ErrStaleResolve = errors.New("target slot already filled by another source")

	ErrMissingScores = errors.New("both home and away scores are required")
	ErrNoWinner      = errors.New("match has no decided participant to advance")
)
