package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStandings struct {
	calls atomic.Int32
}

func (s *countingStandings) Compute(context.Context, int) ([]models.Standing, error) { return nil, nil }
func (s *countingStandings) Refresh(context.Context, int) ([]models.Standing, error) { return nil, nil }
func (s *countingStandings) RefreshActive(context.Context) error {
	s.calls.Add(1)
	return nil
}

func TestStartStandingsScheduler(t *testing.T) {
	standings := &countingStandings{}
	sched, err := StartStandingsScheduler(standings, 20*time.Millisecond, discardLogger())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return standings.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, sched.Shutdown())
}

func TestStartStandingsScheduler_RejectsZeroInterval(t *testing.T) {
	_, err := StartStandingsScheduler(&countingStandings{}, 0, discardLogger())
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestFixtureLocks(t *testing.T) {
	locks := NewFixtureLocks()
	unlock := locks.Lock(1)

	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		release := locks.Lock(1)
		release()
	}()

	otherFixture := locks.Lock(2)
	otherFixture()

	select {
	case <-acquired:
		t.Fatal("second lock on the same fixture acquired while held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired
}
