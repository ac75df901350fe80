package services

import "sync"

// FixtureLocks serializes bracket writes per fixture inside one process.
// Row locks taken in the transaction still guard against other processes.
type FixtureLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewFixtureLocks() *FixtureLocks {
	return &FixtureLocks{locks: make(map[int]*sync.Mutex)}
}

// Lock blocks until the fixture is free and returns the matching unlock.
func (l *FixtureLocks) Lock(fixtureID int) func() {
	l.mu.Lock()
	m, ok := l.locks[fixtureID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[fixtureID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
