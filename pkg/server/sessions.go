package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/frameloop"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// SchedulerFactory returns a frame scheduler for a new session and a
// function that releases it.
type SchedulerFactory func() (frameloop.Scheduler, func())

// TickerFactory returns a factory creating one ticker per session.
func TickerFactory(fps int) SchedulerFactory {
	return func() (frameloop.Scheduler, func()) {
		t := frameloop.NewTicker(fps)
		return t, t.Close
	}
}

type session struct {
	id      string
	actor   *scene.Actor
	release func()
	created time.Time
}

func (s *session) close() {
	s.actor.Close()
	if s.release != nil {
		s.release()
	}
}

// Sessions is the live session table.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*session
	max   int
	ttl   time.Duration
	sched SchedulerFactory
}

// NewSessions creates an empty table. max <= 0 means unlimited and
// ttl <= 0 disables expiry.
func NewSessions(max int, ttl time.Duration, sched SchedulerFactory) *Sessions {
	return &Sessions{
		items: make(map[string]*session),
		max:   max,
		ttl:   ttl,
		sched: sched,
	}
}

// Create starts an actor for sc and returns the new session id.
func (t *Sessions) Create(sc *scene.Scene) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.max > 0 && len(t.items) >= t.max {
		return "", apperrors.New(apperrors.ErrCodeCapacity, "session limit of %d reached", t.max)
	}

	sched, release := t.sched()
	s := &session{
		id:      uuid.NewString(),
		actor:   scene.NewActor(sc, sched),
		release: release,
		created: time.Now(),
	}
	t.items[s.id] = s
	return s.id, nil
}

// Get returns the actor of a session.
func (t *Sessions) Get(id string) (*scene.Actor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.items[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s.actor, nil
}

// Delete stops and removes a session.
func (t *Sessions) Delete(id string) error {
	t.mu.Lock()
	s, ok := t.items[id]
	delete(t.items, id)
	t.mu.Unlock()
	if !ok {
		return apperrors.New(apperrors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.close()
	return nil
}

// Evict closes sessions idle since before now minus the TTL and returns
// their ids.
func (t *Sessions) Evict(now time.Time) []string {
	if t.ttl <= 0 {
		return nil
	}
	cutoff := now.Add(-t.ttl)

	t.mu.Lock()
	var stale []*session
	for id, s := range t.items {
		if s.actor.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(t.items, id)
		}
	}
	t.mu.Unlock()

	ids := make([]string, len(stale))
	for i, s := range stale {
		s.close()
		ids[i] = s.id
	}
	return ids
}

// Len returns the number of live sessions.
func (t *Sessions) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// CloseAll stops every session.
func (t *Sessions) CloseAll() {
	t.mu.Lock()
	items := t.items
	t.items = make(map[string]*session)
	t.mu.Unlock()
	for _, s := range items {
		s.close()
	}
}
