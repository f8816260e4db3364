package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"questrpg/pkg/logger"
)

// ErrMutationDone is returned by Apply after Commit or Rollback.
var ErrMutationDone = errors.New("cache: mutation already finished")

// Mutation is the exclusive writer of one key between BeginMutation and
// Commit or Rollback. Exactly one of them must be called.
type Mutation struct {
	store *Store
	e     *entry

	snapValue    any
	snapHasValue bool
	snapStatus   Status
	snapStale    bool

	once    sync.Once
	mu      sync.Mutex
	applied bool
	done    bool
}

// BeginMutation waits for the key's writer slot, supersedes and awaits any
// in-flight read, then snapshots the entry.
func (s *Store) BeginMutation(ctx context.Context, key Key) (*Mutation, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e := s.entryLocked(key)
	s.mu.Unlock()

	select {
	case e.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	e.mutating = true
	pending := supersedeLocked(e)
	s.mu.Unlock()

	if pending != nil {
		s.emit(Event{Key: key, Kind: EventSuperseded, Status: e.status})
		select {
		case <-pending:
		case <-ctx.Done():
			s.release(e)
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	m := &Mutation{
		store:        s,
		e:            e,
		snapValue:    e.value,
		snapHasValue: e.hasValue,
		snapStatus:   e.status,
		snapStale:    e.stale,
	}
	gen := e.version
	s.mu.Unlock()
	logger.Mutation(string(key), "begin", gen)
	return m, nil
}

// Key returns the key this mutation holds.
func (m *Mutation) Key() Key { return m.e.key }

// Current returns the value as of now, including earlier Apply calls.
func (m *Mutation) Current() (any, bool) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.e.value, m.e.hasValue
}

// Apply replaces the cached value with fn(current) and marks the key
// optimistic. fn must return a new value and leave its argument untouched,
// since the argument is the rollback snapshot. fn runs under the store lock
// and must not call back into the store.
func (m *Mutation) Apply(fn func(current any) (any, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return ErrMutationDone
	}

	s := m.store
	s.mu.Lock()
	next, err := fn(m.e.value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	m.e.value, m.e.hasValue = next, true
	m.e.status = StatusOptimistic
	m.e.version++
	m.e.updatedAt = time.Now()
	gen := m.e.version
	s.mu.Unlock()

	m.applied = true
	logger.Mutation(string(m.e.key), "optimistic", gen)
	s.emit(Event{Key: m.e.key, Kind: EventOptimistic, Status: StatusOptimistic, Value: next})
	return nil
}

// MarkReconciling records that the remote call is in flight.
func (m *Mutation) MarkReconciling() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return
	}
	s := m.store
	s.mu.Lock()
	if m.e.status == StatusOptimistic {
		m.e.status = StatusReconciling
	}
	st := m.e.status
	s.mu.Unlock()
	s.emit(Event{Key: m.e.key, Kind: EventReconciling, Status: st})
}

// Commit ends the mutation after the backend accepted it. An applied
// optimistic value stays visible but is marked stale so the next read
// replaces it with the server's copy.
func (m *Mutation) Commit() {
	m.finish(func(e *entry) Event {
		if m.applied {
			e.stale = true
			e.status = StatusStable
		}
		return Event{Key: e.key, Kind: EventCommitted, Status: e.status, Value: e.value}
	}, "commit")
}

// Rollback restores the exact pre-mutation snapshot.
func (m *Mutation) Rollback() {
	m.finish(func(e *entry) Event {
		e.value, e.hasValue = m.snapValue, m.snapHasValue
		e.status = m.snapStatus
		e.stale = m.snapStale
		e.version++
		e.updatedAt = time.Now()
		return Event{Key: e.key, Kind: EventRolledBack, Status: e.status, Value: e.value}
	}, "rollback")
}

func (m *Mutation) finish(apply func(*entry) Event, phase string) {
	m.once.Do(func() {
		m.mu.Lock()
		m.done = true
		m.mu.Unlock()

		s := m.store
		s.mu.Lock()
		ev := apply(m.e)
		gen := m.e.version
		s.mu.Unlock()

		logger.Mutation(string(m.e.key), phase, gen)
		s.emit(ev)
		s.release(m.e)
	})
}

// release frees the writer slot and runs any refetch deferred while the
// mutation held the key.
func (s *Store) release(e *entry) {
	s.mu.Lock()
	e.mutating = false
	if e.refetchPending {
		e.refetchPending = false
		e.stale = true
		s.refreshLocked(e)
	}
	s.mu.Unlock()
	<-e.writer
}
