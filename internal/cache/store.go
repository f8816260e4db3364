// Package cache is the keyed client-side store shared by every view.
//
// Each key holds the last value the backend confirmed, a status and a stale
// flag. Only the synchronization layer writes; views read through Query or
// Peek. Writers to one key are serialized: BeginMutation takes the key's
// writer slot, supersedes any in-flight read and snapshots the current value
// so a failed mutation can restore it exactly.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"questrpg/pkg/logger"
)

// Key identifies one cached resource.
type Key string

// Status is the lifecycle state of a key.
type Status int

const (
	StatusEmpty Status = iota
	StatusStable
	StatusOptimistic
	StatusReconciling
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusStable:
		return "stable"
	case StatusOptimistic:
		return "optimistic"
	case StatusReconciling:
		return "reconciling"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

var (
	// ErrSuperseded is returned by a read that a mutation overtook.
	ErrSuperseded = errors.New("cache: read superseded by mutation")
	// ErrUnknownKey is returned for keys without a registered fetcher.
	ErrUnknownKey = errors.New("cache: no fetcher registered for key")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("cache: store closed")
)

// Fetcher loads the authoritative value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is a point-in-time copy of an entry's metadata and value.
type Snapshot struct {
	Key       Key
	Value     any
	HasValue  bool
	Status    Status
	Stale     bool
	UpdatedAt time.Time
}

type fetchCall struct {
	done       chan struct{}
	cancel     context.CancelFunc
	value      any
	err        error
	superseded bool
}

type entry struct {
	key       Key
	fetcher   Fetcher
	value     any
	hasValue  bool
	status    Status
	stale     bool
	version   uint64
	updatedAt time.Time

	writer         chan struct{}
	fetch          *fetchCall
	mutating       bool
	refetchPending bool
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	observers map[int]Observer
	nextObs   int
	timeout   time.Duration
	closed    bool

	bgCtx  context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithFetchTimeout bounds background refetches.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		entries:   make(map[Key]*entry),
		observers: make(map[int]Observer),
		timeout:   30 * time.Second,
		bgCtx:     ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds a fetcher to key. Registering again replaces the fetcher
// and keeps the cached value.
func (s *Store) Register(key Key, f Fetcher) {
	s.mu.Lock()
	s.entryLocked(key).fetcher = f
	s.mu.Unlock()
}

func (s *Store) entryLocked(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, writer: make(chan struct{}, 1)}
		s.entries[key] = e
	}
	return e
}

// Peek returns the current snapshot without fetching.
func (s *Store) Peek(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Snapshot{Key: key}
	}
	return e.snapshot()
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:       e.key,
		Value:     e.value,
		HasValue:  e.hasValue,
		Status:    e.status,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
}

// Seed stores a confirmed value directly.
func (s *Store) Seed(key Key, value any) {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.value, e.hasValue = value, true
	e.status = StatusStable
	e.stale = false
	e.version++
	e.updatedAt = time.Now()
	ev := Event{Key: key, Kind: EventFetched, Status: e.status, Value: value}
	s.mu.Unlock()
	s.emit(ev)
}

// Query returns the cached value when it is fresh and fetches otherwise.
// While a mutation holds the key the current (possibly optimistic) value is
// returned instead of racing the writer.
func (s *Store) Query(ctx context.Context, key Key) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && e.hasValue && (!e.stale || e.mutating) {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := s.Fetch(ctx, key)
	if errors.Is(err, ErrSuperseded) {
		snap := s.Peek(key)
		if snap.HasValue {
			return snap.Value, nil
		}
	}
	return v, err
}

// Fetch loads key from its fetcher and stores the result. Concurrent fetches
// of one key share a single call. A fetch that a mutation or invalidation
// overtakes returns ErrSuperseded and writes nothing.
func (s *Store) Fetch(ctx context.Context, key Key) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok || e.fetcher == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if e.mutating {
		e.refetchPending = true
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	call := e.fetch
	if call == nil {
		call = s.startFetchLocked(e)
	}
	s.mu.Unlock()

	select {
	case <-call.done:
		return call.value, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// startFetchLocked launches the fetcher for e. s.mu must be held.
func (s *Store) startFetchLocked(e *entry) *fetchCall {
	ctx, cancel := context.WithTimeout(s.bgCtx, s.timeout)
	call := &fetchCall{done: make(chan struct{}), cancel: cancel}
	e.fetch = call
	startVersion := e.version
	fetcher := e.fetcher

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer cancel()
		v, err := fetcher(ctx)
		s.finishFetch(e, call, startVersion, v, err)
	}()
	return call
}

func (s *Store) finishFetch(e *entry, call *fetchCall, startVersion uint64, v any, err error) {
	s.mu.Lock()
	if e.fetch == call {
		e.fetch = nil
	}
	var ev Event
	switch {
	case call.superseded || e.version != startVersion || e.mutating:
		call.err = ErrSuperseded
		ev = Event{Key: e.key, Kind: EventSuperseded, Status: e.status}
	case err != nil:
		call.err = err
		ev = Event{Key: e.key, Kind: EventFetchFailed, Status: e.status, Err: err}
	default:
		e.value, e.hasValue = v, true
		e.status = StatusStable
		e.stale = false
		e.version++
		e.updatedAt = time.Now()
		call.value = v
		ev = Event{Key: e.key, Kind: EventFetched, Status: e.status, Value: v}
	}
	close(call.done)
	s.mu.Unlock()

	if ev.Kind == EventFetchFailed {
		logger.WithFields(map[string]interface{}{
			"key":   string(e.key),
			"error": err,
		}).Warn("cache fetch failed")
	}
	s.emit(ev)
}

// supersedeLocked cancels the in-flight read of e, if any, and returns a
// channel closed once it has finished. s.mu must be held.
func supersedeLocked(e *entry) <-chan struct{} {
	call := e.fetch
	if call == nil {
		return nil
	}
	call.superseded = true
	call.cancel()
	e.fetch = nil
	return call.done
}

// Invalidate marks keys stale and refetches them in the background. Keys
// under mutation are refetched once the mutation finishes.
func (s *Store) Invalidate(keys ...Key) {
	var events []Event
	s.mu.Lock()
	for _, key := range keys {
		e, ok := s.entries[key]
		if !ok {
			continue
		}
		e.stale = true
		events = append(events, Event{Key: key, Kind: EventInvalidated, Status: e.status})
		if e.mutating {
			e.refetchPending = true
			continue
		}
		s.refreshLocked(e)
	}
	s.mu.Unlock()
	for _, ev := range events {
		s.emit(ev)
	}
}

// refreshLocked replaces any in-flight read with a fresh one.
func (s *Store) refreshLocked(e *entry) {
	if s.closed || e.fetcher == nil {
		return
	}
	if e.fetch != nil {
		supersedeLocked(e)
	}
	s.startFetchLocked(e)
}

// Forget drops the cached values of keys and cancels their reads. Fetchers
// stay registered.
func (s *Store) Forget(keys ...Key) {
	s.mu.Lock()
	for _, key := range keys {
		e, ok := s.entries[key]
		if !ok {
			continue
		}
		supersedeLocked(e)
		if e.mutating {
			continue
		}
		e.value, e.hasValue = nil, false
		e.status = StatusEmpty
		e.stale = false
		e.version++
	}
	s.mu.Unlock()
}

// Wait blocks until background fetches started so far have finished.
func (s *Store) Wait() {
	s.bg.Wait()
}

// Close cancels background work and waits for it.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.bg.Wait()
}

// Value returns the cached value of key as T.
func Value[T any](s *Store, key Key) (T, bool) {
	var zero T
	snap := s.Peek(key)
	if !snap.HasValue {
		return zero, false
	}
	v, ok := snap.Value.(T)
	return v, ok
}

// QueryAs is Query with a typed result.
func QueryAs[T any](ctx context.Context, s *Store, key Key) (T, error) {
	var zero T
	v, err := s.Query(ctx, key)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T, not %T", key, v, zero)
	}
	return out, nil
}
