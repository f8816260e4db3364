package cache

// EventKind names a cache transition.
type EventKind int

const (
	EventFetched EventKind = iota
	EventFetchFailed
	EventInvalidated
	EventSuperseded
	EventOptimistic
	EventReconciling
	EventCommitted
	EventRolledBack
)

func (k EventKind) String() string {
	switch k {
	case EventFetched:
		return "fetched"
	case EventFetchFailed:
		return "fetch_failed"
	case EventInvalidated:
		return "invalidated"
	case EventSuperseded:
		return "superseded"
	case EventOptimistic:
		return "optimistic"
	case EventReconciling:
		return "reconciling"
	case EventCommitted:
		return "committed"
	case EventRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// Event describes one transition of one key.
type Event struct {
	Key    Key
	Kind   EventKind
	Status Status
	Value  any
	Err    error
}

// Observer receives events synchronously, outside the store lock. It must
// not block.
type Observer func(Event)

// Subscribe registers obs and returns a function that removes it.
func (s *Store) Subscribe(obs Observer) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.Unlock()
	for _, o := range obs {
		o(ev)
	}
}
