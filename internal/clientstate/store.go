package clientstate

import (
	"context"
	"slices"
	"sync"
	"time"

	"inkwell/internal/models"
)

// Store is the single state container. Dispatch is safe for concurrent use;
// subscribers are notified in dispatch order.
type Store struct {
	// notifyMu serializes Dispatch calls so notifications follow dispatch
	// order. It is always taken before mu.
	notifyMu sync.Mutex

	mu    sync.Mutex
	state State
	subs  []subscriber
	next  int
}

type subscriber struct {
	id int
	fn func(State)
}

// NewStore creates a store with the zero State.
func NewStore() *Store {
	return &Store{}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into a new state, publishes it to subscribers and
// returns it. Subscribers run in subscription order and may call State or
// unsubscribe, but must not call Dispatch.
func (s *Store) Dispatch(a Action) State {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
	return st
}

// Subscribe registers fn for every future state. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(slices.Clone(s.subs), func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

// StatsFetcher fetches a statistics snapshot. *client.Client implements it.
type StatsFetcher interface {
	DashboardStats(ctx context.Context) (*models.StatsSnapshot, error)
}

// Refresh runs one fetch cycle: Requested, then Loaded or Failed.
func Refresh(ctx context.Context, f StatsFetcher, s *Store) error {
	s.Dispatch(StatsRequested{})

	snap, err := f.DashboardStats(ctx)
	if err != nil {
		s.Dispatch(StatsFailed{Err: err})
		return err
	}
	s.Dispatch(StatsLoaded{Snapshot: snap, At: time.Now()})
	return nil
}
