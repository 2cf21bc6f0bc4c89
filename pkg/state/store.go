package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// AuthAPI is the local-endpoint collaborator the store falls back to:
// the same-origin check-session endpoint and the logout endpoint that
// owns authoritative cookie clearing.
type AuthAPI interface {
	CheckSession(ctx context.Context) (*api.CheckSessionResponse, error)
	Logout(ctx context.Context) error
}

// Store holds the auth state and its subscribers.
//
// Mutations take the store lock, replace the state, and then invoke
// every subscriber with the new snapshot outside the lock. A callback
// that subscribes or unsubscribes during a broadcast affects the next
// broadcast, not the one in flight.
type Store struct {
	client  provider.Client
	records provider.RecordSource
	authAPI AuthAPI
	logger  *slog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int

	bg sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-path reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store. The provider client and record source are
// required; authAPI may be nil when the local endpoints are not
// deployed, disabling the check-session fallback and making SignOut
// fall back to provider revocation.
func New(client provider.Client, records provider.RecordSource, authAPI AuthAPI, opts ...Option) *Store {
	s := &Store{
		client:  client,
		records: records,
		authAPI: authAPI,
		logger:  slog.Default(),
		state: State{
			Loading: true,
			Roles:   []provider.Role{},
		},
		subs: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the current state snapshot.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback and immediately invokes it once with
// the current state. The returned function unsubscribes; calling it
// more than once is harmless.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	snapshot := s.state
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies mutate under the lock and broadcasts the resulting
// snapshot to the subscribers registered at that moment.
func (s *Store) update(mutate func(*State)) State {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	subscribers := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
	return snapshot
}

// WaitBackground blocks until all in-flight background profile and
// role loads have settled. Intended for tests and shutdown.
func (s *Store) WaitBackground() {
	s.bg.Wait()
}
