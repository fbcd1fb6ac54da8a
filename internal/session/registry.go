package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

// StoreFactory creates a session store bound to a fresh identity scope.
type StoreFactory func() *Store

// Registry tracks one session store per signed-in user. HTTP handlers
// resolve a user ID from the bearer token and operate on that user's
// store through the registry.
type Registry struct {
	factory StoreFactory
	logger  *logger.Logger

	mu      sync.Mutex
	baseCtx context.Context
	stores  map[uuid.UUID]*Store
}

// NewRegistry creates a registry. ctx outlives individual requests and is
// used for work the stores do outside a request, such as expiry handling.
func NewRegistry(ctx context.Context, factory StoreFactory, logger *logger.Logger) *Registry {
	return &Registry{
		factory: factory,
		logger:  logger,
		baseCtx: ctx,
		stores:  make(map[uuid.UUID]*Store),
	}
}

// SignUp runs the sign-up action on a fresh store and registers it under
// the new user's ID.
func (r *Registry) SignUp(ctx context.Context, name, email, password string) (model.Session, error) {
	store := r.newStore()

	sess, err := store.SignUp(ctx, name, email, password)
	if err != nil {
		store.Close()
		return sess, err
	}

	r.attach(sess.UID, store)

	return sess, nil
}

// LogIn runs the login action on a fresh store and registers it under the
// user's ID, replacing any previous session for that user.
func (r *Registry) LogIn(ctx context.Context, email, password string) (model.Session, error) {
	store := r.newStore()

	sess, err := store.LogIn(ctx, email, password)
	if err != nil {
		store.Close()
		return sess, err
	}

	r.attach(sess.UID, store)

	return sess, nil
}

// LogOut runs the logout action on the user's store and drops it.
func (r *Registry) LogOut(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	r.mu.Lock()
	store, ok := r.stores[userID]
	delete(r.stores, userID)
	r.mu.Unlock()

	if !ok {
		return model.AnonymousSession(), nil
	}

	sess, err := store.LogOut(ctx)
	store.Close()

	return sess, err
}

// Store returns the session store for userID, creating and starting one
// when none is registered. Created stores start anonymous; callers hydrate
// them through FetchProfile.
func (r *Registry) Store(userID uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[userID]; ok {
		return store
	}

	store := r.factory()
	store.Start(r.baseCtx)
	r.stores[userID] = store

	return store
}

// Session returns a snapshot of the user's session, if one is registered.
func (r *Registry) Session(userID uuid.UUID) (model.Session, bool) {
	r.mu.Lock()
	store, ok := r.stores[userID]
	r.mu.Unlock()

	if !ok {
		return model.AnonymousSession(), false
	}

	return store.Snapshot(), true
}

// Close shuts down every registered store.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, store := range r.stores {
		store.Close()
		delete(r.stores, id)
	}
}

func (r *Registry) newStore() *Store {
	r.mu.Lock()
	ctx := r.baseCtx
	r.mu.Unlock()

	store := r.factory()
	store.Start(ctx)

	return store
}

func (r *Registry) attach(userID uuid.UUID, store *Store) {
	r.mu.Lock()
	prior, ok := r.stores[userID]
	r.stores[userID] = store
	r.mu.Unlock()

	if ok && prior != store {
		prior.Close()
		r.logger.Debug("Session registry: replaced session", "user_id", userID)
	}
}
