package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/model"
)

// Scope is a per-session view on the identity Service. It tracks which
// identity is currently signed in and notifies registered listeners on
// every change. Credential operations delegate to the shared Service.
type Scope struct {
	service *Service

	mu        sync.Mutex
	current   *model.Identity
	listeners map[int]model.IdentityListener
	nextID    int
}

var _ model.IdentityProvider = (*Scope)(nil)

// NewScope creates a Scope with no identity signed in.
func (s *Service) NewScope() *Scope {
	return &Scope{
		service:   s,
		listeners: make(map[int]model.IdentityListener),
	}
}

// CreateIdentity registers a new identity without signing it in.
func (s *Scope) CreateIdentity(ctx context.Context, email, password string) (model.Identity, error) {
	return s.service.CreateIdentity(ctx, email, password)
}

// VerifyIdentity checks the credentials and, on success, signs the
// identity in and notifies listeners.
func (s *Scope) VerifyIdentity(ctx context.Context, email, password string) (model.Identity, error) {
	identity, err := s.service.VerifyIdentity(ctx, email, password)
	if err != nil {
		return model.Identity{}, err
	}

	s.mu.Lock()
	signedIn := identity
	s.current = &signedIn
	s.mu.Unlock()

	s.notify(&signedIn)

	return identity, nil
}

func (s *Scope) IssueToken(ctx context.Context, identityID uuid.UUID) (string, error) {
	return s.service.IssueToken(ctx, identityID)
}

// SignOut clears the current identity and notifies listeners with nil.
func (s *Scope) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.notify(nil)

	return nil
}

// CurrentIdentityChanged registers the listener and fires it immediately
// with the current identity. The returned function removes the listener.
func (s *Scope) CurrentIdentityChanged(listener model.IdentityListener) model.Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	current := s.current
	s.mu.Unlock()

	listener(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify calls every listener outside the lock so listeners may call
// back into the scope.
func (s *Scope) notify(identity *model.Identity) {
	s.mu.Lock()
	listeners := make([]model.IdentityListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(identity)
	}
}
