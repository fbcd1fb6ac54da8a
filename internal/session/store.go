package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

// Store owns the session state machine for a single signed-in user. All
// mutations go through its actions; reads go through Snapshot. The store
// subscribes to its identity provider and reacts to every sign-in and
// sign-out, loading the full profile and managing the credential lifecycle
// with its expiry timer.
type Store struct {
	provider model.IdentityProvider
	profiles model.ProfileStore
	creds    model.CredentialCache
	window   time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	session model.Session
	// generation increments on every identity change so that a slow
	// profile fetch resolving after a logout cannot resurrect the session.
	generation  uint64
	timer       expiryTimer
	unsubscribe model.Unsubscribe
	baseCtx     context.Context
}

// NewStore creates a session store. window is the credential lifetime
// after which the user is forcibly logged out.
func NewStore(
	provider model.IdentityProvider,
	profiles model.ProfileStore,
	creds model.CredentialCache,
	window time.Duration,
	logger *logger.Logger,
) *Store {
	return &Store{
		provider: provider,
		profiles: profiles,
		creds:    creds,
		window:   window,
		logger:   logger,
		session:  model.AnonymousSession(),
		baseCtx:  context.Background(),
	}
}

// Start subscribes the store to identity changes. The listener fires
// immediately with the current identity.
func (s *Store) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.unsubscribe = s.provider.CurrentIdentityChanged(s.onIdentityChanged)
}

// Close unsubscribes from identity changes and cancels any pending expiry.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.timer.Cancel()
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SignUp registers a new identity, writes the initial profile and signs
// the identity in. The identity listener completes the session: it loads
// the profile back and starts the credential lifecycle.
func (s *Store) SignUp(ctx context.Context, name, email, password string) (model.Session, error) {
	s.begin()

	identity, err := s.provider.CreateIdentity(ctx, email, password)
	if err != nil {
		return s.fail(err)
	}

	if _, err := s.profiles.Write(ctx, identity.ID, model.ProfileFields{
		Name:  name,
		Email: email,
	}); err != nil {
		return s.fail(fmt.Errorf("failed to write profile: %w", err))
	}

	if _, err := s.provider.VerifyIdentity(ctx, email, password); err != nil {
		return s.fail(err)
	}

	s.logger.Info("Session store: signed up", "user_id", identity.ID)

	return s.Snapshot(), nil
}

// LogIn verifies the credentials. The full profile is not loaded here:
// the identity listener fires on sign-in and is responsible for the
// profile fetch and the credential lifecycle.
func (s *Store) LogIn(ctx context.Context, email, password string) (model.Session, error) {
	s.begin()

	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		return s.fail(err)
	}

	s.logger.Info("Session store: logged in", "user_id", identity.ID)

	return s.Snapshot(), nil
}

// LogOut signs the identity out. The identity listener resets the session
// to anonymous, cancels the pending expiry and removes the cached
// credential.
func (s *Store) LogOut(ctx context.Context) (model.Session, error) {
	if err := s.provider.SignOut(ctx); err != nil {
		return s.fail(fmt.Errorf("failed to sign out: %w", err))
	}
	return s.Snapshot(), nil
}

// FetchProfile loads the profile for uid into the session and restarts
// the credential lifecycle. A missing profile is treated as a failure:
// the session resets to anonymous.
func (s *Store) FetchProfile(ctx context.Context, uid uuid.UUID) (model.Session, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session.UID = uid
	s.session.Loading = true
	s.session.State = model.StateLoading
	s.session.LastError = ""
	s.mu.Unlock()

	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		s.logger.Info("Session store: profile fetch failed",
			"user_id", uid,
			"error", err.Error())
		s.resetWithError(err)
		if errors.Is(err, model.ErrNotFound) {
			return s.Snapshot(), model.ErrIdentityNotFound
		}
		return s.Snapshot(), fmt.Errorf("failed to fetch profile: %w", err)
	}

	s.mu.Lock()
	if gen != s.generation {
		// identity changed while the fetch was in flight, discard
		sess := s.session
		s.mu.Unlock()
		return sess, nil
	}
	s.applyProfileLocked(profile)
	s.mu.Unlock()

	if _, err := s.startCredential(gen, uid); err != nil {
		s.logger.Error("Session store: failed to start credential lifecycle",
			"user_id", uid,
			"error", err.Error())
	}

	return s.Snapshot(), nil
}

// UpdateProfile replaces the stored profile with exactly the given fields
// and reflects the result in the session.
func (s *Store) UpdateProfile(ctx context.Context, fields model.ProfileFields) (model.Session, error) {
	s.mu.Lock()
	uid := s.session.UID
	s.mu.Unlock()

	if uid == uuid.Nil {
		return s.Snapshot(), model.ErrNotAuthenticated
	}

	s.begin()

	profile, err := s.profiles.Write(ctx, uid, fields)
	if err != nil {
		return s.fail(fmt.Errorf("failed to update profile: %w", err))
	}

	s.mu.Lock()
	s.applyProfileLocked(profile)
	s.mu.Unlock()

	s.logger.Debug("Session store: profile updated", "user_id", uid)

	return s.Snapshot(), nil
}

// Credential returns the cached credential for the signed-in user,
// re-deriving a fresh one from the provider on a cache miss or when the
// cached one is already expired.
func (s *Store) Credential(ctx context.Context) (model.CachedCredential, error) {
	s.mu.Lock()
	uid := s.session.UID
	gen := s.generation
	s.mu.Unlock()

	if uid == uuid.Nil {
		return model.CachedCredential{}, model.ErrNotAuthenticated
	}

	cred, err := s.creds.Get(ctx, uid)
	if err == nil && !cred.Expired(time.Now()) {
		return cred, nil
	}

	return s.startCredential(gen, uid)
}

// onIdentityChanged is the identity listener. nil means signed out.
func (s *Store) onIdentityChanged(identity *model.Identity) {
	if identity == nil {
		s.handleSignOut()
		return
	}
	s.handleSignIn(*identity)
}

func (s *Store) handleSignOut() {
	s.mu.Lock()
	s.generation++
	prior := s.session.UID
	s.timer.Cancel()
	s.session = model.AnonymousSession()
	s.mu.Unlock()

	if prior == uuid.Nil {
		return
	}

	if err := s.creds.Remove(s.baseCtx, prior); err != nil {
		s.logger.Error("Session store: failed to remove cached credential",
			"user_id", prior,
			"error", err.Error())
	}

	s.logger.Info("Session store: signed out", "user_id", prior)
}

func (s *Store) handleSignIn(identity model.Identity) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session.UID = identity.ID
	s.session.Email = identity.Email
	s.session.Loading = true
	s.session.State = model.StateLoading
	s.mu.Unlock()

	profile, err := s.profiles.Get(s.baseCtx, identity.ID)
	if err != nil {
		s.logger.Error("Session store: failed to load profile on sign-in",
			"user_id", identity.ID,
			"error", err.Error())
		if s.stale(gen) {
			return
		}
		// a signed-in identity without a profile cannot stay signed in
		if serr := s.provider.SignOut(s.baseCtx); serr != nil {
			s.logger.Error("Session store: failed to sign out",
				"user_id", identity.ID,
				"error", serr.Error())
		}
		s.setError(errorMessage(err))
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.applyProfileLocked(profile)
	s.mu.Unlock()

	if _, err := s.startCredential(gen, identity.ID); err != nil {
		s.logger.Error("Session store: failed to start credential lifecycle",
			"user_id", identity.ID,
			"error", err.Error())
	}
}

// startCredential issues a token, caches it with its expiry and schedules
// the forced logout. Stale generations schedule nothing.
func (s *Store) startCredential(gen uint64, uid uuid.UUID) (model.CachedCredential, error) {
	token, err := s.provider.IssueToken(s.baseCtx, uid)
	if err != nil {
		return model.CachedCredential{}, fmt.Errorf("failed to issue token: %w", err)
	}

	cred := model.CachedCredential{
		Token:     token,
		ExpiresAt: time.Now().Add(s.window),
	}

	if err := s.creds.Set(s.baseCtx, uid, cred); err != nil {
		s.logger.Error("Session store: failed to cache credential",
			"user_id", uid,
			"error", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return model.CachedCredential{}, nil
	}
	s.timer.Schedule(s.window, s.expire)

	return cred, nil
}

// expire fires when the credential window elapses. Signing out triggers
// the listener, which resets the session and removes the credential.
func (s *Store) expire() {
	s.mu.Lock()
	uid := s.session.UID
	s.mu.Unlock()

	s.logger.Info("Session store: credential expired, forcing logout", "user_id", uid)

	if err := s.provider.SignOut(s.baseCtx); err != nil {
		s.logger.Error("Session store: failed to sign out on expiry",
			"user_id", uid,
			"error", err.Error())
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.session.Loading = true
	s.session.State = model.StateLoading
	s.session.LastError = ""
	s.mu.Unlock()
}

func (s *Store) fail(err error) (model.Session, error) {
	msg := errorMessage(err)

	s.mu.Lock()
	s.session.Loading = false
	s.session.State = model.StateError
	s.session.LastError = msg
	sess := s.session
	s.mu.Unlock()

	return sess, err
}

func (s *Store) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.session.State = model.StateError
	s.session.LastError = msg
	s.mu.Unlock()
}

func (s *Store) resetWithError(err error) {
	s.timer.Cancel()

	s.mu.Lock()
	s.generation++
	prior := s.session.UID
	s.session = model.AnonymousSession()
	s.session.State = model.StateError
	s.session.LastError = errorMessage(err)
	s.mu.Unlock()

	if prior == uuid.Nil {
		return
	}
	if rerr := s.creds.Remove(s.baseCtx, prior); rerr != nil {
		s.logger.Error("Session store: failed to remove cached credential",
			"user_id", prior,
			"error", rerr.Error())
	}
}

func (s *Store) applyProfileLocked(profile model.Profile) {
	s.session.UID = profile.UID
	s.session.Name = profile.Name
	s.session.Email = profile.Email
	s.session.ProfileImage = profile.ProfileImage
	s.session.Designation = profile.Designation
	s.session.Github = profile.Github
	s.session.Linkedin = profile.Linkedin
	s.session.Authenticated = true
	s.session.Loading = false
	s.session.State = model.StateAuthenticated
	s.session.LastError = ""
}

// errorMessage maps store and provider failures to user-facing messages.
func errorMessage(err error) string {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, model.ErrEmailInUse):
		return "email already in use"
	case errors.Is(err, model.ErrIdentityNotFound), errors.Is(err, model.ErrNotFound):
		return "user not found"
	case errors.Is(err, model.ErrWrongPassword):
		return "wrong password"
	default:
		return err.Error()
	}
}
