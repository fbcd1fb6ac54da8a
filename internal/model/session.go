package model

import "github.com/google/uuid"

// SessionState enumerates the session state machine states.
type SessionState string

const (
	// StateAnonymous is the initial state and the state after logout.
	StateAnonymous SessionState = "anonymous"
	// StateLoading is entered while an action is in flight.
	StateLoading SessionState = "loading"
	// StateAuthenticated is entered on a successful sign-up, login or
	// profile resolution.
	StateAuthenticated SessionState = "authenticated"
	// StateError is entered when an action fails; LastError carries the
	// user-facing message.
	StateError SessionState = "error"
)

// Session is the client-visible authentication state. It is owned by the
// session store and mutated only through its actions.
type Session struct {
	UID           uuid.UUID
	Name          string
	Email         string
	ProfileImage  string
	Designation   string
	Github        string
	Linkedin      string
	State         SessionState
	Authenticated bool
	Loading       bool
	LastError     string
}

// AnonymousSession returns the session defaults: no identity, anonymous
// state, no error.
func AnonymousSession() Session {
	return Session{State: StateAnonymous}
}
