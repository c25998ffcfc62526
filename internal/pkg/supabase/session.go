package supabase

import (
	"context"
	"sync"
)

type EventKind string

const (
	EventSignedIn  EventKind = "SIGNED_IN"
	EventSignedOut EventKind = "SIGNED_OUT"
)

// Event is delivered to session listeners. Session is nil for sign-out.
type Event struct {
	Kind    EventKind
	Session *Session
}

// SessionManager owns the current session and notifies subscribers on every
// state change. Listeners are called synchronously in subscription order.
type SessionManager struct {
	auth *AuthClient

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(Event)
	nextID    int
}

func NewSessionManager(auth *AuthClient) *SessionManager {
	return &SessionManager{
		auth:      auth,
		listeners: make(map[int]func(Event)),
	}
}

// Subscribe registers a listener and returns its unsubscribe handle.
func (m *SessionManager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Session returns the current session, or nil when signed out.
func (m *SessionManager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *SessionManager) SignUp(ctx context.Context, email, password string) (*Session, error) {
	session, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	// Projects with email confirmation return a session without a token;
	// only a usable session counts as signed in.
	if session.AccessToken != "" {
		m.store(session)
	}

	return session, nil
}

func (m *SessionManager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.store(session)
	return session, nil
}

// Restore starts a session from a stored refresh token.
func (m *SessionManager) Restore(ctx context.Context, refreshToken string) (*Session, error) {
	session, err := m.auth.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	m.store(session)
	return session, nil
}

func (m *SessionManager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := m.auth.SignOut(ctx, session.AccessToken); err != nil {
		return err
	}

	m.mu.Lock()
	m.session = nil
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(Event{Kind: EventSignedOut})
	}

	return nil
}

// CurrentUser re-validates the session's access token with the provider.
func (m *SessionManager) CurrentUser(ctx context.Context) (*User, error) {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		return nil, ErrInvalidToken
	}

	return m.auth.GetUser(ctx, session.AccessToken)
}

func (m *SessionManager) store(session *Session) {
	m.mu.Lock()
	m.session = session
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(Event{Kind: EventSignedIn, Session: session})
	}
}

// snapshotLocked copies listeners so notification runs outside the lock,
// letting a listener unsubscribe itself without deadlocking.
func (m *SessionManager) snapshotLocked() []func(Event) {
	out := make([]func(Event), 0, len(m.listeners))
	for i := 0; i < m.nextID; i++ {
		if fn, ok := m.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
