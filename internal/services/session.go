package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"eventease/internal/adapters/auth"
	"eventease/internal/domain"
)

// SessionManager owns the single in-memory session. It is the only mutator;
// every other component reads snapshots and observes transitions through
// Subscribe.
type SessionManager struct {
	store    domain.CredentialStore
	api      domain.AuthAPI
	notifier domain.Notifier
	log      *slog.Logger

	mu      sync.Mutex
	current domain.Session
	subs    map[int]func(domain.Session)
	nextSub int
}

// NewSessionManager creates a SessionManager over the given store and auth API.
func NewSessionManager(store domain.CredentialStore, api domain.AuthAPI, notifier domain.Notifier, log *slog.Logger) *SessionManager {
	return &SessionManager{
		store:    store,
		api:      api,
		notifier: notifier,
		log:      log,
		subs:     make(map[int]func(domain.Session)),
	}
}

// Initialize adopts a well-formed persisted identity as the current session.
// No network call is made and the credential is not re-validated; the remote
// service gets to reject it on first use instead.
func (m *SessionManager) Initialize(ctx context.Context) error {
	ps, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if ps == nil {
		return nil
	}

	var identity domain.Identity
	if err := json.Unmarshal(ps.Identity, &identity); err != nil {
		m.log.Warn("ignoring malformed persisted identity", "error", err)
		return nil
	}
	if identity.Roles == nil {
		// Roles are persisted separately as well; fall back before
		// defaulting to the empty (fail-closed) set.
		var roles []string
		if err := json.Unmarshal(ps.Roles, &roles); err == nil && roles != nil {
			identity.Roles = roles
		} else {
			identity.Roles = []string{}
		}
	}

	m.transition(&identity, ps.Token)
	m.log.Debug("session rehydrated", "user", identity.ID)
	return nil
}

// SignUp registers a new account and adopts the returned identity.
func (m *SessionManager) SignUp(ctx context.Context, profile domain.SignupProfile) (*domain.AuthResult, error) {
	res, err := m.api.SignUp(ctx, profile)
	if err != nil {
		return nil, err
	}
	return res, m.adopt(ctx, res)
}

// SignIn authenticates and adopts the returned identity. The full result is
// returned so the caller can act on it (role-based redirect) immediately.
func (m *SessionManager) SignIn(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	res, err := m.api.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	return res, m.adopt(ctx, res)
}

func (m *SessionManager) adopt(ctx context.Context, res *domain.AuthResult) error {
	if res.User == nil {
		return &domain.RemoteError{Detail: "auth response missing user"}
	}
	identity := res.User.Clone()
	if identity.Roles == nil {
		identity.Roles = []string{}
	}

	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	rolesJSON, err := json.Marshal(identity.Roles)
	if err != nil {
		return err
	}

	m.transition(identity, res.AccessToken)
	if err := m.store.Save(ctx, &domain.PersistedSession{
		Identity: identityJSON,
		Roles:    rolesJSON,
		Token:    res.AccessToken,
	}); err != nil {
		// The remote signin already succeeded; losing persistence only
		// costs rehydration on the next start.
		m.log.Warn("failed to persist session", "error", err)
	}
	return nil
}

// Logout clears the in-memory session and all persisted keys. It always
// succeeds and has no network effect.
func (m *SessionManager) Logout() {
	m.transition(nil, "")
	if err := m.store.Clear(context.Background()); err != nil {
		m.log.Warn("failed to clear persisted session", "error", err)
	}
}

// Invalidate tears the session down after a remote authentication rejection
// and returns ErrSessionExpired for the caller that observed it.
func (m *SessionManager) Invalidate() error {
	m.Logout()
	if m.notifier != nil {
		m.notifier.Info("Session expired, please sign in again")
	}
	return domain.ErrSessionExpired
}

// HandleRemoteError converts an authentication rejection into session
// teardown. Any other error passes through unchanged.
func (m *SessionManager) HandleRemoteError(err error) error {
	if errors.Is(err, domain.ErrAuthRejected) {
		return m.Invalidate()
	}
	return err
}

// Snapshot returns a copy of the current session. The identity is cloned so
// concurrent transitions can never tear a reader's view.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.current
	snap.Identity = m.current.Identity.Clone()
	return snap
}

// Subscribe registers a listener for session transitions and returns its
// unsubscribe function. Listeners are called with a snapshot, outside the
// manager's lock.
func (m *SessionManager) Subscribe(fn func(domain.Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Epoch returns the current session epoch.
func (m *SessionManager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Epoch
}

func (m *SessionManager) transition(identity *domain.Identity, token string) {
	m.mu.Lock()
	m.current = domain.Session{
		Identity: identity,
		Token:    token,
		Epoch:    m.current.Epoch + 1,
	}
	if token != "" {
		m.current.ExpiresAt = auth.ExpiryOf(token)
	}
	snap := m.current
	snap.Identity = identity.Clone()
	listeners := make([]func(domain.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Token returns the current bearer credential for the REST client.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Token
}
