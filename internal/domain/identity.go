package domain

import (
	"context"
	"time"
)

// Identity represents the signed-in user's profile and role set.
type Identity struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Clone returns a deep copy so callers never share the roles slice
// with the session's own copy.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Roles != nil {
		cp.Roles = make([]string, len(i.Roles))
		copy(cp.Roles, i.Roles)
	}
	return &cp
}

// Session is the process-wide pairing of identity and bearer credential.
// It is a value type: every read outside the session manager is a snapshot.
type Session struct {
	Identity  *Identity
	Token     string
	ExpiresAt time.Time
	// Epoch increments on every session transition. In-flight operations tag
	// their results with the epoch they started under so completions that
	// outlived the session they were issued for can be discarded.
	Epoch uint64
}

// Active reports whether an identity is present.
func (s Session) Active() bool {
	return s.Identity != nil
}

// Credentials is the signin payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupProfile is the signup payload. Roles are non-exclusive; the sample
// flows assign exactly one at signup but the model does not require that.
type SignupProfile struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// AuthResult mirrors the auth endpoints' response payload.
type AuthResult struct {
	User        *Identity `json:"user"`
	AccessToken string    `json:"access_token"`
}

// PersistedSession is what survives process restarts: the serialized
// identity, its role list, and the bearer credential. The three are always
// written and cleared together.
type PersistedSession struct {
	Identity []byte
	Roles    []byte
	Token    string
}

// CredentialStore defines the interface for persisted session storage.
type CredentialStore interface {
	Save(ctx context.Context, ps *PersistedSession) error
	Load(ctx context.Context) (*PersistedSession, error)
	Clear(ctx context.Context) error
}

// AuthAPI defines the remote authentication endpoints.
type AuthAPI interface {
	SignUp(ctx context.Context, profile SignupProfile) (*AuthResult, error)
	SignIn(ctx context.Context, creds Credentials) (*AuthResult, error)
}

// Notifier is the boundary to whatever renders user-facing notices
// (toasts in the reference frontend). Rendering is out of scope here.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Navigator is the boundary to the routing layer.
type Navigator interface {
	Go(path string)
}
