package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventease/internal/domain"
)

// navigateDelay gives the success notice time to be visible before the
// client moves to the registrations listing.
const navigateDelay = 1500 * time.Millisecond

// RegistrationDetails holds the form fields the participant supplies; name
// and email come from the identity.
type RegistrationDetails struct {
	College string
	Phone   string
}

// RegistrationWorkflow validates and submits a participant's registration
// for one event, tracks the local registered flag, and schedules the
// post-success navigation.
type RegistrationWorkflow struct {
	sessions *SessionManager
	api      domain.RegistrationAPI
	notifier domain.Notifier
	nav      domain.Navigator
	log      *slog.Logger

	// schedule is swappable in tests; the default arms a timer and
	// returns its stop function.
	schedule func(d time.Duration, fn func()) func()

	mu            sync.Mutex
	registered    map[string]bool
	cancelPending func()
}

// NewRegistrationWorkflow creates a RegistrationWorkflow.
func NewRegistrationWorkflow(sessions *SessionManager, api domain.RegistrationAPI, notifier domain.Notifier, nav domain.Navigator, log *slog.Logger) *RegistrationWorkflow {
	return &RegistrationWorkflow{
		sessions:   sessions,
		api:        api,
		notifier:   notifier,
		nav:        nav,
		log:        log,
		registered: make(map[string]bool),
		schedule: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
	}
}

// Register submits a registration for event. alreadyRegistered is the
// membership flag the event view computed; together with the workflow's own
// flag it suppresses duplicate submissions before any network call.
func (w *RegistrationWorkflow) Register(ctx context.Context, event *domain.Event, alreadyRegistered bool, details RegistrationDetails) error {
	key := event.Key()
	if alreadyRegistered || w.Registered(event) {
		return domain.ErrAlreadyRegistered
	}
	if details.College == "" {
		return &domain.ValidationError{Field: "college", Reason: "required"}
	}
	if details.Phone == "" {
		return &domain.ValidationError{Field: "phone", Reason: "required"}
	}

	snap := w.sessions.Snapshot()
	if !CanAccess(snap.Identity, CapabilityParticipant) {
		return domain.ErrNotPermitted
	}

	reg := &domain.Registration{
		EventID: key,
		Name:    snap.Identity.Name,
		Email:   snap.Identity.Email,
		College: details.College,
		Phone:   details.Phone,
	}
	if _, err := w.api.Register(ctx, reg); err != nil {
		err = w.sessions.HandleRemoteError(err)
		if w.notifier != nil {
			w.notifier.Error("Registration failed: " + err.Error())
		}
		return err
	}

	w.mu.Lock()
	w.registered[key] = true
	if w.cancelPending != nil {
		w.cancelPending()
	}
	w.cancelPending = w.schedule(navigateDelay, func() {
		w.nav.Go("/my-registrations")
	})
	w.mu.Unlock()

	if w.notifier != nil {
		w.notifier.Success("Registered successfully!")
	}
	return nil
}

// Registered reports whether this workflow already registered the current
// identity for event.
func (w *RegistrationWorkflow) Registered(event *domain.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registered[event.Key()]
}

// CancelPendingNavigation stops a scheduled post-registration navigation.
// Navigating away before the delay elapses must not leave a dangling
// callback. Idempotent.
func (w *RegistrationWorkflow) CancelPendingNavigation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelPending != nil {
		w.cancelPending()
		w.cancelPending = nil
	}
}

// MyRegistrations lists the current participant's registrations.
func (w *RegistrationWorkflow) MyRegistrations(ctx context.Context) ([]*domain.Registration, error) {
	snap := w.sessions.Snapshot()
	if !CanAccess(snap.Identity, CapabilityParticipant) {
		return nil, domain.ErrNotPermitted
	}
	regs, err := w.api.Mine(ctx)
	if err != nil {
		return nil, w.sessions.HandleRemoteError(err)
	}
	return regs, nil
}
