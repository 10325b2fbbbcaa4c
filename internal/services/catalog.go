package services

import (
	"context"
	"log/slog"
	"sync"

	"eventease/internal/domain"
)

// Catalog is the organizer's locally cached event list plus the draft form
// state backing create and edit. The cache is updated only from the remote
// service's authoritative responses; nothing is removed or replaced
// speculatively.
type Catalog struct {
	sessions *SessionManager
	api      domain.EventAPI
	notifier domain.Notifier
	log      *slog.Logger

	mu         sync.Mutex
	events     []*domain.Event
	draft      domain.EventDraft
	editingKey string
}

// NewCatalog creates a Catalog over the given event API.
func NewCatalog(sessions *SessionManager, api domain.EventAPI, notifier domain.Notifier, log *slog.Logger) *Catalog {
	return &Catalog{
		sessions: sessions,
		api:      api,
		notifier: notifier,
		log:      log,
	}
}

// Load replaces the cached list with the remote catalog, most recent first
// as returned by the backend.
func (c *Catalog) Load(ctx context.Context) error {
	events, err := c.api.List(ctx)
	if err != nil {
		return c.remoteFailure("Failed to load events", err)
	}
	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
	return nil
}

// Create validates the draft, submits it, and on success prepends the
// server-returned event and clears the form.
func (c *Catalog) Create(ctx context.Context) (*domain.Event, error) {
	if err := c.requireOrganizer(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	if draft.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "required"}
	}
	if draft.Description == "" {
		return nil, &domain.ValidationError{Field: "description", Reason: "required"}
	}

	created, err := c.api.Create(ctx, draft)
	if err != nil {
		return nil, c.remoteFailure("Failed to create event", err)
	}

	c.mu.Lock()
	c.events = append([]*domain.Event{created}, c.events...)
	c.resetFormLocked()
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Success("Event Created!")
	}
	return created, nil
}

// Edit loads an event into the draft form and records which event is being
// edited. The catalog itself is untouched until Update is submitted.
func (c *Catalog) Edit(event *domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = domain.DraftFromEvent(event)
	c.editingKey = event.Key()
}

// Update submits the draft against the recorded event key and on success
// replaces the matching entry in place, without reordering.
func (c *Catalog) Update(ctx context.Context) (*domain.Event, error) {
	if err := c.requireOrganizer(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	key := c.editingKey
	draft := c.draft
	c.mu.Unlock()

	if key == "" {
		return nil, &domain.ValidationError{Field: "event", Reason: "no event selected for editing"}
	}

	updated, err := c.api.Update(ctx, key, draft)
	if err != nil {
		return nil, c.remoteFailure("Failed to update event", err)
	}

	c.mu.Lock()
	for i, e := range c.events {
		if matchesKey(e, key) {
			c.events[i] = updated
			break
		}
	}
	c.resetFormLocked()
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Success("Event Updated!")
	}
	return updated, nil
}

// Delete submits a remove request and on success drops the matching entry.
func (c *Catalog) Delete(ctx context.Context, key string) error {
	if err := c.requireOrganizer(); err != nil {
		return err
	}
	if err := c.api.Delete(ctx, key); err != nil {
		return c.remoteFailure("Failed to delete event", err)
	}

	c.mu.Lock()
	kept := c.events[:0]
	for _, e := range c.events {
		if !matchesKey(e, key) {
			kept = append(kept, e)
		}
	}
	c.events = kept
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Info("Event Deleted!")
	}
	return nil
}

// Cancel clears the draft form and exits edit mode without any remote call.
// It is idempotent.
func (c *Catalog) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetFormLocked()
}

// Events returns a snapshot of the cached list.
func (c *Catalog) Events() []*domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.Event, len(c.events))
	copy(out, c.events)
	return out
}

// SetDraft replaces the draft form state.
func (c *Catalog) SetDraft(draft domain.EventDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

// Draft returns the current draft form state.
func (c *Catalog) Draft() domain.EventDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Editing returns the key of the event being edited, or "".
func (c *Catalog) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingKey
}

func (c *Catalog) resetFormLocked() {
	c.draft = domain.EventDraft{}
	c.editingKey = ""
}

func (c *Catalog) requireOrganizer() error {
	snap := c.sessions.Snapshot()
	if !CanAccess(snap.Identity, CapabilityOrganizer) {
		return domain.ErrNotPermitted
	}
	return nil
}

func (c *Catalog) remoteFailure(notice string, err error) error {
	err = c.sessions.HandleRemoteError(err)
	if c.notifier != nil {
		c.notifier.Error(notice)
	}
	return err
}

// matchesKey checks an entry against a key under both identity-field
// conventions the backend is known to use.
func matchesKey(e *domain.Event, key string) bool {
	return e.ID == key || e.LegacyID == key
}
