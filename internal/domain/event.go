package domain

import (
	"context"
	"strings"
)

// Event represents an event as returned by the backend. The backend does not
// use one identity field consistently: records may carry the key under "id"
// or under "_id". Key() resolves the canonical identity once at ingestion so
// the rest of the client matches on a single normalized key.
type Event struct {
	ID          string `json:"id,omitempty"`
	LegacyID    string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Rules       string `json:"rules,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

// Key returns the event's canonical identity: the first non-empty of the two
// key fields the backend is known to use.
func (e *Event) Key() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return e.ID
	}
	return e.LegacyID
}

// EventDraft holds the organizer form fields for create and update.
// Date is a plain calendar date (YYYY-MM-DD), no time-of-day component.
type EventDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Schedule    string `json:"schedule"`
	Rules       string `json:"rules"`
	Contact     string `json:"contact"`
}

// DraftFromEvent loads an event into a draft for editing, truncating the
// date to its calendar-date part.
func DraftFromEvent(e *Event) EventDraft {
	return EventDraft{
		Title:       e.Title,
		Description: e.Description,
		Date:        CalendarDate(e.Date),
		Venue:       e.Venue,
		Schedule:    e.Schedule,
		Rules:       e.Rules,
		Contact:     e.Contact,
	}
}

// CalendarDate discards any time-of-day component from an ISO-ish date
// string, keeping everything before the first 'T'.
func CalendarDate(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// EventView is the assembled detail-page state. Registered is nil and
// RosterLoaded false when the corresponding fetch was not authorized or
// attempted, so callers can distinguish "not attempted" from "attempted,
// empty".
type EventView struct {
	Event        *Event
	Registered   *bool
	Roster       []*Registration
	RosterLoaded bool
}

// EventAPI defines the remote event endpoints.
type EventAPI interface {
	List(ctx context.Context) ([]*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, draft EventDraft) (*Event, error)
	Update(ctx context.Context, id string, draft EventDraft) (*Event, error)
	Delete(ctx context.Context, id string) error
	Participants(ctx context.Context, id string) ([]*Registration, error)
}
