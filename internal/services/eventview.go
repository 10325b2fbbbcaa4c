package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"eventease/internal/domain"
)

// EventViewService assembles the detail-page state for one event, issuing
// only the remote reads the current identity is authorized for.
type EventViewService struct {
	sessions *SessionManager
	events   domain.EventAPI
	regs     domain.RegistrationAPI
	log      *slog.Logger
}

// NewEventViewService creates an EventViewService over the given APIs.
func NewEventViewService(sessions *SessionManager, events domain.EventAPI, regs domain.RegistrationAPI, log *slog.Logger) *EventViewService {
	return &EventViewService{
		sessions: sessions,
		events:   events,
		regs:     regs,
		log:      log,
	}
}

// LoadEventView fetches the event, then concurrently the caller's
// registration membership (participants) and the event roster (organizers).
// The whole operation uses the one session snapshot taken at entry; if the
// session transitions while fetches are in flight, the assembled view is
// discarded with ErrViewSuperseded.
func (s *EventViewService) LoadEventView(ctx context.Context, eventID string) (*domain.EventView, error) {
	snap := s.sessions.Snapshot()

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.sessions.HandleRemoteError(err)
	}

	view := &domain.EventView{Event: event}

	var wg sync.WaitGroup
	var memberErr, rosterErr error

	if CanAccess(snap.Identity, CapabilityParticipant) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mine, err := s.regs.Mine(ctx)
			if err != nil {
				memberErr = err
				return
			}
			registered := false
			for _, reg := range mine {
				if reg.EventID == eventID {
					registered = true
					break
				}
			}
			view.Registered = &registered
		}()
	}

	if CanAccess(snap.Identity, CapabilityOrganizer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			roster, err := s.events.Participants(ctx, eventID)
			if err != nil {
				rosterErr = err
				return
			}
			if roster == nil {
				roster = []*domain.Registration{}
			}
			view.Roster = roster
			view.RosterLoaded = true
		}()
	}

	wg.Wait()

	for _, err := range []error{memberErr, rosterErr} {
		if err != nil {
			return nil, s.sessions.HandleRemoteError(err)
		}
	}

	if s.sessions.Epoch() != snap.Epoch {
		s.log.Debug("discarding stale event view", "event", eventID)
		return nil, domain.ErrViewSuperseded
	}
	return view, nil
}
