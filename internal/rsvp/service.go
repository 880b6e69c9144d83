package rsvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-calendar/internal/errs"
	"ms-calendar/internal/models"
	"ms-calendar/internal/rsvp/pass"
)

type ResponseDBLayer interface {
	GetResponse(ctx context.Context, userID, eventID string) (*models.UserEventResponse, error)
	Upsert(ctx context.Context, resp models.UserEventResponse) error
	Delete(ctx context.Context, userID, eventID string) (int64, error)
}

type EventReader interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type Notifier interface {
	RSVPUpdated(resp models.UserEventResponse) error
}

// Service is the RSVP state machine. States are {no-response, pending,
// accepted, declined}; transitions are unrestricted in both directions, and
// concurrent writes for one (user, event) pair serialize to last-writer-wins
// on response_date.
type Service struct {
	DB     ResponseDBLayer
	Events EventReader
	Notify Notifier // optional
	Passes *pass.Generator
	Now    func() time.Time
}

func NewService(db ResponseDBLayer, events EventReader, notify Notifier, passes *pass.Generator) *Service {
	return &Service{DB: db, Events: events, Notify: notify, Passes: passes, Now: time.Now}
}

// Respond records or replaces the user's response to an event. Responding to
// an inactive event is rejected.
func (s *Service) Respond(ctx context.Context, userID, eventID, status, notes string) (*models.UserEventResponse, error) {
	if !models.ValidResponseStatus(status) {
		return nil, errs.Validation("invalid response_status %q", status)
	}

	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("event %s not found", eventID)
		}
		return nil, errs.Store(err, "failed to load event %s", eventID)
	}
	if !event.IsActive {
		return nil, errs.Validation("cannot respond to an inactive event")
	}

	resp := models.UserEventResponse{
		ID:             uuid.NewString(),
		UserID:         userID,
		EventID:        eventID,
		ResponseStatus: status,
		Notes:          notes,
		ResponseDate:   s.Now(),
	}

	// Reuse the row id when one exists so repeated writes stay one row.
	if existing, err := s.DB.GetResponse(ctx, userID, eventID); err == nil {
		resp.ID = existing.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Store(err, "failed to load existing response")
	}

	if err := s.DB.Upsert(ctx, resp); err != nil {
		return nil, errs.Store(err, "failed to save response for event %s", eventID)
	}

	if s.Notify != nil {
		if err := s.Notify.RSVPUpdated(resp); err != nil {
			fmt.Printf("rsvp notify error: %v\n", err)
		}
	}

	return &resp, nil
}

func (s *Service) Get(ctx context.Context, userID, eventID string) (*models.UserEventResponse, error) {
	resp, err := s.DB.GetResponse(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("no response for event %s", eventID)
		}
		return nil, errs.Store(err, "failed to load response for event %s", eventID)
	}
	return resp, nil
}

// Remove explicitly deletes the user's response. The only way a response row
// ever disappears.
func (s *Service) Remove(ctx context.Context, userID, eventID string) error {
	n, err := s.DB.Delete(ctx, userID, eventID)
	if err != nil {
		return errs.Store(err, "failed to remove response for event %s", eventID)
	}
	if n == 0 {
		return errs.NotFound("no response for event %s", eventID)
	}
	return nil
}

// EventPass renders the encrypted QR pass for the caller's accepted response.
// Only accepted responses to events with a physical side get a pass.
func (s *Service) EventPass(ctx context.Context, userID, eventID string) ([]byte, error) {
	if s.Passes == nil {
		return nil, errs.NotImplemented("event passes are not enabled in this deployment")
	}

	resp, err := s.Get(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if resp.ResponseStatus != models.ResponseAccepted {
		return nil, errs.Validation("event pass requires an accepted response")
	}

	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("event %s not found", eventID)
		}
		return nil, errs.Store(err, "failed to load event %s", eventID)
	}
	if event.LocationType == models.LocationVirtual {
		return nil, errs.Validation("virtual events have no entry pass")
	}

	png, err := s.Passes.Generate(*resp)
	if err != nil {
		return nil, errs.Store(err, "failed to generate event pass")
	}
	return png, nil
}
