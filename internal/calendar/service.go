package calendar

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"ms-calendar/internal/errs"
	"ms-calendar/internal/models"
)

type EventDBLayer interface {
	GetVisibleEvents(ctx context.Context, start, end time.Time, subsectors []string) ([]models.Event, error)
	GetActiveCompaniesForEvent(ctx context.Context, eventID string) ([]models.Company, error)
	GetHostsForEvent(ctx context.Context, eventID string) ([]models.EventHost, error)
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error)
	GetAcceptedResponses(ctx context.Context, eventID string) ([]models.UserEventResponse, error)
}

type ResponseReader interface {
	GetResponse(ctx context.Context, userID, eventID string) (*models.UserEventResponse, error)
}

// Entitlements is the slice of the subscription service the resolver consumes.
type Entitlements interface {
	ActiveSubsectors(ctx context.Context, userID string) ([]string, error)
}

// WeatherProvider enriches physical events for display. Never gates
// visibility; failures degrade to an absent forecast.
type WeatherProvider interface {
	ForecastForCity(ctx context.Context, city string, at time.Time) (*models.WeatherSummary, error)
}

// Service resolves which events a user may see and assembles the denormalized
// per-request calendar view.
type Service struct {
	DB            EventDBLayer
	Responses     ResponseReader
	Subscriptions Entitlements
	Weather       WeatherProvider // optional
}

func NewService(db EventDBLayer, responses ResponseReader, subscriptions Entitlements, weather WeatherProvider) *Service {
	return &Service{DB: db, Responses: responses, Subscriptions: subscriptions, Weather: weather}
}

// ResolveVisible computes the visible-event set for a user and date range. An
// event is visible iff some attached company is active and falls in one of the
// user's entitled subsectors. No entitlements short-circuits to an empty
// result without touching the events store; that is success, not an error.
func (s *Service) ResolveVisible(ctx context.Context, userID string, start, end time.Time) ([]models.Event, error) {
	if end.Before(start) {
		return nil, errs.Validation("range end precedes start")
	}

	subsectors, err := s.Subscriptions.ActiveSubsectors(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(subsectors) == 0 {
		return []models.Event{}, nil
	}

	events, err := s.DB.GetVisibleEvents(ctx, start, end, subsectors)
	if err != nil {
		return nil, errs.Store(err, "failed to fetch events for user %s", userID)
	}
	return events, nil
}

// CalendarView resolves visibility and assembles the full view for each
// visible event. Events are assembled concurrently; so are the independent
// per-event reads.
func (s *Service) CalendarView(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error) {
	events, err := s.ResolveVisible(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	views := make([]models.CalendarEvent, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range events {
		i := i
		g.Go(func() error {
			view, err := s.assemble(gctx, userID, events[i])
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

func (s *Service) assemble(ctx context.Context, userID string, event models.Event) (*models.CalendarEvent, error) {
	var (
		companies []models.Company
		hosts     []models.EventHost
		attendees []models.UserEventResponse
		response  *models.UserEventResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = s.DB.GetActiveCompaniesForEvent(gctx, event.ID)
		if err != nil {
			return errs.Store(err, "failed to fetch companies for event %s", event.ID)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		hosts, err = s.DB.GetHostsForEvent(gctx, event.ID)
		if err != nil {
			return errs.Store(err, "failed to fetch hosts for event %s", event.ID)
		}
		return nil
	})
	g.Go(func() error {
		// Full roster, from any user. Once an event is visible to the caller
		// its attendee list is not re-filtered by entitlements.
		var err error
		attendees, err = s.DB.GetAcceptedResponses(gctx, event.ID)
		if err != nil {
			return errs.Store(err, "failed to fetch attendees for event %s", event.ID)
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.Responses.GetResponse(gctx, userID, event.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// absent is a real state, distinct from an explicit pending row
				return nil
			}
			return errs.Store(err, "failed to fetch own response for event %s", event.ID)
		}
		response = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hostViews := make([]models.HostView, 0, len(hosts))
	for _, host := range hosts {
		hv, err := s.resolveHost(ctx, host)
		if err != nil {
			return nil, err
		}
		hostViews = append(hostViews, hv)
	}

	status := ""
	if response != nil {
		status = response.ResponseStatus
	}

	view := &models.CalendarEvent{
		Event:          event,
		Companies:      companies,
		Hosts:          hostViews,
		UserResponse:   response,
		ColorCode:      models.ColorForResponse(status),
		IsMultiCompany: len(companies) > 1,
		Attendees:      attendees,
	}

	if s.Weather != nil && event.LocationDetails.HasVenue() {
		// display-only; a provider failure just leaves the field empty
		if w, err := s.Weather.ForecastForCity(ctx, event.LocationDetails.Physical.City, event.StartDate); err == nil {
			view.Weather = w
		}
	}

	return view, nil
}

// resolveHost enriches a host row according to its host_type: single_corp
// resolves the Company record, non_company the Organization record, multi_corp
// reads the embedded snapshot (primary entry, else the first).
func (s *Service) resolveHost(ctx context.Context, host models.EventHost) (models.HostView, error) {
	hv := models.HostView{HostID: host.ID, HostType: host.HostType}

	switch host.HostType {
	case models.HostSingleCorp:
		company, err := s.DB.GetCompanyByID(ctx, host.CompanyID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				hv.DisplayName = "Unknown company"
				hv.EntityID = host.CompanyID
				return hv, nil
			}
			return hv, errs.Store(err, "failed to resolve host company %s", host.CompanyID)
		}
		hv.DisplayName = company.CompanyName
		hv.Ticker = company.TickerSymbol
		hv.EntityID = company.ID

	case models.HostNonCompany:
		org, err := s.DB.GetOrganizationByID(ctx, host.OrganizationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				hv.DisplayName = "Unknown organization"
				hv.EntityID = host.OrganizationID
				return hv, nil
			}
			return hv, errs.Store(err, "failed to resolve host organization %s", host.OrganizationID)
		}
		hv.DisplayName = org.Name
		hv.EntityID = org.ID

	case models.HostMultiCorp:
		if snap := host.Primary(); snap != nil {
			hv.DisplayName = snap.Name
			hv.Ticker = snap.Ticker
			hv.EntityID = snap.ID
		} else {
			hv.DisplayName = "Unknown host"
		}

	default:
		return hv, errs.Validation("unknown host_type %q", host.HostType)
	}

	return hv, nil
}
