package calendar_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-calendar/internal/calendar"
	"ms-calendar/internal/errs"
	"ms-calendar/internal/models"
)

// Mock implementations
type MockEventDB struct {
	mock.Mock
}

func (m *MockEventDB) GetVisibleEvents(ctx context.Context, start, end time.Time, subsectors []string) ([]models.Event, error) {
	args := m.Called(start, end, subsectors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventDB) GetActiveCompaniesForEvent(ctx context.Context, eventID string) ([]models.Company, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockEventDB) GetHostsForEvent(ctx context.Context, eventID string) ([]models.EventHost, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventHost), args.Error(1)
}

func (m *MockEventDB) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockEventDB) GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockEventDB) GetAcceptedResponses(ctx context.Context, eventID string) ([]models.UserEventResponse, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserEventResponse), args.Error(1)
}

type MockResponseReader struct {
	mock.Mock
}

func (m *MockResponseReader) GetResponse(ctx context.Context, userID, eventID string) (*models.UserEventResponse, error) {
	args := m.Called(userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserEventResponse), args.Error(1)
}

type MockEntitlements struct {
	mock.Mock
}

func (m *MockEntitlements) ActiveSubsectors(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockWeather struct {
	mock.Mock
}

func (m *MockWeather) ForecastForCity(ctx context.Context, city string, at time.Time) (*models.WeatherSummary, error) {
	args := m.Called(city, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherSummary), args.Error(1)
}

var (
	rangeStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func virtualEvent(id string) models.Event {
	return models.Event{
		ID:           id,
		Title:        "Q4 Earnings Call",
		StartDate:    rangeStart.Add(14 * 24 * time.Hour),
		EndDate:      rangeStart.Add(14*24*time.Hour + time.Hour),
		LocationType: models.LocationVirtual,
		LocationDetails: models.LocationDetails{
			Virtual: &models.VirtualDetails{Platform: "Webcast"},
		},
		IsActive: true,
	}
}

func TestResolveVisibleNoEntitlementsShortCircuits(t *testing.T) {
	mockDB := new(MockEventDB)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, new(MockResponseReader), mockSubs, nil)

	mockSubs.On("ActiveSubsectors", "user1").Return([]string{}, nil)

	events, err := svc.ResolveVisible(context.Background(), "user1", rangeStart, rangeEnd)

	assert.NoError(t, err)
	assert.Empty(t, events)
	// The events store must not be touched at all.
	mockDB.AssertNotCalled(t, "GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveVisibleInvertedRangeRejected(t *testing.T) {
	svc := calendar.NewService(new(MockEventDB), new(MockResponseReader), new(MockEntitlements), nil)

	_, err := svc.ResolveVisible(context.Background(), "user1", rangeEnd, rangeStart)

	assert.True(t, errs.IsCode(err, errs.CodeValidation))
}

func TestResolveVisiblePassesEntitlements(t *testing.T) {
	mockDB := new(MockEventDB)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, new(MockResponseReader), mockSubs, nil)

	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Banking", "Oil & Gas"}, nil)
	mockDB.On("GetVisibleEvents", rangeStart, rangeEnd, []string{"Banking", "Oil & Gas"}).
		Return([]models.Event{virtualEvent("evt1")}, nil)

	events, err := svc.ResolveVisible(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt1", events[0].ID)
	mockDB.AssertExpectations(t)
}

func TestCalendarViewAssemblesEvent(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, nil)

	event := virtualEvent("evt1")
	companies := []models.Company{
		{ID: "comp-aapl", TickerSymbol: "AAPL", CompanyName: "Apple Inc.", Subsector: "Consumer Electronics", IsActive: true},
		{ID: "comp-msft", TickerSymbol: "MSFT", CompanyName: "Microsoft Corporation", Subsector: "Software & IT Services", IsActive: true},
	}
	hosts := []models.EventHost{
		{ID: "host1", EventID: "evt1", HostType: models.HostSingleCorp, CompanyID: "comp-aapl"},
	}
	attendees := []models.UserEventResponse{
		{ID: "r1", UserID: "user2", EventID: "evt1", ResponseStatus: models.ResponseAccepted},
	}
	own := &models.UserEventResponse{ID: "r2", UserID: "user1", EventID: "evt1", ResponseStatus: models.ResponseAccepted}

	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Consumer Electronics"}, nil)
	mockDB.On("GetVisibleEvents", rangeStart, rangeEnd, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return(companies, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return(hosts, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return(attendees, nil)
	mockDB.On("GetCompanyByID", "comp-aapl").Return(&companies[0], nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(own, nil)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, views, 1)
	view := views[0]
	assert.Equal(t, "evt1", view.ID)
	assert.Len(t, view.Companies, 2)
	assert.True(t, view.IsMultiCompany)
	assert.Equal(t, models.ColorGreen, view.ColorCode)
	require.Len(t, view.Hosts, 1)
	assert.Equal(t, "Apple Inc.", view.Hosts[0].DisplayName)
	assert.Equal(t, "AAPL", view.Hosts[0].Ticker)
	require.NotNil(t, view.UserResponse)
	assert.Len(t, view.Attendees, 1)
}

func TestCalendarViewAbsentResponseIsGrey(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, nil)

	event := virtualEvent("evt1")
	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Consumer Electronics"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{{ID: "comp-aapl"}}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return([]models.EventHost{}, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(nil, sql.ErrNoRows)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].UserResponse)
	assert.Equal(t, models.ColorGrey, views[0].ColorCode)
	assert.False(t, views[0].IsMultiCompany)
}

func TestCalendarViewDeclinedIsYellow(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, nil)

	event := virtualEvent("evt1")
	declined := &models.UserEventResponse{ID: "r1", UserID: "user1", EventID: "evt1", ResponseStatus: models.ResponseDeclined}
	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Consumer Electronics"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return([]models.EventHost{}, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(declined, nil)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.ColorYellow, views[0].ColorCode)
}

func TestResolveHostMultiCorpUsesSnapshot(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, nil)

	event := virtualEvent("evt1")
	hosts := []models.EventHost{
		{
			ID:       "host1",
			EventID:  "evt1",
			HostType: models.HostMultiCorp,
			Snapshot: []models.HostCompanySnapshot{
				{ID: "comp-aapl", Ticker: "AAPL", Name: "Apple Inc."},
				{ID: "comp-msft", Ticker: "MSFT", Name: "Microsoft Corporation", IsPrimary: true},
			},
		},
	}
	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Consumer Electronics"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return(hosts, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(nil, sql.ErrNoRows)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Hosts, 1)
	// The flagged primary wins over snapshot order; no company lookup happens.
	assert.Equal(t, "Microsoft Corporation", views[0].Hosts[0].DisplayName)
	assert.Equal(t, "MSFT", views[0].Hosts[0].Ticker)
	mockDB.AssertNotCalled(t, "GetCompanyByID", mock.Anything)
}

func TestResolveHostDanglingCompanyDegrades(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, nil)

	event := virtualEvent("evt1")
	hosts := []models.EventHost{
		{ID: "host1", EventID: "evt1", HostType: models.HostSingleCorp, CompanyID: "comp-gone"},
	}
	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Consumer Electronics"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return(hosts, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockDB.On("GetCompanyByID", "comp-gone").Return(nil, sql.ErrNoRows)
	mockResponses.On("GetResponse", "user1", "evt1").Return(nil, sql.ErrNoRows)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.Len(t, views[0].Hosts, 1)
	assert.Equal(t, "Unknown company", views[0].Hosts[0].DisplayName)
}

func TestCalendarViewWeatherEnrichment(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	mockWeather := new(MockWeather)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, mockWeather)

	event := models.Event{
		ID:           "evt1",
		Title:        "Banking Sector Outlook Summit",
		StartDate:    rangeStart.Add(9 * 24 * time.Hour),
		EndDate:      rangeStart.Add(10 * 24 * time.Hour),
		LocationType: models.LocationPhysical,
		LocationDetails: models.LocationDetails{
			Physical: &models.PhysicalDetails{Venue: "Grand Hall", City: "New York"},
		},
		IsActive: true,
	}
	forecast := &models.WeatherSummary{Description: "light snow", TempCelsius: -2, City: "New York"}

	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Banking"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return([]models.EventHost{}, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(nil, sql.ErrNoRows)
	mockWeather.On("ForecastForCity", "New York", event.StartDate).Return(forecast, nil)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	require.NotNil(t, views[0].Weather)
	assert.Equal(t, "light snow", views[0].Weather.Description)
}

func TestCalendarViewWeatherFailureDegrades(t *testing.T) {
	mockDB := new(MockEventDB)
	mockResponses := new(MockResponseReader)
	mockSubs := new(MockEntitlements)
	mockWeather := new(MockWeather)
	svc := calendar.NewService(mockDB, mockResponses, mockSubs, mockWeather)

	event := models.Event{
		ID:           "evt1",
		StartDate:    rangeStart.Add(9 * 24 * time.Hour),
		EndDate:      rangeStart.Add(10 * 24 * time.Hour),
		LocationType: models.LocationPhysical,
		LocationDetails: models.LocationDetails{
			Physical: &models.PhysicalDetails{Venue: "Grand Hall", City: "New York"},
		},
		IsActive: true,
	}
	mockSubs.On("ActiveSubsectors", "user1").Return([]string{"Banking"}, nil)
	mockDB.On("GetVisibleEvents", mock.Anything, mock.Anything, mock.Anything).Return([]models.Event{event}, nil)
	mockDB.On("GetActiveCompaniesForEvent", "evt1").Return([]models.Company{}, nil)
	mockDB.On("GetHostsForEvent", "evt1").Return([]models.EventHost{}, nil)
	mockDB.On("GetAcceptedResponses", "evt1").Return([]models.UserEventResponse{}, nil)
	mockResponses.On("GetResponse", "user1", "evt1").Return(nil, sql.ErrNoRows)
	mockWeather.On("ForecastForCity", "New York", event.StartDate).Return(nil, assert.AnError)

	views, err := svc.CalendarView(context.Background(), "user1", rangeStart, rangeEnd)

	require.NoError(t, err)
	assert.Nil(t, views[0].Weather)
}
