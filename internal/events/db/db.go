package db

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"ms-calendar/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetVisibleEvents returns active events overlapping [start, end] that have at
// least one active company in one of the given subsectors. OR-across-companies:
// one qualifying company is enough, the rest of the event's companies don't
// have to match. Events with zero companies can never qualify.
func (d *DB) GetVisibleEvents(ctx context.Context, start, end time.Time, subsectors []string) ([]models.Event, error) {
	if len(subsectors) == 0 {
		return nil, nil
	}

	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("event.is_active = ?", true).
		Where("event.start_date <= ?", end).
		Where("event.end_date >= ?", start).
		Where(`EXISTS (
			SELECT 1 FROM event_companies AS ec
			JOIN companies AS c ON c.id = ec.company_id
			WHERE ec.event_id = event.id
			  AND c.is_active = ?
			  AND c.subsector IN (?)
		)`, true, bun.In(subsectors)).
		Order("start_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetActiveCompaniesForEvent returns every active company attached to the
// event via the junction, not only the entitlement-qualifying ones.
func (d *DB) GetActiveCompaniesForEvent(ctx context.Context, eventID string) ([]models.Company, error) {
	var companies []models.Company
	err := d.Bun.NewSelect().
		Model(&companies).
		Join("JOIN event_companies AS ec ON ec.company_id = company.id").
		Where("ec.event_id = ?", eventID).
		Where("company.is_active = ?", true).
		Order("company.ticker_symbol ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (d *DB) GetHostsForEvent(ctx context.Context, eventID string) ([]models.EventHost, error) {
	var hosts []models.EventHost
	err := d.Bun.NewSelect().
		Model(&hosts).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return hosts, nil
}

func (d *DB) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := d.Bun.NewSelect().
		Model(&company).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (d *DB) GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := d.Bun.NewSelect().
		Model(&org).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetAcceptedResponses returns the full roster of accepted responses for an
// event, from any user.
func (d *DB) GetAcceptedResponses(ctx context.Context, eventID string) ([]models.UserEventResponse, error) {
	var responses []models.UserEventResponse
	err := d.Bun.NewSelect().
		Model(&responses).
		Where("event_id = ?", eventID).
		Where("response_status = ?", models.ResponseAccepted).
		Order("response_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// SearchEvents scans event title/description plus attached company name/ticker
// for a case-insensitive substring match. Linear scan; the corpus is hundreds
// to low thousands of rows.
func (d *DB) SearchEvents(ctx context.Context, query string, limit int) ([]models.Event, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("event.is_active = ?", true).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(event.title) LIKE ?", pattern).
				WhereOr("lower(event.description) LIKE ?", pattern).
				WhereOr(`EXISTS (
					SELECT 1 FROM event_companies AS ec
					JOIN companies AS c ON c.id = ec.company_id
					WHERE ec.event_id = event.id
					  AND (lower(c.company_name) LIKE ? OR lower(c.ticker_symbol) LIKE ?)
				)`, pattern, pattern)
		}).
		Order("start_date ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) SearchCompanies(ctx context.Context, query string, limit int) ([]models.Company, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var companies []models.Company
	err := d.Bun.NewSelect().
		Model(&companies).
		Where("is_active = ?", true).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(company_name) LIKE ?", pattern).
				WhereOr("lower(ticker_symbol) LIKE ?", pattern).
				WhereOr("lower(subsector) LIKE ?", pattern)
		}).
		Order("ticker_symbol ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// ListSubsectors returns the distinct subsectors of active companies: the
// subscription catalog.
func (d *DB) ListSubsectors(ctx context.Context) ([]string, error) {
	var subsectors []string
	err := d.Bun.NewSelect().
		Model((*models.Company)(nil)).
		Column("subsector").
		Where("is_active = ?", true).
		Distinct().
		Order("subsector ASC").
		Scan(ctx, &subsectors)
	if err != nil {
		return nil, err
	}
	return subsectors, nil
}
