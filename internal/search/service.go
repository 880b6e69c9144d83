package search

import (
	"context"
	"fmt"
	"strings"

	"ms-calendar/internal/errs"
	"ms-calendar/internal/models"
)

// MaxResults caps the combined hit list.
const MaxResults = 10

type SearchDBLayer interface {
	SearchEvents(ctx context.Context, query string, limit int) ([]models.Event, error)
	SearchCompanies(ctx context.Context, query string, limit int) ([]models.Company, error)
	ListSubsectors(ctx context.Context) ([]string, error)
}

// Result is one search hit. Type is "event", "company" or "subsector";
// subsector hits are virtual, there is no row behind them.
type Result struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Label    string `json:"label"`
	Sublabel string `json:"sublabel,omitempty"`
}

// Service is a free-text, case-insensitive substring search over events,
// companies and subsectors. Best-effort: a failing sub-query degrades that
// result class instead of failing the whole call. No ranking beyond
// type-then-insertion order.
type Service struct {
	DB SearchDBLayer
}

func NewService(db SearchDBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}, nil
	}

	results := make([]Result, 0, MaxResults)
	failures := 0

	events, err := s.DB.SearchEvents(ctx, query, MaxResults)
	if err != nil {
		fmt.Printf("search: event scan degraded: %v\n", err)
		failures++
	}
	for _, event := range events {
		if len(results) >= MaxResults {
			break
		}
		results = append(results, Result{
			Type:     "event",
			ID:       event.ID,
			Label:    event.Title,
			Sublabel: event.StartDate.Format("Jan 2, 2006"),
		})
	}

	companies, err := s.DB.SearchCompanies(ctx, query, MaxResults)
	if err != nil {
		fmt.Printf("search: company scan degraded: %v\n", err)
		failures++
	}
	for _, company := range companies {
		if len(results) >= MaxResults {
			break
		}
		results = append(results, Result{
			Type:     "company",
			ID:       company.ID,
			Label:    company.CompanyName,
			Sublabel: company.TickerSymbol,
		})
	}

	subsectors, err := s.DB.ListSubsectors(ctx)
	if err != nil {
		fmt.Printf("search: subsector scan degraded: %v\n", err)
		failures++
	}
	needle := strings.ToLower(query)
	for _, subsector := range subsectors {
		if len(results) >= MaxResults {
			break
		}
		if strings.Contains(strings.ToLower(subsector), needle) {
			results = append(results, Result{
				Type:  "subsector",
				Label: subsector,
			})
		}
	}

	// Only a total blackout surfaces as an error.
	if failures == 3 {
		return nil, errs.Store(nil, "search unavailable")
	}

	return results, nil
}
