package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ms-calendar/internal/models"
)

// Client talks to the external weather provider. Strictly display-only: every
// caller treats an error as "no forecast".
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{BaseURL: baseURL, HTTP: httpClient}
}

func (c *Client) ForecastForCity(ctx context.Context, city string, at time.Time) (*models.WeatherSummary, error) {
	if c.BaseURL == "" || city == "" {
		return nil, fmt.Errorf("weather provider not configured")
	}

	endpoint := fmt.Sprintf("%s/forecast?city=%s&date=%s",
		c.BaseURL, url.QueryEscape(city), at.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather provider error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var body struct {
		Description string  `json:"description"`
		TempCelsius float64 `json:"temp_celsius"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}

	return &models.WeatherSummary{
		Description: body.Description,
		TempCelsius: body.TempCelsius,
		City:        city,
	}, nil
}
