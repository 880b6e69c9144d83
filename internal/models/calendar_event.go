package models

// CalendarEvent is the denormalized per-request view returned to the
// presentation layer. It is assembled on the fly and never persisted.
type CalendarEvent struct {
	Event

	Companies      []Company           `json:"companies"`
	Hosts          []HostView          `json:"hosts"`
	UserResponse   *UserEventResponse  `json:"user_response,omitempty"`
	ColorCode      string              `json:"color_code"`
	IsMultiCompany bool                `json:"is_multi_company"`
	Attendees      []UserEventResponse `json:"attendees"`
	Weather        *WeatherSummary     `json:"weather,omitempty"`
}

// HostView is an EventHost resolved for display: whatever entity the host_type
// points at, flattened to a name and optional ticker.
type HostView struct {
	HostID      string `json:"host_id"`
	HostType    string `json:"host_type"`
	DisplayName string `json:"display_name"`
	Ticker      string `json:"ticker,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
}

// WeatherSummary is display-only enrichment for physical events. It never
// gates visibility.
type WeatherSummary struct {
	Description string  `json:"description"`
	TempCelsius float64 `json:"temp_celsius"`
	City        string  `json:"city,omitempty"`
}

const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorGrey   = "grey"
)

// ColorForResponse derives the calendar colour from a response status. An
// absent response maps to grey, same as an explicit pending row.
func ColorForResponse(status string) string {
	switch status {
	case ResponseAccepted:
		return ColorGreen
	case ResponseDeclined:
		return ColorYellow
	default:
		return ColorGrey
	}
}
