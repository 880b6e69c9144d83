package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserEventResponse is a user's RSVP to an event. At most one row exists per
// (user_id, event_id); response_date is refreshed on every write. The absence
// of a row and an explicit pending row render identically but are distinct at
// the storage layer.
type UserEventResponse struct {
	bun.BaseModel `bun:"table:user_event_responses"`

	ID             string    `bun:"id,pk" json:"id"`
	UserID         string    `bun:"user_id,notnull,unique:user_event" json:"user_id"`
	EventID        string    `bun:"event_id,notnull,unique:user_event" json:"event_id"`
	ResponseStatus string    `bun:"response_status,notnull" json:"response_status"`
	Notes          string    `bun:"notes,nullzero" json:"notes,omitempty"`
	ResponseDate   time.Time `bun:"response_date,notnull" json:"response_date"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"-"`
}
