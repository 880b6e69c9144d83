package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EventHost credits the entity organising an event. single_corp hosts point at
// a Company row, non_company hosts at an Organization row, multi_corp hosts
// carry a denormalized snapshot of the participating companies. The snapshot is
// a display cache, not authoritative.
type EventHost struct {
	bun.BaseModel `bun:"table:event_hosts"`

	ID             string                `bun:"id,pk" json:"id"`
	EventID        string                `bun:"event_id,notnull" json:"event_id"`
	HostType       string                `bun:"host_type,notnull" json:"host_type"`
	CompanyID      string                `bun:"company_id,nullzero" json:"company_id,omitempty"`
	OrganizationID string                `bun:"organization_id,nullzero" json:"organization_id,omitempty"`
	Snapshot       []HostCompanySnapshot `bun:"snapshot,type:jsonb" json:"snapshot,omitempty"`
	CreatedAt      time.Time             `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"-"`
}

type HostCompanySnapshot struct {
	ID        string `json:"id"`
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	IsPrimary bool   `json:"is_primary"`
}

// Primary picks the snapshot entry flagged is_primary, falling back to the
// first entry when none is flagged.
func (h EventHost) Primary() *HostCompanySnapshot {
	for i := range h.Snapshot {
		if h.Snapshot[i].IsPrimary {
			return &h.Snapshot[i]
		}
	}
	if len(h.Snapshot) > 0 {
		return &h.Snapshot[0]
	}
	return nil
}
