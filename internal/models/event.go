package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID              string          `bun:"id,pk" json:"id"`
	Title           string          `bun:"title,notnull" json:"title"`
	Description     string          `bun:"description,nullzero" json:"description,omitempty"`
	StartDate       time.Time       `bun:"start_date,notnull" json:"start_date"`
	EndDate         time.Time       `bun:"end_date,notnull" json:"end_date"`
	LocationType    string          `bun:"location_type,notnull" json:"location_type"`
	LocationDetails LocationDetails `bun:"location_details,type:jsonb" json:"location_details"`
	IsActive        bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Companies []*EventCompany `bun:"rel:has-many,join:id=event_id" json:"-"`
	Hosts     []*EventHost    `bun:"rel:has-many,join:id=event_id" json:"-"`
}

// EventCompany links an event to a company it concerns. Companies are
// referenced, never owned, by events.
type EventCompany struct {
	bun.BaseModel `bun:"table:event_companies"`

	ID        string `bun:"id,pk" json:"id"`
	EventID   string `bun:"event_id,notnull,unique:event_company" json:"event_id"`
	CompanyID string `bun:"company_id,notnull,unique:event_company" json:"company_id"`

	Event   *Event   `bun:"rel:belongs-to,join:event_id=id" json:"-"`
	Company *Company `bun:"rel:belongs-to,join:company_id=id" json:"company,omitempty"`
}
