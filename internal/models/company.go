package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Company struct {
	bun.BaseModel `bun:"table:companies"`

	ID           string    `bun:"id,pk" json:"id"`
	TickerSymbol string    `bun:"ticker_symbol,notnull" json:"ticker_symbol"`
	CompanyName  string    `bun:"company_name,notnull" json:"company_name"`
	Sector       string    `bun:"sector,nullzero" json:"sector,omitempty"`
	Subsector    string    `bun:"subsector,notnull" json:"subsector"`
	IsActive     bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Organization is a non-company event host (industry bodies, conference
// organisers, regulators).
type Organization struct {
	bun.BaseModel `bun:"table:organizations"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Website   string    `bun:"website,nullzero" json:"website,omitempty"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
