package models

import "fmt"

// LocationDetails is the payload behind an event's location_type. The shape is
// a tagged union: physical events carry Physical, virtual events carry Virtual,
// hybrid events carry both. Extra holds vendor-specific keys that have no
// first-class field.
type LocationDetails struct {
	Physical *PhysicalDetails  `json:"physical,omitempty"`
	Virtual  *VirtualDetails   `json:"virtual,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

type PhysicalDetails struct {
	Venue   string `json:"venue"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

type VirtualDetails struct {
	Platform string `json:"platform"`
	JoinURL  string `json:"join_url,omitempty"`
	Passcode string `json:"passcode,omitempty"`
}

// ValidateFor checks the union against the declared location_type. Called at
// the store boundary before an event row is written.
func (d LocationDetails) ValidateFor(locationType string) error {
	switch locationType {
	case LocationPhysical:
		if d.Physical == nil {
			return fmt.Errorf("physical event requires physical location details")
		}
		if d.Virtual != nil {
			return fmt.Errorf("physical event cannot carry virtual details")
		}
	case LocationVirtual:
		if d.Virtual == nil {
			return fmt.Errorf("virtual event requires virtual location details")
		}
		if d.Physical != nil {
			return fmt.Errorf("virtual event cannot carry physical details")
		}
	case LocationHybrid:
		if d.Physical == nil || d.Virtual == nil {
			return fmt.Errorf("hybrid event requires both physical and virtual details")
		}
	default:
		return fmt.Errorf("unknown location_type %q", locationType)
	}
	return nil
}

// HasVenue reports whether the event has a physical side worth enriching
// (weather, passes).
func (d LocationDetails) HasVenue() bool {
	return d.Physical != nil
}
