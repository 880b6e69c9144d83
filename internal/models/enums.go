package models

// Value domains recognised at the service boundary. Stored as plain strings;
// validated before they reach the store.

const (
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
	ResponsePending  = "pending"
)

const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

const (
	LocationPhysical = "physical"
	LocationVirtual  = "virtual"
	LocationHybrid   = "hybrid"
)

const (
	HostSingleCorp = "single_corp"
	HostMultiCorp  = "multi_corp"
	HostNonCompany = "non_company"
)

func ValidResponseStatus(s string) bool {
	switch s {
	case ResponseAccepted, ResponseDeclined, ResponsePending:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

func ValidLocationType(s string) bool {
	switch s {
	case LocationPhysical, LocationVirtual, LocationHybrid:
		return true
	}
	return false
}

func ValidHostType(s string) bool {
	switch s {
	case HostSingleCorp, HostMultiCorp, HostNonCompany:
		return true
	}
	return false
}
