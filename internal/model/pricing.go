package model

// RegionPrice is the consultation price quote for a pricing region, keyed by
// the patient's reported timezone. Static configuration, never user-mutable.
type RegionPrice struct {
	Currency string  `json:"currency"`
	Symbol   string  `json:"symbol"`
	Initial  float64 `json:"initial"`
	FollowUp float64 `json:"followup"`
}
