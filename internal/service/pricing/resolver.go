package pricing

import (
	"strings"

	"github.com/arogyahq/booking-api/internal/model"
)

// Entry binds a set of timezone identifiers to one price quote. Declaration
// order matters: the region-prefix fallback picks the first declared entry
// sharing the prefix.
type Entry struct {
	Timezones []string
	Price     model.RegionPrice
}

// Resolver maps a patient's timezone identifier to a price quote. The lookup
// chain is total: exact match, then the India alias table, then same
// region-prefix, then the global USD default. It never fails, whatever the
// input.
type Resolver struct {
	entries  []Entry
	exact    map[string]model.RegionPrice
	india    *model.RegionPrice
	fallback model.RegionPrice
}

// indiaAliases covers the current and legacy IANA identifiers plus city
// tokens seen from patient browsers. Substring match, case-sensitive like the
// IANA names themselves.
var indiaAliases = []string{
	"Kolkata",
	"Calcutta",
	"Mumbai",
	"New_Delhi",
	"Delhi",
	"Chennai",
	"Bengaluru",
}

func NewResolver(entries []Entry, fallback model.RegionPrice) *Resolver {
	r := &Resolver{
		entries:  entries,
		exact:    make(map[string]model.RegionPrice),
		fallback: fallback,
	}
	for _, e := range entries {
		for _, tz := range e.Timezones {
			if _, dup := r.exact[tz]; !dup {
				r.exact[tz] = e.Price
			}
		}
		if r.india == nil && e.Price.Currency == "INR" {
			price := e.Price
			r.india = &price
		}
	}
	return r
}

// Resolve returns the price quote for a timezone identifier. Deterministic
// and total.
func (r *Resolver) Resolve(timezoneID string) model.RegionPrice {
	if price, ok := r.exact[timezoneID]; ok {
		return price
	}

	if r.india != nil {
		for _, alias := range indiaAliases {
			if strings.Contains(timezoneID, alias) {
				return *r.india
			}
		}
	}

	// Unmapped zone in a mapped region, e.g. Asia/Tokyo falling back to the
	// first declared Asia entry.
	if prefix := regionPrefix(timezoneID); prefix != "" {
		for _, e := range r.entries {
			for _, tz := range e.Timezones {
				if regionPrefix(tz) == prefix {
					return e.Price
				}
			}
		}
	}

	return r.fallback
}

func regionPrefix(timezoneID string) string {
	if i := strings.Index(timezoneID, "/"); i > 0 {
		return timezoneID[:i]
	}
	return ""
}
