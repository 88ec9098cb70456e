package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arogyahq/booking-api/internal/model"
)

var (
	usdDefault = model.RegionPrice{Currency: "USD", Symbol: "$", Initial: 120, FollowUp: 80}
	inrPrice   = model.RegionPrice{Currency: "INR", Symbol: "₹", Initial: 2500, FollowUp: 1800}
	gbpPrice   = model.RegionPrice{Currency: "GBP", Symbol: "£", Initial: 95, FollowUp: 65}
	audPrice   = model.RegionPrice{Currency: "AUD", Symbol: "A$", Initial: 160, FollowUp: 110}
)

func newTestResolver() *Resolver {
	return NewResolver([]Entry{
		{Timezones: []string{"Asia/Kolkata", "Asia/Calcutta"}, Price: inrPrice},
		{Timezones: []string{"Europe/London"}, Price: gbpPrice},
		{Timezones: []string{"America/New_York", "America/Los_Angeles"}, Price: usdDefault},
		{Timezones: []string{"Australia/Sydney"}, Price: audPrice},
	}, usdDefault)
}

func TestResolveExactMatch(t *testing.T) {
	r := newTestResolver()

	assert.Equal(t, gbpPrice, r.Resolve("Europe/London"))
	assert.Equal(t, audPrice, r.Resolve("Australia/Sydney"))
}

func TestResolveIndiaAliases(t *testing.T) {
	r := newTestResolver()

	// Current and legacy IANA names resolve identically.
	assert.Equal(t, inrPrice, r.Resolve("Asia/Kolkata"))
	assert.Equal(t, inrPrice, r.Resolve("Asia/Calcutta"))

	// City tokens from patient browsers.
	assert.Equal(t, inrPrice, r.Resolve("Asia/Mumbai"))
	assert.Equal(t, inrPrice, r.Resolve("India/New_Delhi"))
}

func TestResolveRegionPrefixFallback(t *testing.T) {
	r := newTestResolver()

	// Unmapped Asia zone falls back to the first declared Asia entry.
	assert.Equal(t, inrPrice, r.Resolve("Asia/Tokyo"))

	// Unmapped Europe zone falls back to the first declared Europe entry.
	assert.Equal(t, gbpPrice, r.Resolve("Europe/Berlin"))

	assert.Equal(t, usdDefault, r.Resolve("America/Chicago"))
}

func TestResolveIsTotal(t *testing.T) {
	r := newTestResolver()

	inputs := []string{
		"",
		"garbage",
		"Not/A/Zone",
		"UTC",
		"/leading-slash",
		"Antarctica/South_Pole",
	}
	for _, input := range inputs {
		assert.Equal(t, usdDefault, r.Resolve(input), "input %q must resolve to the default", input)
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := newTestResolver()

	first := r.Resolve("Asia/Tokyo")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve("Asia/Tokyo"))
	}
}
