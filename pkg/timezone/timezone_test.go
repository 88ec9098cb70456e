package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyahq/booking-api/internal/model"
)

var window = model.OperatingWindow{StartHour: 9, EndHour: 18, SlotMinutes: 30}

var testDate = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestLabelsForSameTimezone(t *testing.T) {
	labels := LabelsFor(window, "Asia/Kolkata", "Asia/Kolkata", testDate)

	require.Len(t, labels, 9)
	assert.Equal(t, "9:00 AM IST", labels[0])
	assert.Equal(t, "5:00 PM IST", labels[8])
}

func TestLabelsForSameRegionalFamily(t *testing.T) {
	// Same-family targets render in the home zone with an explicit suffix
	// instead of converting.
	labels := LabelsFor(window, "Asia/Kolkata", "Asia/Calcutta", testDate)

	require.Len(t, labels, 9)
	for _, l := range labels {
		assert.Contains(t, l, "IST")
	}
}

func TestLabelsForCrossRegionConversion(t *testing.T) {
	labels := LabelsFor(window, "Asia/Kolkata", "Europe/London", testDate)

	require.Len(t, labels, 9)
	// 09:00 IST is 04:30 in London during BST.
	assert.Equal(t, "4:30 AM", labels[0])
	assert.Equal(t, "12:30 PM", labels[8])
}

func TestLabelsForUnknownTargetFallsBack(t *testing.T) {
	labels := LabelsFor(window, "Asia/Kolkata", "Not/A/Zone", testDate)

	require.Len(t, labels, 9)
	// Degrades to the unconverted home label rather than failing.
	assert.Equal(t, "9:00 AM IST", labels[0])
}

func TestLabelsForUnknownHomeUsesUTC(t *testing.T) {
	labels := LabelsFor(window, "garbage", "also-garbage", testDate)

	require.Len(t, labels, 9)
	assert.Equal(t, "9:00 AM UTC", labels[0])
}
