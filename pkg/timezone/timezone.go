package timezone

import (
	"time"

	"github.com/arogyahq/booking-api/internal/model"
)

// LabelsFor renders each operating-window hour as a 12-hour wall-clock label
// in the target timezone. A target in the home timezone's regional family is
// rendered directly in the home zone with an explicit suffix, skipping the
// round trip through UTC. Unrecognized timezones degrade to the unconverted
// home label; display must never take the booking flow down.
func LabelsFor(window model.OperatingWindow, homeTZ, targetTZ string, date time.Time) []string {
	labels := make([]string, 0, window.EndHour-window.StartHour)

	homeLoc, homeErr := time.LoadLocation(homeTZ)
	if homeErr != nil {
		homeLoc = time.UTC
	}

	sameFamily := targetTZ == homeTZ || (regionOf(targetTZ) != "" && regionOf(targetTZ) == regionOf(homeTZ))

	var targetLoc *time.Location
	if !sameFamily {
		var err error
		targetLoc, err = time.LoadLocation(targetTZ)
		if err != nil {
			targetLoc = nil
		}
	}

	for hour := window.StartHour; hour < window.EndHour; hour++ {
		instant := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, homeLoc)

		if sameFamily || targetLoc == nil {
			labels = append(labels, instant.Format("3:04 PM MST"))
			continue
		}
		labels = append(labels, instant.UTC().In(targetLoc).Format("3:04 PM"))
	}

	return labels
}

func regionOf(timezoneID string) string {
	for i := 0; i < len(timezoneID); i++ {
		if timezoneID[i] == '/' {
			return timezoneID[:i]
		}
	}
	return ""
}
