// Package hours evaluates whether a store location is open at a given time
// based on its weekly business hours.
package hours

import (
	"strconv"
	"strings"
	"time"

	"github.com/citycartapp/citycart-backend/pkg/types"
)

// IsOpenAt reports whether the supplied weekly hours place the location open
// at the given moment. The policy is fail-open: a nil map, a missing entry
// for the current weekday, or a malformed time string all evaluate to open
// so bad hours data never hides a store from discovery.
//
// Hours that span midnight (close earlier than open) are not supported and
// evaluate as closed outside the same-day window.
func IsOpenAt(weekly types.WeeklyHours, at time.Time) bool {
	if len(weekly) == 0 {
		return true
	}
	day := strings.ToLower(at.Weekday().String())
	today, ok := weekly[day]
	if !ok {
		return true
	}
	openMin, ok := minutesOfDay(today.Open)
	if !ok {
		return true
	}
	closeMin, ok := minutesOfDay(today.Close)
	if !ok {
		return true
	}
	now := at.Hour()*60 + at.Minute()
	return now >= openMin && now <= closeMin
}

// IsOpenNow evaluates the hours against the current wall-clock time.
func IsOpenNow(weekly types.WeeklyHours) bool {
	return IsOpenAt(weekly, time.Now())
}

func minutesOfDay(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
