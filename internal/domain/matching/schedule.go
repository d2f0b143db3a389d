package matching

import (
	"time"

	"github.com/covelotage/service-matching/internal/domain/route"
)

const (
	// Tolerance is the slack allowed on either side of a target time when
	// comparing two occurrences.
	Tolerance = 10 * time.Minute

	// ProjectionHorizonDays is how far forward recurring slots are expanded
	// into concrete dates for comparison against one-off occurrences.
	ProjectionHorizonDays = 30
)

// Criteria is the temporal filter precomputed from a requester's schedule.
// Build it once per match request, then test each candidate schedule with
// Matches. A candidate passes if any of four comparison classes overlaps:
// explicit/explicit, explicit/recurring, recurring/recurring and
// recurring-projected/explicit. The classes are independent and OR-ed.
type Criteria struct {
	explicitDates  []time.Time
	recurringSlots []route.WeeklySlot
	projectedDates []time.Time
	tolerance      time.Duration
}

// NewCriteria precomputes the filter for the requester's schedule. Recurring
// slots are projected forward from now across the horizon so they can be
// compared against candidates' one-off dates.
func NewCriteria(s route.Schedule, now time.Time) Criteria {
	return Criteria{
		explicitDates:  s.ExplicitDates,
		recurringSlots: s.Recurring,
		projectedDates: projectRecurring(s.Recurring, now, ProjectionHorizonDays),
		tolerance:      Tolerance,
	}
}

// Matches reports whether a candidate schedule overlaps the requester's
// schedule within tolerance.
func (c Criteria) Matches(candidate route.Schedule) bool {
	for _, reqDate := range c.explicitDates {
		for _, candDate := range candidate.ExplicitDates {
			if withinWindow(reqDate, candDate, c.tolerance) {
				return true
			}
		}
		for _, candSlot := range candidate.Recurring {
			if slotMatchesDate(candSlot, reqDate, c.tolerance) {
				return true
			}
		}
	}

	for _, reqSlot := range c.recurringSlots {
		for _, candSlot := range candidate.Recurring {
			if slotsOverlap(reqSlot, candSlot, c.tolerance) {
				return true
			}
		}
	}

	for _, projected := range c.projectedDates {
		for _, candDate := range candidate.ExplicitDates {
			if withinWindow(projected, candDate, c.tolerance) {
				return true
			}
		}
	}

	return false
}

// withinWindow reports whether b falls inside [a-tolerance, a+tolerance].
func withinWindow(a, b time.Time, tolerance time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// slotMatchesDate compares a one-off date against a recurring slot: same day
// of week, time of day within tolerance. The date part is ignored.
func slotMatchesDate(slot route.WeeklySlot, date time.Time, tolerance time.Duration) bool {
	if slot.Day != date.Weekday() {
		return false
	}
	dateMinutes := date.Hour()*60 + date.Minute()
	return minutesApart(slot.At.Minutes(), dateMinutes) <= int(tolerance.Minutes())
}

// slotsOverlap compares two recurring slots: same day of week, time of day
// within tolerance.
func slotsOverlap(a, b route.WeeklySlot, tolerance time.Duration) bool {
	if a.Day != b.Day {
		return false
	}
	return minutesApart(a.At.Minutes(), b.At.Minutes()) <= int(tolerance.Minutes())
}

func minutesApart(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// projectRecurring expands recurring slots into concrete dates over the next
// horizonDays calendar days, starting from the day after now.
func projectRecurring(slots []route.WeeklySlot, now time.Time, horizonDays int) []time.Time {
	if len(slots) == 0 {
		return nil
	}

	var dates []time.Time
	for day := 1; day <= horizonDays; day++ {
		candidate := now.AddDate(0, 0, day)
		for _, slot := range slots {
			if slot.Day != candidate.Weekday() {
				continue
			}
			dates = append(dates, time.Date(
				candidate.Year(), candidate.Month(), candidate.Day(),
				slot.At.Hour, slot.At.Minute, 0, 0, candidate.Location(),
			))
		}
	}
	return dates
}
