package route

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with minute resolution. Only hour and minute
// are meaningful; any date a slot was captured against is discarded at parse
// time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:mm" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String formats the time as "HH:mm".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes the time as its "HH:mm" string form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the "HH:mm" string form.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WeeklySlot is a weekly-recurring occurrence: a day of week plus a time of
// day. time.Weekday numbering (0=Sunday) matches the stored convention.
type WeeklySlot struct {
	Day time.Weekday `json:"day_of_week"`
	At  TimeOfDay    `json:"time_of_day"`
}

// Schedule describes when a route is traveled: one-off absolute dates and/or
// weekly-recurring slots. Duplicate (day, time) pairs are tolerated.
type Schedule struct {
	ExplicitDates []time.Time  `json:"explicit_dates"`
	Recurring     []WeeklySlot `json:"recurring"`
}

// Empty returns true if the schedule has no occurrences at all.
func (s Schedule) Empty() bool {
	return len(s.ExplicitDates) == 0 && len(s.Recurring) == 0
}
