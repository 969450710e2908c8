package types

import (
	"fmt"
	"time"
)

// Due is the due-date value attached to items and reminders. Date carries
// either a bare date ("2006-01-02"), a floating datetime
// ("2006-01-02T15:04:05"), or a fixed datetime with zone designator.
type Due struct {
	Date        string  `json:"date"`
	Timezone    *string `json:"timezone,omitempty"`
	String      string  `json:"string,omitempty"`
	Lang        string  `json:"lang,omitempty"`
	IsRecurring bool    `json:"is_recurring,omitempty"`
}

// Deadline is the hard completion date, distinct from the due date.
type Deadline struct {
	Date string `json:"date"`
	Lang string `json:"lang,omitempty"`
}

// Duration is the expected task duration.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // "minute" or "day"
}

// floatingLayouts in the order the server emits them. Datetimes with a zone
// designator are handled separately: they are fixed instants, not floating.
var floatingLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the due date in loc. Bare dates and floating datetimes resolve
// in loc; a trailing Z marks a fixed UTC instant, returned converted to loc.
func (d *Due) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse("2006-01-02T15:04:05Z", d.Date); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range floatingLayouts {
		if t, err := time.ParseInLocation(layout, d.Date, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable due date %q", d.Date)
}

// Day returns the calendar day of the due date in loc, truncated to midnight.
func (d *Due) Day(loc *time.Location) (time.Time, bool) {
	t, err := d.Time(loc)
	if err != nil {
		return time.Time{}, false
	}
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc), true
}

// HasTime reports whether the due date carries a time-of-day component.
func (d *Due) HasTime() bool {
	return len(d.Date) > len("2006-01-02")
}
