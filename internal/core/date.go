package core

import "time"

// DateLayout is the calendar-date form used everywhere in the ledger.
const DateLayout = "2006-01-02"

// DefaultZone is the fixed reference time zone for resolving "today".
// All users share one midnight boundary regardless of device locale.
const DefaultZone = "Asia/Karachi"

// LoadZone resolves a zone name, falling back to DefaultZone and then
// UTC when the tz database lookup fails.
func LoadZone(name string) *time.Location {
	if name == "" {
		name = DefaultZone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// Today formats the given instant as a calendar date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}
