// Package timewindow converts calendar dates and period granularities into
// half-open UTC intervals. The civil day for this domain starts at 05:00
// UTC+9: activity runs past local midnight, and a fixed 5 AM cutover keeps a
// single logical day of raids in one bucket.
package timewindow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ErrInvalidDate is returned for dates that do not parse to a plausible
// calendar date (YYYY-MM-DD, month 1-12, day 1-31).
var ErrInvalidDate = errors.New("invalid date")

// Zone is the fixed civil time zone for all boundary math. Never the server
// local zone.
var Zone = time.FixedZone("UTC+9", 9*60*60)

// CutoverHour is the zone-local hour at which one civil day rolls into the
// next.
const CutoverHour = 5

// Window is a half-open interval [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

var reDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParsePeriod validates a period string; empty defaults to day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Resolve turns a civil date plus a period into the UTC window covering it.
func Resolve(period Period, civilDate string) (Window, error) {
	year, month, day, err := parseCivilDate(civilDate)
	if err != nil {
		return Window{}, err
	}

	switch period {
	case PeriodDay:
		start := time.Date(year, time.Month(month), day, CutoverHour, 0, 0, 0, Zone)
		return Window{Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}, nil

	case PeriodWeek:
		// Weekday taken at zone noon so the 5 AM cutover cannot flip the
		// date underneath the computation.
		noon := time.Date(year, time.Month(month), day, 12, 0, 0, 0, Zone)
		offset := (int(noon.Weekday()) + 6) % 7 // Monday = 0
		start := time.Date(year, time.Month(month), day-offset, CutoverHour, 0, 0, 0, Zone)
		return Window{Start: start.UTC(), End: start.AddDate(0, 0, 7).UTC()}, nil

	case PeriodMonth:
		start := time.Date(year, time.Month(month), 1, CutoverHour, 0, 0, 0, Zone)
		// AddDate rolls December into January of the next year.
		return Window{Start: start.UTC(), End: start.AddDate(0, 1, 0).UTC()}, nil
	}

	return Window{}, fmt.Errorf("unknown period %q", period)
}

// Days returns the rolling window covering the last n 24h periods ending
// now, for the days-style ranking parameter.
func Days(n int) Window {
	if n <= 0 {
		n = 1
	}
	end := time.Now().UTC()
	return Window{Start: end.Add(-time.Duration(n) * 24 * time.Hour), End: end}
}

// Today returns the civil date string for the current moment under the zone
// convention: before the 5 AM cutover, "today" is still yesterday's date.
func Today(now time.Time) string {
	local := now.In(Zone)
	if local.Hour() < CutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02")
}

func parseCivilDate(s string) (year, month, day int, err error) {
	m := reDate.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	if year == 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return year, month, day, nil
}
