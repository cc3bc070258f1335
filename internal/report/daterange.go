package report

import (
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

const (
	PresetAll       = "all"
	PresetThisMonth = "this_month"
	PresetWinter    = "winter"
	PresetSummer    = "summer"
)

// DateRange bounds are inclusive. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Days spans whole calendar days from start to end.
func Days(start, end time.Time) DateRange {
	s, e := startOfDay(start), endOfDay(end)
	return DateRange{Start: &s, End: &e}
}

// ResolvePreset turns a named preset into a range relative to now.
// Winter runs Nov 1 to Feb 28 and belongs to the previous year while now is in Jan to Mar.
func ResolvePreset(preset string, now time.Time) (DateRange, error) {
	year, loc := now.Year(), now.Location()
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, loc) }

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", PresetAll:
		return DateRange{}, nil
	case PresetThisMonth, "thismonth", "month":
		first := date(year, now.Month(), 1)
		return Days(first, first.AddDate(0, 1, -1)), nil
	case PresetWinter:
		startYear := year
		if now.Month() <= time.March {
			startYear--
		}
		return Days(date(startYear, time.November, 1), date(startYear+1, time.February, 28)), nil
	case PresetSummer:
		return Days(date(year, time.March, 1), date(year, time.June, 30)), nil
	}
	return DateRange{}, model.Invalidf("unknown date preset %q", preset)
}
