package finance

import (
	"strings"
	"time"
)

// Range names accepted by ResolveRange.
const (
	RangeLast7Days  = "Last 7 days"
	RangeLast30Days = "Last 30 days"
	RangeLast90Days = "Last 90 days"
	RangeThisMonth  = "This month"
	RangeLastMonth  = "Last month"
	RangeThisYear   = "This year"

	DefaultRange = RangeLast7Days
)

var rangeAliases = map[string]string{
	"last 7 days":   RangeLast7Days,
	"7days":         RangeLast7Days,
	"last 30 days":  RangeLast30Days,
	"30days":        RangeLast30Days,
	"last 90 days":  RangeLast90Days,
	"90days":        RangeLast90Days,
	"this month":    RangeThisMonth,
	"current-month": RangeThisMonth,
	"last month":    RangeLastMonth,
	"last-month":    RangeLastMonth,
	"this year":     RangeThisYear,
	"current-year":  RangeThisYear,
}

// CanonicalRange maps a range name or alias to its canonical name.
func CanonicalRange(name string) (string, bool) {
	canonical, ok := rangeAliases[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// DateRange is the half-open interval [Start, End) in UTC.
type DateRange struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Days returns the length of the range in whole days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Previous returns the window of equal length ending where r starts.
func (r DateRange) Previous() DateRange {
	length := r.End.Sub(r.Start)
	return DateRange{
		Name:  "Previous " + r.Name,
		Start: r.Start.Add(-length),
		End:   r.Start,
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ResolveRange turns a named range into concrete bounds relative to now.
// Unknown names resolve to the last 7 days.
func ResolveRange(name string, now time.Time) DateRange {
	canonical, ok := CanonicalRange(name)
	if !ok {
		canonical = DefaultRange
	}

	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	lastDays := func(n int) DateRange {
		return DateRange{Name: canonical, Start: tomorrow.AddDate(0, 0, -n), End: tomorrow}
	}

	switch canonical {
	case RangeLast30Days:
		return lastDays(30)
	case RangeLast90Days:
		return lastDays(90)
	case RangeThisMonth:
		return DateRange{Name: canonical, Start: StartOfMonth(now), End: tomorrow}
	case RangeLastMonth:
		thisMonth := StartOfMonth(now)
		return DateRange{Name: canonical, Start: thisMonth.AddDate(0, -1, 0), End: thisMonth}
	case RangeThisYear:
		u := now.UTC()
		return DateRange{Name: canonical, Start: time.Date(u.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: tomorrow}
	default:
		return lastDays(7)
	}
}
