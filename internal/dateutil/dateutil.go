// Package dateutil resolves the year-less "day month" date tokens printed
// on statement rows into absolute dates, using the page's anchor date and
// an explicit month-name table instead of process-wide locale state.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDayMonth parses "24 dec" against a table of abbreviated month
// names (index 0 = January) and returns the day and 1-based month.
func ParseDayMonth(s string, months []string) (day, month int, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("invalid date token %q", s)
	}
	day, err = strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("invalid day in date token %q", s)
	}
	month = monthIndex(fields[1], months)
	if month == 0 {
		return 0, 0, fmt.Errorf("unknown month %q in date token %q", fields[1], s)
	}
	return day, month, nil
}

// ParseAnchor parses a page-header date like "17 januari 2020" against a
// table of full month names.
func ParseAnchor(s string, months []string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("invalid anchor date %q", s)
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day in anchor date %q", s)
	}
	month := monthIndex(fields[1], months)
	if month == 0 {
		return time.Time{}, fmt.Errorf("unknown month %q in anchor date %q", fields[1], s)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in anchor date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// Resolve assigns a year to a day/month pair: the unique occurrence in
// the 12 months ending at anchor (inclusive). The candidate year advances
// until the date falls strictly after the anchor, then rolls back one
// year. February 29 materialized in a non-leap year normalizes to
// March 1, so a leap-day token never fails to resolve.
func Resolve(day, month int, anchor time.Time) time.Time {
	year := anchor.Year() - 1
	for !materialize(year, month, day).After(anchor) {
		year++
	}
	return materialize(year-1, month, day)
}

// ResolveDayMonth combines ParseDayMonth and Resolve.
func ResolveDayMonth(s string, anchor time.Time, months []string) (time.Time, error) {
	day, month, err := ParseDayMonth(s, months)
	if err != nil {
		return time.Time{}, err
	}
	return Resolve(day, month, anchor), nil
}

// materialize builds the date in UTC; time.Date normalizes out-of-range
// days, mapping Feb 29 to Mar 1 in non-leap years.
func materialize(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func monthIndex(name string, months []string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, m := range months {
		if name == strings.ToLower(m) {
			return i + 1
		}
	}
	return 0
}
