// Package datetime converts between the naive wall-clock strings stored in the
// deals table and zoned instants in the reference time zone.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DateLayout    = "2006-01-02"
	NaiveLayout   = "2006-01-02T15:04"
	OffsetLayout  = "2006-01-02T15:04-07:00"
	ZonedLayout   = "2006-01-02T15:04Z07:00"
	DisplayLayout = "02.01.2006 um 15:04"
	TimeLayout    = "15:04:05"
)

// DefaultZone is the reference zone deals are published in.
const DefaultZone = "Europe/Berlin"

var naiveLayouts = []string{
	NaiveLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var zonedLayouts = []string{
	OffsetLayout,
	ZonedLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-07:00",
}

// LoadLocation returns the named zone, falling back to DefaultZone for an
// empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// Parse reads a start value. Values carrying an offset are taken as instants;
// naive values are read as wall clock in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, ok := parseZoned(value); ok {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		wall, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, loc)
		if !sameWallClock(t, wall) {
			return time.Time{}, fmt.Errorf("%w: %s in %s", ErrSkippedWallClock, value, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

// ErrSkippedWallClock is returned for a wall clock time that a daylight
// saving jump skips, e.g. 02:30 on the last Sunday of March in Berlin.
var ErrSkippedWallClock = errors.New("wall clock time does not exist")

func sameWallClock(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}

func parseZoned(value string) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AddOffset embeds the offset loc has at the given wall clock time:
// "2024-05-01T10:00" becomes "2024-05-01T10:00+02:00" for Europe/Berlin.
func AddOffset(naive string, loc *time.Location) (string, error) {
	t, err := Parse(naive, loc)
	if err != nil {
		return "", err
	}
	return t.Format(OffsetLayout), nil
}

// RemoveOffset returns the wall clock of value in loc without any offset.
func RemoveOffset(value string, loc *time.Location) (string, error) {
	t, err := Parse(value, loc)
	if err != nil {
		return "", err
	}
	return t.Format(NaiveLayout), nil
}

// FormatDate renders t shifted by offsetMinutes for display, e.g.
// "01.05.2024 um 10:00".
func FormatDate(t time.Time, offsetMinutes int, loc *time.Location) string {
	return shift(t, offsetMinutes, loc).Format(DisplayLayout)
}

// DateTimeISO returns the naive wall clock of t shifted by offsetMinutes.
func DateTimeISO(t time.Time, offsetMinutes int, loc *time.Location) string {
	return shift(t, offsetMinutes, loc).Format(NaiveLayout)
}

// DateISO returns the calendar date of t shifted by offsetMinutes.
func DateISO(t time.Time, offsetMinutes int, loc *time.Location) string {
	return shift(t, offsetMinutes, loc).Format(DateLayout)
}

// TimeString returns the wall clock time of day in loc.
func TimeString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimeLayout)
}

// WithTimeZone formats t in loc with its offset.
func WithTimeZone(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ZonedLayout)
}

// IsBeforeNow reports whether value lies before the current time. Unparseable
// values are reported as not before now.
func IsBeforeNow(value string, loc *time.Location) bool {
	return IsBefore(value, loc, time.Now())
}

// IsBefore reports whether value lies strictly before now.
func IsBefore(value string, loc *time.Location, now time.Time) bool {
	t, err := Parse(value, loc)
	if err != nil {
		return false
	}
	return t.Before(now)
}

func shift(t time.Time, offsetMinutes int, loc *time.Location) time.Time {
	return t.Add(time.Duration(offsetMinutes) * time.Minute).In(loc)
}
