package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays are the teaching days every slot is generated for
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

var weekdayAliases = map[string]Weekday{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"lunes":     Monday,
	"martes":    Tuesday,
	"miércoles": Wednesday,
	"miercoles": Wednesday,
	"jueves":    Thursday,
	"viernes":   Friday,
}

func (day Weekday) String() string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(day))
}

// Accepts English and Spanish weekday names, case-insensitive
func ParseWeekday(name string) (Weekday, error) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday: %q", name)
	}
	return day, nil
}

// Clock is a time of day expressed in minutes since midnight
type Clock int

// Parses "H:MM" or "HH:MM"
func ParseClock(value string) (Clock, error) {
	hours, minutes, err := splitHoursMinutes(value)
	if err != nil {
		return 0, err
	}
	if hours > 23 {
		return 0, fmt.Errorf("invalid time of day %q: hours must be between 0 and 23", value)
	}
	return Clock(hours*60 + minutes), nil
}

// Parses a duration written as "H:MM" or "HH:MM" and returns it in minutes
func ParseDuration(value string) (int, error) {
	hours, minutes, err := splitHoursMinutes(value)
	if err != nil {
		return 0, err
	}
	return hours*60 + minutes, nil
}

func splitHoursMinutes(value string) (int, int, error) {
	hoursStr, minutesStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hoursStr) == 0 || len(hoursStr) > 2 || len(minutesStr) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	hours, err := strconv.Atoi(hoursStr)
	if err != nil || hours < 0 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: minutes must be between 00 and 59", value)
	}
	return hours, minutes, nil
}

func (clock Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(clock)/60, int(clock)%60)
}

type Interval struct {
	Start Clock
	End   Clock
}

func (interval Interval) Contains(slot TimeSlot) bool {
	return interval.Start <= slot.Start && slot.End <= interval.End
}

func (interval Interval) String() string {
	return interval.Start.String() + "-" + interval.End.String()
}

// Parses a semicolon-separated list of "HH:MM-HH:MM" ranges. Blank cells (and the "nan" left behind by spreadsheet exports) yield no intervals
func ParseIntervals(value string) ([]Interval, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return nil, nil
	}

	intervals := make([]Interval, 0)
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		startStr, endStr, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("invalid interval %q: expected HH:MM-HH:MM", part)
		}
		start, err := ParseClock(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", part, err)
		}
		end, err := ParseClock(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", part, err)
		}
		if end <= start {
			return nil, fmt.Errorf("invalid interval %q: end must be after start", part)
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals, nil
}
