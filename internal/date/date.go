// Package date implements the calendar core of tight: day-granular dates on
// the proleptic Gregorian calendar, calendar-relative durations, and
// recurrence rules with natural-language parsing ("every 3 weeks on mon",
// "fortnightly", "after 5 times").
//
// There is no time-of-day and no time zone handling anywhere in this
// package; a SimpleDate is a whole calendar day.
package date

import (
	"fmt"
	"time"
)

// SimpleDate is a single calendar day. Field names double as the stable
// serialized representation, so they must not change.
type SimpleDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Max is the largest representable date, used as the sentinel result for
// schedules that never end.
var Max = SimpleDate{Year: 9999, Month: 12, Day: 31}

// FromYMD builds a SimpleDate without validation. Callers that accept
// external input should go through ParseDate instead.
func FromYMD(year, month, day int) SimpleDate {
	return SimpleDate{Year: year, Month: month, Day: day}
}

// Today returns the current date in local time.
func Today() SimpleDate {
	now := time.Now()
	return SimpleDate{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// DaysInMonth returns the number of days in the given month, accounting for
// leap years in February. The month must be in 1..12; anything else is a
// programming error and panics.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		switch {
		case year%400 == 0:
			return 29
		case year%100 == 0:
			return 28
		case year%4 == 0:
			return 29
		default:
			return 28
		}
	default:
		panic(fmt.Sprintf("date: month out of range: %d", month))
	}
}

// Compare orders dates by (year, month, day). It returns -1, 0 or 1.
func (d SimpleDate) Compare(o SimpleDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	case d.Day != o.Day:
		return cmpInt(d.Day, o.Day)
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Before reports whether d is strictly earlier than o.
func (d SimpleDate) Before(o SimpleDate) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d SimpleDate) After(o SimpleDate) bool { return d.Compare(o) > 0 }

// Equal reports whether d and o are the same calendar day.
func (d SimpleDate) Equal(o SimpleDate) bool { return d.Compare(o) == 0 }

// Add advances d by a calendar duration.
//
// Day and week amounts are added to the day-of-month and then rolled over
// month by month. Month and year amounts move the month/year directly and
// clamp the day to the length of the resulting month, so the result can land
// on an earlier day-of-month than d (2020-01-31 plus one month is
// 2020-02-29).
func (d SimpleDate) Add(dur Duration) SimpleDate {
	year, month, day := d.Year, d.Month, d.Day

	switch dur.Unit {
	case UnitDay:
		day += dur.N
	case UnitWeek:
		day += dur.N * 7
	case UnitMonth:
		month += dur.N
	case UnitYear:
		year += dur.N
	}

	for {
		extraYears := month / 12
		relMonth := month % 12
		if relMonth == 0 {
			extraYears--
			relMonth = 12
		}
		year += extraYears
		month = relMonth

		if day == d.Day || day <= DaysInMonth(year, month) {
			break
		}
		day -= DaysInMonth(year, month)
		month++
	}

	if max := DaysInMonth(year, month); day > max {
		day = max
	}

	return SimpleDate{Year: year, Month: month, Day: day}
}

// Sub moves d backwards by a calendar duration.
//
// Day and week amounts borrow one day at a time from the preceding month;
// month and year amounts move the month/year directly and clamp the day.
// Sub is deliberately not the exact inverse of Add: adding and then
// subtracting a month can land on a different day when the intermediate
// month is shorter than the starting one.
func (d SimpleDate) Sub(dur Duration) SimpleDate {
	year, month, day := d.Year, d.Month, d.Day

	daysToSub, monthsToSub := 0, 0
	switch dur.Unit {
	case UnitDay:
		daysToSub = dur.N
	case UnitWeek:
		daysToSub = dur.N * 7
	case UnitMonth:
		monthsToSub = dur.N
	case UnitYear:
		year -= dur.N
	}

	for i := 0; i < daysToSub; i++ {
		day--
		if day == 0 {
			month--
			if month == 0 {
				year--
				month = 12
			}
			day = DaysInMonth(year, month)
		}
	}

	for i := 0; i < monthsToSub; i++ {
		month--
		if month == 0 {
			year--
			month = 12
		}
	}

	if max := DaysInMonth(year, month); day > max {
		day = max
	}

	return SimpleDate{Year: year, Month: month, Day: day}
}

// String renders the date as zero-padded ISO yyyy-mm-dd.
func (d SimpleDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
