package date

import (
	"fmt"
	"strings"
)

// Delta is a single recurrence step: given the date of one occurrence it
// produces the date of the next. Implementations are small value types.
type Delta interface {
	fmt.Stringer

	// Advance computes the next occurrence after d.
	Advance(d SimpleDate) SimpleDate
}

// MonthDelta is the subset of deltas that recur month-wise, either on fixed
// days of the month or on the Nth weekday of the month.
type MonthDelta interface {
	Delta
	monthDelta()
}

// DayDelta recurs every Nth day.
type DayDelta struct {
	Nth int `json:"nth"`
}

func (dd DayDelta) Advance(d SimpleDate) SimpleDate {
	return d.Add(Days(dd.Nth))
}

func (dd DayDelta) String() string {
	if dd.Nth == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", dd.Nth)
}

// WeekDelta recurs every Nth week on the given weekdays. Advancement aligns
// to the last weekday in On before skipping ahead by whole weeks.
type WeekDelta struct {
	Nth int       `json:"nth"`
	On  []Weekday `json:"on"`
}

func (wd WeekDelta) Advance(d SimpleDate) SimpleDate {
	last := wd.On[len(wd.On)-1]
	for WeekdayOf(d) != last {
		d = d.Add(Days(1))
	}
	return d.Add(Weeks(wd.Nth))
}

func (wd WeekDelta) String() string {
	var b strings.Builder
	if wd.Nth == 1 {
		b.WriteString("week on ")
	} else {
		fmt.Fprintf(&b, "%d weeks on ", wd.Nth)
	}
	for i, day := range wd.On {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(day.String())
	}
	return b.String()
}

// MonthDeltaDate recurs every Nth month on specific days of the month.
// When a target day does not exist in the landing month, the occurrence is
// clamped to the month's last day.
type MonthDeltaDate struct {
	Nth  int   `json:"nth"`
	Days []int `json:"days"`
}

func (MonthDeltaDate) monthDelta() {}

func (md MonthDeltaDate) Advance(d SimpleDate) SimpleDate {
	minDay, maxDay := md.Days[0], md.Days[0]
	for _, day := range md.Days[1:] {
		if day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	if d.Day >= minDay {
		d = d.Add(Months(md.Nth))
	} else {
		d = d.Add(Months(md.Nth - 1))
	}

	d.Day = maxDay
	if max := DaysInMonth(d.Year, d.Month); d.Day > max {
		d.Day = max
	}
	return d
}

func (md MonthDeltaDate) String() string {
	var b strings.Builder
	if md.Nth == 1 {
		b.WriteString("month on the ")
	} else {
		fmt.Fprintf(&b, "%d months on the ", md.Nth)
	}
	for i, day := range md.Days {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d%s", day, ordinalSuffix(day))
	}
	return b.String()
}

// MonthDeltaWeek recurs every Nth month on a weekday picked by its ordinal
// occurrence within the month (WeekID 0 = first, 1 = second, ...).
type MonthDeltaWeek struct {
	Nth    int     `json:"nth"`
	WeekID int     `json:"weekid"`
	Day    Weekday `json:"day"`
}

func (MonthDeltaWeek) monthDelta() {}

func (mw MonthDeltaWeek) Advance(d SimpleDate) SimpleDate {
	// Anchor occurrence of the target weekday in the current month.
	anchor := SimpleDate{Year: d.Year, Month: d.Month, Day: 1}
	for WeekdayOf(anchor) != mw.Day {
		anchor = anchor.Add(Days(1))
	}
	anchor = anchor.Add(Weeks(mw.WeekID - 1))

	if d.Day >= anchor.Day {
		d = d.Add(Months(mw.Nth))
	} else {
		d = d.Add(Months(mw.Nth - 1))
	}

	d.Day = 1
	for WeekdayOf(d) != mw.Day {
		d = d.Add(Days(1))
	}
	return d.Add(Weeks(mw.WeekID - 1))
}

func (mw MonthDeltaWeek) String() string {
	unit := "months"
	if mw.Nth == 1 {
		unit = "month"
	}
	return fmt.Sprintf("%d %s on the %s %s", mw.Nth, unit, weekIDName(mw.WeekID), mw.Day)
}

// YearDelta recurs every Nth year.
type YearDelta struct {
	Nth int `json:"nth"`
}

func (yd YearDelta) Advance(d SimpleDate) SimpleDate {
	return d.Add(Years(yd.Nth))
}

func (yd YearDelta) String() string {
	if yd.Nth == 1 {
		return "year"
	}
	return fmt.Sprintf("%d years", yd.Nth)
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}

func weekIDName(id int) string {
	switch id {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	case 3:
		return "fourth"
	case 4:
		return "fifth"
	default:
		panic(fmt.Sprintf("date: weekid out of range: %d", id))
	}
}
