package date

import "fmt"

// Unit is the calendar unit of a Duration.
type Unit int

const (
	UnitDay Unit = iota
	UnitWeek
	UnitMonth
	UnitYear
)

// Duration is a calendar-relative offset: a non-negative magnitude in a
// single unit. Direction comes from whether it is passed to Add or Sub.
type Duration struct {
	Unit Unit
	N    int
}

func Days(n int) Duration   { return Duration{Unit: UnitDay, N: n} }
func Weeks(n int) Duration  { return Duration{Unit: UnitWeek, N: n} }
func Months(n int) Duration { return Duration{Unit: UnitMonth, N: n} }
func Years(n int) Duration  { return Duration{Unit: UnitYear, N: n} }

func (u Unit) name() string {
	switch u {
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	default:
		return "unknown"
	}
}

// String renders the duration as an English phrase, e.g. "1 day", "3 weeks".
func (d Duration) String() string {
	if d.N == 1 {
		return fmt.Sprintf("1 %s", d.Unit.name())
	}
	return fmt.Sprintf("%d %ss", d.N, d.Unit.name())
}
