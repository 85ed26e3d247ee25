package date

// Weekday is a day of the week, Monday-first to match the schedule grammar.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "unknown"
	}
	return weekdayNames[w]
}

// Cumulative days before the first of each month in a non-leap year.
var dayOfYearOffset = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// WeekdayOf computes the day of the week for a date by counting days from a
// fixed anchor: 1700-01-01 was a Friday. The leap correction term folds in
// one extra day per leap year since the anchor.
//
// The computation is only valid for years >= 1700; earlier years make the
// anchor offset negative and the result is unspecified. This is a known
// limitation carried over deliberately, not an oversight to patch.
func WeekdayOf(d SimpleDate) Weekday {
	afterFeb := 0
	if d.Month <= 2 {
		afterFeb = 1
	}
	aux := d.Year - 1700 - afterFeb

	// 4 = day-of-week index of the anchor date (Friday).
	day := (4 +
		(aux+afterFeb)*365 +
		(aux/4 - aux/100 + (aux+100)/400) +
		dayOfYearOffset[d.Month-1] + (d.Day - 1)) % 7

	return Weekday(day)
}
