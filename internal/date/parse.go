package date

import (
	"regexp"
	"strconv"
	"strings"
)

// The schedule grammar is a small fixed phrase set. Each parser tries an
// ordered list of matchers and returns the first hit; anything unrecognized
// is an error, never a guess.

var (
	everyNDays   = regexp.MustCompile(`^every (\d+) days?$`)
	nDays        = regexp.MustCompile(`^(\d+) days?$`)
	everyNWeeks  = regexp.MustCompile(`^every (\d+) weeks?$`)
	nWeeks       = regexp.MustCompile(`^(\d+) weeks?$`)
	everyNMonths = regexp.MustCompile(`^every (\d+) months?$`)
	nMonths      = regexp.MustCompile(`^(\d+) months?$`)
	everyNYears  = regexp.MustCompile(`^every (\d+) years?$`)
	nYears       = regexp.MustCompile(`^(\d+) years?$`)

	firstInt = regexp.MustCompile(`\d+`)
	isoDate  = regexp.MustCompile(`(\d+)-(\d+)-(\d+)`)
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchCount(s string, patterns ...*regexp.Regexp) (int, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

// ParseDelta parses a schedule phrase into the matching delta kind,
// dispatching on the coarsest keyword first. start supplies defaults that
// depend on the reference date, such as the weekday list of "weekly".
func ParseDelta(s string, start SimpleDate) (Delta, error) {
	s = normalize(s)

	switch {
	case strings.Contains(s, "year") || strings.Contains(s, "annual"):
		return ParseYearDelta(s)
	case strings.Contains(s, "month") || strings.Contains(s, "quarter"):
		return ParseMonthDelta(s, start)
	case strings.Contains(s, "week"):
		return ParseWeekDelta(s, start)
	default:
		return ParseDayDelta(s)
	}
}

// ParseDayDelta parses "every N days", "N days", "daily" and "every day".
func ParseDayDelta(s string) (DayDelta, error) {
	s = normalize(s)

	if n, ok := matchCount(s, everyNDays, nDays); ok {
		return DayDelta{Nth: n}, nil
	}
	if s == "daily" || s == "every day" {
		return DayDelta{Nth: 1}, nil
	}
	return DayDelta{}, ErrBadSchedule
}

// ParseDuration parses a plain length phrase such as "3 months", "1 week"
// or "day".
func ParseDuration(s string) (Duration, error) {
	s = normalize(s)

	if n, ok := matchCount(s, nDays, everyNDays); ok {
		return Days(n), nil
	}
	if n, ok := matchCount(s, nWeeks, everyNWeeks); ok {
		return Weeks(n), nil
	}
	if n, ok := matchCount(s, nMonths, everyNMonths); ok {
		return Months(n), nil
	}
	if n, ok := matchCount(s, nYears, everyNYears); ok {
		return Years(n), nil
	}

	switch s {
	case "day":
		return Days(1), nil
	case "week":
		return Weeks(1), nil
	case "month":
		return Months(1), nil
	case "year":
		return Years(1), nil
	}
	return Duration{}, ErrBadSchedule
}

// ParseWeekDelta parses "every N weeks [on <weekday list>]", "weekly" and
// "fortnightly". Without an "on" clause the schedule falls on the weekday of
// the start date.
func ParseWeekDelta(s string, start SimpleDate) (WeekDelta, error) {
	s = normalize(s)

	beginning, rest := splitOnClause(s)

	var on []Weekday
	if rest == "" {
		on = []Weekday{WeekdayOf(start)}
	} else {
		var err error
		on, err = parseWeekdayList(rest)
		if err != nil {
			return WeekDelta{}, err
		}
	}

	if n, ok := matchCount(beginning, everyNWeeks, nWeeks); ok {
		return WeekDelta{Nth: n, On: on}, nil
	}
	switch beginning {
	case "weekly":
		return WeekDelta{Nth: 1, On: on}, nil
	case "fortnightly":
		return WeekDelta{Nth: 2, On: on}, nil
	}
	return WeekDelta{}, ErrBadSchedule
}

// ParseMonthDelta parses "every N months [on <day list> | on the <ordinal>
// <weekday>]", "monthly" and "quarterly". Without an "on" clause the
// schedule falls on the day-of-month of the start date.
func ParseMonthDelta(s string, start SimpleDate) (MonthDelta, error) {
	s = normalize(s)

	beginning, rest := splitOnClause(s)

	nth, ok := matchCount(beginning, everyNMonths, nMonths)
	if !ok {
		switch beginning {
		case "monthly":
			nth = 1
		case "quarterly":
			nth = 3
		default:
			return nil, ErrBadSchedule
		}
	}

	if rest == "" {
		return MonthDeltaDate{Nth: nth, Days: []int{start.Day}}, nil
	}

	if day, ok := parseWeekday(rest); ok {
		id, ok := parseWeekID(rest)
		if !ok {
			return nil, ErrBadSchedule
		}
		return MonthDeltaWeek{Nth: nth, WeekID: id, Day: day}, nil
	}

	var days []int
	for _, m := range firstInt.FindAllString(rest, -1) {
		day, err := strconv.Atoi(m)
		if err != nil || day < 1 || day > 31 {
			return nil, ErrBadSchedule
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, ErrBadSchedule
	}
	return MonthDeltaDate{Nth: nth, Days: days}, nil
}

// ParseYearDelta parses "every N years", "annually", "yearly" and
// "every year".
func ParseYearDelta(s string) (YearDelta, error) {
	s = normalize(s)

	if n, ok := matchCount(s, everyNYears, nYears); ok {
		return YearDelta{Nth: n}, nil
	}
	if s == "annually" || s == "yearly" || s == "every year" {
		return YearDelta{Nth: 1}, nil
	}
	return YearDelta{}, ErrBadSchedule
}

// ParseEnd parses a termination phrase: blank or "never" runs forever,
// phrases mentioning a number of repetitions end after that count, anything
// else must contain an ISO yyyy-mm-dd end date.
func ParseEnd(s string) (End, error) {
	s = normalize(s)

	if s == "" || strings.Contains(s, "never") {
		return Never{}, nil
	}

	if strings.Contains(s, "after") || strings.Contains(s, "times") ||
		strings.Contains(s, "occurrences") || strings.Contains(s, "reps") {
		m := firstInt.FindString(s)
		if m == "" {
			return nil, ErrBadEndSchedule
		}
		count, err := strconv.Atoi(m)
		if err != nil {
			return nil, ErrBadEndSchedule
		}
		return ForCount{Count: count}, nil
	}

	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrInvalidEndDate
	}
	d, err := dateFromMatch(m, ErrInvalidDate, ErrInvalidDate)
	if err != nil {
		return nil, err
	}
	return UntilDate{Date: d}, nil
}

// ParseDate parses an ISO yyyy-mm-dd date and checks that the day exists in
// the given month and year.
func ParseDate(s string) (SimpleDate, error) {
	m := isoDate.FindStringSubmatch(normalize(s))
	if m == nil {
		return SimpleDate{}, ErrInvalidDate
	}
	return dateFromMatch(m, ErrInvalidMonth, ErrInvalidDate)
}

// ParseRepetition parses a schedule phrase and a termination phrase into a
// full Repetition anchored at start.
func ParseRepetition(schedule, end string, start SimpleDate) (Repetition, error) {
	delta, err := ParseDelta(schedule, start)
	if err != nil {
		return Repetition{}, err
	}
	e, err := ParseEnd(end)
	if err != nil {
		return Repetition{}, err
	}
	return Repetition{Delta: delta, End: e}, nil
}

func dateFromMatch(m []string, badMonth, badDay error) (SimpleDate, error) {
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return SimpleDate{}, ErrInvalidDate
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return SimpleDate{}, ErrInvalidDate
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return SimpleDate{}, ErrInvalidDate
	}

	if month < 1 || month > 12 {
		return SimpleDate{}, badMonth
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return SimpleDate{}, badDay
	}
	return SimpleDate{Year: year, Month: month, Day: day}, nil
}

// splitOnClause splits a schedule phrase at its optional " on " clause. The
// second return keeps the clause text (including the "on") or is empty.
func splitOnClause(s string) (string, string) {
	if idx := strings.Index(s, " on "); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}

var weekdayAbbrevs = []struct {
	abbr string
	day  Weekday
}{
	{"mon", Monday},
	{"tue", Tuesday},
	{"wed", Wednesday},
	{"thu", Thursday},
	{"fri", Friday},
	{"sat", Saturday},
	{"sun", Sunday},
}

// parseWeekdayList collects every weekday mentioned in s, in Monday-first
// canonical order regardless of the order they were written in.
func parseWeekdayList(s string) ([]Weekday, error) {
	var days []Weekday
	for _, w := range weekdayAbbrevs {
		if strings.Contains(s, w.abbr) {
			days = append(days, w.day)
		}
	}
	if len(days) == 0 {
		return nil, ErrBadSchedule
	}
	return days, nil
}

func parseWeekday(s string) (Weekday, bool) {
	for _, w := range weekdayAbbrevs {
		if strings.Contains(s, w.abbr) {
			return w.day, true
		}
	}
	return 0, false
}

func parseWeekID(s string) (int, bool) {
	switch {
	case strings.Contains(s, "first") || strings.Contains(s, "1st"):
		return 0, true
	case strings.Contains(s, "second") || strings.Contains(s, "2nd"):
		return 1, true
	case strings.Contains(s, "third") || strings.Contains(s, "3rd"):
		return 2, true
	case strings.Contains(s, "fourth") || strings.Contains(s, "4th"):
		return 3, true
	default:
		return 0, false
	}
}
