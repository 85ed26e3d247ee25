package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastNeverEnding(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: Never{}}
	assert.Equal(t, Max, rep.Last(FromYMD(2020, 9, 20)))

	// The sentinel does not depend on the delta.
	rep.Delta = MonthDeltaWeek{Nth: 6, WeekID: 2, Day: Thursday}
	assert.Equal(t, FromYMD(9999, 12, 31), rep.Last(FromYMD(2020, 9, 20)))
}

func TestLastByCount(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: ForCount{Count: 5}}
	assert.Equal(t, FromYMD(2020, 9, 25), rep.Last(FromYMD(2020, 9, 20)))
}

func TestLastByCountZeroIsStart(t *testing.T) {
	start := FromYMD(2020, 9, 20)
	for _, delta := range []Delta{
		DayDelta{Nth: 3},
		WeekDelta{Nth: 1, On: []Weekday{Friday}},
		MonthDeltaDate{Nth: 2, Days: []int{15}},
		YearDelta{Nth: 1},
	} {
		rep := Repetition{Delta: delta, End: ForCount{Count: 0}}
		assert.Equal(t, start, rep.Last(start))
	}
}

func TestLastByDate(t *testing.T) {
	rep := Repetition{
		Delta: DayDelta{Nth: 1},
		End:   UntilDate{Date: FromYMD(2020, 12, 31)},
	}
	assert.Equal(t, FromYMD(2020, 12, 31), rep.Last(FromYMD(2020, 9, 20)))
}

func TestLastByDateStopsBeforeBound(t *testing.T) {
	rep := Repetition{
		Delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
		End:   UntilDate{Date: FromYMD(2021, 12, 31)},
	}
	assert.Equal(t, FromYMD(2021, 12, 15), rep.Last(FromYMD(2020, 9, 20)))
}

func TestLastByDateStartPastBound(t *testing.T) {
	rep := Repetition{
		Delta: DayDelta{Nth: 1},
		End:   UntilDate{Date: FromYMD(2020, 1, 1)},
	}
	start := FromYMD(2020, 9, 20)
	assert.Equal(t, start, rep.Last(start))
}

func TestLastByCountWithMonthDelta(t *testing.T) {
	rep := Repetition{
		Delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
		End:   ForCount{Count: 5},
	}
	assert.Equal(t, FromYMD(2021, 12, 15), rep.Last(FromYMD(2020, 9, 20)))
}

func TestRepetitionString(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 2}, End: Never{}}
	assert.Equal(t, "2 days", rep.String())

	rep = Repetition{Delta: YearDelta{Nth: 1}, End: ForCount{Count: 3}}
	assert.Equal(t, "year ending after 3 occurrences", rep.String())

	rep = Repetition{
		Delta: WeekDelta{Nth: 1, On: []Weekday{Tuesday}},
		End:   UntilDate{Date: FromYMD(2021, 6, 30)},
	}
	assert.Equal(t, "week on Tuesday ending on 2021-06-30", rep.String())
}
