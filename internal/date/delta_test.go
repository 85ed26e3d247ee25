package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayDeltaAdvance(t *testing.T) {
	got := DayDelta{Nth: 8}.Advance(FromYMD(2020, 9, 20))
	assert.Equal(t, FromYMD(2020, 9, 28), got)
}

func TestWeekDeltaAdvance(t *testing.T) {
	got := WeekDelta{Nth: 3, On: []Weekday{Monday}}.Advance(FromYMD(2020, 9, 20))
	assert.Equal(t, FromYMD(2020, 10, 12), got)
}

func TestMonthDeltaDateAdvance(t *testing.T) {
	cases := []struct {
		name  string
		start SimpleDate
		delta MonthDeltaDate
		want  SimpleDate
	}{
		{
			name:  "clamps to leap february",
			start: FromYMD(2019, 11, 30),
			delta: MonthDeltaDate{Nth: 4, Days: []int{31}},
			want:  FromYMD(2020, 2, 29),
		},
		{
			name:  "multiple days keep the highest",
			start: FromYMD(2019, 11, 30),
			delta: MonthDeltaDate{Nth: 4, Days: []int{15, 31}},
			want:  FromYMD(2020, 3, 31),
		},
		{
			name:  "start below target day lands one period early",
			start: FromYMD(2019, 11, 10),
			delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
			want:  FromYMD(2020, 1, 15),
		},
		{
			name:  "start below smallest of several days",
			start: FromYMD(2019, 11, 10),
			delta: MonthDeltaDate{Nth: 3, Days: []int{11, 15, 20}},
			want:  FromYMD(2020, 1, 20),
		},
		{
			name:  "start past target day takes the full period",
			start: FromYMD(2019, 11, 20),
			delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
			want:  FromYMD(2020, 2, 15),
		},
		{
			name:  "start past smallest of several days",
			start: FromYMD(2019, 11, 20),
			delta: MonthDeltaDate{Nth: 3, Days: []int{10, 15, 25}},
			want:  FromYMD(2020, 2, 25),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.delta.Advance(tc.start))
		})
	}
}

func TestMonthDeltaWeekAdvance(t *testing.T) {
	// Second Monday of the month, every two months.
	delta := MonthDeltaWeek{Nth: 2, WeekID: 2, Day: Monday}

	assert.Equal(t, FromYMD(2020, 10, 12), delta.Advance(FromYMD(2020, 9, 1)))
	assert.Equal(t, FromYMD(2020, 11, 9), delta.Advance(FromYMD(2020, 9, 21)))
}

func TestYearDeltaAdvance(t *testing.T) {
	got := YearDelta{Nth: 2}.Advance(FromYMD(2020, 2, 29))
	assert.Equal(t, FromYMD(2022, 2, 28), got)
}

func TestDeltaStrings(t *testing.T) {
	assert.Equal(t, "day", DayDelta{Nth: 1}.String())
	assert.Equal(t, "4 days", DayDelta{Nth: 4}.String())
	assert.Equal(t, "week on Monday", WeekDelta{Nth: 1, On: []Weekday{Monday}}.String())
	assert.Equal(t, "2 weeks on Monday, Wednesday",
		WeekDelta{Nth: 2, On: []Weekday{Monday, Wednesday}}.String())
	assert.Equal(t, "month on the 1st, 22nd, 31st",
		MonthDeltaDate{Nth: 1, Days: []int{1, 22, 31}}.String())
	assert.Equal(t, "3 months on the 3rd", MonthDeltaDate{Nth: 3, Days: []int{3}}.String())
	assert.Equal(t, "1 month on the third Friday",
		MonthDeltaWeek{Nth: 1, WeekID: 2, Day: Friday}.String())
	assert.Equal(t, "year", YearDelta{Nth: 1}.String())
	assert.Equal(t, "10 years", YearDelta{Nth: 10}.String())
}
