package date

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepetitionJSONTags(t *testing.T) {
	rep := Repetition{
		Delta: MonthDeltaWeek{Nth: 2, WeekID: 1, Day: Tuesday},
		End:   ForCount{Count: 6},
	}

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"delta":{"Month":{"OnWeek":{"nth":2,"weekid":1,"day":"Tuesday"}}},"end":{"Count":6}}`,
		string(b))
}

func TestRepetitionJSONRoundTrip(t *testing.T) {
	reps := []Repetition{
		{Delta: DayDelta{Nth: 3}, End: Never{}},
		{Delta: WeekDelta{Nth: 2, On: []Weekday{Monday, Friday}}, End: ForCount{Count: 10}},
		{Delta: MonthDeltaDate{Nth: 1, Days: []int{1, 15}}, End: UntilDate{Date: FromYMD(2022, 3, 31)}},
		{Delta: YearDelta{Nth: 5}, End: Never{}},
	}

	for _, rep := range reps {
		b, err := json.Marshal(rep)
		require.NoError(t, err)

		var got Repetition
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, rep, got)
	}
}

func TestNeverEncodesAsBareTag(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: Never{}}
	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t, `{"delta":{"Day":{"nth":1}},"end":"Never"}`, string(b))
}

func TestDurationJSON(t *testing.T) {
	b, err := json.Marshal(Weeks(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Week":3}`, string(b))

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`{"Month":6}`), &d))
	assert.Equal(t, Months(6), d)

	assert.Error(t, json.Unmarshal([]byte(`{"Fortnight":1}`), &d))
}

func TestRepetitionJSONRejectsUnknownVariants(t *testing.T) {
	var rep Repetition
	err := json.Unmarshal([]byte(`{"delta":{"Hourly":{"nth":1}},"end":"Never"}`), &rep)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"delta":{"Day":{"nth":1}},"end":"Sometimes"}`), &rep)
	assert.Error(t, err)
}
