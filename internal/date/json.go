package date

import (
	"encoding/json"
	"fmt"
)

// The JSON layer encodes durations, deltas and end conditions as tagged
// unions so that records written by earlier versions of tight keep loading.
// Variant tags (Day/Week/Month/Year, OnDate/OnWeek, Never/Date/Count) and
// field names (nth, weekid, day, on, days) are part of the wire contract.

func (w Weekday) MarshalJSON() ([]byte, error) {
	if w < Monday || w > Sunday {
		return nil, fmt.Errorf("marshal weekday: out of range: %d", int(w))
	}
	return json.Marshal(w.String())
}

func (w *Weekday) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range weekdayNames {
		if n == name {
			*w = Weekday(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshal weekday: unknown name %q", name)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	var tag string
	switch d.Unit {
	case UnitDay:
		tag = "Day"
	case UnitWeek:
		tag = "Week"
	case UnitMonth:
		tag = "Month"
	case UnitYear:
		tag = "Year"
	default:
		return nil, fmt.Errorf("marshal duration: unknown unit %d", d.Unit)
	}
	return json.Marshal(map[string]int{tag: d.N})
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var tagged map[string]int
	if err := json.Unmarshal(b, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("unmarshal duration: expected a single variant tag")
	}
	for tag, n := range tagged {
		switch tag {
		case "Day":
			*d = Days(n)
		case "Week":
			*d = Weeks(n)
		case "Month":
			*d = Months(n)
		case "Year":
			*d = Years(n)
		default:
			return fmt.Errorf("unmarshal duration: unknown variant %q", tag)
		}
	}
	return nil
}

func marshalDelta(d Delta) (json.RawMessage, error) {
	switch v := d.(type) {
	case DayDelta:
		return json.Marshal(map[string]DayDelta{"Day": v})
	case WeekDelta:
		return json.Marshal(map[string]WeekDelta{"Week": v})
	case MonthDeltaDate:
		return json.Marshal(map[string]map[string]MonthDeltaDate{
			"Month": {"OnDate": v},
		})
	case MonthDeltaWeek:
		return json.Marshal(map[string]map[string]MonthDeltaWeek{
			"Month": {"OnWeek": v},
		})
	case YearDelta:
		return json.Marshal(map[string]YearDelta{"Year": v})
	default:
		return nil, fmt.Errorf("marshal delta: unknown type %T", d)
	}
}

func unmarshalDelta(b json.RawMessage) (Delta, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return nil, err
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("unmarshal delta: expected a single variant tag")
	}

	for tag, raw := range tagged {
		switch tag {
		case "Day":
			var v DayDelta
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		case "Week":
			var v WeekDelta
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		case "Month":
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(raw, &inner); err != nil {
				return nil, err
			}
			if raw, ok := inner["OnDate"]; ok {
				var v MonthDeltaDate
				if err := json.Unmarshal(raw, &v); err != nil {
					return nil, err
				}
				return v, nil
			}
			if raw, ok := inner["OnWeek"]; ok {
				var v MonthDeltaWeek
				if err := json.Unmarshal(raw, &v); err != nil {
					return nil, err
				}
				return v, nil
			}
			return nil, fmt.Errorf("unmarshal delta: month variant missing OnDate/OnWeek")
		case "Year":
			var v YearDelta
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, fmt.Errorf("unmarshal delta: unknown variant %q", tag)
		}
	}
	return nil, fmt.Errorf("unmarshal delta: empty object")
}

func marshalEnd(e End) (json.RawMessage, error) {
	switch v := e.(type) {
	case Never:
		return json.Marshal("Never")
	case UntilDate:
		return json.Marshal(map[string]SimpleDate{"Date": v.Date})
	case ForCount:
		return json.Marshal(map[string]int{"Count": v.Count})
	default:
		return nil, fmt.Errorf("marshal end: unknown type %T", e)
	}
}

func unmarshalEnd(b json.RawMessage) (End, error) {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		if name == "Never" {
			return Never{}, nil
		}
		return nil, fmt.Errorf("unmarshal end: unknown variant %q", name)
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return nil, err
	}
	if raw, ok := tagged["Date"]; ok {
		var d SimpleDate
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return UntilDate{Date: d}, nil
	}
	if raw, ok := tagged["Count"]; ok {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return ForCount{Count: n}, nil
	}
	return nil, fmt.Errorf("unmarshal end: unknown variant")
}

func (r Repetition) MarshalJSON() ([]byte, error) {
	delta, err := marshalDelta(r.Delta)
	if err != nil {
		return nil, err
	}
	end, err := marshalEnd(r.End)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{
		"delta": delta,
		"end":   end,
	})
}

func (r *Repetition) UnmarshalJSON(b []byte) error {
	var payload struct {
		Delta json.RawMessage `json:"delta"`
		End   json.RawMessage `json:"end"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return err
	}

	delta, err := unmarshalDelta(payload.Delta)
	if err != nil {
		return err
	}
	end, err := unmarshalEnd(payload.End)
	if err != nil {
		return err
	}

	r.Delta = delta
	r.End = end
	return nil
}
