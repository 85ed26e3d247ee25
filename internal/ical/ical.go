// Package ical exports ledger entries as an iCalendar feed. Recurrence
// rules are translated into RRULEs so any calendar client can expand them.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"tight/internal/core"
	"tight/internal/date"
)

const productID = "-//tight//NONSGML v1.0//EN"

var rruleWeekdays = map[date.Weekday]rrule.Weekday{
	date.Monday:    rrule.MO,
	date.Tuesday:   rrule.TU,
	date.Wednesday: rrule.WE,
	date.Thursday:  rrule.TH,
	date.Friday:    rrule.FR,
	date.Saturday:  rrule.SA,
	date.Sunday:    rrule.SU,
}

func toTime(d date.SimpleDate) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// RuleOption translates a recurrence rule anchored at start into an rrule
// option set.
func RuleOption(rep date.Repetition, start date.SimpleDate) (rrule.ROption, error) {
	opt := rrule.ROption{Dtstart: toTime(start), Wkst: rrule.MO}

	switch delta := rep.Delta.(type) {
	case date.DayDelta:
		opt.Freq = rrule.DAILY
		opt.Interval = delta.Nth

	case date.WeekDelta:
		opt.Freq = rrule.WEEKLY
		opt.Interval = delta.Nth
		for _, day := range delta.On {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[day])
		}

	case date.MonthDeltaDate:
		opt.Freq = rrule.MONTHLY
		opt.Interval = delta.Nth
		opt.Bymonthday = delta.Days

	case date.MonthDeltaWeek:
		opt.Freq = rrule.MONTHLY
		opt.Interval = delta.Nth
		// WeekID is zero-based as parsed ("first" is 0).
		wd := rruleWeekdays[delta.Day]
		opt.Byweekday = []rrule.Weekday{wd.Nth(delta.WeekID + 1)}

	case date.YearDelta:
		opt.Freq = rrule.YEARLY
		opt.Interval = delta.Nth

	default:
		return rrule.ROption{}, fmt.Errorf("unsupported delta type %T", rep.Delta)
	}

	switch end := rep.End.(type) {
	case date.Never:
	case date.ForCount:
		// RRULE counts occurrences including DTSTART; the schedule counts
		// steps after the start.
		opt.Count = end.Count + 1
	case date.UntilDate:
		opt.Until = toTime(end.Date)
	default:
		return rrule.ROption{}, fmt.Errorf("unsupported end type %T", rep.End)
	}

	return opt, nil
}

// NewRule builds a computable RRULE from a recurrence rule.
func NewRule(rep date.Repetition, start date.SimpleDate) (*rrule.RRule, error) {
	opt, err := RuleOption(rep, start)
	if err != nil {
		return nil, err
	}
	return rrule.NewRRule(opt)
}

// Feed renders the entries as a VCALENDAR with one VEVENT per entry.
// Repeating entries carry an RRULE; one-off entries are single events.
func Feed(entries []core.Entry, now time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, e := range entries {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("entry-%d@tight", e.ID))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, toTime(e.Start))
		event.Props.SetText(ical.PropSummary, e.Description)

		if rep, ok := e.Repeat.Get(); ok {
			rule, err := NewRule(rep, e.Start)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", e.ID, err)
			}
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.Value = rule.OrigOptions.RRuleString()
			event.Props.Set(prop)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	return cal, nil
}

// Encode writes the feed in wire format.
func Encode(w io.Writer, cal *ical.Calendar) error {
	return ical.NewEncoder(w).Encode(cal)
}
