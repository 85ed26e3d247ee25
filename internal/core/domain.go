// Package core holds the ledger domain: entries (expenses and income),
// amounts in cents, and the rules for when a recurring entry is active.
package core

import (
	"errors"
	"strings"

	"github.com/samber/mo"

	"tight/internal/date"
)

// Kind discriminates ledger entries.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

var (
	ErrInvalidKind      = errors.New("invalid entry kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidStartDate = errors.New("invalid start date")
)

// Money is an amount in cents. Calculations stay integral; floating point
// only appears at display boundaries.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Entry is a single ledger record. A plain entry happens once on Start; a
// spread entry covers Start plus a duration; a repeating entry recurs per
// its Repetition until the schedule ends.
type Entry struct {
	ID          int64
	Kind        Kind
	Description string
	Amount      Money
	Start       date.SimpleDate
	Spread      mo.Option[date.Duration]
	Repeat      mo.Option[date.Repetition]
	Tags        []string
}

func (e Entry) Validate() error {
	switch e.Kind {
	case KindExpense, KindIncome:
	default:
		return ErrInvalidKind
	}

	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}

	if err := e.Amount.Validate(); err != nil {
		return err
	}

	if e.Start.Month < 1 || e.Start.Month > 12 {
		return ErrInvalidStartDate
	}
	if e.Start.Day < 1 || e.Start.Day > date.DaysInMonth(e.Start.Year, e.Start.Month) {
		return ErrInvalidStartDate
	}

	return nil
}

// End returns the last calendar day the entry covers: the final occurrence
// of its schedule, extended by the spread window when present. Never-ending
// schedules yield date.Max.
func (e Entry) End() date.SimpleDate {
	end := e.Start
	if rep, ok := e.Repeat.Get(); ok {
		end = rep.Last(e.Start)
	}
	if spread, ok := e.Spread.Get(); ok && !end.Equal(date.Max) {
		end = end.Add(spread).Sub(date.Days(1))
	}
	return end
}

// ActiveDuring reports whether the entry covers any day in [from, to].
func (e Entry) ActiveDuring(from, to date.SimpleDate) bool {
	return !e.Start.After(to) && !e.End().Before(from)
}

// IsRepeating reports whether the entry carries a recurrence schedule.
func (e Entry) IsRepeating() bool {
	return e.Repeat.IsPresent()
}
