// Package report filters and totals ledger entries for display: free-text
// regular expression matching over descriptions and tags, combined with
// calendar-range overlap checks.
package report

import (
	"regexp"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"
)

// Filter selects ledger entries. A nil Pattern matches everything; absent
// bounds leave that side of the range open.
type Filter struct {
	Pattern *regexp.Regexp
	From    mo.Option[date.SimpleDate]
	To      mo.Option[date.SimpleDate]
}

// NewFilter compiles pattern (case-insensitive) into a Filter. An empty
// pattern matches every entry.
func NewFilter(pattern string, from, to mo.Option[date.SimpleDate]) (Filter, error) {
	f := Filter{From: from, To: to}
	if pattern != "" {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return Filter{}, err
		}
		f.Pattern = re
	}
	return f, nil
}

// Match reports whether the entry passes the text and date criteria. The
// text pattern matches against the description or any tag.
func (f Filter) Match(e core.Entry) bool {
	if f.Pattern != nil && !f.matchText(e) {
		return false
	}

	from, hasFrom := f.From.Get()
	to, hasTo := f.To.Get()
	switch {
	case hasFrom && hasTo:
		return e.ActiveDuring(from, to)
	case hasFrom:
		return !e.End().Before(from)
	case hasTo:
		return !e.Start.After(to)
	default:
		return true
	}
}

func (f Filter) matchText(e core.Entry) bool {
	if f.Pattern.MatchString(e.Description) {
		return true
	}
	for _, tag := range e.Tags {
		if f.Pattern.MatchString(tag) {
			return true
		}
	}
	return false
}

// Select returns the entries passing the filter, preserving order.
func Select(entries []core.Entry, f Filter) []core.Entry {
	var out []core.Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the net position of a set of entries.
type Summary struct {
	Income   core.Money
	Expenses core.Money
	Net      int64
}

// Summarize totals entries by kind. Net is income minus expenses in cents.
func Summarize(entries []core.Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case core.KindIncome:
			s.Income.Cents += e.Amount.Cents
		case core.KindExpense:
			s.Expenses.Cents += e.Amount.Cents
		}
	}
	s.Net = s.Income.Cents - s.Expenses.Cents
	return s
}
