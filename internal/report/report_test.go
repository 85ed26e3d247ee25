package report

import (
	"testing"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"
)

func entry(kind core.Kind, desc string, cents int64, start date.SimpleDate, tags ...string) core.Entry {
	return core.Entry{
		Kind:        kind,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Start:       start,
		Tags:        tags,
	}
}

func TestFilterByPattern(t *testing.T) {
	entries := []core.Entry{
		entry(core.KindExpense, "rent september", 95000, date.FromYMD(2020, 9, 1)),
		entry(core.KindExpense, "groceries", 4200, date.FromYMD(2020, 9, 3), "food"),
		entry(core.KindIncome, "salary", 250000, date.FromYMD(2020, 9, 25)),
	}

	f, err := NewFilter("RENT", mo.None[date.SimpleDate](), mo.None[date.SimpleDate]())
	if err != nil {
		t.Fatal(err)
	}
	got := Select(entries, f)
	if len(got) != 1 || got[0].Description != "rent september" {
		t.Fatalf("expected only the rent entry, got %d entries", len(got))
	}

	// Tags participate in text matching.
	f, err = NewFilter("^food$", mo.None[date.SimpleDate](), mo.None[date.SimpleDate]())
	if err != nil {
		t.Fatal(err)
	}
	got = Select(entries, f)
	if len(got) != 1 || got[0].Description != "groceries" {
		t.Fatalf("expected only the groceries entry, got %d entries", len(got))
	}
}

func TestFilterRejectsBadPattern(t *testing.T) {
	_, err := NewFilter("(unclosed", mo.None[date.SimpleDate](), mo.None[date.SimpleDate]())
	if err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestFilterByDateRange(t *testing.T) {
	repeating := entry(core.KindExpense, "gym", 3000, date.FromYMD(2020, 1, 10))
	repeating.Repeat = mo.Some(date.Repetition{
		Delta: date.MonthDeltaDate{Nth: 1, Days: []int{10}},
		End:   date.ForCount{Count: 6},
	})
	oneShot := entry(core.KindExpense, "concert", 8000, date.FromYMD(2020, 9, 12))

	entries := []core.Entry{repeating, oneShot}

	f, err := NewFilter("",
		mo.Some(date.FromYMD(2020, 3, 1)),
		mo.Some(date.FromYMD(2020, 3, 31)))
	if err != nil {
		t.Fatal(err)
	}
	got := Select(entries, f)
	if len(got) != 1 || got[0].Description != "gym" {
		t.Fatalf("expected only the gym entry in march, got %d entries", len(got))
	}

	// Open-ended lower bound.
	f, err = NewFilter("", mo.Some(date.FromYMD(2020, 9, 1)), mo.None[date.SimpleDate]())
	if err != nil {
		t.Fatal(err)
	}
	got = Select(entries, f)
	if len(got) != 1 || got[0].Description != "concert" {
		t.Fatalf("expected only the concert entry from september on, got %d entries", len(got))
	}
}

func TestSummarize(t *testing.T) {
	entries := []core.Entry{
		entry(core.KindIncome, "salary", 250000, date.FromYMD(2020, 9, 25)),
		entry(core.KindExpense, "rent", 95000, date.FromYMD(2020, 9, 1)),
		entry(core.KindExpense, "groceries", 4200, date.FromYMD(2020, 9, 3)),
	}

	s := Summarize(entries)
	if s.Income.Cents != 250000 {
		t.Fatalf("income: expected 250000, got %d", s.Income.Cents)
	}
	if s.Expenses.Cents != 99200 {
		t.Fatalf("expenses: expected 99200, got %d", s.Expenses.Cents)
	}
	if s.Net != 150800 {
		t.Fatalf("net: expected 150800, got %d", s.Net)
	}
}
