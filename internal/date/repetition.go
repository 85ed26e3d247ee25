package date

import (
	"fmt"
	"strings"
)

// End is the termination condition of a recurring schedule.
type End interface {
	fmt.Stringer
	isEnd()
}

// Never marks a schedule that runs forever.
type Never struct{}

func (Never) isEnd()         {}
func (Never) String() string { return "never ending" }

// UntilDate ends a schedule on the last occurrence that does not exceed Date.
type UntilDate struct {
	Date SimpleDate
}

func (UntilDate) isEnd() {}

func (u UntilDate) String() string { return fmt.Sprintf("ending on %s", u.Date) }

// ForCount ends a schedule after a fixed number of recurrence steps.
type ForCount struct {
	Count int
}

func (ForCount) isEnd() {}

func (c ForCount) String() string {
	if c.Count == 1 {
		return "ending after 1 occurrence"
	}
	return fmt.Sprintf("ending after %d occurrences", c.Count)
}

// Repetition is a complete recurring schedule: a step rule plus a
// termination condition. It is immutable after construction.
type Repetition struct {
	Delta Delta
	End   End
}

// Last computes the date of the final occurrence of the schedule when
// started at start.
//
// Never-ending schedules return the Max sentinel. Count schedules apply the
// delta exactly Count times (zero applications return start unchanged).
// Date-bounded schedules step forward while staying at or before the bound
// and return the last occurrence that does not exceed it; if start is
// already at or past the bound, start is returned.
func (r Repetition) Last(start SimpleDate) SimpleDate {
	end := start

	switch e := r.End.(type) {
	case Never:
		return Max

	case ForCount:
		for i := 0; i < e.Count; i++ {
			end = r.Delta.Advance(end)
		}

	case UntilDate:
		for end.Before(e.Date) {
			next := r.Delta.Advance(end)
			if next.After(e.Date) {
				return end
			}
			end = next
		}
	}

	return end
}

// String renders the schedule as an English phrase, e.g.
// "3 weeks on Monday ending after 5 occurrences".
func (r Repetition) String() string {
	var b strings.Builder
	b.WriteString(r.Delta.String())
	if _, never := r.End.(Never); !never {
		b.WriteString(" ")
		b.WriteString(r.End.String())
	}
	return b.String()
}
