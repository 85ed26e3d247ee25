package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"
	"tight/internal/log"
)

// Guards against schedules that advance very slowly relative to the catchup
// window, e.g. a daily rule on an entry that starts years in the past.
const maxOccurrencesPerRun = 1000

// TemplateSource lists repeating entries and tracks which of their due
// dates have already been materialized.
type TemplateSource interface {
	ListRepeating(ctx context.Context) ([]core.Entry, error)
	LastOccurrence(ctx context.Context, entryID int64) (mo.Option[date.SimpleDate], error)
	RecordOccurrence(ctx context.Context, entryID int64, due date.SimpleDate) (bool, error)
}

// OccurrencePublisher announces newly materialized due dates downstream.
type OccurrencePublisher interface {
	PublishOccurrence(ctx context.Context, entryID int64, due date.SimpleDate) error
}

// RecurringProcessor walks every repeating entry and materializes the due
// dates that have arrived since the last run.
type RecurringProcessor struct {
	source    TemplateSource
	publisher OccurrencePublisher
	logger    *log.Logger
}

func NewRecurringProcessor(source TemplateSource, publisher OccurrencePublisher) *RecurringProcessor {
	return &RecurringProcessor{
		source:    source,
		publisher: publisher,
		logger:    log.New(log.ComponentScheduler, slog.LevelInfo),
	}
}

// ProcessDue materializes, for every repeating entry, all occurrences due on
// or before today that have not been recorded yet. It returns the number of
// newly recorded occurrences. Errors on individual entries are logged and
// skipped so one broken template cannot stall the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, today date.SimpleDate) (int, error) {
	if p.source == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.source.ListRepeating(ctx)
	if err != nil {
		return 0, fmt.Errorf("list repeating entries: %w", err)
	}

	p.logger.InfoContext(ctx, "Processing repeating entries",
		"total_templates", len(templates),
		"processing_date", today.String())

	processed := 0
	for _, entry := range templates {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		n, err := p.processEntry(ctx, entry, today)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to process repeating entry",
				log.FieldEntryID, entry.ID,
				log.FieldError, err)
			continue
		}
		processed += n
	}

	p.logger.InfoContext(ctx, "Repeating entry processing complete",
		"recorded", processed,
		"total_templates", len(templates))

	return processed, nil
}

func (p *RecurringProcessor) processEntry(ctx context.Context, entry core.Entry, today date.SimpleDate) (int, error) {
	rep, ok := entry.Repeat.Get()
	if !ok {
		return 0, nil
	}

	last := rep.Last(entry.Start)

	cursor, err := p.source.LastOccurrence(ctx, entry.ID)
	if err != nil {
		return 0, fmt.Errorf("last occurrence: %w", err)
	}

	// The start date itself is the first occurrence of a schedule.
	due := entry.Start
	if prev, ok := cursor.Get(); ok {
		due = rep.Delta.Advance(prev)
		if !due.After(prev) {
			return 0, fmt.Errorf("schedule %q does not advance past %s", rep, prev)
		}
	}

	recorded := 0
	for i := 0; i < maxOccurrencesPerRun; i++ {
		if due.After(today) || due.After(last) {
			break
		}

		inserted, err := p.source.RecordOccurrence(ctx, entry.ID, due)
		if err != nil {
			return recorded, fmt.Errorf("record occurrence %s: %w", due, err)
		}

		if inserted {
			recorded++
			p.publish(ctx, entry.ID, due)
		}

		next := rep.Delta.Advance(due)
		if !next.After(due) {
			return recorded, fmt.Errorf("schedule %q does not advance past %s", rep, due)
		}
		due = next
	}

	if recorded > 0 {
		p.logger.InfoContext(ctx, "Materialized occurrences",
			log.FieldEntryID, entry.ID,
			"count", recorded,
			log.FieldSchedule, rep.String())
	}

	return recorded, nil
}

func (p *RecurringProcessor) publish(ctx context.Context, entryID int64, due date.SimpleDate) {
	if p.publisher == nil {
		p.logger.WarnContext(ctx, "Publisher not available, skipping occurrence message",
			log.FieldEntryID, entryID)
		return
	}

	// Recording already succeeded; a failed publish is logged, not fatal.
	if err := p.publisher.PublishOccurrence(ctx, entryID, due); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish occurrence message",
			log.FieldEntryID, entryID,
			log.FieldDueDate, due.String(),
			log.FieldError, err)
	}
}
