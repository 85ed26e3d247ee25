package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tight/internal/amqp"
	"tight/internal/core"
	"tight/internal/date"
	"tight/internal/log"
	"tight/internal/storage"
)

// EntrySource resolves the entry a message refers to and records its due
// dates.
type EntrySource interface {
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	RecordOccurrence(ctx context.Context, entryID int64, due date.SimpleDate) (bool, error)
}

// MaterializeWorker turns occurrence messages into persisted occurrence
// rows. Recording is idempotent, so redelivered messages are harmless.
type MaterializeWorker struct {
	source EntrySource
	logger *log.Logger
}

func NewMaterializeWorker(source EntrySource) *MaterializeWorker {
	return &MaterializeWorker{
		source: source,
		logger: log.New(log.ComponentWorker, slog.LevelInfo),
	}
}

// HandleOccurrenceMessage processes a single occurrence message from AMQP.
func (w *MaterializeWorker) HandleOccurrenceMessage(ctx context.Context, msg *amqp.OccurrenceMessage) error {
	w.logger.InfoContext(ctx, "Processing occurrence message",
		log.FieldRequestID, msg.TraceID,
		log.FieldEntryID, msg.EntryID,
		log.FieldDueDate, msg.Due.String())

	entry, err := w.source.GetEntry(ctx, msg.EntryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The entry was deleted after the message was published; there is
			// nothing to materialize and a requeue would never succeed.
			w.logger.WarnContext(ctx, "Entry for occurrence no longer exists, dropping message",
				log.FieldRequestID, msg.TraceID,
				log.FieldEntryID, msg.EntryID)
			return nil
		}
		return fmt.Errorf("get entry from storage: %w", err)
	}

	inserted, err := w.source.RecordOccurrence(ctx, msg.EntryID, msg.Due)
	if err != nil {
		return fmt.Errorf("record occurrence: %w", err)
	}

	if !inserted {
		w.logger.DebugContext(ctx, "Occurrence already materialized",
			log.FieldRequestID, msg.TraceID,
			log.FieldEntryID, msg.EntryID,
			log.FieldDueDate, msg.Due.String())
		return nil
	}

	w.logger.InfoContext(ctx, "Materialized occurrence",
		log.FieldRequestID, msg.TraceID,
		log.FieldEntryID, msg.EntryID,
		log.FieldDueDate, msg.Due.String(),
		"description", entry.Description,
		"amount_cents", entry.Amount.Cents)

	return nil
}
