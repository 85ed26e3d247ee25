package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"
	"tight/internal/log"
	"tight/internal/report"
)

// EntryStore is the slice of the repository the ledger needs.
type EntryStore interface {
	CreateEntry(ctx context.Context, e core.Entry) (int64, error)
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	ListEntries(ctx context.Context) ([]core.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// LedgerService orchestrates entry operations: validation, persistence and
// reporting.
type LedgerService struct {
	store  EntryStore
	logger *log.Logger
}

func NewLedgerService(store EntryStore) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: log.New(log.ComponentServer, slog.LevelInfo),
	}
}

// CreateEntry validates and persists a ledger entry, returning its id.
func (s *LedgerService) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate entry: %w", err)
	}

	id, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save entry: %w", err)
	}

	if rep, ok := e.Repeat.Get(); ok {
		s.logger.InfoContext(ctx, "Created repeating entry",
			log.FieldEntryID, id,
			log.FieldSchedule, rep.String())
	}

	return id, nil
}

func (s *LedgerService) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	return s.store.GetEntry(ctx, id)
}

func (s *LedgerService) ListEntries(ctx context.Context) ([]core.Entry, error) {
	return s.store.ListEntries(ctx)
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Deleted entry", log.FieldEntryID, id)
	return nil
}

// Report selects the entries matching the filter and totals them up.
func (s *LedgerService) Report(ctx context.Context, pattern string, from, to mo.Option[date.SimpleDate]) ([]core.Entry, report.Summary, error) {
	filter, err := report.NewFilter(pattern, from, to)
	if err != nil {
		return nil, report.Summary{}, fmt.Errorf("build filter: %w", err)
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, report.Summary{}, fmt.Errorf("list entries: %w", err)
	}

	selected := report.Select(entries, filter)
	return selected, report.Summarize(selected), nil
}
