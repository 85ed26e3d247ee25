package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tight/internal/cache"
	"tight/internal/date"
	"tight/internal/log"
)

// ScheduleService parses natural-language schedule phrases into recurrence
// rules. Parsed rules are cached because the same phrases show up over and
// over in API requests and worker runs.
type ScheduleService struct {
	cache  *cache.LRU[date.Repetition]
	logger *log.Logger
}

func NewScheduleService(cacheSize int, cacheTTL time.Duration) *ScheduleService {
	return &ScheduleService{
		cache:  cache.NewLRU[date.Repetition](cacheSize, cacheTTL),
		logger: log.New(log.ComponentScheduler, slog.LevelInfo),
	}
}

// Parse turns a schedule phrase and a termination phrase into a Repetition
// anchored at start. Results are cached per (schedule, end, start) triple
// because phrases like "weekly" depend on the start date for their defaults.
func (s *ScheduleService) Parse(ctx context.Context, schedule, end string, start date.SimpleDate) (date.Repetition, error) {
	key := cacheKey(schedule, end, start)
	if rep, ok := s.cache.Get(key); ok {
		return rep, nil
	}

	rep, err := date.ParseRepetition(schedule, end, start)
	if err != nil {
		return date.Repetition{}, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}

	s.cache.Set(key, rep)
	s.logger.DebugContext(ctx, "Parsed schedule",
		log.FieldSchedule, schedule,
		"rule", rep.String())
	return rep, nil
}

// Preview returns up to limit occurrence dates of the schedule, starting at
// start. The start date itself is the first occurrence. The preview stops
// early when the schedule's own termination is reached.
func (s *ScheduleService) Preview(ctx context.Context, schedule, end string, start date.SimpleDate, limit int) ([]date.SimpleDate, error) {
	rep, err := s.Parse(ctx, schedule, end, start)
	if err != nil {
		return nil, err
	}

	last := rep.Last(start)
	out := make([]date.SimpleDate, 0, limit)
	current := start
	for len(out) < limit && !current.After(last) {
		out = append(out, current)
		next := rep.Delta.Advance(current)
		if !next.After(current) {
			break // schedule does not move forward, stop rather than spin
		}
		current = next
	}
	return out, nil
}

func cacheKey(schedule, end string, start date.SimpleDate) string {
	return strings.Join([]string{schedule, end, start.String()}, "|")
}
