package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("entry not found")

// Occurrence is a single materialized due date of a repeating entry.
type Occurrence struct {
	ID      int64
	EntryID int64
	Due     date.SimpleDate
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEntry persists a ledger entry and returns its assigned id. Spread and
// repetition are stored as their wire JSON so a row round-trips without loss.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	spread, err := encodeOptional(e.Spread)
	if err != nil {
		return 0, fmt.Errorf("encode spread: %w", err)
	}
	repetition, err := encodeOptional(e.Repeat)
	if err != nil {
		return 0, fmt.Errorf("encode repetition: %w", err)
	}
	tags, err := json.Marshal(tagsOrEmpty(e.Tags))
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (kind, description, amount_cents, start_date, spread, repetition, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(e.Kind), e.Description, e.Amount.Cents, e.Start.String(), spread, repetition, string(tags))
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry id: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", id,
		"kind", e.Kind,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"start_date", e.Start.String(),
		"repeating", e.Repeat.IsPresent())

	return id, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, description, amount_cents, start_date, spread, repetition, tags
		 FROM entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT id, kind, description, amount_cents, start_date, spread, repetition, tags
		 FROM entries ORDER BY start_date, id`)
}

// ListRepeating returns the entries that carry a repetition rule. These are
// the templates the recurring processor expands into occurrences.
func (r *SQLiteRepository) ListRepeating(ctx context.Context) ([]core.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT id, kind, description, amount_cents, start_date, spread, repetition, tags
		 FROM entries WHERE repetition IS NOT NULL ORDER BY id`)
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordOccurrence inserts a materialized due date for an entry. It reports
// whether the row was new; recording the same due date twice is a no-op.
func (r *SQLiteRepository) RecordOccurrence(ctx context.Context, entryID int64, due date.SimpleDate) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO occurrences (entry_id, due_date) VALUES (?, ?)`,
		entryID, due.String())
	if err != nil {
		return false, fmt.Errorf("record occurrence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record occurrence: %w", err)
	}
	return n > 0, nil
}

// LastOccurrence returns the most recent materialized due date for an entry,
// or None when nothing has been materialized yet.
func (r *SQLiteRepository) LastOccurrence(ctx context.Context, entryID int64) (mo.Option[date.SimpleDate], error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(due_date) FROM occurrences WHERE entry_id = ?`, entryID).Scan(&raw)
	if err != nil {
		return mo.None[date.SimpleDate](), fmt.Errorf("last occurrence: %w", err)
	}
	if !raw.Valid {
		return mo.None[date.SimpleDate](), nil
	}
	d, err := date.ParseDate(raw.String)
	if err != nil {
		return mo.None[date.SimpleDate](), fmt.Errorf("decode due date %q: %w", raw.String, err)
	}
	return mo.Some(d), nil
}

// ListOccurrences returns all materialized occurrences due in [from, to],
// ordered by due date.
func (r *SQLiteRepository) ListOccurrences(ctx context.Context, from, to date.SimpleDate) ([]Occurrence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_id, due_date FROM occurrences
		 WHERE due_date >= ? AND due_date <= ? ORDER BY due_date, id`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	defer rows.Close()

	var out []Occurrence
	for rows.Next() {
		var o Occurrence
		var raw string
		if err := rows.Scan(&o.ID, &o.EntryID, &raw); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		if o.Due, err = date.ParseDate(raw); err != nil {
			return nil, fmt.Errorf("decode due date %q: %w", raw, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (core.Entry, error) {
	var (
		e          core.Entry
		kind       string
		start      string
		spread     sql.NullString
		repetition sql.NullString
		tags       string
	)
	if err := row.Scan(&e.ID, &kind, &e.Description, &e.Amount.Cents, &start, &spread, &repetition, &tags); err != nil {
		return core.Entry{}, err
	}

	e.Kind = core.Kind(kind)

	var err error
	if e.Start, err = date.ParseDate(start); err != nil {
		return core.Entry{}, fmt.Errorf("decode start date %q: %w", start, err)
	}

	e.Spread = mo.None[date.Duration]()
	if spread.Valid {
		var d date.Duration
		if err := json.Unmarshal([]byte(spread.String), &d); err != nil {
			return core.Entry{}, fmt.Errorf("decode spread: %w", err)
		}
		e.Spread = mo.Some(d)
	}

	e.Repeat = mo.None[date.Repetition]()
	if repetition.Valid {
		var rep date.Repetition
		if err := json.Unmarshal([]byte(repetition.String), &rep); err != nil {
			return core.Entry{}, fmt.Errorf("decode repetition: %w", err)
		}
		e.Repeat = mo.Some(rep)
	}

	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return core.Entry{}, fmt.Errorf("decode tags: %w", err)
	}

	return e, nil
}

// encodeOptional marshals a present value to its JSON text and maps None to a
// SQL NULL.
func encodeOptional[T any](opt mo.Option[T]) (any, error) {
	v, ok := opt.Get()
	if !ok {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
