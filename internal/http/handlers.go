package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"

	"tight/internal/core"
	"tight/internal/date"
	"tight/internal/ical"
	"tight/internal/storage"
)

type entryRequest struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Spread      string   `json:"spread,omitempty"`
	Schedule    string   `json:"schedule,omitempty"`
	ScheduleEnd string   `json:"schedule_end,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type entryResponse struct {
	ID          int64    `json:"id"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	AmountCents int64    `json:"amount_cents"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Spread      string   `json:"spread,omitempty"`
	Schedule    string   `json:"schedule,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func toEntryResponse(e core.Entry) entryResponse {
	resp := entryResponse{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Description: e.Description,
		AmountCents: e.Amount.Cents,
		Start:       e.Start.String(),
		Tags:        e.Tags,
	}
	if end := e.End(); end != date.Max {
		resp.End = end.String()
	}
	if spread, ok := e.Spread.Get(); ok {
		resp.Spread = spread.String()
	}
	if rep, ok := e.Repeat.Get(); ok {
		resp.Schedule = rep.String()
	}
	return resp
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.createEntry(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.entryFromRequest(r, req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.ledger.CreateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not save entry")
		return
	}

	entry.ID = id
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) entryFromRequest(r *http.Request, req entryRequest) (core.Entry, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("amount: %w", err)
	}

	start, err := date.ParseDate(req.Date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("date: %w", err)
	}

	entry := core.Entry{
		Kind:        core.Kind(strings.ToLower(req.Kind)),
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Start:       start,
		Spread:      mo.None[date.Duration](),
		Repeat:      mo.None[date.Repetition](),
		Tags:        req.Tags,
	}

	if req.Spread != "" {
		spread, err := date.ParseDuration(req.Spread)
		if err != nil {
			return core.Entry{}, fmt.Errorf("spread: %w", err)
		}
		entry.Spread = mo.Some(spread)
	}

	if req.Schedule != "" {
		rep, err := s.schedules.Parse(r.Context(), req.Schedule, req.ScheduleEnd, start)
		if err != nil {
			return core.Entry{}, fmt.Errorf("schedule: %w", err)
		}
		entry.Repeat = mo.Some(rep)
	}

	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}

	return entry, nil
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list entries")
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := s.ledger.GetEntry(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load entry")
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(entry))

	case http.MethodDelete:
		err := s.ledger.DeleteEntry(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not delete entry")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type reportResponse struct {
	Entries       []entryResponse `json:"entries"`
	IncomeCents   int64           `json:"income_cents"`
	ExpensesCents int64           `json:"expenses_cents"`
	NetCents      int64           `json:"net_cents"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, err := optionalDateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "from: invalid date")
		return
	}
	to, err := optionalDateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "to: invalid date")
		return
	}

	entries, summary, err := s.ledger.Report(r.Context(), r.URL.Query().Get("q"), from, to)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := reportResponse{
		Entries:       make([]entryResponse, 0, len(entries)),
		IncomeCents:   summary.Income.Cents,
		ExpensesCents: summary.Expenses.Cents,
		NetCents:      summary.Net,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

type previewResponse struct {
	Schedule string   `json:"schedule"`
	Dates    []string `json:"dates"`
}

func (s *Server) handleSchedulePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	schedule := q.Get("schedule")
	if schedule == "" {
		writeError(w, http.StatusBadRequest, "schedule parameter is required")
		return
	}

	start := date.Today()
	if raw := q.Get("start"); raw != "" {
		var err error
		if start, err = date.ParseDate(raw); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "start: invalid date")
			return
		}
	}

	limit := 10
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	rep, err := s.schedules.Parse(r.Context(), schedule, q.Get("end"), start)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	dates, err := s.schedules.Preview(r.Context(), schedule, q.Get("end"), start, limit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := previewResponse{Schedule: rep.String(), Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := s.ledger.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list entries")
		return
	}

	cal, err := ical.Feed(entries, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := ical.Encode(w, cal); err != nil {
		// Headers are gone already, nothing better to do than log upstream.
		return
	}
}

func optionalDateParam(r *http.Request, name string) (mo.Option[date.SimpleDate], error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return mo.None[date.SimpleDate](), nil
	}
	d, err := date.ParseDate(raw)
	if err != nil {
		return mo.None[date.SimpleDate](), err
	}
	return mo.Some(d), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
