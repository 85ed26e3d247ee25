package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tight/internal/core"
	"tight/internal/services"
	"tight/internal/storage"
)

type memStore struct {
	entries map[int64]core.Entry
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[int64]core.Entry), nextID: 1}
}

func (m *memStore) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	id := m.nextID
	m.nextID++
	e.ID = id
	m.entries[id] = e
	return id, nil
}

func (m *memStore) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return core.Entry{}, storage.ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListEntries(ctx context.Context) ([]core.Entry, error) {
	out := make([]core.Entry, 0, len(m.entries))
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DeleteEntry(ctx context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func newTestServer() *Server {
	return NewServer(":0",
		services.NewLedgerService(newMemStore()),
		services.NewScheduleService(16, time.Minute))
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetEntry(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	h := s.Server.Handler

	rec := doJSON(t, h, http.MethodPost, "/api/entries", entryRequest{
		Kind:        "expense",
		Description: "gym membership",
		Amount:      "29.50",
		Date:        "2024-01-10",
		Schedule:    "monthly on the 10th",
		ScheduleEnd: "after 6 times",
		Tags:        []string{"health"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(2950), created.AmountCents)
	assert.Equal(t, "2024-01-10", created.Start)
	assert.Equal(t, "2024-07-10", created.End)
	assert.Equal(t, "month on the 10th ending after 6 occurrences", created.Schedule)

	rec = doJSON(t, h, http.MethodGet, "/api/entries/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got entryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestCreateEntryRejectsBadInput(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	h := s.Server.Handler

	cases := []struct {
		name string
		req  entryRequest
	}{
		{"bad amount", entryRequest{Kind: "expense", Description: "x", Amount: "not money", Date: "2024-01-10"}},
		{"bad date", entryRequest{Kind: "expense", Description: "x", Amount: "1.00", Date: "2024-13-01"}},
		{"bad schedule", entryRequest{Kind: "expense", Description: "x", Amount: "1.00", Date: "2024-01-10", Schedule: "sometimes"}},
		{"bad kind", entryRequest{Kind: "loan", Description: "x", Amount: "1.00", Date: "2024-01-10"}},
		{"empty description", entryRequest{Kind: "expense", Amount: "1.00", Date: "2024-01-10"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/entries", tc.req)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestEntryNotFound(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doJSON(t, s.Server.Handler, http.MethodGet, "/api/entries/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	h := s.Server.Handler

	rec := doJSON(t, h, http.MethodPost, "/api/entries", entryRequest{
		Kind: "income", Description: "salary", Amount: "2500", Date: "2024-03-27",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/entries/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/entries/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchedulePreview(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doJSON(t, s.Server.Handler, http.MethodGet,
		"/api/schedule/preview?schedule=every+2+weeks+on+mon&start=2020-09-07&limit=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2 weeks on Monday", resp.Schedule)
	assert.Equal(t, []string{"2020-09-07", "2020-09-21", "2020-10-05"}, resp.Dates)
}

func TestSchedulePreviewRequiresSchedule(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doJSON(t, s.Server.Handler, http.MethodGet, "/api/schedule/preview", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	h := s.Server.Handler

	for _, req := range []entryRequest{
		{Kind: "expense", Description: "rent march", Amount: "900", Date: "2024-03-01"},
		{Kind: "income", Description: "salary march", Amount: "2500", Date: "2024-03-27"},
		{Kind: "expense", Description: "groceries", Amount: "120", Date: "2024-04-02"},
	} {
		rec := doJSON(t, h, http.MethodPost, "/api/entries", req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/report?q=march", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(250000), resp.IncomeCents)
	assert.Equal(t, int64(90000), resp.ExpensesCents)
	assert.Equal(t, int64(160000), resp.NetCents)
}

func TestCalendarFeed(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	h := s.Server.Handler

	rec := doJSON(t, h, http.MethodPost, "/api/entries", entryRequest{
		Kind: "expense", Description: "gym", Amount: "29.50", Date: "2024-01-10",
		Schedule: "monthly on the 10th",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/calendar.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "RRULE:FREQ=MONTHLY")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doJSON(t, s.Server.Handler, http.MethodPut, "/api/entries", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doJSON(t, s.Server.Handler, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
