package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mind-engage/examdesk/internal/tablestore"
	"github.com/mind-engage/examdesk/internal/tablestore/rest"
)

type recorded struct {
	method, path, query, prefer, apikey, auth string
	body                                      []byte
}

func fakePostgREST(t *testing.T, status int, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method, path: r.URL.Path, query: r.URL.RawQuery,
			prefer: r.Header.Get("Prefer"), apikey: r.Header.Get("apikey"),
			auth: r.Header.Get("Authorization"), body: b,
		})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestUpsertRowsSendsMergeDuplicates(t *testing.T) {
	srv, calls := fakePostgREST(t, http.StatusCreated, "")
	c := rest.New(srv.URL+"/", "anon-key", srv.Client())

	err := c.UpsertRows(context.Background(), tablestore.TableQuestionSets, []tablestore.Row{{
		"id": "S1", "title": "t", "time_limit": 5, "is_live": true,
		"questions": json.RawMessage(`[{"id":"q1","options":["a","b"],"correctOption":"A"}]`),
	}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(*calls))
	}
	got := (*calls)[0]
	if got.method != http.MethodPost || got.path != "/rest/v1/question_sets" || got.query != "on_conflict=id" {
		t.Fatalf("unexpected request %s %s?%s", got.method, got.path, got.query)
	}
	if got.prefer != "resolution=merge-duplicates,return=minimal" {
		t.Fatalf("prefer = %q", got.prefer)
	}
	if got.apikey != "anon-key" || got.auth != "Bearer anon-key" {
		t.Fatalf("missing credentials: %q %q", got.apikey, got.auth)
	}
	var body []map[string]any
	if err := json.Unmarshal(got.body, &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	qs, ok := body[0]["questions"].([]any)
	if !ok || len(qs) != 1 {
		t.Fatalf("questions must be sent as a JSON array, got %T", body[0]["questions"])
	}
}

func TestFindRowFiltersAndNotFound(t *testing.T) {
	srv, calls := fakePostgREST(t, http.StatusOK, "[]")
	c := rest.New(srv.URL, "k", srv.Client())

	_, err := c.FindRow(context.Background(), tablestore.TableUsers, tablestore.Match{"username": "admin", "password": "123"})
	if !errors.Is(err, tablestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	q := (*calls)[0].query
	for _, want := range []string{"username=eq.admin", "password=eq.123", "limit=1"} {
		if !strings.Contains(q, want) {
			t.Fatalf("query %q missing %q", q, want)
		}
	}
}

func TestListRowsDecodesNumbers(t *testing.T) {
	srv, calls := fakePostgREST(t, http.StatusOK,
		`[{"id":"r1","user_id":"u1","exam_id":"S1","exam_title":"x","total_questions":10,"correct_answers":7,"timestamp":1700000000123}]`)
	c := rest.New(srv.URL, "k", srv.Client())

	rows, err := c.ListRows(context.Background(), tablestore.TableQuizResults)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || tablestore.Int64(rows[0]["timestamp"]) != 1700000000123 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if strings.Contains((*calls)[0].query, "order=") {
		t.Fatalf("results table has no default order")
	}
}

func TestErrorStatusPropagates(t *testing.T) {
	srv, _ := fakePostgREST(t, http.StatusConflict, `{"message":"duplicate key"}`)
	c := rest.New(srv.URL, "k", srv.Client())
	err := c.InsertRow(context.Background(), tablestore.TableQuizResults, tablestore.Row{"id": "r1"})
	if err == nil || !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestDeleteRequiresFilter(t *testing.T) {
	srv, calls := fakePostgREST(t, http.StatusNoContent, "")
	c := rest.New(srv.URL, "k", srv.Client())
	if err := c.DeleteRows(context.Background(), tablestore.TableUsers, nil); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}
	if err := c.DeleteRows(context.Background(), tablestore.TableUsers, tablestore.Match{"id": "u1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].method != http.MethodDelete || (*calls)[0].query != "id=eq.u1" {
		t.Fatalf("unexpected calls %+v", *calls)
	}
}
