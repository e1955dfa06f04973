// Package rest implements tablestore.Store against a PostgREST endpoint such
// as the one a Supabase project exposes under /rest/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mind-engage/examdesk/internal/tablestore"
)

type Client struct {
	base string // e.g. https://xyz.supabase.co/rest/v1
	key  string
	http *http.Client
}

// New builds a client for projectURL (the Supabase project root) using key as
// both apikey and bearer token.
func New(projectURL, key string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		base: strings.TrimSuffix(projectURL, "/") + "/rest/v1",
		key:  key,
		http: hc,
	}
}

func (c *Client) ListRows(ctx context.Context, table string) ([]tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("select", strings.Join(t.Columns, ","))
	if t.OrderBy != "" {
		q.Set("order", t.OrderBy+".desc")
	}
	var rows []tablestore.Row
	if err := c.do(ctx, http.MethodGet, t.Name, q, nil, nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []tablestore.Row{}
	}
	return rows, nil
}

func (c *Client) UpsertRows(ctx context.Context, table string, rows []tablestore.Row) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	body := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		if err := t.CheckRow(r); err != nil {
			return err
		}
		m, err := encodeRow(t, r)
		if err != nil {
			return err
		}
		body = append(body, m)
	}
	q := url.Values{"on_conflict": {"id"}}
	h := http.Header{"Prefer": {"resolution=merge-duplicates,return=minimal"}}
	return c.do(ctx, http.MethodPost, t.Name, q, h, body, nil)
}

func (c *Client) InsertRow(ctx context.Context, table string, row tablestore.Row) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckRow(row); err != nil {
		return err
	}
	m, err := encodeRow(t, row)
	if err != nil {
		return err
	}
	h := http.Header{"Prefer": {"return=minimal"}}
	return c.do(ctx, http.MethodPost, t.Name, nil, h, m, nil)
}

func (c *Client) DeleteRows(ctx context.Context, table string, m tablestore.Match) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckMatch(m); err != nil {
		return err
	}
	if len(m) == 0 {
		return fmt.Errorf("refusing to delete without a filter")
	}
	return c.do(ctx, http.MethodDelete, t.Name, filters(m), nil, nil, nil)
}

func (c *Client) FindRow(ctx context.Context, table string, m tablestore.Match) (tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	if err := t.CheckMatch(m); err != nil {
		return nil, err
	}
	q := filters(m)
	q.Set("select", strings.Join(t.Columns, ","))
	q.Set("limit", "1")
	var rows []tablestore.Row
	if err := c.do(ctx, http.MethodGet, t.Name, q, nil, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, tablestore.ErrNotFound
	}
	return rows[0], nil
}

func (c *Client) do(ctx context.Context, method, table string, q url.Values, h http.Header, body, out any) error {
	u := c.base + "/" + url.PathEscape(table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(out)
}

// encodeRow inlines JSON columns so PostgREST stores them as jsonb values and
// drops server-owned columns.
func encodeRow(t tablestore.Table, r tablestore.Row) (map[string]any, error) {
	m := make(map[string]any, len(r))
	for k, v := range r {
		if t.ServerOwned[k] {
			continue
		}
		if t.JSON[k] {
			b, err := tablestore.JSONBytes(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, k, err)
			}
			if b == nil {
				b = []byte("null")
			}
			v = json.RawMessage(b)
		}
		m[k] = v
	}
	return m, nil
}

func filters(m tablestore.Match) url.Values {
	q := url.Values{}
	for k, v := range m {
		q.Set(k, "eq."+fmt.Sprint(v))
	}
	return q
}
