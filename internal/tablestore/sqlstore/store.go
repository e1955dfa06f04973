// Package sqlstore implements tablestore.Store on database/sql. The same
// statements run on SQLite (modernc) and Postgres (pgx stdlib).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mind-engage/examdesk/internal/tablestore"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func New(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) ListRows(ctx context.Context, table string) ([]tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s`, columnList(t.Columns), quote(t.Name))
	if t.OrderBy != "" {
		q += fmt.Sprintf(` ORDER BY %s DESC`, quote(t.OrderBy))
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tablestore.Row{}
	for rows.Next() {
		r, err := scanRow(rows, t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertRows(ctx context.Context, table string, rows []tablestore.Row) (err error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, r := range rows {
		if err = t.CheckRow(r); err != nil {
			return err
		}
		cols, args, err := bindRow(t, r)
		if err != nil {
			return err
		}
		sets := make([]string, 0, len(cols))
		for _, c := range cols {
			if c != "id" {
				sets = append(sets, fmt.Sprintf(`%s=EXCLUDED.%s`, quote(c), quote(c)))
			}
		}
		q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quote(t.Name), columnList(cols), placeholders(1, len(cols)))
		if len(sets) > 0 {
			q += ` ON CONFLICT (id) DO UPDATE SET ` + strings.Join(sets, ", ")
		} else {
			q += ` ON CONFLICT (id) DO NOTHING`
		}
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) InsertRow(ctx context.Context, table string, row tablestore.Row) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckRow(row); err != nil {
		return err
	}
	cols, args, err := bindRow(t, row)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quote(t.Name), columnList(cols), placeholders(1, len(cols)))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.Name, err)
	}
	return nil
}

func (s *SQLStore) DeleteRows(ctx context.Context, table string, m tablestore.Match) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if len(m) == 0 {
		return errors.New("refusing to delete without a filter")
	}
	where, args, err := whereClause(t, m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, quote(t.Name), where), args...)
	return err
}

func (s *SQLStore) FindRow(ctx context.Context, table string, m tablestore.Match) (tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	where, args, err := whereClause(t, m)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIMIT 1`, columnList(t.Columns), quote(t.Name), where)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, tablestore.ErrNotFound
	}
	return scanRow(rows, t)
}

// bindRow orders r's columns deterministically and encodes JSON columns as text.
func bindRow(t tablestore.Table, r tablestore.Row) ([]string, []any, error) {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		v := r[c]
		if t.JSON[c] {
			b, err := tablestore.JSONBytes(v)
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", t.Name, c, err)
			}
			if b == nil {
				b = []byte("null")
			}
			v = string(b)
		}
		args[i] = v
	}
	return cols, args, nil
}

func scanRow(rows *sql.Rows, t tablestore.Table) (tablestore.Row, error) {
	vals := make([]any, len(t.Columns))
	ptrs := make([]any, len(t.Columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	r := make(tablestore.Row, len(t.Columns))
	for i, c := range t.Columns {
		v := vals[i]
		if t.JSON[c] {
			v = json.RawMessage(tablestore.String(v))
		} else if b, ok := v.([]byte); ok {
			v = string(b)
		}
		r[c] = v
	}
	return r, nil
}

func whereClause(t tablestore.Table, m tablestore.Match) (string, []any, error) {
	if err := t.CheckMatch(m); err != nil {
		return "", nil, err
	}
	if len(m) == 0 {
		return "1=1", nil, nil
	}
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf(`%s=$%d`, quote(c), i+1)
		args[i] = m[c]
	}
	return strings.Join(parts, " AND "), args, nil
}

func columnList(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = quote(c)
	}
	return strings.Join(q, ",")
}

func placeholders(start, n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(p, ",")
}

func quote(ident string) string { return `"` + ident + `"` }
