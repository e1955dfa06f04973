// Package tablestore is the remote structured-table collaborator: row CRUD
// over a handful of known tables, independent of the backend that holds them.
package tablestore

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("row not found")

// Row is one record keyed by remote column name.
type Row map[string]any

// Match is a set of column = value equality filters, ANDed together.
type Match map[string]any

type Store interface {
	ListRows(ctx context.Context, table string) ([]Row, error)
	UpsertRows(ctx context.Context, table string, rows []Row) error
	InsertRow(ctx context.Context, table string, row Row) error
	DeleteRows(ctx context.Context, table string, m Match) error
	FindRow(ctx context.Context, table string, m Match) (Row, error)
}

const (
	TableUsers        = "users"
	TableQuestionSets = "question_sets"
	TableQuizResults  = "quiz_results"
)

// Table describes a remote table: its columns, which of them hold JSON, and
// the default list order.
type Table struct {
	Name    string
	Columns []string
	JSON    map[string]bool
	OrderBy string // column, listed descending; "" keeps storage order

	// ServerOwned columns are filled by a hosted database (defaults such
	// as now()); the REST backend never sends them.
	ServerOwned map[string]bool
}

var Tables = map[string]Table{
	TableUsers: {
		Name:    TableUsers,
		Columns: []string{"id", "username", "password", "name", "role", "position", "language"},
	},
	TableQuestionSets: {
		Name:    TableQuestionSets,
		Columns: []string{"id", "title", "description", "category", "time_limit", "is_live", "questions", "created_at"},
		JSON:    map[string]bool{"questions": true},
		OrderBy: "created_at",

		ServerOwned: map[string]bool{"created_at": true},
	},
	TableQuizResults: {
		Name:    TableQuizResults,
		Columns: []string{"id", "user_id", "exam_id", "exam_title", "total_questions", "correct_answers", "timestamp"},
	},
}

// Lookup returns the table definition or an error for unknown tables.
func Lookup(name string) (Table, error) {
	t, ok := Tables[name]
	if !ok {
		return Table{}, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

// HasColumn reports whether col belongs to t.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// CheckRow rejects rows without an id or with columns outside the table.
func (t Table) CheckRow(r Row) error {
	if id, _ := r["id"].(string); id == "" {
		return fmt.Errorf("%s: row without id", t.Name)
	}
	for k := range r {
		if !t.HasColumn(k) {
			return fmt.Errorf("%s: unknown column %q", t.Name, k)
		}
	}
	return nil
}

// CheckMatch rejects filters on unknown columns.
func (t Table) CheckMatch(m Match) error {
	for k := range m {
		if !t.HasColumn(k) {
			return fmt.Errorf("%s: unknown column %q", t.Name, k)
		}
	}
	return nil
}
