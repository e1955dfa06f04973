package tablestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory returns a Store kept entirely in process memory.
func NewMemory() Store {
	return &memoryStore{tables: map[string][]Row{}}
}

func (m *memoryStore) ListRows(_ context.Context, table string) ([]Row, error) {
	t, err := Lookup(table)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, copyRow(r))
	}
	if t.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return toInt64(out[i][t.OrderBy]) > toInt64(out[j][t.OrderBy])
		})
	}
	return out, nil
}

func (m *memoryStore) UpsertRows(_ context.Context, table string, rows []Row) error {
	t, err := Lookup(table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := t.CheckRow(r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		i := m.indexOf(table, r["id"])
		if i < 0 {
			m.tables[table] = append(m.tables[table], copyRow(r))
			continue
		}
		merged := m.tables[table][i]
		for k, v := range r {
			merged[k] = v
		}
	}
	return nil
}

func (m *memoryStore) InsertRow(_ context.Context, table string, row Row) error {
	t, err := Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckRow(row); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(table, row["id"]) >= 0 {
		return fmt.Errorf("%s: duplicate id %v", table, row["id"])
	}
	m.tables[table] = append(m.tables[table], copyRow(row))
	return nil
}

func (m *memoryStore) DeleteRows(_ context.Context, table string, match Match) error {
	t, err := Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckMatch(match); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !matches(r, match) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *memoryStore) FindRow(_ context.Context, table string, match Match) (Row, error) {
	t, err := Lookup(table)
	if err != nil {
		return nil, err
	}
	if err := t.CheckMatch(match); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.tables[table] {
		if matches(r, match) {
			return copyRow(r), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryStore) indexOf(table string, id any) int {
	for i, r := range m.tables[table] {
		if r["id"] == id {
			return i
		}
	}
	return -1
}

func matches(r Row, m Match) bool {
	for k, v := range m {
		if fmt.Sprint(r[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
