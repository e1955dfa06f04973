// Package gormstore implements tablestore.Store on GORM, using map rows
// against the tables described by tablestore.Tables.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mind-engage/examdesk/internal/tablestore"
)

type GormStore struct {
	db *gorm.DB
}

// Open connects to Postgres through GORM.
func Open(dsn string) (*GormStore, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Warn,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return New(gdb), nil
}

func New(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) ListRows(ctx context.Context, table string) ([]tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Table(t.Name).Select(t.Columns)
	if t.OrderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: t.OrderBy}, Desc: true})
	}
	var found []map[string]any
	if err := q.Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]tablestore.Row, 0, len(found))
	for _, m := range found {
		out = append(out, fromGorm(t, m))
	}
	return out, nil
}

func (s *GormStore) UpsertRows(ctx context.Context, table string, rows []tablestore.Row) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if err := t.CheckRow(r); err != nil {
				return err
			}
			m, err := toGorm(t, r)
			if err != nil {
				return err
			}
			var update []string
			for c := range m {
				if c != "id" {
					update = append(update, c)
				}
			}
			oc := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}}
			if len(update) == 0 {
				oc.DoNothing = true
			} else {
				oc.DoUpdates = clause.AssignmentColumns(update)
			}
			if err := tx.Table(t.Name).Clauses(oc).Create(m).Error; err != nil {
				return fmt.Errorf("upsert %s: %w", t.Name, err)
			}
		}
		return nil
	})
}

func (s *GormStore) InsertRow(ctx context.Context, table string, row tablestore.Row) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckRow(row); err != nil {
		return err
	}
	m, err := toGorm(t, row)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Table(t.Name).Create(m).Error
}

func (s *GormStore) DeleteRows(ctx context.Context, table string, match tablestore.Match) error {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return err
	}
	if err := t.CheckMatch(match); err != nil {
		return err
	}
	if len(match) == 0 {
		return errors.New("refusing to delete without a filter")
	}
	return s.db.WithContext(ctx).Table(t.Name).
		Where(map[string]any(match)).
		Delete(map[string]any{}).Error
}

func (s *GormStore) FindRow(ctx context.Context, table string, match tablestore.Match) (tablestore.Row, error) {
	t, err := tablestore.Lookup(table)
	if err != nil {
		return nil, err
	}
	if err := t.CheckMatch(match); err != nil {
		return nil, err
	}
	var found []map[string]any
	if err := s.db.WithContext(ctx).Table(t.Name).
		Select(t.Columns).
		Where(map[string]any(match)).
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, tablestore.ErrNotFound
	}
	return fromGorm(t, found[0]), nil
}

func toGorm(t tablestore.Table, r tablestore.Row) (map[string]any, error) {
	m := make(map[string]any, len(r))
	for c, v := range r {
		if t.JSON[c] {
			b, err := tablestore.JSONBytes(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, c, err)
			}
			v = datatypes.JSON(b)
		}
		m[c] = v
	}
	return m, nil
}

func fromGorm(t tablestore.Table, m map[string]any) tablestore.Row {
	r := make(tablestore.Row, len(m))
	for c, v := range m {
		if t.JSON[c] {
			r[c] = datatypes.JSON(tablestore.String(v))
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		r[c] = v
	}
	return r
}
