// Package repo reads and writes the domain collections through a
// tablestore.Store.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/examdesk/internal/quiz"
	ts "github.com/mind-engage/examdesk/internal/tablestore"
)

type Repo struct {
	store ts.Store
}

func New(store ts.Store) *Repo { return &Repo{store: store} }

// ---- users ----

func (r *Repo) Users(ctx context.Context) ([]quiz.User, error) {
	rows, err := r.store.ListRows(ctx, ts.TableUsers)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]quiz.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToUser(row))
	}
	return out, nil
}

// SaveUsers upserts the given users by id.
func (r *Repo) SaveUsers(ctx context.Context, users []quiz.User) error {
	if len(users) == 0 {
		return nil
	}
	rows := make([]ts.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, userToRow(u))
	}
	if err := r.store.UpsertRows(ctx, ts.TableUsers, rows); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	if err := r.store.DeleteRows(ctx, ts.TableUsers, ts.Match{"id": id}); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// Login finds the user whose username and password both match exactly.
// quiz.ErrNotFound is returned for any mismatch.
func (r *Repo) Login(ctx context.Context, username, password string) (quiz.User, error) {
	row, err := r.store.FindRow(ctx, ts.TableUsers, ts.Match{"username": username, "password": password})
	if errors.Is(err, ts.ErrNotFound) {
		return quiz.User{}, quiz.ErrNotFound
	}
	if err != nil {
		return quiz.User{}, fmt.Errorf("login lookup: %w", err)
	}
	return rowToUser(row), nil
}

// ---- question sets ----

// QuestionSets lists sets newest first.
func (r *Repo) QuestionSets(ctx context.Context) ([]quiz.QuestionSet, error) {
	rows, err := r.store.ListRows(ctx, ts.TableQuestionSets)
	if err != nil {
		return nil, fmt.Errorf("list question sets: %w", err)
	}
	out := make([]quiz.QuestionSet, 0, len(rows))
	for _, row := range rows {
		s, err := rowToSet(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Repo) SaveQuestionSets(ctx context.Context, sets []quiz.QuestionSet) error {
	if len(sets) == 0 {
		return nil
	}
	rows := make([]ts.Row, 0, len(sets))
	for _, s := range sets {
		row, err := setToRow(s)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := r.store.UpsertRows(ctx, ts.TableQuestionSets, rows); err != nil {
		return fmt.Errorf("save question sets: %w", err)
	}
	return nil
}

func (r *Repo) DeleteQuestionSet(ctx context.Context, id string) error {
	if err := r.store.DeleteRows(ctx, ts.TableQuestionSets, ts.Match{"id": id}); err != nil {
		return fmt.Errorf("delete question set %s: %w", id, err)
	}
	return nil
}

// ---- results ----

func (r *Repo) QuizResults(ctx context.Context) ([]quiz.QuizResult, error) {
	rows, err := r.store.ListRows(ctx, ts.TableQuizResults)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	out := make([]quiz.QuizResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResult(row))
	}
	return out, nil
}

// SaveQuizResult appends one immutable result.
func (r *Repo) SaveQuizResult(ctx context.Context, q quiz.QuizResult) error {
	if err := r.store.InsertRow(ctx, ts.TableQuizResults, resultToRow(q)); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}
