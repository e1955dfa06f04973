package repo

import (
	"encoding/json"
	"fmt"

	"github.com/mind-engage/examdesk/internal/quiz"
	ts "github.com/mind-engage/examdesk/internal/tablestore"
)

// Remote column names differ from the domain field names; every read and
// write goes through these functions.

func userToRow(u quiz.User) ts.Row {
	return ts.Row{
		"id":       u.ID,
		"username": u.Username,
		"password": u.Password,
		"name":     u.Name,
		"role":     u.Role,
		"position": u.Position,
		"language": u.Language,
	}
}

func rowToUser(r ts.Row) quiz.User {
	return quiz.User{
		ID:       ts.String(r["id"]),
		Username: ts.String(r["username"]),
		Password: ts.String(r["password"]),
		Name:     ts.String(r["name"]),
		Role:     ts.String(r["role"]),
		Position: ts.String(r["position"]),
		Language: ts.String(r["language"]),
	}
}

func setToRow(s quiz.QuestionSet) (ts.Row, error) {
	qs := s.Questions
	if qs == nil {
		qs = []quiz.Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return nil, fmt.Errorf("encode questions of %s: %w", s.ID, err)
	}
	row := ts.Row{
		"id":          s.ID,
		"title":       s.Title,
		"description": s.Description,
		"category":    s.Category,
		"time_limit":  s.TimeLimit,
		"is_live":     s.IsLive,
		"questions":   json.RawMessage(b),
	}
	// zero means unknown; leave the stored value alone
	if s.CreatedAt != 0 {
		row["created_at"] = s.CreatedAt
	}
	return row, nil
}

func rowToSet(r ts.Row) (quiz.QuestionSet, error) {
	s := quiz.QuestionSet{
		ID:          ts.String(r["id"]),
		Title:       ts.String(r["title"]),
		Description: ts.String(r["description"]),
		Category:    ts.String(r["category"]),
		TimeLimit:   int(ts.Int64(r["time_limit"])),
		IsLive:      ts.Bool(r["is_live"]),
		CreatedAt:   ts.Millis(r["created_at"]),
		Questions:   []quiz.Question{},
	}
	b, err := ts.JSONBytes(r["questions"])
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	if len(b) > 0 && string(b) != "null" {
		if err := json.Unmarshal(b, &s.Questions); err != nil {
			return quiz.QuestionSet{}, fmt.Errorf("decode questions of %s: %w", s.ID, err)
		}
	}
	return s, nil
}

func resultToRow(q quiz.QuizResult) ts.Row {
	return ts.Row{
		"id":              q.ID,
		"user_id":         q.UserID,
		"exam_id":         q.ExamID,
		"exam_title":      q.ExamTitle,
		"total_questions": q.TotalQuestions,
		"correct_answers": q.CorrectAnswers,
		"timestamp":       q.Timestamp,
	}
}

func rowToResult(r ts.Row) quiz.QuizResult {
	return quiz.QuizResult{
		ID:             ts.String(r["id"]),
		UserID:         ts.String(r["user_id"]),
		ExamID:         ts.String(r["exam_id"]),
		ExamTitle:      ts.String(r["exam_title"]),
		TotalQuestions: int(ts.Int64(r["total_questions"])),
		CorrectAnswers: int(ts.Int64(r["correct_answers"])),
		Timestamp:      ts.Int64(r["timestamp"]),
	}
}
