package quiz_test

import (
	"errors"
	"testing"

	"github.com/mind-engage/examdesk/internal/quiz"
)

func TestSaveUserAndRemove(t *testing.T) {
	fixedIDs(t)
	users := []quiz.User{{ID: "u0", Username: "admin", Role: quiz.RoleAdmin, Name: "Admin"}}

	users, created, err := quiz.SaveUser(users, quiz.User{Username: "rahim", Password: "pw", Name: "Rahim", Role: quiz.RoleAdmin})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role != quiz.RoleUser || created.ID == "" {
		t.Fatalf("new accounts must be plain users: %+v", created)
	}

	created.Position = "Worker"
	created.Role = ""
	users, edited, err := quiz.SaveUser(users, created)
	if err != nil || edited.Position != "Worker" || edited.Role != quiz.RoleUser {
		t.Fatalf("edit: %+v %v", edited, err)
	}

	if _, err := quiz.RemoveUser(users, "u0"); !errors.Is(err, quiz.ErrProtectedUser) {
		t.Fatalf("expected ErrProtectedUser, got %v", err)
	}
	users, err = quiz.RemoveUser(users, created.ID)
	if err != nil || len(users) != 1 {
		t.Fatalf("remove: %v len=%d", err, len(users))
	}
}

func TestUserStats(t *testing.T) {
	users := []quiz.User{
		{ID: "a", Username: "admin", Name: "Admin", Role: quiz.RoleAdmin},
		{ID: "u1", Username: "karim", Name: "Karim", Role: quiz.RoleUser},
		{ID: "u2", Username: "salma", Name: "Salma", Role: quiz.RoleUser},
	}
	results := []quiz.QuizResult{
		{UserID: "u1", TotalQuestions: 4, CorrectAnswers: 1, Timestamp: 100},
		{UserID: "u1", TotalQuestions: 3, CorrectAnswers: 2, Timestamp: 300},
		{UserID: "u1", TotalQuestions: 5, CorrectAnswers: 5, Timestamp: 200},
	}
	stats := quiz.UserStats(users, results)
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].Serial != 1 || stats[0].Username != "karim" || stats[0].TotalAttempts != 3 {
		t.Fatalf("unexpected first row %+v", stats[0])
	}
	if stats[0].LastAttemptAt != 300 || stats[0].LastRatio != "67%" {
		t.Fatalf("last attempt should be the newest: %+v", stats[0])
	}
	if stats[1].Serial != 2 || stats[1].LastRatio != quiz.NotAvailable || stats[1].TotalAttempts != 0 {
		t.Fatalf("unexpected second row %+v", stats[1])
	}
}

func TestGrade(t *testing.T) {
	fixedIDs(t)
	set := quiz.QuestionSet{ID: "S1", Title: "Safety", Questions: []quiz.Question{
		{ID: "q1", Options: []string{"a", "b"}, CorrectOption: "B"},
		{ID: "q2", Options: []string{"a", "b"}, CorrectOption: "A"},
		{ID: "q3", Options: []string{"a", "b"}, CorrectOption: "A"},
	}}
	r := quiz.Grade(set, "u1", map[string]string{"q1": "B", "q2": "B"})
	if r.TotalQuestions != 3 || r.CorrectAnswers != 1 {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.ExamID != "S1" || r.ExamTitle != "Safety" || r.UserID != "u1" || r.Timestamp != 1700000000000 {
		t.Fatalf("snapshot fields wrong: %+v", r)
	}
}

func TestImportUsers(t *testing.T) {
	fixedIDs(t)
	users := []quiz.User{{ID: "u1", Username: "old", Role: quiz.RoleUser}}
	next, ins, upd, err := quiz.ImportUsers(users, []quiz.User{
		{ID: "u1", Username: "renamed", Password: "p"},
		{Username: "fresh", Password: "p"},
		{ID: "given", Username: "boss", Password: "p", Role: quiz.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if ins != 2 || upd != 1 || len(next) != 3 {
		t.Fatalf("ins=%d upd=%d len=%d", ins, upd, len(next))
	}
	if next[0].Username != "renamed" || next[1].ID != "id-1" || next[1].Role != quiz.RoleUser || next[2].ID != "given" {
		t.Fatalf("unexpected users %+v", next)
	}
	if _, _, _, err := quiz.ImportUsers(users, []quiz.User{{Username: "x", Role: "owner"}}); !errors.Is(err, quiz.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
