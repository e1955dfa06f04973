package quiz_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mind-engage/examdesk/internal/quiz"
)

func question(correct string, opts ...string) quiz.Question {
	return quiz.Question{ID: "q1", Text: "?", Options: opts, CorrectOption: correct}
}

func TestLabelRoundTrip(t *testing.T) {
	for i := 0; i < quiz.MaxOptions; i++ {
		l := quiz.Label(i)
		if got := quiz.LabelIndex(l); got != i {
			t.Fatalf("LabelIndex(%q) = %d, want %d", l, got, i)
		}
	}
	if quiz.Label(0) != "A" || quiz.Label(5) != "F" {
		t.Fatalf("unexpected labels %q..%q", quiz.Label(0), quiz.Label(5))
	}
	if quiz.LabelIndex("") != -1 || quiz.LabelIndex("ab") != -1 || quiz.LabelIndex("a") != -1 {
		t.Fatalf("expected -1 for malformed labels")
	}
}

func TestRemoveOption_ShiftsCorrectDown(t *testing.T) {
	q := question("D", "X", "Y", "Z", "W")
	got, err := quiz.RemoveOption(q, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"X", "Z", "W"}; !reflect.DeepEqual(got.Options, want) {
		t.Fatalf("options = %v, want %v", got.Options, want)
	}
	if got.CorrectOption != "C" {
		t.Fatalf("correct = %q, want C", got.CorrectOption)
	}
	// input snapshot untouched
	if len(q.Options) != 4 || q.Options[1] != "Y" || q.CorrectOption != "D" {
		t.Fatalf("input question was mutated: %+v", q)
	}
}

func TestRemoveOption_RemovingCorrectResetsToA(t *testing.T) {
	q := question("B", "X", "Y", "Z", "W")
	got, err := quiz.RemoveOption(q, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CorrectOption != "A" {
		t.Fatalf("correct = %q, want A", got.CorrectOption)
	}
}

func TestRemoveOption_AllPositions(t *testing.T) {
	opts := []string{"o0", "o1", "o2", "o3", "o4", "o5"}
	for n := 3; n <= quiz.MaxOptions; n++ {
		for c := 0; c < n; c++ {
			for i := 0; i < n; i++ {
				q := question(quiz.Label(c), opts[:n]...)
				got, err := quiz.RemoveOption(q, i)
				if err != nil {
					t.Fatalf("n=%d c=%d i=%d: %v", n, c, i, err)
				}
				if len(got.Options) != n-1 {
					t.Fatalf("n=%d i=%d: got %d options", n, i, len(got.Options))
				}
				var want string
				switch {
				case i == c:
					want = "A"
				case i < c:
					want = quiz.Label(c - 1)
				default:
					want = quiz.Label(c)
				}
				if got.CorrectOption != want {
					t.Fatalf("n=%d c=%d i=%d: correct = %q, want %q", n, c, i, got.CorrectOption, want)
				}
				if !quiz.ValidAnswerKey(got) {
					t.Fatalf("n=%d c=%d i=%d: invalid answer key %+v", n, c, i, got)
				}
				if i != c && got.Options[quiz.LabelIndex(got.CorrectOption)] != opts[c] {
					t.Fatalf("n=%d c=%d i=%d: correct answer moved to a different option", n, c, i)
				}
			}
		}
	}
}

func TestRemoveOption_RejectedAtMinimum(t *testing.T) {
	q := question("B", "X", "Y")
	got, err := quiz.RemoveOption(q, 0)
	if !errors.Is(err, quiz.ErrTooFewOptions) {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}
	if !reflect.DeepEqual(got, q) {
		t.Fatalf("question changed on rejected removal: %+v", got)
	}
}

func TestRemoveOption_IndexOutOfRange(t *testing.T) {
	q := question("A", "X", "Y", "Z")
	if _, err := quiz.RemoveOption(q, 3); !errors.Is(err, quiz.ErrOptionIndex) {
		t.Fatalf("expected ErrOptionIndex, got %v", err)
	}
	if _, err := quiz.RemoveOption(q, -1); !errors.Is(err, quiz.ErrOptionIndex) {
		t.Fatalf("expected ErrOptionIndex, got %v", err)
	}
}

func TestAddOption(t *testing.T) {
	q := question("C", "X", "Y", "Z")
	got, err := quiz.AddOption(q, quiz.NewOptionText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Options) != 4 || got.Options[3] != quiz.NewOptionText {
		t.Fatalf("options = %v", got.Options)
	}
	if got.CorrectOption != "C" {
		t.Fatalf("correct changed to %q", got.CorrectOption)
	}

	full := question("F", "1", "2", "3", "4", "5", "6")
	same, err := quiz.AddOption(full, "7")
	if !errors.Is(err, quiz.ErrTooManyOptions) {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}
	if len(same.Options) != 6 || same.CorrectOption != "F" {
		t.Fatalf("full question changed: %+v", same)
	}
}

func TestUpdateOption(t *testing.T) {
	q := question("B", "X", "Y")
	got, err := quiz.UpdateOption(q, 0, "renamed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Options[0] != "renamed" || got.CorrectOption != "B" {
		t.Fatalf("unexpected question %+v", got)
	}
	if q.Options[0] != "X" {
		t.Fatalf("input mutated")
	}
	if _, err := quiz.UpdateOption(q, 2, "nope"); !errors.Is(err, quiz.ErrOptionIndex) {
		t.Fatalf("expected ErrOptionIndex, got %v", err)
	}
}
