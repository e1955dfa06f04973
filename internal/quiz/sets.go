package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrProtectedUser = errors.New("the admin account cannot be deleted")
)

// NewID and Now are swapped out in tests.
var (
	NewID = uuid.NewString
	Now   = time.Now
)

const (
	DefaultTimeLimit   = 10
	DefaultCategory    = "General"
	NewQuestionText    = "Enter the new question"
	newQuestionOptions = 4
)

// FindSet returns the set with the given id.
func FindSet(sets []QuestionSet, id string) (QuestionSet, error) {
	for _, s := range sets {
		if s.ID == id {
			return s, nil
		}
	}
	return QuestionSet{}, ErrNotFound
}

// SaveSet replaces the set carrying edited.ID, or appends edited as a new,
// empty, inactive set when it has no ID. The saved set is returned alongside
// the new snapshot.
func SaveSet(sets []QuestionSet, edited QuestionSet) ([]QuestionSet, QuestionSet, error) {
	if edited.ID == "" {
		created := edited
		created.ID = NewID()
		created.Questions = []Question{}
		created.IsLive = false
		created.CreatedAt = Now().UnixMilli()
		if created.TimeLimit == 0 {
			created.TimeLimit = DefaultTimeLimit
		}
		out := append(cloneSets(sets), created)
		return out, created, nil
	}

	out := cloneSets(sets)
	for i := range out {
		if out[i].ID == edited.ID {
			// metadata edits never carry the question list
			if edited.Questions == nil {
				edited.Questions = out[i].Questions
			}
			if edited.CreatedAt == 0 {
				edited.CreatedAt = out[i].CreatedAt
			}
			out[i] = edited
			return out, edited, nil
		}
	}
	return sets, QuestionSet{}, ErrNotFound
}

// ToggleLive flips the live flag of set id and clears it on every other set,
// so at most one set is live afterwards.
func ToggleLive(sets []QuestionSet, id string) ([]QuestionSet, error) {
	if _, err := FindSet(sets, id); err != nil {
		return sets, err
	}
	out := cloneSets(sets)
	for i := range out {
		if out[i].ID == id {
			out[i].IsLive = !out[i].IsLive
		} else {
			out[i].IsLive = false
		}
	}
	return out, nil
}

// LiveSet returns the single live set, if any.
func LiveSet(sets []QuestionSet) (QuestionSet, bool) {
	for _, s := range sets {
		if s.IsLive {
			return s, true
		}
	}
	return QuestionSet{}, false
}

func RemoveSet(sets []QuestionSet, id string) ([]QuestionSet, error) {
	out := make([]QuestionSet, 0, len(sets))
	found := false
	for _, s := range sets {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		return sets, ErrNotFound
	}
	return out, nil
}

// NewQuestion builds the placeholder question appended by AddQuestion.
func NewQuestion() Question {
	opts := make([]string, newQuestionOptions)
	for i := range opts {
		opts[i] = "Option " + Label(i)
	}
	return Question{
		ID:            NewID(),
		Text:          NewQuestionText,
		Options:       opts,
		CorrectOption: Label(0),
	}
}

func AddQuestion(set QuestionSet) (QuestionSet, Question) {
	q := NewQuestion()
	out := set.clone()
	out.Questions = append(out.Questions, q)
	return out, q
}

func FindQuestion(set QuestionSet, qid string) (Question, error) {
	for _, q := range set.Questions {
		if q.ID == qid {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

// UpdateQuestion swaps in q by ID.
func UpdateQuestion(set QuestionSet, q Question) (QuestionSet, error) {
	out := set.clone()
	for i := range out.Questions {
		if out.Questions[i].ID == q.ID {
			out.Questions[i] = q.clone()
			return out, nil
		}
	}
	return set, ErrNotFound
}

func RemoveQuestion(set QuestionSet, qid string) (QuestionSet, error) {
	out := set.clone()
	out.Questions = out.Questions[:0]
	found := false
	for _, q := range set.Questions {
		if q.ID == qid {
			found = true
			continue
		}
		out.Questions = append(out.Questions, q)
	}
	if !found {
		return set, ErrNotFound
	}
	return out, nil
}

// ReplaceSet puts set into the snapshot in place of the one sharing its ID.
func ReplaceSet(sets []QuestionSet, set QuestionSet) ([]QuestionSet, error) {
	out := cloneSets(sets)
	for i := range out {
		if out[i].ID == set.ID {
			out[i] = set
			return out, nil
		}
	}
	return sets, ErrNotFound
}

// PublicView strips the answer key so a set can be shown to test-takers.
func PublicView(set QuestionSet) QuestionSet {
	out := set.clone()
	for i := range out.Questions {
		out.Questions[i].CorrectOption = ""
	}
	return out
}

func (s QuestionSet) clone() QuestionSet {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.clone()
	}
	return out
}

func cloneSets(sets []QuestionSet) []QuestionSet {
	out := make([]QuestionSet, len(sets))
	copy(out, sets)
	return out
}
