// Package admin runs the admin and test-taker actions: load the relevant
// collection, apply a quiz snapshot function, persist what changed.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/examdesk/internal/quiz"
	"github.com/mind-engage/examdesk/internal/storage"
)

// Repository is the persistence the service needs; *repo.Repo satisfies it.
type Repository interface {
	Users(ctx context.Context) ([]quiz.User, error)
	SaveUsers(ctx context.Context, users []quiz.User) error
	DeleteUser(ctx context.Context, id string) error
	Login(ctx context.Context, username, password string) (quiz.User, error)

	QuestionSets(ctx context.Context) ([]quiz.QuestionSet, error)
	SaveQuestionSets(ctx context.Context, sets []quiz.QuestionSet) error
	DeleteQuestionSet(ctx context.Context, id string) error

	QuizResults(ctx context.Context) ([]quiz.QuizResult, error)
	SaveQuizResult(ctx context.Context, r quiz.QuizResult) error
}

var ErrNoLiveSet = errors.New("no live question set")

type Service struct {
	repo   Repository
	blobs  storage.BlobStore
	images ImageOptions
}

func NewService(repo Repository, blobs storage.BlobStore, images ImageOptions) *Service {
	if images.Bucket == "" {
		images.Bucket = DefaultImageBucket
	}
	return &Service{repo: repo, blobs: blobs, images: images}
}

// ---- question sets ----

func (s *Service) ListSets(ctx context.Context) ([]quiz.QuestionSet, error) {
	return s.repo.QuestionSets(ctx)
}

func (s *Service) GetSet(ctx context.Context, id string) (quiz.QuestionSet, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	return quiz.FindSet(sets, id)
}

// SaveSet creates (no ID) or edits a set's metadata.
func (s *Service) SaveSet(ctx context.Context, edited quiz.QuestionSet) (quiz.QuestionSet, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	if edited.ID != "" {
		// live state only changes through ToggleLive
		cur, err := quiz.FindSet(sets, edited.ID)
		if err != nil {
			return quiz.QuestionSet{}, err
		}
		edited.IsLive = cur.IsLive
	}
	next, saved, err := quiz.SaveSet(sets, edited)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	if err := s.repo.SaveQuestionSets(ctx, quiz.ChangedSets(sets, next)); err != nil {
		return quiz.QuestionSet{}, err
	}
	return saved, nil
}

// ToggleLive flips one set and clears every other live flag, writing every
// set whose flag changed.
func (s *Service) ToggleLive(ctx context.Context, id string) ([]quiz.QuestionSet, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return nil, err
	}
	next, err := quiz.ToggleLive(sets, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveQuestionSets(ctx, quiz.ChangedSets(sets, next)); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) DeleteSet(ctx context.Context, id string) error {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return err
	}
	if _, err := quiz.RemoveSet(sets, id); err != nil {
		return err
	}
	return s.repo.DeleteQuestionSet(ctx, id)
}

// ---- questions ----

// editSet loads set id, applies fn and persists the result.
func (s *Service) editSet(ctx context.Context, id string, fn func(quiz.QuestionSet) (quiz.QuestionSet, error)) (quiz.QuestionSet, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	set, err := quiz.FindSet(sets, id)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	updated, err := fn(set)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	if err := s.repo.SaveQuestionSets(ctx, []quiz.QuestionSet{updated}); err != nil {
		return quiz.QuestionSet{}, err
	}
	return updated, nil
}

func (s *Service) AddQuestion(ctx context.Context, setID string) (quiz.Question, error) {
	var added quiz.Question
	_, err := s.editSet(ctx, setID, func(set quiz.QuestionSet) (quiz.QuestionSet, error) {
		out, q := quiz.AddQuestion(set)
		added = q
		return out, nil
	})
	return added, err
}

// QuestionPatch carries the editable question fields; nil means unchanged.
type QuestionPatch struct {
	Text          *string `json:"text,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	CorrectOption *string `json:"correctOption,omitempty"`
}

var ErrInvalidAnswerKey = errors.New("correct option must label an existing option")

func (s *Service) UpdateQuestion(ctx context.Context, setID, qid string, p QuestionPatch) (quiz.Question, error) {
	return s.editQuestion(ctx, setID, qid, func(q quiz.Question) (quiz.Question, error) {
		if p.Text != nil {
			q.Text = *p.Text
		}
		if p.ImageURL != nil {
			q.ImageURL = *p.ImageURL
		}
		if p.CorrectOption != nil {
			q.CorrectOption = *p.CorrectOption
			if !quiz.ValidAnswerKey(q) {
				return q, ErrInvalidAnswerKey
			}
		}
		return q, nil
	})
}

func (s *Service) DeleteQuestion(ctx context.Context, setID, qid string) error {
	_, err := s.editSet(ctx, setID, func(set quiz.QuestionSet) (quiz.QuestionSet, error) {
		return quiz.RemoveQuestion(set, qid)
	})
	return err
}

// OptionResult is the question after an option edit. Applied is false when
// the edit was refused (option limits), in which case nothing was written.
type OptionResult struct {
	Question quiz.Question `json:"question"`
	Applied  bool          `json:"applied"`
}

func (s *Service) AddOption(ctx context.Context, setID, qid, text string) (OptionResult, error) {
	if text == "" {
		text = quiz.NewOptionText
	}
	return s.editOption(ctx, setID, qid, func(q quiz.Question) (quiz.Question, error) {
		return quiz.AddOption(q, text)
	})
}

func (s *Service) UpdateOption(ctx context.Context, setID, qid string, index int, text string) (OptionResult, error) {
	return s.editOption(ctx, setID, qid, func(q quiz.Question) (quiz.Question, error) {
		return quiz.UpdateOption(q, index, text)
	})
}

func (s *Service) RemoveOption(ctx context.Context, setID, qid string, index int) (OptionResult, error) {
	return s.editOption(ctx, setID, qid, func(q quiz.Question) (quiz.Question, error) {
		return quiz.RemoveOption(q, index)
	})
}

// editOption maps the engine's rejections to an unapplied result.
func (s *Service) editOption(ctx context.Context, setID, qid string, fn func(quiz.Question) (quiz.Question, error)) (OptionResult, error) {
	q, err := s.editQuestion(ctx, setID, qid, fn)
	if isRejection(err) {
		// q is the unchanged question handed back by the engine
		return OptionResult{Question: q, Applied: false}, nil
	}
	if err != nil {
		return OptionResult{}, err
	}
	return OptionResult{Question: q, Applied: true}, nil
}

func (s *Service) editQuestion(ctx context.Context, setID, qid string, fn func(quiz.Question) (quiz.Question, error)) (quiz.Question, error) {
	var edited quiz.Question
	_, err := s.editSet(ctx, setID, func(set quiz.QuestionSet) (quiz.QuestionSet, error) {
		q, err := quiz.FindQuestion(set, qid)
		if err != nil {
			return set, err
		}
		if edited, err = fn(q); err != nil {
			return set, err
		}
		return quiz.UpdateQuestion(set, edited)
	})
	return edited, err
}

func isRejection(err error) bool {
	return errors.Is(err, quiz.ErrTooManyOptions) ||
		errors.Is(err, quiz.ErrTooFewOptions) ||
		errors.Is(err, quiz.ErrOptionIndex)
}

// ---- users ----

func (s *Service) ListUsers(ctx context.Context) ([]quiz.User, error) {
	return s.repo.Users(ctx)
}

func (s *Service) SaveUser(ctx context.Context, edited quiz.User) (quiz.User, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return quiz.User{}, err
	}
	next, saved, err := quiz.SaveUser(users, edited)
	if err != nil {
		return quiz.User{}, err
	}
	if err := s.repo.SaveUsers(ctx, quiz.ChangedUsers(users, next)); err != nil {
		return quiz.User{}, err
	}
	return saved, nil
}

// ImportUsers merges a batch of accounts (CSV or JSON import) and writes the
// rows that changed.
func (s *Service) ImportUsers(ctx context.Context, rows []quiz.User) (inserted, updated int, err error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return 0, 0, err
	}
	next, inserted, updated, err := quiz.ImportUsers(users, rows)
	if err != nil {
		return 0, 0, err
	}
	if err := s.repo.SaveUsers(ctx, quiz.ChangedUsers(users, next)); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return err
	}
	if _, err := quiz.RemoveUser(users, id); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, id)
}

// Login checks username and password by exact match.
func (s *Service) Login(ctx context.Context, username, password string) (quiz.User, error) {
	return s.repo.Login(ctx, username, password)
}

// ---- results ----

func (s *Service) ListResults(ctx context.Context) ([]quiz.QuizResult, error) {
	return s.repo.QuizResults(ctx)
}

func (s *Service) UserStats(ctx context.Context) ([]quiz.UserStat, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.repo.QuizResults(ctx)
	if err != nil {
		return nil, err
	}
	return quiz.UserStats(users, results), nil
}

// LiveSet returns the set currently offered to test-takers, answer key
// stripped.
func (s *Service) LiveSet(ctx context.Context) (quiz.QuestionSet, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	live, ok := quiz.LiveSet(sets)
	if !ok {
		return quiz.QuestionSet{}, ErrNoLiveSet
	}
	return quiz.PublicView(live), nil
}

// SubmitLive grades answers against the live set and records the result.
func (s *Service) SubmitLive(ctx context.Context, userID string, answers map[string]string) (quiz.QuizResult, error) {
	sets, err := s.repo.QuestionSets(ctx)
	if err != nil {
		return quiz.QuizResult{}, err
	}
	live, ok := quiz.LiveSet(sets)
	if !ok {
		return quiz.QuizResult{}, ErrNoLiveSet
	}
	res := quiz.Grade(live, userID, answers)
	if err := s.repo.SaveQuizResult(ctx, res); err != nil {
		return quiz.QuizResult{}, fmt.Errorf("record attempt: %w", err)
	}
	return res, nil
}
