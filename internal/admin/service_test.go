package admin_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/mind-engage/examdesk/internal/admin"
	"github.com/mind-engage/examdesk/internal/quiz"
	"github.com/mind-engage/examdesk/internal/repo"
	"github.com/mind-engage/examdesk/internal/tablestore"
)

/* ---------------- fakes ---------------- */

type fakeBlobs struct {
	uploads   map[string][]byte
	uploadErr error
	urlErr    error
}

func (f *fakeBlobs) Upload(_ context.Context, bucket, key string, r io.Reader, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, _ := io.ReadAll(r)
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucket+"/"+key] = b
	return key, nil
}

func (f *fakeBlobs) PublicURL(bucket, key string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://cdn.example/" + bucket + "/" + key, nil
}

func (f *fakeBlobs) Get(context.Context, string, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func newService(t *testing.T) (*admin.Service, *repo.Repo, *fakeBlobs) {
	t.Helper()
	r := repo.New(tablestore.NewMemory())
	b := &fakeBlobs{}
	return admin.NewService(r, b, admin.ImageOptions{MaxDim: 64}), r, b
}

func seedSet(t *testing.T, svc *admin.Service) (quiz.QuestionSet, quiz.Question) {
	t.Helper()
	ctx := context.Background()
	set, err := svc.SaveSet(ctx, quiz.QuestionSet{Title: "Safety", Category: "Intro", TimeLimit: 5})
	if err != nil {
		t.Fatalf("save set: %v", err)
	}
	q, err := svc.AddQuestion(ctx, set.ID)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	return set, q
}

/* ---------------- tests ---------------- */

func TestToggleLivePersistsExclusiveFlag(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		s, err := svc.SaveSet(ctx, quiz.QuestionSet{Title: title, Category: "c", TimeLimit: 1})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		ids = append(ids, s.ID)
	}
	if _, err := svc.ToggleLive(ctx, ids[1]); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.ToggleLive(ctx, ids[0]); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	sets, _ := r.QuestionSets(ctx)
	live := 0
	for _, s := range sets {
		if s.IsLive {
			live++
			if s.ID != ids[0] {
				t.Fatalf("wrong set live: %s", s.Title)
			}
		}
	}
	if live != 1 {
		t.Fatalf("expected exactly one live set, got %d", live)
	}

	// editing metadata never changes the live flag
	saved, err := svc.SaveSet(ctx, quiz.QuestionSet{ID: ids[0], Title: "renamed", Category: "c", TimeLimit: 2})
	if err != nil || !saved.IsLive {
		t.Fatalf("edit dropped live flag: %+v %v", saved, err)
	}
}

func TestOptionEditsThroughService(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	set, q := seedSet(t, svc)

	c := "D"
	if _, err := svc.UpdateQuestion(ctx, set.ID, q.ID, admin.QuestionPatch{CorrectOption: &c}); err != nil {
		t.Fatalf("set correct: %v", err)
	}
	res, err := svc.RemoveOption(ctx, set.ID, q.ID, 1)
	if err != nil || !res.Applied {
		t.Fatalf("remove: %+v %v", res, err)
	}
	if res.Question.CorrectOption != "C" || len(res.Question.Options) != 3 {
		t.Fatalf("unexpected question %+v", res.Question)
	}

	for i := 0; i < 3; i++ {
		if res, err = svc.AddOption(ctx, set.ID, q.ID, ""); err != nil || !res.Applied {
			t.Fatalf("add %d: %+v %v", i, res, err)
		}
	}
	res, err = svc.AddOption(ctx, set.ID, q.ID, "seventh")
	if err != nil {
		t.Fatalf("rejected add must not error: %v", err)
	}
	if res.Applied || len(res.Question.Options) != 6 || res.Question.CorrectOption != "C" {
		t.Fatalf("seventh option should be refused: %+v", res)
	}

	stored, _ := svc.GetSet(ctx, set.ID)
	if len(stored.Questions[0].Options) != 6 {
		t.Fatalf("persisted options = %d", len(stored.Questions[0].Options))
	}
	bad := "G"
	if _, err := svc.UpdateQuestion(ctx, set.ID, q.ID, admin.QuestionPatch{CorrectOption: &bad}); !errors.Is(err, admin.ErrInvalidAnswerKey) {
		t.Fatalf("expected ErrInvalidAnswerKey, got %v", err)
	}
}

func TestRemoveOptionRefusedAtTwo(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	set, q := seedSet(t, svc)
	for i := 0; i < 2; i++ {
		if _, err := svc.RemoveOption(ctx, set.ID, q.ID, 0); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	res, err := svc.RemoveOption(ctx, set.ID, q.ID, 0)
	if err != nil || res.Applied || len(res.Question.Options) != 2 {
		t.Fatalf("third removal must be refused silently: %+v %v", res, err)
	}
	if _, err := svc.RemoveOption(ctx, set.ID, "missing", 0); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserProtectsAdmin(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()
	if err := r.SaveUsers(ctx, []quiz.User{{ID: "a1", Username: "admin", Password: "123", Name: "Admin", Role: quiz.RoleAdmin}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	u, err := svc.SaveUser(ctx, quiz.User{Username: "worker", Password: "pw", Name: "Worker"})
	if err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := svc.DeleteUser(ctx, "a1"); !errors.Is(err, quiz.ErrProtectedUser) {
		t.Fatalf("expected ErrProtectedUser, got %v", err)
	}
	if err := svc.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users, _ := svc.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected only admin left, got %+v", users)
	}
	if _, err := svc.Login(ctx, "admin", "123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestUploadQuestionImage(t *testing.T) {
	svc, _, blobs := newService(t)
	ctx := context.Background()
	set, q := seedSet(t, svc)

	got, err := svc.UploadQuestionImage(ctx, set.ID, q.ID, "photo.PNG", "image/png", bytes.NewReader(pngBytes(t, 200, 100)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(got.ImageURL, "https://cdn.example/exam-images/") || !strings.HasSuffix(got.ImageURL, ".png") {
		t.Fatalf("image url = %q", got.ImageURL)
	}
	if len(blobs.uploads) != 1 {
		t.Fatalf("expected one stored file")
	}
	for _, b := range blobs.uploads {
		cfg, err := png.DecodeConfig(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("stored file is not a png: %v", err)
		}
		if cfg.Width != 64 || cfg.Height != 32 {
			t.Fatalf("expected resize to 64x32, got %dx%d", cfg.Width, cfg.Height)
		}
	}
}

func TestUploadFailureLeavesQuestionUntouched(t *testing.T) {
	svc, _, blobs := newService(t)
	ctx := context.Background()
	set, q := seedSet(t, svc)

	blobs.uploadErr = errors.New("bucket offline")
	if _, err := svc.UploadQuestionImage(ctx, set.ID, q.ID, "x.png", "image/png", strings.NewReader("not really an image")); !errors.Is(err, admin.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}

	blobs.uploadErr = nil
	blobs.urlErr = errors.New("no url")
	if _, err := svc.UploadQuestionImage(ctx, set.ID, q.ID, "x.png", "image/png", strings.NewReader("x")); !errors.Is(err, admin.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if len(blobs.uploads) != 1 {
		t.Fatalf("the stored file stays behind when the URL step fails")
	}

	stored, _ := svc.GetSet(ctx, set.ID)
	if stored.Questions[0].ImageURL != "" {
		t.Fatalf("image url must stay empty, got %q", stored.Questions[0].ImageURL)
	}
}

func TestLiveSetAndSubmit(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.LiveSet(ctx); !errors.Is(err, admin.ErrNoLiveSet) {
		t.Fatalf("expected ErrNoLiveSet, got %v", err)
	}
	set, q := seedSet(t, svc)
	if _, err := svc.ToggleLive(ctx, set.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	live, err := svc.LiveSet(ctx)
	if err != nil || live.ID != set.ID || live.Questions[0].CorrectOption != "" {
		t.Fatalf("live view: %+v %v", live, err)
	}
	res, err := svc.SubmitLive(ctx, "u1", map[string]string{q.ID: "A"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.CorrectAnswers != 1 || res.TotalQuestions != 1 || res.ExamTitle != "Safety" {
		t.Fatalf("unexpected result %+v", res)
	}
	all, _ := r.QuizResults(ctx)
	if len(all) != 1 || all[0].ID != res.ID {
		t.Fatalf("result not recorded: %+v", all)
	}
}
