package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examdesk/internal/admin"
	"github.com/mind-engage/examdesk/internal/quiz"
)

type setReq struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	TimeLimit   int    `json:"timeLimit" validate:"required,min=1"`
}

func (s setReq) toSet(id string) quiz.QuestionSet {
	return quiz.QuestionSet{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		TimeLimit:   s.TimeLimit,
	}
}

// GET /sets
func ListSetsHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sets, err := svc.ListSets(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sets)
	}
}

// GET /sets/{setID}
func GetSetHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := svc.GetSet(r.Context(), chi.URLParam(r, "setID"))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

// POST /sets
func CreateSetHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setReq
		if !decode(w, r, &req) {
			return
		}
		set, err := svc.SaveSet(r.Context(), req.toSet(""))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, set)
	}
}

// PUT /sets/{setID}
func UpdateSetHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setReq
		if !decode(w, r, &req) {
			return
		}
		set, err := svc.SaveSet(r.Context(), req.toSet(chi.URLParam(r, "setID")))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

// DELETE /sets/{setID}
func DeleteSetHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteSet(r.Context(), chi.URLParam(r, "setID")); err != nil {
			writeErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /sets/{setID}/live -> every set, with at most one live
func ToggleLiveHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sets, err := svc.ToggleLive(r.Context(), chi.URLParam(r, "setID"))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sets)
	}
}
