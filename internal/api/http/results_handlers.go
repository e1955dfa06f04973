package http

import (
	"net/http"

	"github.com/mind-engage/examdesk/internal/admin"
	authmw "github.com/mind-engage/examdesk/internal/auth/middleware"
)

// GET /results
func ListResultsHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.ListResults(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /results/stats: per-user attempt overview
func UserStatsHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.UserStats(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// GET /sets/live: the published set without its answer key
func LiveSetHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := svc.LiveSet(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

type submitReq struct {
	Answers map[string]string `json:"answers" validate:"required"` // questionID -> label
}

// POST /sets/live/submit
func SubmitLiveHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req submitReq
		if !decode(w, r, &req) {
			return
		}
		res, err := svc.SubmitLive(r.Context(), userID, req.Answers)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}
