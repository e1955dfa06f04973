package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examdesk/internal/admin"
)

// POST /sets/{setID}/questions
func AddQuestionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.AddQuestion(r.Context(), chi.URLParam(r, "setID"))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /sets/{setID}/questions/{questionID}  { "text"?, "imageUrl"?, "correctOption"? }
func UpdateQuestionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p admin.QuestionPatch
		if !decode(w, r, &p) {
			return
		}
		q, err := svc.UpdateQuestion(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "questionID"), p)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /sets/{setID}/questions/{questionID}
func DeleteQuestionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteQuestion(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "questionID")); err != nil {
			writeErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type optionReq struct {
	Text string `json:"text"`
}

// Option edits answer 200 with {"question":…, "applied":bool}; a refused edit
// (option limits, bad index) is not an error.

// POST /sets/{setID}/questions/{questionID}/options
func AddOptionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req optionReq
		if r.ContentLength != 0 && !decode(w, r, &req) {
			return
		}
		res, err := svc.AddOption(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "questionID"), req.Text)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// PUT /sets/{setID}/questions/{questionID}/options/{index}
func UpdateOptionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, ok := pathIndex(chi.URLParam(r, "index"))
		if !ok {
			http.Error(w, "bad option index", http.StatusBadRequest)
			return
		}
		var req optionReq
		if !decode(w, r, &req) {
			return
		}
		res, err := svc.UpdateOption(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "questionID"), idx, req.Text)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// DELETE /sets/{setID}/questions/{questionID}/options/{index}
func RemoveOptionHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, ok := pathIndex(chi.URLParam(r, "index"))
		if !ok {
			http.Error(w, "bad option index", http.StatusBadRequest)
			return
		}
		res, err := svc.RemoveOption(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "questionID"), idx)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /sets/{setID}/questions/{questionID}/image  (multipart, field "file")
func UploadImageHandler(svc *admin.Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		q, err := svc.UploadQuestionImage(r.Context(),
			chi.URLParam(r, "setID"), chi.URLParam(r, "questionID"),
			hdr.Filename, hdr.Header.Get("Content-Type"), f)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
