package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examdesk/internal/admin"
	authmw "github.com/mind-engage/examdesk/internal/auth/middleware"
	"github.com/mind-engage/examdesk/internal/quiz"
)

type userReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Language string `json:"language" validate:"required"`
}

func (u userReq) toUser(id string) quiz.User {
	return quiz.User{
		ID:       id,
		Username: u.Username,
		Password: u.Password,
		Name:     u.Name,
		Position: u.Position,
		Language: u.Language,
	}
}

// GET /users[?role=user]
func ListUsersHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		role := r.URL.Query().Get("role")
		out := make([]quiz.User, 0, len(users))
		for _, u := range users {
			if role == "" || u.Role == role {
				out = append(out, u)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /users
func CreateUserHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userReq
		if !decode(w, r, &req) {
			return
		}
		u, err := svc.SaveUser(r.Context(), req.toUser(""))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

// PUT /users/{userID}
func UpdateUserHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userReq
		if !decode(w, r, &req) {
			return
		}
		u, err := svc.SaveUser(r.Context(), req.toUser(chi.URLParam(r, "userID")))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// DELETE /users/{userID}
func DeleteUserHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		if id == authmw.SubjectFromContext(r.Context()) {
			http.Error(w, "cannot delete your own account", http.StatusBadRequest)
			return
		}
		if err := svc.DeleteUser(r.Context(), id); err != nil {
			writeErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /users/bulk: multipart file= (CSV or JSON) or a raw JSON array.
func BulkUpsertUsersHandler(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []quiz.User
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			body, err := io.ReadAll(f)
			if err != nil {
				http.Error(w, "unreadable file", http.StatusBadRequest)
				return
			}
			trimmed := strings.TrimSpace(string(body))
			if strings.HasPrefix(trimmed, "[") {
				if err := json.Unmarshal(body, &rows); err != nil {
					http.Error(w, "bad json", http.StatusBadRequest)
					return
				}
			} else if rows, err = parseCSV(strings.NewReader(trimmed)); err != nil {
				http.Error(w, "bad csv: "+err.Error(), http.StatusBadRequest)
				return
			}
		} else if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			http.Error(w, "expected JSON array or multipart file", http.StatusBadRequest)
			return
		}
		for _, u := range rows {
			if u.Username == "" || u.Password == "" {
				http.Error(w, "username and password required on every row", http.StatusBadRequest)
				return
			}
		}

		ins, upd, err := svc.ImportUsers(r.Context(), rows)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": ins, "updated": upd})
	}
}

// parseCSV reads a header row (username,password required; id,name,role,
// position,language optional) followed by one user per line.
func parseCSV(r io.Reader) ([]quiz.User, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"username", "password"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	col := func(rec []string, name string) string {
		if i, ok := idx[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	var rows []quiz.User
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, quiz.User{
			ID:       col(rec, "id"),
			Username: col(rec, "username"),
			Password: col(rec, "password"),
			Name:     col(rec, "name"),
			Role:     strings.ToLower(col(rec, "role")),
			Position: col(rec, "position"),
			Language: col(rec, "language"),
		})
	}
	return rows, nil
}
