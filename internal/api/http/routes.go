package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examdesk/internal/admin"
	authmw "github.com/mind-engage/examdesk/internal/auth/middleware"
	"github.com/mind-engage/examdesk/internal/rbac"
)

// Deps bundles what the API routes need.
type Deps struct {
	Service       *admin.Service
	Auth          *authmw.AuthService
	Bootstrap     authmw.Bootstrap
	MaxUploadSize int64
}

// Mount registers the JSON API on r. Login is public; everything else is
// behind the JWT middleware and an rbac permission.
func Mount(r chi.Router, d Deps) {
	svc := d.Service
	r.Post("/auth/login", authmw.LoginHandler(d.Auth, svc, d.Bootstrap))

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.Route("/sets", func(sets chi.Router) {
			// Test-taker
			sets.With(rbac.Require("sets:view-live")).Get("/live", LiveSetHandler(svc))
			sets.With(rbac.Require("results:submit")).Post("/live/submit", SubmitLiveHandler(svc))

			sr := sets.With(rbac.Require("sets:manage"))
			sr.Get("/", ListSetsHandler(svc))
			sr.Post("/", CreateSetHandler(svc))
			sr.Get("/{setID}", GetSetHandler(svc))
			sr.Put("/{setID}", UpdateSetHandler(svc))
			sr.Delete("/{setID}", DeleteSetHandler(svc))
			sr.Post("/{setID}/live", ToggleLiveHandler(svc))

			sr.Post("/{setID}/questions", AddQuestionHandler(svc))
			sr.Put("/{setID}/questions/{questionID}", UpdateQuestionHandler(svc))
			sr.Delete("/{setID}/questions/{questionID}", DeleteQuestionHandler(svc))
			sr.Post("/{setID}/questions/{questionID}/options", AddOptionHandler(svc))
			sr.Put("/{setID}/questions/{questionID}/options/{index}", UpdateOptionHandler(svc))
			sr.Delete("/{setID}/questions/{questionID}/options/{index}", RemoveOptionHandler(svc))
			sr.Post("/{setID}/questions/{questionID}/image", UploadImageHandler(svc, d.MaxUploadSize))
		})

		// Users
		pr.Route("/users", func(ur chi.Router) {
			ur.Use(rbac.Require("users:manage"))
			ur.Get("/", ListUsersHandler(svc))
			ur.Post("/", CreateUserHandler(svc))
			ur.Post("/bulk", BulkUpsertUsersHandler(svc))
			ur.Put("/{userID}", UpdateUserHandler(svc))
			ur.Delete("/{userID}", DeleteUserHandler(svc))
		})

		// Results
		pr.With(rbac.Require("results:view")).Get("/results", ListResultsHandler(svc))
		pr.With(rbac.Require("results:view")).Get("/results/stats", UserStatsHandler(svc))
	})
}

// Health answers 200 once the store can be listed.
func Health(svc *admin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := svc.ListUsers(r.Context()); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
