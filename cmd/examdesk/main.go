package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/examdesk/internal/admin"
	api "github.com/mind-engage/examdesk/internal/api/http"
	auth "github.com/mind-engage/examdesk/internal/auth/middleware"
	"github.com/mind-engage/examdesk/internal/config"
	"github.com/mind-engage/examdesk/internal/repo"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Stores ---
	ts, err := openTableStore(ctx, cfg)
	if err != nil {
		log.Fatalf("table store (%s): %v", cfg.StoreDriver, err)
	}
	rp := repo.New(ts)
	if cfg.SeedDemo {
		if err := seedDemo(ctx, rp); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	bs, err := openBlobStore(cfg)
	if err != nil {
		log.Fatalf("blob store (%s): %v", cfg.BlobDriver, err)
	}

	svc := admin.NewService(rp, bs, admin.ImageOptions{Bucket: cfg.ImageBucket, MaxDim: cfg.ImageMaxDim})
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		api.Mount(ar, api.Deps{
			Service:       svc,
			Auth:          authSvc,
			Bootstrap:     auth.Bootstrap{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash},
			MaxUploadSize: cfg.MaxUploadSize,
		})
	})

	// Uploaded images are public, like a public storage bucket.
	if cfg.BlobDriver == config.BlobFS {
		r.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", api.Health(svc))

	log.Printf("listening on %s (store=%s, blobs=%s)", cfg.HTTPAddr, cfg.StoreDriver, cfg.BlobDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
