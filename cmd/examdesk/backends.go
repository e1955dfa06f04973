package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mind-engage/examdesk/internal/config"
	"github.com/mind-engage/examdesk/internal/db"
	"github.com/mind-engage/examdesk/internal/quiz"
	"github.com/mind-engage/examdesk/internal/repo"
	"github.com/mind-engage/examdesk/internal/storage"
	"github.com/mind-engage/examdesk/internal/tablestore"
	"github.com/mind-engage/examdesk/internal/tablestore/gormstore"
	"github.com/mind-engage/examdesk/internal/tablestore/rest"
	"github.com/mind-engage/examdesk/internal/tablestore/sqlstore"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func openTableStore(ctx context.Context, cfg config.Config) (tablestore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQL:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(dbh, cfg.DBDriver), nil
	case config.StoreGorm:
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is required")
		}
		return gormstore.Open(cfg.DBDSN)
	case config.StoreREST:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, errors.New("SUPABASE_URL and SUPABASE_KEY are required")
		}
		return rest.New(cfg.SupabaseURL, cfg.SupabaseKey, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openBlobStore(cfg config.Config) (storage.BlobStore, error) {
	switch cfg.BlobDriver {
	case config.BlobFS:
		return storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL+"/assets")
	case config.BlobSupabase:
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, httpClient)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}

// seedDemo adds an admin and a sample user when the users table is empty.
func seedDemo(ctx context.Context, rp *repo.Repo) error {
	users, err := rp.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	log.Println("seed: creating demo accounts")
	return rp.SaveUsers(ctx, []quiz.User{
		{ID: quiz.NewID(), Username: quiz.ProtectedUsername, Password: "123", Name: "Administrator", Role: quiz.RoleAdmin, Language: "en"},
		{ID: quiz.NewID(), Username: "user", Password: "123", Name: "Demo User", Role: quiz.RoleUser, Position: "Staff", Language: "en"},
	})
}
