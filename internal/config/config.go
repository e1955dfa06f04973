package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Table store backends.
const (
	StoreSQL  = "sql"  // database/sql: sqlite or postgres
	StoreGorm = "gorm" // GORM over postgres
	StoreREST = "rest" // PostgREST / Supabase
)

// Blob backends.
const (
	BlobFS       = "fs"
	BlobSupabase = "supabase"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	StoreDriver string // sql|gorm|rest
	DBDriver    string // sqlite|postgres, for StoreSQL
	DBDSN       string

	SupabaseURL string
	SupabaseKey string

	BlobDriver    string // fs|supabase
	BlobBasePath  string // for fs
	ImageBucket   string
	ImageMaxDim   int
	MaxUploadSize int64

	AuthSecret string
	TokenTTL   time.Duration

	AdminUser     string
	AdminPassHash string // bcrypt, bootstrap login only

	CORSOrigins    []string
	RequestTimeout time.Duration

	SeedDemo bool
}

// FromEnv loads .env when present, then reads the environment.
func FromEnv() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	addr := envOr("HTTP_ADDR", ":8080")
	pub := strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/")
	if pub == "" {
		pub = "http://localhost" + addr
	}
	return Config{
		HTTPAddr:  addr,
		PublicURL: pub,

		StoreDriver: envOr("STORE_DRIVER", StoreSQL),
		DBDriver:    envOr("DB_DRIVER", "sqlite"),
		DBDSN:       envOr("DB_DSN", ""),

		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		BlobDriver:    envOr("BLOB_DRIVER", BlobFS),
		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		ImageBucket:   envOr("IMAGE_BUCKET", "exam-images"),
		ImageMaxDim:   envInt("IMAGE_MAX_DIM", 1600),
		MaxUploadSize: int64(envInt("MAX_UPLOAD_MB", 5)) << 20,

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:   envDuration("TOKEN_TTL", 8*time.Hour),

		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),

		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),

		SeedDemo: envBool("SEED_DEMO", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n >= 0 {
		return n
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
