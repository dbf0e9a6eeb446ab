package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DatabaseURL         string
	JWTSecret           string
	Port                string
	AllowedOrigins      []string
	Env                 string
	RoleReusePolicy     string
	BcryptCost          int
	OrphanAuditInterval time.Duration
	R2                  R2Config
}

func (c Config) Development() bool {
	return c.Env == "development"
}

// NewLogger builds the process logger for the configured environment.
func (c Config) NewLogger() (*zap.Logger, error) {
	if c.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found, reading environment variables directly")
	}

	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		Port:            getenv("PORT", "5000"),
		Env:             getenv("APP_ENV", "production"),
		RoleReusePolicy: getenv("ROLE_REUSE_POLICY", "reuse"),
		BcryptCost:      bcrypt.DefaultCost,
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable not set")
	}

	for _, o := range strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return cfg, fmt.Errorf("BCRYPT_COST must be an integer in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
		}
		cfg.BcryptCost = n
	}

	if v := os.Getenv("ORPHAN_AUDIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("ORPHAN_AUDIT_INTERVAL must be a positive duration: %q", v)
		}
		cfg.OrphanAuditInterval = d
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
