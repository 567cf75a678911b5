// config/config.go
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the service configuration read from the environment.
type Config struct {
	Port           string   `env:"PORT" envDefault:"5200"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AdminToken     string   `env:"ADMIN_TOKEN"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	ListCacheTTL  time.Duration `env:"LIST_CACHE_TTL" envDefault:"15s"`

	TurnWindow          time.Duration `env:"TURN_WINDOW" envDefault:"24h"`
	ExpirySweepInterval time.Duration `env:"EXPIRY_SWEEP_INTERVAL" envDefault:"1m"`
	SeedDemoData        bool          `env:"SEED_DEMO_DATA" envDefault:"true"`

	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxVideoBytes int64  `env:"MAX_VIDEO_BYTES" envDefault:"104857600"`

	R2 R2Config

	SyncServiceURL   string        `env:"SYNC_SERVICE_URL"`
	SyncServiceToken string        `env:"SYNC_SERVICE_TOKEN"`
	UserSyncInterval time.Duration `env:"USER_SYNC_INTERVAL" envDefault:"1m"`
}

// R2Config holds Cloudflare R2 credentials. Uploads go to R2 only when
// every field except CDNBaseURL is set.
type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether R2 uploads are configured.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse reads the environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TurnWindow <= 0 {
		return fmt.Errorf("TURN_WINDOW must be positive, got %s", c.TurnWindow)
	}
	if c.ExpirySweepInterval <= 0 {
		return fmt.Errorf("EXPIRY_SWEEP_INTERVAL must be positive, got %s", c.ExpirySweepInterval)
	}
	if c.MaxVideoBytes <= 0 {
		return fmt.Errorf("MAX_VIDEO_BYTES must be positive, got %d", c.MaxVideoBytes)
	}
	if c.SyncServiceURL != "" && c.SyncServiceToken == "" {
		return fmt.Errorf("SYNC_SERVICE_TOKEN is required when SYNC_SERVICE_URL is set")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// CORSOrigins is AllowedOrigins in the comma-separated form fiber's cors
// middleware expects.
func (c Config) CORSOrigins() string {
	return strings.Join(c.AllowedOrigins, ",")
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
