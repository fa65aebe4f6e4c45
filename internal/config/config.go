package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	Prefix            string // key prefix inside the bucket, acts as the vault root
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string // optional
	PresignTTLSeconds int
	PreferPublicURL   bool
	RetryAttempts     int // per vault call, first try included
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == "" &&
		strings.TrimSpace(c.PublicBaseURL) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s prefix=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.Prefix),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode     string // local|s3|auto
	VaultDir string // root of the local vault
	S3       S3Config
}

// ExportConfig holds server-side defaults for export settings.
type ExportConfig struct {
	DefaultFormat    string // markdown | properties | json | csv
	DefaultWriteMode string // overwrite | append | update
	Folder           string // vault folder for daily notes
	HistoryLimit     int    // max runs returned by GET /v1/exports
	SnapshotMaxKB    int
	PerUserVault     bool   // prefix every vault key with users/<id>/
}

// Config is the application configuration.
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Vault (local directory or S3 bucket)
	Blob BlobConfig

	// Export
	Export ExportConfig

	// Reports
	ReportsMaxRangeDays int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Migrations
	RunMigrationsOnStartup bool
	MigrationsDir          string // empty: SQL embedded in the binary
}

var (
	exportFormats    = []string{"markdown", "properties", "json", "csv"}
	exportWriteModes = []string{"overwrite", "append", "update"}
	blobModes        = []string{BlobModeLocal, BlobModeS3, BlobModeAuto}
	authModes        = []string{"none", "dev"}
)

// Load reads the configuration from environment variables.
func Load() *Config {
	env := firstNonEmpty(os.Getenv("APP_ENV"), os.Getenv("ENV"), "local")

	// Runtime DB priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := envString("DATABASE_URL_POOLED", "")
	dbURL := envString("DATABASE_URL", "")
	dbDirect := envString("DATABASE_URL_DIRECT", "")

	cfg := &Config{
		Env:      env,
		Port:     envInt("PORT", 8080),
		LogLevel: envString("LOG_LEVEL", "debug"),

		DatabaseURL:       firstNonEmpty(dbPooled, dbURL, dbDirect),
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		Blob: BlobConfig{
			Mode:     parseChoice("BLOB_MODE", blobModes, BlobModeLocal),
			VaultDir: envString("VAULT_DIR", "./vault"),
			S3: S3Config{
				Endpoint:          envString("S3_ENDPOINT", ""),
				Region:            envString("S3_REGION", ""),
				Bucket:            envString("S3_BUCKET", ""),
				Prefix:            strings.Trim(envString("S3_PREFIX", ""), "/"),
				AccessKeyID:       envString("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey:   envString("S3_SECRET_ACCESS_KEY", ""),
				PublicBaseURL:     envString("S3_PUBLIC_BASE_URL", ""),
				PresignTTLSeconds: positive(envInt("S3_PRESIGN_TTL_SECONDS", 900), 900),
				PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
				RetryAttempts:     positive(envInt("S3_RETRY_ATTEMPTS", 3), 3),
			},
		},

		Export: ExportConfig{
			DefaultFormat:    parseChoice("EXPORT_DEFAULT_FORMAT", exportFormats, "markdown"),
			DefaultWriteMode: parseChoice("EXPORT_DEFAULT_WRITE_MODE", exportWriteModes, "update"),
			Folder:           firstNonEmpty(strings.Trim(envString("EXPORT_FOLDER", ""), "/"), "Health"),
			HistoryLimit:     positive(envInt("EXPORT_HISTORY_LIMIT", 50), 50),
			SnapshotMaxKB:    positive(envInt("SNAPSHOT_MAX_KB", 512), 512),
			PerUserVault:     parseBoolEnv("EXPORT_PER_USER_VAULT"),
		},

		ReportsMaxRangeDays: envInt("REPORTS_MAX_RANGE_DAYS", 90),

		AuthMode:      parseChoice("AUTH_MODE", authModes, "none"),
		JWTSecret:     firstNonEmpty(os.Getenv("JWT_SECRET"), "change_me"),
		JWTIssuer:     firstNonEmpty(os.Getenv("JWT_ISSUER"), "health-export"),
		JWTTTLMinutes: envInt("JWT_TTL_MINUTES", 10080), // 7 days

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
		MigrationsDir:          envString("MIGRATIONS_DIR", ""),
	}

	// AUTH_REQUIRED only matters when tokens exist.
	cfg.AuthRequired = cfg.AuthMode != "none" && parseBoolEnv("AUTH_REQUIRED")

	if cfg.JWTSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	return cfg
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// positive replaces zero and negative values with defaultVal.
func positive(v, defaultVal int) int {
	if v <= 0 {
		return defaultVal
	}
	return v
}

// parseChoice reads a lower-cased env var restricted to allowed values.
func parseChoice(key string, allowed []string, defaultVal string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
