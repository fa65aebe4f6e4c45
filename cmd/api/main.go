package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/dbmigrate"
	"github.com/fdg312/health-export/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		migrateOnStartup(cfg)
	}

	if problems := configProblems(cfg); len(problems) > 0 {
		for _, p := range problems {
			log.Printf("FATAL config: %s", p)
		}
		log.Fatalf("FATAL config: refusing to start with %d problem(s)", len(problems))
	}

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL server: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

func migrateOnStartup(cfg *config.Config) {
	target, err := dbmigrate.SelectTarget(cfg, true)
	if err != nil {
		log.Fatalf("FATAL startup migrations: %v", err)
	}

	log.Printf("startup migrations: command=up using=%s", target.Source)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := dbmigrate.Run(ctx, "up", target.URL, cfg.MigrationsDir); err != nil {
		log.Fatalf("FATAL startup migrations failed: %v", err)
	}
	log.Printf("startup migrations: completed")
}

type bannerRow struct {
	key, value string
}

// printStartupBanner logs the resolved configuration once. Secrets are
// printed only as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	sections := []struct {
		title string
		rows  []bannerRow
	}{
		{"", []bannerRow{
			{"env", cfg.Env},
			{"port", fmt.Sprint(cfg.Port)},
		}},
		{"database", []bannerRow{
			{"runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)},
			{"direct", setOrNot(cfg.DatabaseURLDirect)},
			{"migrations_on_startup", fmt.Sprint(cfg.RunMigrationsOnStartup)},
			{"migrations_dir", orDash(cfg.MigrationsDir)},
		}},
		{"auth", authRows(cfg)},
		{"vault", vaultRows(cfg)},
		{"export", []bannerRow{
			{"format", orDash(cfg.Export.DefaultFormat)},
			{"write_mode", orDash(cfg.Export.DefaultWriteMode)},
			{"folder", orDash(cfg.Export.Folder)},
			{"history_limit", fmt.Sprint(cfg.Export.HistoryLimit)},
			{"reports_max_days", fmt.Sprint(cfg.ReportsMaxRangeDays)},
		}},
	}

	log.Println("========== Health Export API ==========")
	for _, s := range sections {
		if s.title != "" {
			log.Printf("---- %s ----", s.title)
		}
		for _, r := range s.rows {
			log.Printf("  %-22s = %s", r.key, r.value)
		}
	}
	log.Println("=======================================")
}

func authRows(cfg *config.Config) []bannerRow {
	rows := []bannerRow{
		{"auth_mode", cfg.AuthMode},
		{"auth_required", fmt.Sprint(cfg.AuthRequired)},
	}
	if cfg.AuthMode == "dev" {
		rows = append(rows,
			bannerRow{"jwt_secret", secretStatus(cfg.JWTSecret, "change_me")},
			bannerRow{"jwt_ttl_minutes", fmt.Sprint(cfg.JWTTTLMinutes)},
		)
	}
	return rows
}

func vaultRows(cfg *config.Config) []bannerRow {
	rows := []bannerRow{{"blob_mode", cfg.Blob.Mode}}
	if cfg.Blob.Mode == config.BlobModeLocal {
		rows = append(rows, bannerRow{"vault_dir", orDash(cfg.Blob.VaultDir)})
	} else {
		rows = append(rows,
			bannerRow{"s3", cfg.Blob.S3.DiagnosticsSummary()},
			bannerRow{"s3_retry_attempts", fmt.Sprint(cfg.Blob.S3.RetryAttempts)},
		)
	}
	return append(rows, bannerRow{"per_user_vault", fmt.Sprint(cfg.Export.PerUserVault)})
}

// configProblems lists settings the server must not start with.
func configProblems(cfg *config.Config) []string {
	var problems []string
	deployed := cfg.Env == "production" || cfg.Env == "prod" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			problems = append(problems, "BLOB_MODE is 's3' but S3 config is incomplete, missing: "+strings.Join(missing, ", "))
		}
	}
	if deployed && cfg.AuthMode == "dev" && cfg.JWTSecret == "change_me" {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must not be 'change_me' in %s", cfg.Env))
	}
	if deployed && cfg.DatabaseURL == "" {
		problems = append(problems, fmt.Sprintf("no DATABASE_URL configured in %s", cfg.Env))
	}
	if deployed && cfg.AuthMode == "none" {
		problems = append(problems, fmt.Sprintf("AUTH_MODE=none exposes every vault as user 'local' in %s", cfg.Env))
	}
	return problems
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	switch v = strings.TrimSpace(v); v {
	case "":
		return "not set"
	case insecureDefault:
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	default:
		return "set (custom)"
	}
}

func describeDBURL(runtime, pooled string) string {
	switch {
	case runtime == "":
		return "not set (will use in-memory storage)"
	case pooled != "" && runtime == pooled:
		return "set (via DATABASE_URL_POOLED)"
	default:
		return "set"
	}
}
