package blob

import (
	"fmt"
	"strings"

	appcfg "github.com/fdg312/health-export/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore opens the vault for BLOB_MODE local|s3|auto and returns the
// mode actually in use. S3 vaults are wrapped in a RetryStore.
func NewBlobStore(cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		return openLocal(cfg, logger, "forced")

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
			logf(logger, "INFO blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return openLocal(cfg, logger, "auto, S3 not configured")
		}
		store, err := openS3(cfg.S3, logger)
		if err != nil {
			logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
			return openLocal(cfg, logger, "auto, S3 init failed")
		}
		logf(logger, "INFO blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		store, err := openS3(cfg.S3, logger)
		if err != nil {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		logf(logger, "INFO blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func openS3(c appcfg.S3Config, logger Logger) (Store, error) {
	logf(logger, "INFO blob.s3: code=s3_ready %s", c.DiagnosticsSummary())
	store, err := NewS3Store(c.Endpoint, c.Region, c.Bucket, c.Prefix, c.AccessKeyID, c.SecretAccessKey)
	if err != nil {
		return nil, err
	}
	return NewRetryStore(store, c.RetryAttempts, 0), nil
}

func openLocal(cfg appcfg.BlobConfig, logger Logger, reason string) (Store, string, error) {
	store, err := NewLocalStore(cfg.VaultDir)
	if err != nil {
		return nil, "", err
	}
	logf(logger, "INFO blob: mode=local (%s) vault_dir=%s", reason, store.Root())
	return store, appcfg.BlobModeLocal, nil
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
