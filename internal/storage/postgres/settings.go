package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsColumns = `owner_user_id, payload, created_at, updated_at`

// PostgresSettingsStorage stores export settings as a jsonb document per user.
type PostgresSettingsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsStorage(pool *pgxpool.Pool) *PostgresSettingsStorage {
	return &PostgresSettingsStorage{pool: pool}
}

func scanSettings(row pgx.Row) (storage.Settings, error) {
	var s storage.Settings
	err := row.Scan(&s.OwnerUserID, &s.Payload, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *PostgresSettingsStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM export_settings WHERE owner_user_id = $1`,
		strings.TrimSpace(ownerUserID),
	)

	out, err := scanSettings(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return storage.Settings{}, false, nil
	case err != nil:
		return storage.Settings{}, false, fmt.Errorf("get export settings: %w", err)
	}
	return out, true, nil
}

func (s *PostgresSettingsStorage) UpsertSettings(ctx context.Context, ownerUserID string, payload []byte) (storage.Settings, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO export_settings (owner_user_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (owner_user_id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING `+settingsColumns,
		strings.TrimSpace(ownerUserID), payload,
	)

	out, err := scanSettings(row)
	if err != nil {
		return storage.Settings{}, fmt.Errorf("upsert export settings: %w", err)
	}
	return out, nil
}
