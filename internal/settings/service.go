package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/storage"
	"github.com/fdg312/health-export/internal/writemode"
)

type Service struct {
	storage storage.SettingsStorage
	config  *config.Config
}

func NewService(settingsStorage storage.SettingsStorage, cfg *config.Config) *Service {
	return &Service{
		storage: settingsStorage,
		config:  cfg,
	}
}

func (s *Service) GetOrDefault(ctx context.Context, ownerUserID string) (SettingsResponse, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return SettingsResponse{}, fmt.Errorf("owner_user_id is required")
	}

	row, found, err := s.storage.GetSettings(ctx, ownerUserID)
	if err != nil {
		return SettingsResponse{}, err
	}

	if !found {
		return SettingsResponse{
			Settings:  s.Defaults(),
			IsDefault: true,
		}, nil
	}

	var out ExportSettings
	if err := json.Unmarshal(row.Payload, &out); err != nil {
		return SettingsResponse{}, fmt.Errorf("decode stored settings: %w", err)
	}
	return SettingsResponse{
		Settings:  out,
		IsDefault: false,
	}, nil
}

// Effective returns the settings an export for ownerUserID runs with.
func (s *Service) Effective(ctx context.Context, ownerUserID string) (ExportSettings, error) {
	resp, err := s.GetOrDefault(ctx, ownerUserID)
	if err != nil {
		return ExportSettings{}, err
	}
	return resp.Settings, nil
}

func (s *Service) Upsert(ctx context.Context, ownerUserID string, in ExportSettings) (ExportSettings, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return ExportSettings{}, fmt.Errorf("owner_user_id is required")
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return ExportSettings{}, err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return ExportSettings{}, fmt.Errorf("encode settings: %w", err)
	}

	row, err := s.storage.UpsertSettings(ctx, ownerUserID, payload)
	if err != nil {
		return ExportSettings{}, err
	}

	var out ExportSettings
	if err := json.Unmarshal(row.Payload, &out); err != nil {
		return ExportSettings{}, fmt.Errorf("decode stored settings: %w", err)
	}
	return out, nil
}

// Defaults are the package defaults adjusted by the server configuration.
func (s *Service) Defaults() ExportSettings {
	d := Defaults()
	if s.config == nil {
		return d
	}
	if f, err := export.ParseFormat(s.config.Export.DefaultFormat); err == nil {
		d.Format = f
	}
	if m, err := writemode.ParseMode(s.config.Export.DefaultWriteMode); err == nil {
		d.WriteMode = m
	}
	if folder := strings.Trim(s.config.Export.Folder, "/ "); folder != "" {
		d.Folder = folder
	}
	return d
}
