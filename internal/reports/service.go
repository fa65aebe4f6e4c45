package reports

import (
	"context"
	"fmt"

	"github.com/fdg312/health-export/internal/settings"
	"github.com/fdg312/health-export/internal/snapshot"
)

// SnapshotSource loads stored days.
type SnapshotSource interface {
	Get(ctx context.Context, ownerUserID, date string) (snapshot.Snapshot, error)
	Range(ctx context.Context, ownerUserID, from, to string) ([]snapshot.Snapshot, error)
}

// SettingsSource returns the settings reports are rendered with.
type SettingsSource interface {
	Effective(ctx context.Context, ownerUserID string) (settings.ExportSettings, error)
}

// Service renders printable and tabular reports from stored snapshots. The
// user's category selection and document settings apply.
type Service struct {
	snapshots SnapshotSource
	settings  SettingsSource
}

func NewService(snapshotSource SnapshotSource, settingsSource SettingsSource) *Service {
	return &Service{
		snapshots: snapshotSource,
		settings:  settingsSource,
	}
}

// DayPDF renders the report of one stored day.
func (s *Service) DayPDF(ctx context.Context, ownerUserID, date string) ([]byte, error) {
	snap, err := s.snapshots.Get(ctx, ownerUserID, date)
	if err != nil {
		return nil, err
	}
	prefs, err := s.settings.Effective(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return DayPDF(snapshot.Filter(snap, prefs.Mask()), prefs.Document)
}

// RangeCSV renders the stored days in [from, to]. Days without a snapshot are
// skipped.
func (s *Service) RangeCSV(ctx context.Context, ownerUserID, from, to string) ([]byte, error) {
	days, err := s.snapshots.Range(ctx, ownerUserID, from, to)
	if err != nil {
		return nil, err
	}
	prefs, err := s.settings.Effective(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	mask := prefs.Mask()
	for i := range days {
		days[i] = snapshot.Filter(days[i], mask)
	}
	return RangeCSV(days, prefs.Document)
}
