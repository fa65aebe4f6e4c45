package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/storage"
)

var (
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrDateMismatch     = errors.New("snapshot date does not match path")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Service stores a user's daily snapshots.
type Service struct {
	storage      storage.SnapshotStorage
	maxRangeDays int
}

func NewService(snapshotStorage storage.SnapshotStorage, cfg *config.Config) *Service {
	maxRange := 90
	if cfg != nil && cfg.ReportsMaxRangeDays > 0 {
		maxRange = cfg.ReportsMaxRangeDays
	}
	return &Service{
		storage:      snapshotStorage,
		maxRangeDays: maxRange,
	}
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// Put stores s as the snapshot of date. A snapshot without a date takes the
// one from the path.
func (s *Service) Put(ctx context.Context, ownerUserID, date string, snap snapshot.Snapshot) (SnapshotSummary, error) {
	day, err := ParseDate(date)
	if err != nil {
		return SnapshotSummary{}, err
	}
	if snap.Date.IsZero() {
		snap.Date = day
	} else if snap.Date != day {
		return SnapshotSummary{}, fmt.Errorf("%w: body=%s path=%s", ErrDateMismatch, snap.Date, day)
	}
	if err := snap.Validate(); err != nil {
		return SnapshotSummary{}, err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return SnapshotSummary{}, fmt.Errorf("encode snapshot: %w", err)
	}

	row, err := s.storage.UpsertSnapshot(ctx, ownerUserID, day.String(), payload)
	if err != nil {
		return SnapshotSummary{}, fmt.Errorf("store snapshot: %w", err)
	}
	return summarize(snap, row.UpdatedAt), nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, date string) (snapshot.Snapshot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	row, found, err := s.storage.GetSnapshot(ctx, ownerUserID, day.String())
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		return snapshot.Snapshot{}, ErrSnapshotNotFound
	}
	return decode(row)
}

// List returns summaries of the stored days in [from, to].
func (s *Service) List(ctx context.Context, ownerUserID, from, to string) ([]SnapshotSummary, error) {
	rows, err := s.rows(ctx, ownerUserID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]SnapshotSummary, 0, len(rows))
	for _, row := range rows {
		snap, err := decode(row)
		if err != nil {
			continue // skip invalid
		}
		out = append(out, summarize(snap, row.UpdatedAt))
	}
	return out, nil
}

// Range returns the stored snapshots in [from, to], oldest first.
func (s *Service) Range(ctx context.Context, ownerUserID, from, to string) ([]snapshot.Snapshot, error) {
	rows, err := s.rows(ctx, ownerUserID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]snapshot.Snapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := decode(row)
		if err != nil {
			continue // skip invalid
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *Service) rows(ctx context.Context, ownerUserID, from, to string) ([]storage.SnapshotRow, error) {
	fromDay, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, ErrInvalidRange
	}
	if toDay.DaysSince(fromDay) >= s.maxRangeDays {
		return nil, fmt.Errorf("%w: max %d days", ErrRangeTooLarge, s.maxRangeDays)
	}

	rows, err := s.storage.ListSnapshots(ctx, ownerUserID, fromDay.String(), toDay.String())
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return rows, nil
}

func decode(row storage.SnapshotRow) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := json.Unmarshal(row.Payload, &snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", row.Date, err)
	}
	return snap, nil
}
