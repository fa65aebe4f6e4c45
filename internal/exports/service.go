package exports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/fdg312/health-export/internal/blob"
	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/settings"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/snapshots"
	"github.com/fdg312/health-export/internal/storage"
	"github.com/fdg312/health-export/internal/tracking"
	"github.com/fdg312/health-export/internal/writemode"
)

var (
	ErrInvalidRequest = errors.New("invalid export request")
	ErrRunNotFound    = errors.New("export run not found")
	ErrVaultWrite     = errors.New("vault write failed")
)

// SnapshotSource loads one stored day.
type SnapshotSource interface {
	Get(ctx context.Context, ownerUserID, date string) (snapshot.Snapshot, error)
}

// SettingsSource returns the settings an export runs with.
type SettingsSource interface {
	Effective(ctx context.Context, ownerUserID string) (settings.ExportSettings, error)
}

// Service renders stored snapshots into the vault and keeps a run history.
type Service struct {
	snapshots    SnapshotSource
	settings     SettingsSource
	runs         storage.ExportsStorage
	vault        blob.Store
	locks        *pathLocks
	historyLimit int
	perUserVault bool
}

func NewService(
	snapshotSource SnapshotSource,
	settingsSource SettingsSource,
	runs storage.ExportsStorage,
	vault blob.Store,
	cfg *config.Config,
) *Service {
	s := &Service{
		snapshots:    snapshotSource,
		settings:     settingsSource,
		runs:         runs,
		vault:        vault,
		locks:        newPathLocks(),
		historyLimit: 50,
	}
	if cfg != nil {
		if cfg.Export.HistoryLimit > 0 {
			s.historyLimit = cfg.Export.HistoryLimit
		}
		s.perUserVault = cfg.Export.PerUserVault
	}
	return s
}

// plan is everything a run needs before it touches the vault.
type plan struct {
	date    civil.Date
	key     string
	format  export.Format
	mode    writemode.Mode
	content string
	tracked []tracking.File
}

func (s *Service) plan(ctx context.Context, ownerUserID string, req RunRequest) (plan, error) {
	day, err := snapshots.ParseDate(req.Date)
	if err != nil {
		return plan{}, err
	}

	prefs, err := s.settings.Effective(ctx, ownerUserID)
	if err != nil {
		return plan{}, fmt.Errorf("load settings: %w", err)
	}
	prefs, err = applyOverrides(prefs, req)
	if err != nil {
		return plan{}, err
	}

	snap, err := s.snapshots.Get(ctx, ownerUserID, day.String())
	if err != nil {
		return plan{}, err
	}
	filtered := snapshot.Filter(snap, prefs.Mask())

	content, err := export.Serialize(prefs.Format, filtered, prefs.Document)
	if err != nil {
		return plan{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	key, err := s.vaultKey(ownerUserID, prefs.Path(day))
	if err != nil {
		return plan{}, err
	}

	tracked := tracking.Entries(filtered, prefs.Tracking, prefs.Document)
	for i := range tracked {
		k, err := s.vaultKey(ownerUserID, tracked[i].Path)
		if err != nil {
			return plan{}, err
		}
		tracked[i].Path = k
	}

	return plan{
		date:    day,
		key:     key,
		format:  prefs.Format,
		mode:    prefs.WriteMode,
		content: content,
		tracked: tracked,
	}, nil
}

func applyOverrides(prefs settings.ExportSettings, req RunRequest) (settings.ExportSettings, error) {
	if req.Format != nil && strings.TrimSpace(*req.Format) != "" {
		f, err := export.ParseFormat(*req.Format)
		if err != nil {
			return prefs, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		prefs.Format = f
	}
	if req.WriteMode != nil && strings.TrimSpace(*req.WriteMode) != "" {
		m, err := writemode.ParseMode(*req.WriteMode)
		if err != nil {
			return prefs, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		prefs.WriteMode = m
	}
	if len(req.Categories) > 0 {
		mask, err := snapshot.ParseMask(req.Categories)
		if err != nil {
			return prefs, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		prefs.Categories = mask.Keys()
	}
	return prefs, nil
}

func (s *Service) vaultKey(ownerUserID, rel string) (string, error) {
	if s.perUserVault {
		rel = path.Join("users", strings.ReplaceAll(ownerUserID, "/", "_"), rel)
	}
	key, err := blob.CleanKey(rel)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return key, nil
}

// Run exports one day into the vault, then records the run. A failed write
// is recorded too and reported as ErrVaultWrite.
func (s *Service) Run(ctx context.Context, ownerUserID string, req RunRequest) (RunDTO, error) {
	p, err := s.plan(ctx, ownerUserID, req)
	if err != nil {
		return RunDTO{}, err
	}

	run := &storage.ExportRun{
		OwnerUserID:   ownerUserID,
		Date:          p.date.String(),
		Path:          p.key,
		Format:        string(p.format),
		RequestedMode: string(p.mode),
		AppliedMode:   string(p.mode),
		Status:        StatusOK,
		TrackedFiles:  []string{},
	}

	res, size, writeErr := s.write(ctx, p.key, p.format.ContentType(), func(existing writemode.Existing) writemode.Result {
		return writemode.Resolve(existing, p.content, p.mode, p.format)
	})
	if writeErr == nil {
		run.AppliedMode = string(res.Applied)
		run.SizeBytes = size
		documentBytes.WithLabelValues(string(p.format)).Observe(float64(size))
		if res.FellBack {
			updateFallbacksTotal.WithLabelValues(string(p.format)).Inc()
			log.Printf("WARN export: update fallback to overwrite format=%s path=%s", p.format, p.key)
		}

		for _, f := range p.tracked {
			if _, _, err := s.write(ctx, f.Path, export.FormatMarkdown.ContentType(), func(existing writemode.Existing) writemode.Result {
				return f.Resolve(existing, p.mode)
			}); err != nil {
				writeErr = fmt.Errorf("tracking %s: %w", f.Path, err)
				break
			}
			run.TrackedFiles = append(run.TrackedFiles, f.Path)
		}
	}

	if writeErr != nil {
		msg := writeErr.Error()
		run.Status = StatusFailed
		run.Error = &msg
	}

	runsTotal.WithLabelValues(run.Format, run.AppliedMode, run.Status).Inc()

	if err := s.runs.CreateExportRun(ctx, run); err != nil {
		if writeErr != nil {
			log.Printf("ERROR export: record failed run: %v", err)
			return RunDTO{}, fmt.Errorf("%w: %v", ErrVaultWrite, writeErr)
		}
		return RunDTO{}, fmt.Errorf("record export run: %w", err)
	}

	if writeErr != nil {
		log.Printf("ERROR export: user=%s date=%s path=%s: %v", ownerUserID, run.Date, run.Path, writeErr)
		return toDTO(*run), fmt.Errorf("%w: %v", ErrVaultWrite, writeErr)
	}

	log.Printf("INFO export: user=%s date=%s path=%s format=%s mode=%s applied=%s bytes=%d tracked=%d",
		ownerUserID, run.Date, run.Path, run.Format, run.RequestedMode, run.AppliedMode, run.SizeBytes, len(run.TrackedFiles))
	return toDTO(*run), nil
}

// write holds the key's lock across read, resolve and put.
func (s *Service) write(
	ctx context.Context,
	key, contentType string,
	resolve func(writemode.Existing) writemode.Result,
) (writemode.Result, int64, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	existing, err := s.existing(ctx, key)
	if err != nil {
		return writemode.Result{}, 0, err
	}

	res := resolve(existing)
	n, err := s.vault.PutObject(ctx, key, []byte(res.Content), contentType)
	if err != nil {
		return writemode.Result{}, 0, fmt.Errorf("put %s: %w", key, err)
	}
	return res, n, nil
}

func (s *Service) existing(ctx context.Context, key string) (writemode.Existing, error) {
	data, err := s.vault.GetObject(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return writemode.Missing, nil
	}
	if err != nil {
		return writemode.Existing{}, fmt.Errorf("read %s: %w", key, err)
	}
	return writemode.Found(string(data)), nil
}

// Preview resolves a run against the current vault without writing.
func (s *Service) Preview(ctx context.Context, ownerUserID string, req RunRequest) (PreviewResponse, error) {
	p, err := s.plan(ctx, ownerUserID, req)
	if err != nil {
		return PreviewResponse{}, err
	}

	existing, err := s.existing(ctx, p.key)
	if err != nil {
		return PreviewResponse{}, err
	}
	res := writemode.Resolve(existing, p.content, p.mode, p.format)

	out := PreviewResponse{
		Date:          p.date.String(),
		Path:          p.key,
		Format:        string(p.format),
		ContentType:   p.format.ContentType(),
		RequestedMode: string(p.mode),
		AppliedMode:   string(res.Applied),
		FellBack:      res.FellBack,
		Exists:        existing.Exists,
		Content:       res.Content,
		Tracked:       make([]TrackedFile, 0, len(p.tracked)),
	}
	for _, f := range p.tracked {
		ex, err := s.existing(ctx, f.Path)
		if err != nil {
			return PreviewResponse{}, err
		}
		out.Tracked = append(out.Tracked, TrackedFile{Path: f.Path, Content: f.Resolve(ex, p.mode).Content})
	}
	return out, nil
}

// ListRuns returns the newest runs first, capped by the history limit.
func (s *Service) ListRuns(ctx context.Context, ownerUserID string, limit int) ([]RunDTO, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	runs, err := s.runs.ListExportRuns(ctx, ownerUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list export runs: %w", err)
	}
	out := make([]RunDTO, len(runs))
	for i, r := range runs {
		out[i] = toDTO(r)
	}
	return out, nil
}

func (s *Service) GetRun(ctx context.Context, ownerUserID string, id uuid.UUID) (RunDTO, error) {
	run, found, err := s.runs.GetExportRun(ctx, ownerUserID, id)
	if err != nil {
		return RunDTO{}, fmt.Errorf("get export run: %w", err)
	}
	if !found {
		return RunDTO{}, ErrRunNotFound
	}
	return toDTO(run), nil
}
