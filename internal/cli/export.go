package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fdg312/health-export/internal/blob"
	"github.com/fdg312/health-export/internal/exports"
	"github.com/fdg312/health-export/internal/settings"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/snapshots"
	"github.com/fdg312/health-export/internal/storage/memory"
)

const localUser = "local"

type exportOptions struct {
	snapshotPath string
	vaultDir     string
	date         string
	format       string
	mode         string
	categories   []string
	dryRun       bool
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one day from a snapshot JSON file into the vault",
	Example: `  healthexport export --snapshot 2026-03-14.json --vault ~/Notes
  healthexport export --snapshot day.json --vault ~/Notes --format csv --mode append
  healthexport export --snapshot day.json --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}
		return runExport(cmd.Context(), exportOpts, prefs, cmd.OutOrStdout())
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.snapshotPath, "snapshot", "", "snapshot JSON file (required)")
	f.StringVar(&exportOpts.vaultDir, "vault", os.Getenv("VAULT_DIR"), "vault directory")
	f.StringVar(&exportOpts.date, "date", "", "day to export when the file carries no date (YYYY-MM-DD)")
	f.StringVar(&exportOpts.format, "format", "", "markdown | properties | json | csv")
	f.StringVar(&exportOpts.mode, "mode", "", "overwrite | append | update")
	f.StringSliceVar(&exportOpts.categories, "categories", nil, "categories to include (comma separated)")
	f.BoolVar(&exportOpts.dryRun, "dry-run", false, "print the result instead of writing it")
	_ = exportCmd.MarkFlagRequired("snapshot")
}

// fileSource serves the single snapshot read from disk.
type fileSource struct {
	snap snapshot.Snapshot
}

func (f fileSource) Get(_ context.Context, _ string, date string) (snapshot.Snapshot, error) {
	if f.snap.Date.String() != date {
		return snapshot.Snapshot{}, snapshots.ErrSnapshotNotFound
	}
	return f.snap, nil
}

type staticSettings settings.ExportSettings

func (s staticSettings) Effective(context.Context, string) (settings.ExportSettings, error) {
	return settings.ExportSettings(s), nil
}

func readSnapshot(path, date string) (snapshot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	if date != "" {
		day, err := snapshots.ParseDate(date)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		if snap.Date.IsValid() && snap.Date != day {
			return snapshot.Snapshot{}, fmt.Errorf("%w: file has %s, --date is %s", snapshots.ErrDateMismatch, snap.Date, day)
		}
		snap.Date = day
	}
	if !snap.Date.IsValid() {
		return snapshot.Snapshot{}, fmt.Errorf("snapshot %s has no date, pass --date", path)
	}

	if err := snap.Validate(); err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

func runExport(ctx context.Context, opts exportOptions, prefs settings.ExportSettings, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := readSnapshot(opts.snapshotPath, opts.date)
	if err != nil {
		return err
	}

	if opts.vaultDir == "" && !opts.dryRun {
		return fmt.Errorf("no vault directory: pass --vault or set VAULT_DIR")
	}
	vaultDir := opts.vaultDir
	if vaultDir == "" {
		// Dry runs without a vault preview against an empty one.
		vaultDir, err = os.MkdirTemp("", "healthexport-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(vaultDir)
	}
	vault, err := blob.NewLocalStore(vaultDir)
	if err != nil {
		return err
	}

	svc := exports.NewService(fileSource{snap: snap}, staticSettings(prefs), memory.New(), vault, nil)

	req := exports.RunRequest{Date: snap.Date.String(), Categories: opts.categories}
	if opts.format != "" {
		req.Format = &opts.format
	}
	if opts.mode != "" {
		req.WriteMode = &opts.mode
	}

	if opts.dryRun {
		preview, err := svc.Preview(ctx, localUser, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s (%s, applied=%s)\n", preview.Path, preview.Format, preview.AppliedMode)
		fmt.Fprintln(out, preview.Content)
		for _, f := range preview.Tracked {
			fmt.Fprintf(out, "# %s\n%s\n", f.Path, f.Content)
		}
		return nil
	}

	run, err := svc.Run(ctx, localUser, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s (%s, %d bytes, mode=%s)\n", run.Path, run.Format, run.SizeBytes, run.AppliedMode)
	if run.FellBack {
		fmt.Fprintf(out, "Note: %s has no sections, update fell back to overwrite\n", run.Format)
	}
	for _, p := range run.TrackedFiles {
		fmt.Fprintf(out, "Tracked %s\n", p)
	}
	return nil
}
