package exports

import (
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/fdg312/health-export/internal/writemode"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunRequest exports one stored day. Nil or empty fields take the user's
// settings.
type RunRequest struct {
	Date       string   `json:"date"` // YYYY-MM-DD
	Format     *string  `json:"format,omitempty"`
	WriteMode  *string  `json:"write_mode,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// RunDTO is the response representation of an export run
type RunDTO struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	Path          string    `json:"path"`
	Format        string    `json:"format"`
	RequestedMode string    `json:"requested_mode"`
	AppliedMode   string    `json:"applied_mode"`
	FellBack      bool      `json:"fell_back"`
	SizeBytes     int64     `json:"size_bytes"`
	Status        string    `json:"status"`
	Error         *string   `json:"error,omitempty"`
	TrackedFiles  []string  `json:"tracked_files"`
	CreatedAt     time.Time `json:"created_at"`
}

type RunsResponse struct {
	Runs []RunDTO `json:"runs"`
}

// PreviewResponse is what a run would write, without writing it.
type PreviewResponse struct {
	Date          string        `json:"date"`
	Path          string        `json:"path"`
	Format        string        `json:"format"`
	ContentType   string        `json:"content_type"`
	RequestedMode string        `json:"requested_mode"`
	AppliedMode   string        `json:"applied_mode"`
	FellBack      bool          `json:"fell_back"`
	Exists        bool          `json:"exists"`
	Content       string        `json:"content"`
	Tracked       []TrackedFile `json:"tracked"`
}

type TrackedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func toDTO(run storage.ExportRun) RunDTO {
	tracked := run.TrackedFiles
	if tracked == nil {
		tracked = []string{}
	}
	return RunDTO{
		ID:            run.ID,
		Date:          run.Date,
		Path:          run.Path,
		Format:        run.Format,
		RequestedMode: run.RequestedMode,
		AppliedMode:   run.AppliedMode,
		FellBack:      run.RequestedMode == string(writemode.Update) && run.AppliedMode == string(writemode.Overwrite),
		SizeBytes:     run.SizeBytes,
		Status:        run.Status,
		Error:         run.Error,
		TrackedFiles:  tracked,
		CreatedAt:     run.CreatedAt,
	}
}
