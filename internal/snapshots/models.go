package snapshots

import (
	"time"

	"github.com/fdg312/health-export/internal/snapshot"
)

// SnapshotSummary describes a stored day without its values.
type SnapshotSummary struct {
	Date       string    `json:"date"`
	Categories []string  `json:"categories"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListResponse struct {
	Snapshots []SnapshotSummary `json:"snapshots"`
}

func summarize(s snapshot.Snapshot, updatedAt time.Time) SnapshotSummary {
	categories := []string{}
	for _, c := range snapshot.Categories {
		if s.Has(c) {
			categories = append(categories, string(c))
		}
	}
	return SnapshotSummary{
		Date:       s.Date.String(),
		Categories: categories,
		UpdatedAt:  updatedAt,
	}
}
