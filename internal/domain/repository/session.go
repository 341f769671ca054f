package repository

import (
	"context"

	"github.com/bnema/lectern/internal/domain/entity"
)

// SessionRepository persists per-document session records keyed by the
// document's absolute path.
type SessionRepository interface {
	// Save upserts the record for filePath and bumps its last-opened time.
	Save(ctx context.Context, filePath string, rec *entity.SessionRecord) error

	// Get returns the record for filePath, or nil when none exists.
	Get(ctx context.Context, filePath string) (*entity.SessionRecord, error)

	// Delete removes the record for filePath.
	Delete(ctx context.Context, filePath string) error

	// GetRecent returns documents ordered by most recently opened.
	GetRecent(ctx context.Context, limit int) ([]entity.RecentFile, error)

	// DeleteOldest removes records beyond the keepCount most recent.
	// Returns number of deleted records.
	DeleteOldest(ctx context.Context, keepCount int) (int64, error)
}
