package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

// ErrSessionNotFound is returned when no session record exists for a document.
var ErrSessionNotFound = errors.New("session not found")

// RestoreSessionUseCase loads the saved view state of a document.
type RestoreSessionUseCase struct {
	sessionRepo repository.SessionRepository
}

// NewRestoreSessionUseCase creates a new RestoreSessionUseCase.
func NewRestoreSessionUseCase(sessionRepo repository.SessionRepository) *RestoreSessionUseCase {
	return &RestoreSessionUseCase{sessionRepo: sessionRepo}
}

// RestoreInput contains the parameters for restoring a session.
type RestoreInput struct {
	FilePath   string
	TotalPages int
}

// RestoreOutput contains the restored session record, normalized
// against the document's page count.
type RestoreOutput struct {
	Record *entity.SessionRecord
}

// Execute loads and normalizes the record for a document.
func (uc *RestoreSessionUseCase) Execute(ctx context.Context, input RestoreInput) (*RestoreOutput, error) {
	log := logging.FromContext(ctx)

	if input.FilePath == "" {
		return nil, fmt.Errorf("document path required")
	}

	rec, err := uc.sessionRepo.Get(ctx, input.FilePath)
	if err != nil {
		return nil, fmt.Errorf("get session record: %w", err)
	}
	if rec == nil {
		return nil, ErrSessionNotFound
	}

	rec.Normalize(input.TotalPages)

	log.Info().
		Str("path", input.FilePath).
		Int("page", rec.Page).
		Int("tab_count", len(rec.Tabs)).
		Int("window_count", len(rec.Windows)).
		Msg("session record restored")

	return &RestoreOutput{Record: rec}, nil
}

// DefaultSessionRecord is the view state of a document with no usable session.
func DefaultSessionRecord() *entity.SessionRecord {
	return &entity.SessionRecord{
		Page:      1,
		Zoom:      entity.DefaultZoom,
		ViewMode:  entity.ViewModeSingle,
		Tabs:      []entity.TabSnapshot{},
		Windows:   []entity.WindowSnapshot{},
		Bookmarks: []entity.Bookmark{},
	}
}
