package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

// SnapshotSessionUseCase handles saving session records.
type SnapshotSessionUseCase struct {
	sessionRepo repository.SessionRepository
}

// NewSnapshotSessionUseCase creates a new SnapshotSessionUseCase.
func NewSnapshotSessionUseCase(sessionRepo repository.SessionRepository) *SnapshotSessionUseCase {
	return &SnapshotSessionUseCase{sessionRepo: sessionRepo}
}

// SnapshotInput contains the parameters for saving a session record.
type SnapshotInput struct {
	FilePath string
	Record   *entity.SessionRecord
}

// Execute saves the record under the document path.
func (uc *SnapshotSessionUseCase) Execute(ctx context.Context, input SnapshotInput) error {
	log := logging.FromContext(ctx)

	if input.FilePath == "" {
		return fmt.Errorf("document path required")
	}
	if input.Record == nil {
		return fmt.Errorf("session record required")
	}

	log.Debug().
		Str("path", input.FilePath).
		Int("page", input.Record.Page).
		Int("tab_count", len(input.Record.Tabs)).
		Int("window_count", len(input.Record.Windows)).
		Int("bookmark_count", len(input.Record.Bookmarks)).
		Msg("saving session record")

	if err := uc.sessionRepo.Save(ctx, input.FilePath, input.Record); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}

	return nil
}
