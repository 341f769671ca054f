package usecase

import (
	"context"

	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

// DefaultMaxStoredSessions is how many documents keep a saved session.
const DefaultMaxStoredSessions = 50

// CleanupSessionsUseCase drops the sessions of least recently opened documents.
type CleanupSessionsUseCase struct {
	sessionRepo repository.SessionRepository
}

// NewCleanupSessionsUseCase creates a new CleanupSessionsUseCase.
func NewCleanupSessionsUseCase(sessionRepo repository.SessionRepository) *CleanupSessionsUseCase {
	return &CleanupSessionsUseCase{sessionRepo: sessionRepo}
}

// CleanupSessionsInput contains the cleanup configuration.
type CleanupSessionsInput struct {
	// MaxStoredSessions is the number of most recent sessions to keep.
	// Zero or less uses DefaultMaxStoredSessions.
	MaxStoredSessions int
}

// CleanupSessionsOutput contains the cleanup results.
type CleanupSessionsOutput struct {
	Deleted int64
}

// Execute deletes sessions beyond the keep limit. Failures are logged
// and reported as zero deletions.
func (uc *CleanupSessionsUseCase) Execute(ctx context.Context, input CleanupSessionsInput) CleanupSessionsOutput {
	log := logging.FromContext(ctx)

	keep := input.MaxStoredSessions
	if keep <= 0 {
		keep = DefaultMaxStoredSessions
	}

	deleted, err := uc.sessionRepo.DeleteOldest(ctx, keep)
	if err != nil {
		log.Warn().Err(err).Msg("failed to clean up old sessions")
		return CleanupSessionsOutput{}
	}
	if deleted > 0 {
		log.Info().
			Int64("deleted", deleted).
			Int("max_count", keep).
			Msg("cleaned up old sessions")
	}
	return CleanupSessionsOutput{Deleted: deleted}
}
