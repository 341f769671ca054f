package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

const defaultRecentLimit = 50

// ListSessionsUseCase lists documents with saved sessions, newest first.
type ListSessionsUseCase struct {
	sessionRepo repository.SessionRepository
}

// NewListSessionsUseCase creates a new ListSessionsUseCase.
func NewListSessionsUseCase(sessionRepo repository.SessionRepository) *ListSessionsUseCase {
	return &ListSessionsUseCase{sessionRepo: sessionRepo}
}

// SessionInfo describes a saved session for listing.
type SessionInfo struct {
	entity.RecentFile
	// Missing is true when the document no longer exists on disk.
	Missing bool `json:"missing"`
}

// ListSessionsOutput contains the list of sessions.
type ListSessionsOutput struct {
	Sessions []SessionInfo
}

// Execute returns up to limit sessions.
func (uc *ListSessionsUseCase) Execute(ctx context.Context, limit int) (*ListSessionsOutput, error) {
	log := logging.FromContext(ctx)

	if limit <= 0 {
		limit = defaultRecentLimit
	}

	files, err := uc.sessionRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent sessions: %w", err)
	}

	out := &ListSessionsOutput{Sessions: make([]SessionInfo, 0, len(files))}
	for _, f := range files {
		_, statErr := os.Stat(f.FilePath)
		out.Sessions = append(out.Sessions, SessionInfo{RecentFile: f, Missing: statErr != nil})
	}

	log.Debug().Int("count", len(out.Sessions)).Msg("listed sessions")
	return out, nil
}
