package usecase

import (
	"context"
	"os"

	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

// maxRecentToCheck is the number of recent documents checked for one
// that still exists.
const maxRecentToCheck = 10

// GetLastOpenedUseCase finds the most recently opened document that
// still exists on disk.
type GetLastOpenedUseCase struct {
	sessionRepo repository.SessionRepository
	exists      func(path string) bool
}

// NewGetLastOpenedUseCase creates a new GetLastOpenedUseCase.
func NewGetLastOpenedUseCase(sessionRepo repository.SessionRepository) *GetLastOpenedUseCase {
	return &GetLastOpenedUseCase{
		sessionRepo: sessionRepo,
		exists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
	}
}

// Execute returns the path, or "" when there is none. Lookup failures
// are logged and reported as no document.
func (uc *GetLastOpenedUseCase) Execute(ctx context.Context) string {
	log := logging.FromContext(ctx)

	files, err := uc.sessionRepo.GetRecent(ctx, maxRecentToCheck)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read recent documents")
		return ""
	}
	for _, f := range files {
		if uc.exists(f.FilePath) {
			return f.FilePath
		}
		log.Debug().Str("path", f.FilePath).Msg("recent document missing, skipping")
	}
	return ""
}
