package usecase

import (
	"context"
	"errors"

	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/logging"
)

// ErrCannotDeleteOpenSession is returned when deleting the session of the
// document currently open in this process.
var ErrCannotDeleteOpenSession = errors.New("cannot delete session of open document")

// DeleteSessionUseCase handles session deletion with validation.
type DeleteSessionUseCase struct {
	sessionRepo repository.SessionRepository
}

// NewDeleteSessionUseCase creates a new DeleteSessionUseCase.
func NewDeleteSessionUseCase(sessionRepo repository.SessionRepository) *DeleteSessionUseCase {
	return &DeleteSessionUseCase{sessionRepo: sessionRepo}
}

// DeleteSessionInput contains the parameters for session deletion.
type DeleteSessionInput struct {
	FilePath    string
	CurrentPath string
}

// Execute deletes the session record of a document.
func (uc *DeleteSessionUseCase) Execute(ctx context.Context, input DeleteSessionInput) error {
	log := logging.FromContext(ctx)

	if input.CurrentPath != "" && input.FilePath == input.CurrentPath {
		return ErrCannotDeleteOpenSession
	}

	rec, err := uc.sessionRepo.Get(ctx, input.FilePath)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrSessionNotFound
	}

	log.Info().Str("path", input.FilePath).Msg("deleting session")

	return uc.sessionRepo.Delete(ctx, input.FilePath)
}
