package usecase_test

import (
	"testing"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	repomocks "github.com/bnema/lectern/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteSessionUseCase_Execute_DeletesStoredSession(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().Get(ctx, "/docs/old.pdf").Return(&entity.SessionRecord{Page: 2}, nil)
	sessionRepo.EXPECT().Delete(ctx, "/docs/old.pdf").Return(nil)

	uc := usecase.NewDeleteSessionUseCase(sessionRepo)
	err := uc.Execute(ctx, usecase.DeleteSessionInput{FilePath: "/docs/old.pdf", CurrentPath: "/docs/new.pdf"})
	require.NoError(t, err)
}

func TestDeleteSessionUseCase_Execute_RefusesOpenDocument(t *testing.T) {
	uc := usecase.NewDeleteSessionUseCase(repomocks.NewMockSessionRepository(t))
	err := uc.Execute(testContext(), usecase.DeleteSessionInput{FilePath: "/docs/a.pdf", CurrentPath: "/docs/a.pdf"})
	assert.ErrorIs(t, err, usecase.ErrCannotDeleteOpenSession)
}

func TestDeleteSessionUseCase_Execute_NotFound(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().Get(ctx, "/docs/none.pdf").Return(nil, nil)

	err := usecase.NewDeleteSessionUseCase(sessionRepo).Execute(ctx, usecase.DeleteSessionInput{FilePath: "/docs/none.pdf"})
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}
